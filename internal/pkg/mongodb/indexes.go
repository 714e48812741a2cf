package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/story"
)

// EnsureIndexes 创建所有模型的索引
// 统一入口，在应用启动时调用；所有持久化实体都实现 Model 接口
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&story.Source{},
		&story.Run{},
		&story.Scene{},
		&story.ShotPrompt{},
		&story.Character{},
		&story.NarrationUnit{},
		&story.SFXDoc{},
		&story.TTSChunk{},
		&story.Checkpoint{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
