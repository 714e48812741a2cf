package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Model 需要维护索引的持久化实体
type Model interface {
	// Collection 返回集合名称
	Collection() string

	// EnsureIndexes 创建和维护索引
	EnsureIndexes(ctx context.Context, db *mongo.Database) error
}

// EnsureAllIndexes 依次为各模型创建索引，任一失败即中断返回
func EnsureAllIndexes(ctx context.Context, db *mongo.Database, models ...Model) error {
	for _, model := range models {
		if err := model.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
