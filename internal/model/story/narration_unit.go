package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NarrationUnit 旁白单元实体，与场景一一对应
type NarrationUnit struct {
	ID              string     `bson:"id" json:"id"`                                     // 文档ID（UUID）
	RunID           string     `bson:"run_id" json:"run_id"`                             // 所属运行ID
	NarrationID     string     `bson:"narration_id" json:"narration_id"`                 // 旁白标识（narration_scene_001）
	SceneID         string     `bson:"scene_id" json:"scene_id"`                         // 所属场景标识
	SceneIndex      int        `bson:"scene_index" json:"scene_index"`                   // 场景序号，从 0 开始
	Text            string     `bson:"text" json:"text"`                                 // 清理后的旁白文本
	WordCount       int        `bson:"word_count" json:"word_count"`                     // 词数
	DurationSeconds float64    `bson:"duration_seconds" json:"duration_seconds"`         // 预计朗读时长（秒）
	DialogueRatio   float64    `bson:"dialogue_ratio" json:"dialogue_ratio"`             // 对白词数占比
	HasDialogue     bool       `bson:"has_dialogue" json:"has_dialogue"`                 // 对白占比超过 0.3 时为真
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (n *NarrationUnit) Collection() string {
	return "narration_units"
}

// EnsureIndexes 创建和维护索引
func (n *NarrationUnit) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(n.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "scene_index", Value: 1}},
			Options: options.Index().SetName("idx_run_scene"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
