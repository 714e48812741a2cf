package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scene 场景实体
// 场景由切分器按叙事断点和字符预算产生，SceneID 在运行内确定且可复现
type Scene struct {
	ID               string     `bson:"id" json:"id"`                                     // 文档ID（UUID）
	RunID            string     `bson:"run_id" json:"run_id"`                             // 所属运行ID
	SceneID          string     `bson:"scene_id" json:"scene_id"`                         // 场景标识（scene_001）
	Index            int        `bson:"index" json:"index"`                               // 场景序号，从 0 开始
	Text             string     `bson:"text" json:"text"`                                 // 场景文本
	StartOffset      int        `bson:"start_offset" json:"start_offset"`                 // 首段在原文中的偏移
	CharCount        int        `bson:"char_count" json:"char_count"`                     // 字符数
	ParaCount        int        `bson:"para_count" json:"para_count"`                     // 段落数
	SceneType        string     `bson:"scene_type" json:"scene_type"`                     // 内容类型（action/dialogue/descriptive/mixed）
	Density          int        `bson:"density" json:"density"`                           // 建议镜头数
	DurationEstimate float64    `bson:"duration_estimate" json:"duration_estimate"`       // 预计解说时长（秒）
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *Scene) Collection() string {
	return "scenes"
}

// EnsureIndexes 创建和维护索引
func (s *Scene) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "index", Value: 1}},
			Options: options.Index().SetName("idx_run_index"),
		},
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "scene_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_run_scene_unique"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
