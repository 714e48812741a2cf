package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShotPrompt 镜头提示词实体
// 每个场景按镜头密度产出多条，ShotID 形如 scene_001_shot_02
type ShotPrompt struct {
	ID             string       `bson:"id" json:"id"`                                             // 文档ID（UUID）
	RunID          string       `bson:"run_id" json:"run_id"`                                     // 所属运行ID
	SceneID        string       `bson:"scene_id" json:"scene_id"`                                 // 所属场景标识（scene_001）
	ShotID         string       `bson:"shot_id" json:"shot_id"`                                   // 镜头标识（scene_001_shot_01）
	SceneIndex     int          `bson:"scene_index" json:"scene_index"`                           // 场景序号，从 0 开始
	ShotIndex      int          `bson:"shot_index" json:"shot_index"`                             // 镜头序号，从 0 开始
	ShotType       string       `bson:"shot_type" json:"shot_type"`                               // 镜头类型
	Prompt         string       `bson:"prompt" json:"prompt"`                                     // 正向提示词
	NegativePrompt string       `bson:"negative_prompt" json:"negative_prompt"`                   // 负向提示词
	TokenCount     int          `bson:"token_count,omitempty" json:"token_count,omitempty"`       // 提示词 token 数（启用统计时）
	SubmitStatus   SubmitStatus `bson:"submit_status" json:"submit_status"`                       // 渲染提交状态
	RenderTaskID   string       `bson:"render_task_id,omitempty" json:"render_task_id,omitempty"` // 渲染主机返回的任务ID
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time   `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (p *ShotPrompt) Collection() string {
	return "shot_prompts"
}

// EnsureIndexes 创建和维护索引
func (p *ShotPrompt) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(p.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "scene_index", Value: 1}, {Key: "shot_index", Value: 1}},
			Options: options.Index().SetName("idx_run_scene_shot"),
		},
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "shot_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_run_shot_unique"),
		},
		{
			Keys:    bson.D{{Key: "submit_status", Value: 1}},
			Options: options.Index().SetName("idx_submit_status"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
