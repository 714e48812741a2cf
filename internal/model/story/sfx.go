package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SFXCueItem 单条音效线索
type SFXCueItem struct {
	Keyword  string   `bson:"keyword" json:"keyword"`   // 命中的关键词
	Prompts  []string `bson:"prompts" json:"prompts"`   // 候选音景描述
	Prompt   string   `bson:"prompt" json:"prompt"`     // 主音景描述
	Priority int      `bson:"priority" json:"priority"` // 关键词出现次数
}

// SFXDoc 场景音效线索文档，每场景一条
type SFXDoc struct {
	ID             string       `bson:"id" json:"id"`                                     // 文档ID（UUID）
	RunID          string       `bson:"run_id" json:"run_id"`                             // 所属运行ID
	SFXID          string       `bson:"sfx_id" json:"sfx_id"`                             // 音效标识（sfx_scene_001）
	SceneID        string       `bson:"scene_id" json:"scene_id"`                         // 所属场景标识
	SceneIndex     int          `bson:"scene_index" json:"scene_index"`                   // 场景序号，从 0 开始
	Cues           []SFXCueItem `bson:"cues" json:"cues"`                                 // 线索列表
	CombinedPrompt string       `bson:"combined_prompt" json:"combined_prompt"`           // 前 5 条主描述的拼接
	CueCount       int          `bson:"cue_count" json:"cue_count"`                       // 线索数
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time   `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *SFXDoc) Collection() string {
	return "sfx_cues"
}

// EnsureIndexes 创建和维护索引
func (s *SFXDoc) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "scene_index", Value: 1}},
			Options: options.Index().SetName("idx_run_scene"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
