package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TTSChunk 语音合成分片实体
type TTSChunk struct {
	ID               string     `bson:"id" json:"id"`                                     // 文档ID（UUID）
	RunID            string     `bson:"run_id" json:"run_id"`                             // 所属运行ID
	ChunkID          string     `bson:"chunk_id" json:"chunk_id"`                         // 分片标识（tts_chunk_0000）
	Index            int        `bson:"index" json:"index"`                               // 全局分片序号，从 0 开始
	SceneIndex       int        `bson:"scene_index" json:"scene_index"`                   // 来源场景序号
	Text             string     `bson:"text" json:"text"`                                 // 分片文本
	CharCount        int        `bson:"char_count" json:"char_count"`                     // 字符数
	WordCount        int        `bson:"word_count" json:"word_count"`                     // 词数
	EstimatedSeconds float64    `bson:"estimated_seconds" json:"estimated_seconds"`       // 预估朗读时长（秒）
	IsSceneEnd       bool       `bson:"is_scene_end" json:"is_scene_end"`                 // 是否场景内最后一片
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (t *TTSChunk) Collection() string {
	return "tts_chunks"
}

// EnsureIndexes 创建和维护索引
func (t *TTSChunk) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "index", Value: 1}},
			Options: options.Index().SetName("idx_run_index"),
		},
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "chunk_id", Value: 1}},
			Options: options.Index().SetName("idx_run_chunk_unique").SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
