package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Character 角色实体
// CharID 由角色名的 MD5 前 8 位十六进制构成，同名角色在多次运行间稳定
type Character struct {
	ID          string     `bson:"id" json:"id"`                                       // 文档ID（UUID）
	RunID       string     `bson:"run_id" json:"run_id"`                               // 所属运行ID
	CharID      string     `bson:"char_id" json:"char_id"`                             // 角色标识（名字 MD5 前 8 位）
	Name        string     `bson:"name" json:"name"`                                   // 角色名，保留原文大小写
	Slug        string     `bson:"slug" json:"slug"`                                   // 文件名安全的标识（char_elena_rossi）
	Description string     `bson:"description,omitempty" json:"description,omitempty"` // 外貌描述（调用方补充）
	Mentions    int        `bson:"mentions" json:"mentions"`                           // 提及次数
	Tier        string     `bson:"tier" json:"tier"`                                   // 层级（main/supporting/minor/background）
	RefsNeeded  int        `bson:"refs_needed" json:"refs_needed"`                     // 建议参考图数量
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (c *Character) Collection() string {
	return "characters"
}

// EnsureIndexes 创建和维护索引
func (c *Character) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "mentions", Value: -1}},
			Options: options.Index().SetName("idx_run_mentions"),
		},
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "char_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_run_char_unique"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
