package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Checkpoint 运行进度检查点，每个运行一条
type Checkpoint struct {
	ID          string     `bson:"id" json:"id"`                                     // 文档ID（UUID）
	RunID       string     `bson:"run_id" json:"run_id"`                             // 所属运行ID
	Total       int        `bson:"total" json:"total"`                               // 场景总数
	Completed   []int      `bson:"completed" json:"completed"`                       // 已完成的场景序号
	Percent     float64    `bson:"percent" json:"percent"`                           // 完成百分比
	AllComplete bool       `bson:"all_complete" json:"all_complete"`                 // 是否全部完成
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (c *Checkpoint) Collection() string {
	return "checkpoints"
}

// EnsureIndexes 创建和维护索引
func (c *Checkpoint) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetName("idx_run_unique").SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
