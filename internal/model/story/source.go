package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Source 上传的源文本（小说原文）
// 源文本独立于运行：一份源文本可被多次分解，运行通过 source_key 引用它。
// 只接受可解码为纯文本的文件，二进制/容器格式在上传时即被拒绝。
type Source struct {
	ID    string `bson:"id" json:"id"`                           // 源文本ID（UUID）
	Name  string `bson:"name" json:"name"`                       // 原始文件名
	Title string `bson:"title,omitempty" json:"title,omitempty"` // 展示标题

	// 存储信息
	StorageKey  string `bson:"storage_key" json:"storage_key"`   // 存储路径（key）
	StorageType string `bson:"storage_type" json:"storage_type"` // 存储类型（local/oss）

	// 文件信息
	Ext         string `bson:"ext" json:"ext"`                     // 文件扩展名（不含点号）
	FileSize    int64  `bson:"file_size" json:"file_size"`         // 文件大小（字节）
	ContentType string `bson:"content_type" json:"content_type"`   // MIME类型
	MD5         string `bson:"md5,omitempty" json:"md5,omitempty"` // 文件MD5值（用于去重）

	// 文本信息（上传时解码探测所得）
	Encoding  string `bson:"encoding" json:"encoding"`     // 探测到的编码
	WordCount int    `bson:"word_count" json:"word_count"` // 词数
	CharCount int    `bson:"char_count" json:"char_count"` // 字符数

	// 时间戳
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"` // 软删除时间
}

// Collection 返回集合名称
func (s *Source) Collection() string { return "sources" }

// EnsureIndexes 创建和维护索引
func (s *Source) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "storage_key", Value: 1}},
			Options: options.Index().SetName("idx_storage_key"),
		},
		{
			Keys:    bson.D{{Key: "md5", Value: 1}},
			Options: options.Index().SetName("idx_md5"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
