package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// TTSChunkRepository 语音分片仓库接口（供 service 层依赖）
type TTSChunkRepository interface {
	CreateMany(ctx context.Context, chunks []*story.TTSChunk) error
	FindByRunID(ctx context.Context, runID string) ([]*story.TTSChunk, error)
	DeleteByRunID(ctx context.Context, runID string) error
}

// TTSChunkRepo 语音分片仓库实现
type TTSChunkRepo struct {
	coll *mongo.Collection
}

// NewTTSChunkRepo 创建语音分片仓库
func NewTTSChunkRepo(db *mongo.Database) *TTSChunkRepo {
	var t story.TTSChunk
	return &TTSChunkRepo{coll: db.Collection(t.Collection())}
}

// CreateMany 批量创建语音分片
func (r *TTSChunkRepo) CreateMany(ctx context.Context, chunks []*story.TTSChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		chunk.CreatedAt = now
		chunk.UpdatedAt = now
		docs[i] = chunk
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByRunID 查询运行的所有语音分片（按全局序号排序）
func (r *TTSChunkRepo) FindByRunID(ctx context.Context, runID string) ([]*story.TTSChunk, error) {
	filter := bson.M{"run_id": runID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"index": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chunks []*story.TTSChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// DeleteByRunID 根据运行ID软删除所有语音分片
func (r *TTSChunkRepo) DeleteByRunID(ctx context.Context, runID string) error {
	_, err := r.coll.UpdateMany(
		ctx,
		bson.M{"run_id": runID, "deleted_at": nil},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}
