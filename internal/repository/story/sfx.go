package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// SFXRepository 音效线索仓库接口（供 service 层依赖）
type SFXRepository interface {
	CreateMany(ctx context.Context, docs []*story.SFXDoc) error
	FindByRunID(ctx context.Context, runID string) ([]*story.SFXDoc, error)
	DeleteByRunID(ctx context.Context, runID string) error
}

// SFXRepo 音效线索仓库实现
type SFXRepo struct {
	coll *mongo.Collection
}

// NewSFXRepo 创建音效线索仓库
func NewSFXRepo(db *mongo.Database) *SFXRepo {
	var s story.SFXDoc
	return &SFXRepo{coll: db.Collection(s.Collection())}
}

// CreateMany 批量创建音效线索文档
func (r *SFXRepo) CreateMany(ctx context.Context, sfxDocs []*story.SFXDoc) error {
	if len(sfxDocs) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(sfxDocs))
	for i, doc := range sfxDocs {
		doc.CreatedAt = now
		doc.UpdatedAt = now
		docs[i] = doc
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByRunID 查询运行的所有音效线索（按场景序号排序）
func (r *SFXRepo) FindByRunID(ctx context.Context, runID string) ([]*story.SFXDoc, error) {
	filter := bson.M{"run_id": runID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"scene_index": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sfxDocs []*story.SFXDoc
	if err := cur.All(ctx, &sfxDocs); err != nil {
		return nil, err
	}
	return sfxDocs, nil
}

// DeleteByRunID 根据运行ID软删除所有音效线索
func (r *SFXRepo) DeleteByRunID(ctx context.Context, runID string) error {
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
