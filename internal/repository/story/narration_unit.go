package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// NarrationRepository 旁白单元仓库接口（供 service 层依赖）
type NarrationRepository interface {
	CreateMany(ctx context.Context, units []*story.NarrationUnit) error
	FindByRunID(ctx context.Context, runID string) ([]*story.NarrationUnit, error)
	DeleteByRunID(ctx context.Context, runID string) error
}

// NarrationRepo 旁白单元仓库实现
type NarrationRepo struct {
	coll *mongo.Collection
}

// NewNarrationRepo 创建旁白单元仓库
func NewNarrationRepo(db *mongo.Database) *NarrationRepo {
	var n story.NarrationUnit
	return &NarrationRepo{coll: db.Collection(n.Collection())}
}

// CreateMany 批量创建旁白单元
func (r *NarrationRepo) CreateMany(ctx context.Context, units []*story.NarrationUnit) error {
	if len(units) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(units))
	for i, unit := range units {
		unit.CreatedAt = now
		unit.UpdatedAt = now
		docs[i] = unit
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByRunID 查询运行的所有旁白单元（按场景序号排序）
func (r *NarrationRepo) FindByRunID(ctx context.Context, runID string) ([]*story.NarrationUnit, error) {
	filter := bson.M{"run_id": runID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"scene_index": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var units []*story.NarrationUnit
	if err := cur.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// DeleteByRunID 根据运行ID软删除所有旁白单元
func (r *NarrationRepo) DeleteByRunID(ctx context.Context, runID string) error {
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
