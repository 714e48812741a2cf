package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// SceneRepository 场景仓库接口（供 service 层依赖）
type SceneRepository interface {
	CreateMany(ctx context.Context, scenes []*story.Scene) error
	FindByID(ctx context.Context, id string) (*story.Scene, error)
	FindByRunID(ctx context.Context, runID string) ([]*story.Scene, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteByRunID(ctx context.Context, runID string) error
}

// SceneRepo 场景仓库实现
type SceneRepo struct {
	coll *mongo.Collection
}

// NewSceneRepo 创建场景仓库
func NewSceneRepo(db *mongo.Database) *SceneRepo {
	var s story.Scene
	return &SceneRepo{coll: db.Collection(s.Collection())}
}

// CreateMany 批量创建场景
func (r *SceneRepo) CreateMany(ctx context.Context, scenes []*story.Scene) error {
	if len(scenes) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(scenes))
	for i, scene := range scenes {
		scene.CreatedAt = now
		scene.UpdatedAt = now
		docs[i] = scene
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByID 根据ID查询场景
func (r *SceneRepo) FindByID(ctx context.Context, id string) (*story.Scene, error) {
	var scene story.Scene
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// FindByRunID 查询运行的所有场景（按场景序号排序）
func (r *SceneRepo) FindByRunID(ctx context.Context, runID string) ([]*story.Scene, error) {
	filter := bson.M{"run_id": runID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"index": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var scenes []*story.Scene
	if err := cur.All(ctx, &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// Update 更新场景
func (r *SceneRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": updates},
	)
	return err
}

// DeleteByRunID 根据运行ID软删除所有场景
func (r *SceneRepo) DeleteByRunID(ctx context.Context, runID string) error {
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
