package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// CheckpointRepository 检查点仓库接口（供 service 层依赖）
type CheckpointRepository interface {
	Upsert(ctx context.Context, checkpoint *story.Checkpoint) error
	FindByRunID(ctx context.Context, runID string) (*story.Checkpoint, error)
	DeleteByRunID(ctx context.Context, runID string) error
}

// CheckpointRepo 检查点仓库实现
type CheckpointRepo struct {
	coll *mongo.Collection
}

// NewCheckpointRepo 创建检查点仓库
func NewCheckpointRepo(db *mongo.Database) *CheckpointRepo {
	var c story.Checkpoint
	return &CheckpointRepo{coll: db.Collection(c.Collection())}
}

// Upsert 按运行ID写入或更新检查点
func (r *CheckpointRepo) Upsert(ctx context.Context, checkpoint *story.Checkpoint) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"total":        checkpoint.Total,
			"completed":    checkpoint.Completed,
			"percent":      checkpoint.Percent,
			"all_complete": checkpoint.AllComplete,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"id":         checkpoint.ID,
			"created_at": now,
			"deleted_at": nil,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, bson.M{"run_id": checkpoint.RunID}, update, opts)
	return err
}

// FindByRunID 根据运行ID查询检查点
func (r *CheckpointRepo) FindByRunID(ctx context.Context, runID string) (*story.Checkpoint, error) {
	var checkpoint story.Checkpoint
	if err := r.coll.FindOne(ctx, bson.M{"run_id": runID, "deleted_at": nil}).Decode(&checkpoint); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

// DeleteByRunID 根据运行ID软删除检查点
func (r *CheckpointRepo) DeleteByRunID(ctx context.Context, runID string) error {
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
