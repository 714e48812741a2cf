package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/story"
)

// RunRepository 运行仓库接口（供 service 层依赖）
type RunRepository interface {
	Create(ctx context.Context, run *story.Run) error
	FindByID(ctx context.Context, id string) (*story.Run, error)
	UpdateStatus(ctx context.Context, id string, status story.RunStatus, errorMessage string) error
	UpdateStats(ctx context.Context, id string, stats story.RunStats) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// RunRepo 运行仓库实现
type RunRepo struct {
	coll *mongo.Collection
}

// NewRunRepo 创建运行仓库
func NewRunRepo(db *mongo.Database) *RunRepo {
	var r story.Run
	return &RunRepo{coll: db.Collection(r.Collection())}
}

// Create 创建运行
func (r *RunRepo) Create(ctx context.Context, run *story.Run) error {
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now
	if run.Status == "" {
		run.Status = story.RunStatusPending
	}
	_, err := r.coll.InsertOne(ctx, run)
	return err
}

// FindByID 根据ID查询运行
func (r *RunRepo) FindByID(ctx context.Context, id string) (*story.Run, error) {
	var run story.Run
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// UpdateStatus 更新运行状态
func (r *RunRepo) UpdateStatus(ctx context.Context, id string, status story.RunStatus, errorMessage string) error {
	update := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMessage != "" {
		update["error_message"] = errorMessage
	}
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": update},
	)
	return err
}

// UpdateStats 更新运行统计
func (r *RunRepo) UpdateStats(ctx context.Context, id string, stats story.RunStats) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"stats":      stats,
			"updated_at": time.Now(),
		}},
	)
	return err
}

// Update 更新运行信息
func (r *RunRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": updates},
	)
	return err
}

// Delete 软删除运行
func (r *RunRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}
