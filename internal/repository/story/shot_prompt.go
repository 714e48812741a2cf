package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// ShotPromptRepository 分镜提示词仓库接口（供 service 层依赖）
type ShotPromptRepository interface {
	CreateMany(ctx context.Context, prompts []*story.ShotPrompt) error
	FindByRunID(ctx context.Context, runID string) ([]*story.ShotPrompt, error)
	FindPendingByRunID(ctx context.Context, runID string) ([]*story.ShotPrompt, error)
	UpdateSubmitStatus(ctx context.Context, id string, status story.SubmitStatus, renderTaskID string) error
	DeleteByRunID(ctx context.Context, runID string) error
}

// ShotPromptRepo 分镜提示词仓库实现
type ShotPromptRepo struct {
	coll *mongo.Collection
}

// NewShotPromptRepo 创建分镜提示词仓库
func NewShotPromptRepo(db *mongo.Database) *ShotPromptRepo {
	var p story.ShotPrompt
	return &ShotPromptRepo{coll: db.Collection(p.Collection())}
}

// CreateMany 批量创建分镜提示词
func (r *ShotPromptRepo) CreateMany(ctx context.Context, prompts []*story.ShotPrompt) error {
	if len(prompts) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(prompts))
	for i, prompt := range prompts {
		prompt.CreatedAt = now
		prompt.UpdatedAt = now
		if prompt.SubmitStatus == "" {
			prompt.SubmitStatus = story.SubmitStatusPending
		}
		docs[i] = prompt
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByRunID 查询运行的所有分镜提示词（按场景、分镜序号排序）
func (r *ShotPromptRepo) FindByRunID(ctx context.Context, runID string) ([]*story.ShotPrompt, error) {
	return r.find(ctx, bson.M{"run_id": runID, "deleted_at": nil})
}

// FindPendingByRunID 查询运行中尚未提交渲染的分镜提示词
func (r *ShotPromptRepo) FindPendingByRunID(ctx context.Context, runID string) ([]*story.ShotPrompt, error) {
	filter := bson.M{
		"run_id":        runID,
		"submit_status": story.SubmitStatusPending,
		"deleted_at":    nil,
	}
	return r.find(ctx, filter)
}

func (r *ShotPromptRepo) find(ctx context.Context, filter bson.M) ([]*story.ShotPrompt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scene_index", Value: 1}, {Key: "shot_index", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var prompts []*story.ShotPrompt
	if err := cur.All(ctx, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// UpdateSubmitStatus 更新分镜提交状态与渲染任务ID
func (r *ShotPromptRepo) UpdateSubmitStatus(ctx context.Context, id string, status story.SubmitStatus, renderTaskID string) error {
	update := bson.M{
		"submit_status": status,
		"updated_at":    time.Now(),
	}
	if renderTaskID != "" {
		update["render_task_id"] = renderTaskID
	}
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": update},
	)
	return err
}

// DeleteByRunID 根据运行ID软删除所有分镜提示词
func (r *ShotPromptRepo) DeleteByRunID(ctx context.Context, runID string) error {
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
