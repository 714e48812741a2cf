package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/story"
	"fable/internal/pkg/id"
	"fable/internal/pkg/storytools"
)

// CheckpointRequest 检查点标记请求
type CheckpointRequest struct {
	RunID     string // 运行ID
	Completed []int  // 本次新完成的场景序号，负数忽略，重复标记幂等
}

// CheckpointResult 检查点标记结果与续跑规划
type CheckpointResult struct {
	RunID       string               `json:"run_id"`
	Total       int                  `json:"total"`        // 场景总数
	Completed   []int                `json:"completed"`    // 已完成的场景序号（升序）
	Percent     float64              `json:"percent"`      // 完成百分比
	AllComplete bool                 `json:"all_complete"` // 是否全部完成
	Plan        storytools.BatchPlan `json:"plan"`         // 续跑规划
}

// MarkCheckpoint 记录已完成的场景序号并返回续跑规划
func (s *decomposeService) MarkCheckpoint(ctx context.Context, req *CheckpointRequest) (*CheckpointResult, error) {
	if s.checkpointRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	run, err := s.GetRun(ctx, req.RunID)
	if err != nil {
		return nil, err
	}

	var completed []int
	existing, err := s.checkpointRepo.FindByRunID(ctx, req.RunID)
	switch {
	case err == nil:
		completed = existing.Completed
	case errors.Is(err, mongo.ErrNoDocuments):
		// 首次标记
	default:
		return nil, err
	}

	cp := storytools.NewCheckpoint(completed)
	for _, idx := range req.Completed {
		cp.Mark(idx)
	}

	total := run.Stats.NumScenes
	planner := storytools.NewBatchPlanner(s.defaults.BatchSize)
	plan := planner.Plan(total, cp)

	doc := &story.Checkpoint{
		ID:          id.New(),
		RunID:       req.RunID,
		Total:       total,
		Completed:   cp.Indices(),
		Percent:     cp.Percent(total),
		AllComplete: cp.AllComplete(total),
	}
	if err := s.checkpointRepo.Upsert(ctx, doc); err != nil {
		return nil, err
	}

	return &CheckpointResult{
		RunID:       req.RunID,
		Total:       total,
		Completed:   doc.Completed,
		Percent:     doc.Percent,
		AllComplete: doc.AllComplete,
		Plan:        plan,
	}, nil
}
