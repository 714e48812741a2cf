package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"fable/internal/model/story"
	"fable/internal/pkg/comfyui"
)

// RenderRequest 渲染提交请求
type RenderRequest struct {
	RunID        string // 运行ID
	WorkflowPath string // 工作流模板路径，空则取配置默认
}

// RenderResult 渲染提交结果
type RenderResult struct {
	RunID     string                     `json:"run_id"`
	Submitted int                        `json:"submitted"` // 成功提交的分镜数
	Failed    int                        `json:"failed"`    // 提交失败的分镜数
	Shots     []comfyui.ShotSubmitResult `json:"shots"`     // 逐分镜提交明细
}

// RenderRun 将运行中待渲染的分镜提示词批量提交到渲染主机
// 仅提交 submit_status 为 pending 的分镜，逐镜更新提交状态
func (s *decomposeService) RenderRun(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if s.render == nil {
		return nil, ErrRenderUnavailable
	}
	if s.shotPromptRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, req.RunID); err != nil {
		return nil, err
	}

	prompts, err := s.shotPromptRepo.FindPendingByRunID(ctx, req.RunID)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, ErrNoPendingShots
	}

	workflowPath := req.WorkflowPath
	if workflowPath == "" {
		workflowPath = s.workflowPath
	}
	workflow, err := comfyui.LoadWorkflowJSON(workflowPath)
	if err != nil {
		return nil, fmt.Errorf("load workflow template: %w", err)
	}

	byShotID := make(map[string]*story.ShotPrompt, len(prompts))
	shots := make([]comfyui.ShotSubmission, len(prompts))
	for i, p := range prompts {
		byShotID[p.ShotID] = p
		shots[i] = comfyui.ShotSubmission{ShotID: p.ShotID, Prompt: p.Prompt}
	}

	results := s.render.SubmitShots(ctx, workflow, shots)

	outcome := &RenderResult{RunID: req.RunID, Shots: results}
	for _, r := range results {
		p, ok := byShotID[r.ShotID]
		if !ok {
			continue
		}
		status := story.SubmitStatusSubmitted
		if !r.Success {
			status = story.SubmitStatusFailed
			outcome.Failed++
		} else {
			outcome.Submitted++
		}
		if err := s.shotPromptRepo.UpdateSubmitStatus(ctx, p.ID, status, r.PromptID); err != nil {
			log.Warn().Err(err).Str("shot_id", r.ShotID).Msg("更新分镜提交状态失败")
		}
	}
	return outcome, nil
}
