package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/story"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/storytools"
)

// GetRun 查询运行记录
func (s *decomposeService) GetRun(ctx context.Context, runID string) (*story.Run, error) {
	if s.runRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	run, err := s.runRepo.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

// GetScenes 查询运行的场景列表
func (s *decomposeService) GetScenes(ctx context.Context, runID string) ([]*story.Scene, error) {
	if s.sceneRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.sceneRepo.FindByRunID(ctx, runID)
}

// GetShotPrompts 查询运行的分镜提示词列表
func (s *decomposeService) GetShotPrompts(ctx context.Context, runID string) ([]*story.ShotPrompt, error) {
	if s.shotPromptRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.shotPromptRepo.FindByRunID(ctx, runID)
}

// GetCharacters 查询运行识别出的角色列表
func (s *decomposeService) GetCharacters(ctx context.Context, runID string) ([]*story.Character, error) {
	if s.characterRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.characterRepo.FindByRunID(ctx, runID)
}

// GetNarration 查询运行的旁白单元列表
func (s *decomposeService) GetNarration(ctx context.Context, runID string) ([]*story.NarrationUnit, error) {
	if s.narrationRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.narrationRepo.FindByRunID(ctx, runID)
}

// GetSFX 查询运行的音效线索列表
func (s *decomposeService) GetSFX(ctx context.Context, runID string) ([]*story.SFXDoc, error) {
	if s.sfxRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.sfxRepo.FindByRunID(ctx, runID)
}

// GetTTSChunks 查询运行的语音分片列表
func (s *decomposeService) GetTTSChunks(ctx context.Context, runID string) ([]*story.TTSChunk, error) {
	if s.ttsChunkRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.ttsChunkRepo.FindByRunID(ctx, runID)
}

// GetSummary 查询运行的配置与统计汇总文档
// 先查存在性再取内容，软删除的运行不会因缓存残留而复活
func (s *decomposeService) GetSummary(ctx context.Context, runID string) (*storytools.PipelineConfig, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	// 缓存命中时直接返回分解时写入的原始汇总
	if s.cache != nil {
		var cached DecomposeResult
		if err := s.cache.Get(ctx, cache.RunResultCacheKey(runID), &cached); err == nil {
			return &cached.Summary, nil
		}
	}

	// 缓存过期后由运行记录里保存的设定与统计重建，结果一致
	summary := storytools.BuildPipelineConfig(toPipelineSettings(run.Settings), toPipelineStats(run.Stats))
	return &summary, nil
}
