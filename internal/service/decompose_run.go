package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"fable/internal/model/story"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/id"
	"fable/internal/pkg/storytools"
)

// DecomposeRequest 分解请求
// Text 与 SourceKey 二选一：Text 为内联正文，SourceKey 指向存储中的源文件
type DecomposeRequest struct {
	Title         string                      // 运行标题，空则取源文件名
	Text          string                      // 内联正文
	SourceKey     string                      // 存储中的源文件 key
	SourceName    string                      // 源文件名（展示用）
	Encoding      string                      // 指定源文本编码，空为自动探测
	ExtraNames    []string                    // 附加角色名，形如 "Name" 或 "Name: description"
	MaxSceneChars int                         // 单场景字符预算，0 取配置默认
	Settings      storytools.PipelineSettings // 流水线设定，零值字段按配置和内置默认补齐
}

// SceneDoc 场景文档，在切分结果上附加分类标注
type SceneDoc struct {
	storytools.Scene
	SceneType        string  `json:"scene_type"`        // 场景类型
	Multiplier       float64 `json:"multiplier"`        // 镜头密度系数
	Density          int     `json:"shot_count"`        // 建议镜头数
	DurationEstimate float64 `json:"duration_estimate"` // 预计旁白时长（秒）
}

// DecomposeResult 分解结果，完整的七类文档
type DecomposeResult struct {
	RunID      string                      `json:"run_id"`
	Title      string                      `json:"title"`
	SourceName string                      `json:"source_name,omitempty"`
	Encoding   string                      `json:"encoding"`
	Status     string                      `json:"status"`
	Scenes     []SceneDoc                  `json:"scenes"`
	Prompts    [][]storytools.ShotPrompt   `json:"prompts"`
	Characters []storytools.Entity         `json:"characters"`
	Narration  []storytools.NarrationUnit  `json:"narration"`
	SFX        []storytools.SceneSFX       `json:"sfx"`
	TTSChunks  []storytools.TTSChunk       `json:"tts_chunks"`
	Summary    storytools.PipelineConfig   `json:"summary"`
	Plan       storytools.BatchPlan        `json:"plan"`
}

// Decompose 执行一次完整分解
func (s *decomposeService) Decompose(ctx context.Context, req *DecomposeRequest) (*DecomposeResult, error) {
	raw, err := s.loadSource(ctx, req)
	if err != nil {
		return nil, err
	}

	// 读入器内部会嗅探并拒绝二进制/容器格式
	ingester := storytools.NewTextIngester()
	if req.Encoding != "" {
		ingester.SetEncoding(req.Encoding)
	}
	ingested, err := ingester.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if strings.TrimSpace(ingested.Text) == "" {
		return nil, ErrEmptySource
	}

	settings := s.applyDefaults(req.Settings)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	runID := id.New()
	title := req.Title
	if title == "" {
		title = req.SourceName
	}
	maxChars := s.maxSceneChars(req.MaxSceneChars)

	run := &story.Run{
		ID:         runID,
		Title:      title,
		SourceName: req.SourceName,
		SourceKey:  req.SourceKey,
		Encoding:   ingested.Encoding,
		Status:     story.RunStatusProcessing,
		Settings:   toRunSettings(settings, maxChars),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	result, stats := s.runPipeline(req, settings, ingested, maxChars)
	result.RunID = runID
	result.Title = title
	if len(result.Scenes) == 0 {
		s.markFailed(ctx, runID, ErrNoScenes.Error())
		return nil, ErrNoScenes
	}

	if s.runRepo != nil {
		if err := s.persistResult(ctx, runID, result); err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("分解结果落库失败")
			s.markFailed(ctx, runID, err.Error())
			return nil, err
		}
		if err := s.runRepo.UpdateStats(ctx, runID, toRunStats(stats, len(result.TTSChunks))); err != nil {
			log.Warn().Err(err).Str("run_id", runID).Msg("更新运行统计失败")
		}
		if err := s.runRepo.UpdateStatus(ctx, runID, story.RunStatusCompleted, ""); err != nil {
			log.Warn().Err(err).Str("run_id", runID).Msg("更新运行状态失败")
		}
	}

	// 缓存与导出失败都不影响主流程
	s.cacheResult(ctx, runID, result)
	s.exportResult(ctx, runID, result)

	log.Info().
		Str("run_id", runID).
		Int("scenes", stats.NumScenes).
		Int("shots", stats.TotalShots).
		Int("characters", stats.NumCharacters).
		Msg("分解完成")

	return result, nil
}

// runPipeline 核心流水线：规整后的全部纯计算步骤
func (s *decomposeService) runPipeline(
	req *DecomposeRequest,
	settings storytools.PipelineSettings,
	ingested storytools.IngestResult,
	maxChars int,
) (*DecomposeResult, storytools.PipelineStats) {
	normalizer := storytools.NewTextNormalizer()
	text := normalizer.Normalize(ingested.Text)

	scenes := s.segmentText(text, maxChars)

	extractor := storytools.NewEntityExtractor()
	extras := storytools.ParseExtraNames(strings.Join(req.ExtraNames, "\n"))
	entities := extractor.ExtractWithExtras(text, 0, extras)

	classifier := storytools.NewContentClassifier()
	classifier.SetBaseDensity(settings.BrollDensity)

	composer := storytools.NewPromptComposer(settings.ImageStyle, settings.ImageEngine)
	composer.SetCustomStyle(settings.CustomStylePrompt)
	if s.defaults.TokenCounts {
		if err := composer.EnableTokenCount(); err != nil {
			log.Warn().Err(err).Msg("提示词 token 统计不可用，跳过")
		}
	}

	narrator := storytools.NewNarrationBuilder()
	if s.defaults.WordsPerMin > 0 {
		narrator.SetWordsPerMinute(int(s.defaults.WordsPerMin))
	}
	sfxComposer := storytools.NewSFXCueComposer()

	result := &DecomposeResult{
		SourceName: req.SourceName,
		Encoding:   ingested.Encoding,
		Status:     ingested.Status,
		Scenes:     make([]SceneDoc, 0, len(scenes)),
		Prompts:    make([][]storytools.ShotPrompt, 0, len(scenes)),
		Characters: entities,
		Narration:  make([]storytools.NarrationUnit, 0, len(scenes)),
		SFX:        make([]storytools.SceneSFX, 0, len(scenes)),
	}

	totalShots := 0
	totalSeconds := 0.0
	for _, scene := range scenes {
		cls := classifier.Classify(scene.Text)
		prompts := composer.Compose(scene, cls.Density, entities)
		unit := narrator.Build(scene.Text, scene.Index)
		sfx := sfxComposer.Compose(scene.Text, scene.Index)

		result.Scenes = append(result.Scenes, SceneDoc{
			Scene:            scene,
			SceneType:        string(cls.Type),
			Multiplier:       cls.Multiplier,
			Density:          cls.Density,
			DurationEstimate: unit.EstimatedDurationSeconds,
		})
		result.Prompts = append(result.Prompts, prompts)
		result.Narration = append(result.Narration, unit)
		result.SFX = append(result.SFX, sfx)

		totalShots += len(prompts)
		totalSeconds += unit.EstimatedDurationSeconds
	}

	chunker := storytools.NewTTSChunker()
	if s.defaults.TTSMaxChars > 0 {
		chunker.SetMaxChars(s.defaults.TTSMaxChars)
	}
	result.TTSChunks = chunker.Chunk(result.Narration)

	planner := storytools.NewBatchPlanner(s.defaults.BatchSize)
	result.Plan = planner.Plan(len(scenes), nil)

	stats := storytools.PipelineStats{
		NumScenes:     len(scenes),
		TotalShots:    totalShots,
		TotalSeconds:  totalSeconds,
		NumCharacters: len(entities),
		TotalWords:    ingested.WordCount,
	}
	result.Summary = storytools.BuildPipelineConfig(settings, stats)
	return result, stats
}

// loadSource 取得源文本字节：优先内联正文，其次从存储下载
func (s *decomposeService) loadSource(ctx context.Context, req *DecomposeRequest) ([]byte, error) {
	if req.Text != "" {
		return []byte(req.Text), nil
	}
	if req.SourceKey == "" {
		return nil, ErrEmptySource
	}
	if s.store == nil {
		return nil, fmt.Errorf("未配置存储，无法读取源文件 %s", req.SourceKey)
	}
	rc, err := s.store.Download(ctx, req.SourceKey)
	if err != nil {
		return nil, fmt.Errorf("download source %s: %w", req.SourceKey, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", req.SourceKey, err)
	}
	return raw, nil
}

// markFailed 将运行标记为失败，持久化未开启时为空操作
func (s *decomposeService) markFailed(ctx context.Context, runID, message string) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.UpdateStatus(ctx, runID, story.RunStatusFailed, message); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("更新运行状态失败")
	}
}

// cacheResult 将完整结果写入 Redis，失败仅告警
func (s *decomposeService) cacheResult(ctx context.Context, runID string, result *DecomposeResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cache.RunResultCacheKey(runID), result, s.resultTTL); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("缓存分解结果失败")
	}
}
