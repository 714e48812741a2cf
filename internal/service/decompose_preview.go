package service

import (
	"context"
	"strings"

	"fable/internal/pkg/storytools"
)

// PreviewSegmentRequest 场景切分试跑请求
type PreviewSegmentRequest struct {
	Text     string // 正文
	MaxChars int    // 单场景字符预算，0 取配置默认
}

// PreviewSegmentResult 场景切分试跑结果
type PreviewSegmentResult struct {
	NumScenes int                `json:"num_scenes"`
	Scenes    []storytools.Scene `json:"scenes"`
}

// PreviewSegment 单独试跑场景切分
func (s *decomposeService) PreviewSegment(_ context.Context, req *PreviewSegmentRequest) *PreviewSegmentResult {
	text := storytools.NewTextNormalizer().Normalize(req.Text)
	scenes := s.segmentText(text, s.maxSceneChars(req.MaxChars))
	return &PreviewSegmentResult{NumScenes: len(scenes), Scenes: scenes}
}

// PreviewEntitiesRequest 角色识别试跑请求
type PreviewEntitiesRequest struct {
	Text        string   // 正文
	MaxEntities int      // 最多保留的角色数，0 取内置默认
	ExtraNames  []string // 附加角色名，形如 "Name" 或 "Name: description"
}

// PreviewEntitiesResult 角色识别试跑结果
type PreviewEntitiesResult struct {
	NumCharacters int                 `json:"num_characters"`
	Characters    []storytools.Entity `json:"characters"`
}

// PreviewEntities 单独试跑角色识别
func (s *decomposeService) PreviewEntities(_ context.Context, req *PreviewEntitiesRequest) *PreviewEntitiesResult {
	text := storytools.NewTextNormalizer().Normalize(req.Text)
	extras := storytools.ParseExtraNames(strings.Join(req.ExtraNames, "\n"))
	entities := storytools.NewEntityExtractor().ExtractWithExtras(text, req.MaxEntities, extras)
	return &PreviewEntitiesResult{NumCharacters: len(entities), Characters: entities}
}

// PreviewClassifyRequest 场景分类试跑请求
type PreviewClassifyRequest struct {
	Text        string // 场景文本
	BaseDensity int    // 基准镜头密度，0 取配置默认
}

// PreviewClassifyResult 场景分类试跑结果
type PreviewClassifyResult struct {
	Classification storytools.Classification `json:"classification"`
}

// PreviewClassify 单独试跑场景分类
func (s *decomposeService) PreviewClassify(_ context.Context, req *PreviewClassifyRequest) *PreviewClassifyResult {
	classifier := storytools.NewContentClassifier()
	base := req.BaseDensity
	if base == 0 {
		base = s.defaults.Density
	}
	classifier.SetBaseDensity(base)
	return &PreviewClassifyResult{Classification: classifier.Classify(req.Text)}
}

// PreviewPromptsRequest 提示词合成试跑请求
// 整段文本视为一个场景，密度未指定时由分类器给出
type PreviewPromptsRequest struct {
	Text        string   // 场景文本
	Style       string   // 视觉风格，空取配置默认
	Engine      string   // 图像引擎，空取配置默认
	CustomStyle string   // 附加风格提示词
	Density     int      // 镜头数，0 由分类器决定
	ExtraNames  []string // 附加角色名
}

// PreviewPromptsResult 提示词合成试跑结果
type PreviewPromptsResult struct {
	Classification storytools.Classification `json:"classification"`
	Characters     []storytools.Entity       `json:"characters"`
	Prompts        []storytools.ShotPrompt   `json:"prompts"`
}

// PreviewPrompts 单独试跑提示词合成
func (s *decomposeService) PreviewPrompts(_ context.Context, req *PreviewPromptsRequest) *PreviewPromptsResult {
	text := storytools.NewTextNormalizer().Normalize(req.Text)

	classifier := storytools.NewContentClassifier()
	classifier.SetBaseDensity(s.defaults.Density)
	cls := classifier.Classify(text)

	density := req.Density
	if density <= 0 {
		density = cls.Density
	}

	extras := storytools.ParseExtraNames(strings.Join(req.ExtraNames, "\n"))
	entities := storytools.NewEntityExtractor().ExtractWithExtras(text, 0, extras)

	style := req.Style
	if style == "" {
		style = s.defaults.Style
	}
	engine := req.Engine
	if engine == "" {
		engine = s.defaults.Engine
	}
	composer := storytools.NewPromptComposer(style, engine)
	composer.SetCustomStyle(req.CustomStyle)

	scene := storytools.Scene{ID: "scene_001", Index: 0, Text: text}
	prompts := composer.Compose(scene, density, entities)

	return &PreviewPromptsResult{
		Classification: cls,
		Characters:     entities,
		Prompts:        prompts,
	}
}

// PreviewMomentsRequest 关键时刻提取试跑请求
type PreviewMomentsRequest struct {
	Text      string  // 正文
	Threshold float64 // 重要度阈值，非正值取内置默认
}

// PreviewMomentsResult 关键时刻提取试跑结果
type PreviewMomentsResult struct {
	NumMoments int                    `json:"num_moments"`
	Moments    []storytools.KeyMoment `json:"moments"`
}

// PreviewMoments 单独试跑关键时刻提取
func (s *decomposeService) PreviewMoments(_ context.Context, req *PreviewMomentsRequest) *PreviewMomentsResult {
	text := storytools.NewTextNormalizer().Normalize(req.Text)
	moments := storytools.NewKeyMomentExtractor().Extract(text, req.Threshold)
	return &PreviewMomentsResult{NumMoments: len(moments), Moments: moments}
}
