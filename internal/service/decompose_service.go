package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/config"
	"fable/internal/model/story"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/comfyui"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storytools"
	storyrepo "fable/internal/repository/story"
)

var (
	ErrRunNotFound         = errors.New("运行记录不存在")
	ErrEmptySource         = errors.New("源文本为空")
	ErrNoScenes            = errors.New("未切分出任何场景")
	ErrUnsupportedFormat   = errors.New("不支持的文档格式")
	ErrInvalidSettings     = errors.New("非法的流水线设定")
	ErrPersistenceDisabled = errors.New("未配置 MongoDB，运行记录不可查询")
	ErrRenderUnavailable   = errors.New("未配置渲染主机")
	ErrNoPendingShots      = errors.New("没有待提交渲染的分镜")
)

// DecomposeService 分解服务接口
// 定义小说分解流水线 service 层提供的能力
type DecomposeService interface {
	// Decompose 执行一次完整分解：读入 → 规整 → 切分场景 → 角色识别 →
	// 逐场景分类/分镜提示词/旁白/音效 → 语音分片 → 批次规划 → 汇总
	Decompose(ctx context.Context, req *DecomposeRequest) (*DecomposeResult, error)

	// GetRun 查询运行记录
	GetRun(ctx context.Context, runID string) (*story.Run, error)

	// GetScenes 查询运行的场景列表
	GetScenes(ctx context.Context, runID string) ([]*story.Scene, error)

	// GetShotPrompts 查询运行的分镜提示词列表
	GetShotPrompts(ctx context.Context, runID string) ([]*story.ShotPrompt, error)

	// GetCharacters 查询运行识别出的角色列表
	GetCharacters(ctx context.Context, runID string) ([]*story.Character, error)

	// GetNarration 查询运行的旁白单元列表
	GetNarration(ctx context.Context, runID string) ([]*story.NarrationUnit, error)

	// GetSFX 查询运行的音效线索列表
	GetSFX(ctx context.Context, runID string) ([]*story.SFXDoc, error)

	// GetTTSChunks 查询运行的语音分片列表
	GetTTSChunks(ctx context.Context, runID string) ([]*story.TTSChunk, error)

	// GetSummary 查询运行的配置与统计汇总文档
	GetSummary(ctx context.Context, runID string) (*storytools.PipelineConfig, error)

	// MarkCheckpoint 记录已完成的场景序号并返回续跑规划
	MarkCheckpoint(ctx context.Context, req *CheckpointRequest) (*CheckpointResult, error)

	// RenderRun 将运行中待渲染的分镜提示词批量提交到渲染主机
	RenderRun(ctx context.Context, req *RenderRequest) (*RenderResult, error)

	// PreviewSegment 单独试跑场景切分，不落库
	PreviewSegment(ctx context.Context, req *PreviewSegmentRequest) *PreviewSegmentResult

	// PreviewEntities 单独试跑角色识别，不落库
	PreviewEntities(ctx context.Context, req *PreviewEntitiesRequest) *PreviewEntitiesResult

	// PreviewClassify 单独试跑场景分类，不落库
	PreviewClassify(ctx context.Context, req *PreviewClassifyRequest) *PreviewClassifyResult

	// PreviewPrompts 单独试跑提示词合成（整段文本视为一个场景），不落库
	PreviewPrompts(ctx context.Context, req *PreviewPromptsRequest) *PreviewPromptsResult

	// PreviewMoments 单独试跑关键时刻提取，不落库
	PreviewMoments(ctx context.Context, req *PreviewMomentsRequest) *PreviewMomentsResult
}

// decomposeService 分解服务实现
type decomposeService struct {
	defaults     config.PipelineConfig
	resultTTL    time.Duration
	workflowPath string

	runRepo        storyrepo.RunRepository
	sceneRepo      storyrepo.SceneRepository
	shotPromptRepo storyrepo.ShotPromptRepository
	characterRepo  storyrepo.CharacterRepository
	narrationRepo  storyrepo.NarrationRepository
	sfxRepo        storyrepo.SFXRepository
	ttsChunkRepo   storyrepo.TTSChunkRepository
	checkpointRepo storyrepo.CheckpointRepository

	cache  *cache.RedisCache
	store  storage.Storage
	render *comfyui.Client

	// 切分缓存不做并发保护，所有切分调用经 segmentText 串行化
	splitMu    sync.Mutex
	splitCache *storytools.SplitCache
}

// NewDecomposeService 创建分解服务
// db、redisCache、store、render 均可为 nil，对应能力自动降级：
// 无 db 时结果不落库、查询类接口不可用；无 redisCache 时不缓存结果；
// 无 store 时不导出 JSON 文档；无 render 时渲染提交不可用。
func NewDecomposeService(
	cfg *config.Config,
	db *mongo.Database,
	redisCache *cache.RedisCache,
	store storage.Storage,
	render *comfyui.Client,
) DecomposeService {
	s := &decomposeService{
		defaults:     cfg.Pipeline,
		resultTTL:    cfg.Cache.ResultTTL,
		workflowPath: cfg.ComfyUI.WorkflowJSON,
		cache:        redisCache,
		store:        store,
		render:       render,
		splitCache:   storytools.NewSplitCache(0),
	}
	if s.resultTTL <= 0 {
		s.resultTTL = cache.RunResultCacheTTL
	}
	if db != nil {
		s.runRepo = storyrepo.NewRunRepo(db)
		s.sceneRepo = storyrepo.NewSceneRepo(db)
		s.shotPromptRepo = storyrepo.NewShotPromptRepo(db)
		s.characterRepo = storyrepo.NewCharacterRepo(db)
		s.narrationRepo = storyrepo.NewNarrationRepo(db)
		s.sfxRepo = storyrepo.NewSFXRepo(db)
		s.ttsChunkRepo = storyrepo.NewTTSChunkRepo(db)
		s.checkpointRepo = storyrepo.NewCheckpointRepo(db)
	}
	return s
}

// segmentText 场景切分，统一走共享切分缓存
func (s *decomposeService) segmentText(text string, maxChars int) []storytools.Scene {
	s.splitMu.Lock()
	defer s.splitMu.Unlock()
	segmenter := storytools.NewSceneSegmenter()
	segmenter.SetCache(s.splitCache)
	return segmenter.Segment(text, maxChars)
}

// maxSceneChars 场景字符预算，请求值优先，其次取配置默认
func (s *decomposeService) maxSceneChars(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.defaults.MaxSceneChars
}

// applyDefaults 把配置文件里的流水线默认值填进请求未指定的字段，
// 再交由核心库补齐内置默认并收拢取值范围
func (s *decomposeService) applyDefaults(settings storytools.PipelineSettings) storytools.PipelineSettings {
	if settings.ImageStyle == "" {
		settings.ImageStyle = s.defaults.Style
	}
	if settings.ImageEngine == "" {
		settings.ImageEngine = s.defaults.Engine
	}
	if settings.BrollDensity == 0 {
		settings.BrollDensity = s.defaults.Density
	}
	if settings.VoiceMode == "" {
		settings.VoiceMode = s.defaults.VoiceMode
	}
	if settings.SFXMode == "" {
		settings.SFXMode = s.defaults.SFXMode
	}
	if settings.SceneTransition == "" {
		settings.SceneTransition = s.defaults.Transition
	}
	if settings.TargetVideoFPS <= 0 {
		settings.TargetVideoFPS = s.defaults.FPS
	}
	if settings.TargetResolution == "" {
		settings.TargetResolution = s.defaults.Resolution
	}
	if !settings.ParallaxEnabled {
		settings.ParallaxEnabled = s.defaults.Parallax
	}
	return settings.Normalize()
}
