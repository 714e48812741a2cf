package run

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fable/internal/model/story"
	httputil "fable/internal/pkg/http"
	"fable/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// respondServiceError 统一把 service 层错误映射为 HTTP 状态码与业务码
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, service.ErrRunNotFound):
		status = http.StatusNotFound
		code = 40401
	case errors.Is(err, service.ErrEmptySource):
		status = http.StatusBadRequest
		code = 40002
	case errors.Is(err, service.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		code = 40003
	case errors.Is(err, service.ErrInvalidSettings):
		status = http.StatusBadRequest
		code = 40004
	case errors.Is(err, service.ErrNoScenes):
		status = http.StatusBadRequest
		code = 40005
	case errors.Is(err, service.ErrNoPendingShots):
		status = http.StatusBadRequest
		code = 40006
	case errors.Is(err, service.ErrPersistenceDisabled):
		status = http.StatusServiceUnavailable
		code = 50301
	case errors.Is(err, service.ErrRenderUnavailable):
		status = http.StatusServiceUnavailable
		code = 50302
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// RunInfo 运行信息 DTO
type RunInfo struct {
	ID         string            `json:"id"`                    // 运行ID
	Title      string            `json:"title,omitempty"`       // 运行标题
	SourceName string            `json:"source_name,omitempty"` // 源文件名
	SourceKey  string            `json:"source_key,omitempty"`  // 源文件存储 key
	Encoding   string            `json:"encoding"`              // 源文本编码
	Status     string            `json:"status"`                // 状态：pending, processing, completed, failed
	Settings   story.RunSettings `json:"settings"`              // 流水线设定
	Stats      story.RunStats    `json:"stats"`                 // 产物统计
	ErrorMsg   string            `json:"error_message,omitempty"`
	CreatedAt  string            `json:"created_at"` // 创建时间
	UpdatedAt  string            `json:"updated_at"` // 更新时间
}

// toRunInfo 将 Run 实体转换为 RunInfo DTO
func toRunInfo(run *story.Run) RunInfo {
	return RunInfo{
		ID:         run.ID,
		Title:      run.Title,
		SourceName: run.SourceName,
		SourceKey:  run.SourceKey,
		Encoding:   run.Encoding,
		Status:     string(run.Status),
		Settings:   run.Settings,
		Stats:      run.Stats,
		ErrorMsg:   run.ErrorMsg,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  run.UpdatedAt.Format(time.RFC3339),
	}
}

// SceneInfo 场景信息 DTO
type SceneInfo struct {
	SceneID          string  `json:"scene_id"`          // 场景标识（scene_001）
	Index            int     `json:"index"`             // 场景序号
	Text             string  `json:"text"`              // 场景文本
	StartOffset      int     `json:"start_offset"`      // 原文偏移
	CharCount        int     `json:"char_count"`        // 字符数
	ParaCount        int     `json:"para_count"`        // 段落数
	SceneType        string  `json:"scene_type"`        // 场景类型
	Density          int     `json:"density"`           // 建议镜头数
	DurationEstimate float64 `json:"duration_estimate"` // 预计旁白时长（秒）
}

func toSceneInfo(s *story.Scene) SceneInfo {
	return SceneInfo{
		SceneID:          s.SceneID,
		Index:            s.Index,
		Text:             s.Text,
		StartOffset:      s.StartOffset,
		CharCount:        s.CharCount,
		ParaCount:        s.ParaCount,
		SceneType:        s.SceneType,
		Density:          s.Density,
		DurationEstimate: s.DurationEstimate,
	}
}

// ShotPromptInfo 分镜提示词 DTO
type ShotPromptInfo struct {
	ShotID         string `json:"shot_id"`               // 分镜标识（scene_001_shot_01）
	SceneID        string `json:"scene_id"`              // 所属场景标识
	SceneIndex     int    `json:"scene_index"`           // 场景序号
	ShotIndex      int    `json:"shot_index"`            // 镜头序号
	ShotType       string `json:"shot_type"`             // 镜头类型
	Prompt         string `json:"prompt"`                // 正向提示词
	NegativePrompt string `json:"negative_prompt"`       // 负向提示词
	TokenCount     int    `json:"token_count,omitempty"` // token 数
	SubmitStatus   string `json:"submit_status"`         // 渲染提交状态
	RenderTaskID   string `json:"render_task_id,omitempty"`
}

func toShotPromptInfo(p *story.ShotPrompt) ShotPromptInfo {
	return ShotPromptInfo{
		ShotID:         p.ShotID,
		SceneID:        p.SceneID,
		SceneIndex:     p.SceneIndex,
		ShotIndex:      p.ShotIndex,
		ShotType:       p.ShotType,
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		TokenCount:     p.TokenCount,
		SubmitStatus:   string(p.SubmitStatus),
		RenderTaskID:   p.RenderTaskID,
	}
}

// CharacterInfo 角色信息 DTO
type CharacterInfo struct {
	CharID      string `json:"char_id"`               // 角色标识（名字 MD5 前 8 位）
	Name        string `json:"name"`                  // 角色名
	Slug        string `json:"slug"`                  // 角色标签（char_lower_snake）
	Description string `json:"description,omitempty"` // 外貌描述
	Mentions    int    `json:"mentions"`              // 提及次数
	Tier        string `json:"tier"`                  // 层级
	RefsNeeded  int    `json:"refs_needed"`           // 建议参考图数量
}

func toCharacterInfo(ch *story.Character) CharacterInfo {
	return CharacterInfo{
		CharID:      ch.CharID,
		Name:        ch.Name,
		Slug:        ch.Slug,
		Description: ch.Description,
		Mentions:    ch.Mentions,
		Tier:        ch.Tier,
		RefsNeeded:  ch.RefsNeeded,
	}
}

// NarrationInfo 旁白单元 DTO
type NarrationInfo struct {
	NarrationID     string  `json:"narration_id"`     // 旁白标识（narration_scene_001）
	SceneID         string  `json:"scene_id"`         // 所属场景标识
	SceneIndex      int     `json:"scene_index"`      // 场景序号
	Text            string  `json:"text"`             // 旁白文本
	WordCount       int     `json:"word_count"`       // 词数
	DurationSeconds float64 `json:"duration_seconds"` // 预计朗读时长（秒）
	DialogueRatio   float64 `json:"dialogue_ratio"`   // 对白占比
	HasDialogue     bool    `json:"has_dialogue"`     // 是否以对白为主
}

func toNarrationInfo(u *story.NarrationUnit) NarrationInfo {
	return NarrationInfo{
		NarrationID:     u.NarrationID,
		SceneID:         u.SceneID,
		SceneIndex:      u.SceneIndex,
		Text:            u.Text,
		WordCount:       u.WordCount,
		DurationSeconds: u.DurationSeconds,
		DialogueRatio:   u.DialogueRatio,
		HasDialogue:     u.HasDialogue,
	}
}

// SFXInfo 音效线索 DTO
type SFXInfo struct {
	SFXID          string             `json:"sfx_id"`          // 音效标识（sfx_scene_001）
	SceneID        string             `json:"scene_id"`        // 所属场景标识
	SceneIndex     int                `json:"scene_index"`     // 场景序号
	Cues           []story.SFXCueItem `json:"cues"`            // 线索列表
	CombinedPrompt string             `json:"combined_prompt"` // 组合音景描述
	CueCount       int                `json:"cue_count"`       // 线索数
}

func toSFXInfo(doc *story.SFXDoc) SFXInfo {
	return SFXInfo{
		SFXID:          doc.SFXID,
		SceneID:        doc.SceneID,
		SceneIndex:     doc.SceneIndex,
		Cues:           doc.Cues,
		CombinedPrompt: doc.CombinedPrompt,
		CueCount:       doc.CueCount,
	}
}

// TTSChunkInfo 语音分片 DTO
type TTSChunkInfo struct {
	ChunkID          string  `json:"chunk_id"`          // 分片标识（tts_chunk_0000）
	Index            int     `json:"index"`             // 全局序号
	SceneIndex       int     `json:"scene_index"`       // 来源场景序号
	Text             string  `json:"text"`              // 分片文本
	CharCount        int     `json:"char_count"`        // 字符数
	WordCount        int     `json:"word_count"`        // 词数
	EstimatedSeconds float64 `json:"estimated_seconds"` // 预估时长（秒）
	IsSceneEnd       bool    `json:"is_scene_end"`      // 是否场景内最后一片
}

func toTTSChunkInfo(c *story.TTSChunk) TTSChunkInfo {
	return TTSChunkInfo{
		ChunkID:          c.ChunkID,
		Index:            c.Index,
		SceneIndex:       c.SceneIndex,
		Text:             c.Text,
		CharCount:        c.CharCount,
		WordCount:        c.WordCount,
		EstimatedSeconds: c.EstimatedSeconds,
		IsSceneEnd:       c.IsSceneEnd,
	}
}
