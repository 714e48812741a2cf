package storytools

import (
	"fmt"
	"math"
	"strings"
)

// 流水线设定的缺省值
const (
	DefaultVoiceMode       = "index_tts"
	DefaultSFXMode         = "mmaudio_auto"
	DefaultTransition      = "fade"
	DefaultVideoFPS        = 24
	DefaultResolution      = "1920x1080"
	DefaultBrollDensity    = 4
	DefaultMaxSceneChars   = 2000
	DefaultParallaxEnabled = true
)

var (
	voiceModeNames  = []string{"index_tts", "index_clone", "xtts", "voxcpm", "chatterbox"}
	sfxModeNames    = []string{"mmaudio_auto", "mmaudio_prompted", "stable_audio", "none"}
	transitionNames = []string{"fade", "cut", "dissolve", "wipe"}
	resolutionNames = []string{"1920x1080", "1280x720", "3840x2160", "1080x1920", "720x1280"}
)

// VoiceModeNames 返回支持的配音模式
func VoiceModeNames() []string {
	return append([]string(nil), voiceModeNames...)
}

// SFXModeNames 返回支持的音效模式
func SFXModeNames() []string {
	return append([]string(nil), sfxModeNames...)
}

// TransitionNames 返回支持的转场方式
func TransitionNames() []string {
	return append([]string(nil), transitionNames...)
}

// ResolutionNames 返回支持的输出分辨率
func ResolutionNames() []string {
	return append([]string(nil), resolutionNames...)
}

// PipelineSettings 下游流水线的用户设定
type PipelineSettings struct {
	ImageEngine           string `json:"image_engine"`            // 生图引擎
	ImageStyle            string `json:"image_style"`             // 画面风格
	CharacterProfile      string `json:"character_profile"`       // 角色 LoRA 配置，逗号分隔
	VoiceMode             string `json:"voice_mode"`              // 配音模式
	ParallaxEnabled       bool   `json:"parallax_enabled"`        // 是否启用 3D 视差
	SFXMode               string `json:"sfx_mode"`                // 音效模式
	BrollDensity          int    `json:"broll_density"`           // 每场景分镜数
	SceneTransition       string `json:"scene_transition_style"`  // 转场方式
	TargetVideoFPS        int    `json:"target_video_fps"`        // 目标帧率
	TargetResolution      string `json:"target_resolution"`       // 目标分辨率
	HasVoiceReference     bool   `json:"has_voice_reference"`     // 是否带参考音频
	HasCharacterReference bool   `json:"has_character_reference"` // 是否带角色参考图
	CustomStylePrompt     string `json:"custom_style_prompt"`     // 附加风格提示词
}

// NewPipelineSettings 返回带缺省值的流水线设定
func NewPipelineSettings() PipelineSettings {
	return PipelineSettings{
		ImageEngine:      defaultEngine,
		ImageStyle:       defaultStyle,
		VoiceMode:        DefaultVoiceMode,
		ParallaxEnabled:  DefaultParallaxEnabled,
		SFXMode:          DefaultSFXMode,
		BrollDensity:     DefaultBrollDensity,
		SceneTransition:  DefaultTransition,
		TargetVideoFPS:   DefaultVideoFPS,
		TargetResolution: DefaultResolution,
	}
}

// Normalize 为空白字段填充缺省值并收拢密度范围
func (ps PipelineSettings) Normalize() PipelineSettings {
	defaults := NewPipelineSettings()
	if ps.ImageEngine == "" {
		ps.ImageEngine = defaults.ImageEngine
	}
	if ps.ImageStyle == "" {
		ps.ImageStyle = defaults.ImageStyle
	}
	if ps.VoiceMode == "" {
		ps.VoiceMode = defaults.VoiceMode
	}
	if ps.SFXMode == "" {
		ps.SFXMode = defaults.SFXMode
	}
	if ps.BrollDensity == 0 {
		ps.BrollDensity = defaults.BrollDensity
	}
	ps.BrollDensity = ClampDensity(ps.BrollDensity, 1.0)
	if ps.SceneTransition == "" {
		ps.SceneTransition = defaults.SceneTransition
	}
	if ps.TargetVideoFPS <= 0 {
		ps.TargetVideoFPS = defaults.TargetVideoFPS
	}
	if ps.TargetResolution == "" {
		ps.TargetResolution = defaults.TargetResolution
	}
	return ps
}

// Validate 校验各枚举字段的取值
func (ps PipelineSettings) Validate() error {
	checks := []struct {
		field string
		value string
		names []string
	}{
		{"image_engine", ps.ImageEngine, EngineNames()},
		{"image_style", ps.ImageStyle, StyleNames()},
		{"voice_mode", ps.VoiceMode, voiceModeNames},
		{"sfx_mode", ps.SFXMode, sfxModeNames},
		{"scene_transition_style", ps.SceneTransition, transitionNames},
		{"target_resolution", ps.TargetResolution, resolutionNames},
	}
	for _, c := range checks {
		if !containsName(c.names, c.value) {
			return fmt.Errorf("unsupported %s %q, expect one of %s", c.field, c.value, strings.Join(c.names, "/"))
		}
	}
	return nil
}

func containsName(names []string, value string) bool {
	for _, name := range names {
		if name == value {
			return true
		}
	}
	return false
}

// PipelineStats 流水线产物统计
type PipelineStats struct {
	NumScenes     int     `json:"num_scenes"`     // 场景数
	TotalShots    int     `json:"total_shots"`    // 分镜总数
	TotalSeconds  float64 `json:"total_seconds"`  // 预计解说总时长（秒）
	NumCharacters int     `json:"num_characters"` // 识别出的角色数
	TotalWords    int     `json:"total_words"`    // 正文词数
}

// PipelineConfig 交付给下游流水线的配置与统计汇总
type PipelineConfig struct {
	ImageEngine                string  `json:"image_engine"`
	ImageStyle                 string  `json:"image_style"`
	CharacterProfile           string  `json:"character_profile"`
	VoiceMode                  string  `json:"voice_mode"`
	ParallaxEnabled            bool    `json:"parallax_enabled"`
	SFXMode                    string  `json:"sfx_mode"`
	BrollDensity               int     `json:"broll_density"`
	NumScenes                  int     `json:"num_scenes"`
	TotalShots                 int     `json:"total_shots"`
	EstimatedDurationSeconds   float64 `json:"estimated_duration_seconds"`
	EstimatedDurationFormatted string  `json:"estimated_duration_formatted"`
	SceneTransition            string  `json:"scene_transition_style"`
	TargetVideoFPS             int     `json:"target_video_fps"`
	TargetResolution           string  `json:"target_resolution"`
	HasVoiceReference          bool    `json:"has_voice_reference"`
	HasCharacterReference      bool    `json:"has_character_reference"`
	CustomStylePrompt          string  `json:"custom_style_prompt"`
}

// BuildPipelineConfig 由设定与统计组装配置文档
func BuildPipelineConfig(settings PipelineSettings, stats PipelineStats) PipelineConfig {
	return PipelineConfig{
		ImageEngine:                settings.ImageEngine,
		ImageStyle:                 settings.ImageStyle,
		CharacterProfile:           settings.CharacterProfile,
		VoiceMode:                  settings.VoiceMode,
		ParallaxEnabled:            settings.ParallaxEnabled,
		SFXMode:                    settings.SFXMode,
		BrollDensity:               settings.BrollDensity,
		NumScenes:                  stats.NumScenes,
		TotalShots:                 stats.TotalShots,
		EstimatedDurationSeconds:   math.Round(stats.TotalSeconds*10) / 10,
		EstimatedDurationFormatted: FormatDuration(stats.TotalSeconds),
		SceneTransition:            settings.SceneTransition,
		TargetVideoFPS:             settings.TargetVideoFPS,
		TargetResolution:           settings.TargetResolution,
		HasVoiceReference:          settings.HasVoiceReference,
		HasCharacterReference:      settings.HasCharacterReference,
		CustomStylePrompt:          settings.CustomStylePrompt,
	}
}

// FormatDuration 将秒数格式化为人类可读时长
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", int(seconds))
	}
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm %ds", minutes/60, minutes%60, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

// RenderSummary 渲染人类可读的制作计划摘要
func RenderSummary(config PipelineConfig, stats PipelineStats) string {
	parallax := "disabled"
	if config.ParallaxEnabled {
		parallax = "enabled"
	}
	voiceRef := "no"
	if config.HasVoiceReference {
		voiceRef = "yes"
	}

	var b strings.Builder
	b.WriteString("NOVEL CINEMATIC PRODUCTION PLAN\n")
	b.WriteString("===============================\n")
	fmt.Fprintf(&b, "Content:\n")
	fmt.Fprintf(&b, "  scenes:              %d\n", config.NumScenes)
	fmt.Fprintf(&b, "  total shots:         %d\n", config.TotalShots)
	fmt.Fprintf(&b, "  characters detected: %d\n", stats.NumCharacters)
	fmt.Fprintf(&b, "  estimated duration:  %s\n", config.EstimatedDurationFormatted)
	fmt.Fprintf(&b, "Visual:\n")
	fmt.Fprintf(&b, "  engine:     %s\n", config.ImageEngine)
	fmt.Fprintf(&b, "  style:      %s\n", config.ImageStyle)
	fmt.Fprintf(&b, "  resolution: %s\n", config.TargetResolution)
	fmt.Fprintf(&b, "  parallax:   %s\n", parallax)
	fmt.Fprintf(&b, "Audio:\n")
	fmt.Fprintf(&b, "  voice mode:      %s\n", config.VoiceMode)
	fmt.Fprintf(&b, "  sfx mode:        %s\n", config.SFXMode)
	fmt.Fprintf(&b, "  voice reference: %s\n", voiceRef)
	fmt.Fprintf(&b, "Video:\n")
	fmt.Fprintf(&b, "  fps:            %d\n", config.TargetVideoFPS)
	fmt.Fprintf(&b, "  transitions:    %s\n", config.SceneTransition)
	fmt.Fprintf(&b, "  b-roll density: %d shots/scene\n", config.BrollDensity)
	return strings.TrimRight(b.String(), "\n")
}
