package storytools

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// 固定的画面风格模板
var styleTemplates = map[string]string{
	"cinematic":  "cinematic film still, dramatic lighting, shallow depth of field, professional cinematography, 4K, HDR",
	"anime":      "anime art style, vibrant colors, detailed linework, studio quality animation, expressive characters",
	"realistic":  "photorealistic, hyperdetailed, natural lighting, 8K resolution, professional photography",
	"painterly":  "oil painting style, rich textures, artistic brushstrokes, masterful composition, gallery quality",
	"comic":      "comic book art, bold lines, dynamic composition, vibrant panel art, graphic novel style",
	"storyboard": "storyboard frame, concept art, key frame, professional pre-visualization",
}

// 各生图引擎的质量标签
var engineQuality = map[string]string{
	"flux":    "masterpiece, best quality, highly detailed, sharp focus",
	"sdxl":    "masterpiece, best quality, ultra detailed, 8k uhd",
	"sd15":    "best quality, highly detailed, sharp focus, intricate details",
	"cascade": "high quality, detailed, professional, sharp",
	"pixart":  "high quality artwork, detailed, aesthetic, professional",
}

// 镜头类型轮换表，按镜头序号取模选取
var shotTypeRotation = []string{
	"establishing wide shot", "medium shot", "close-up", "wide shot",
	"over-the-shoulder shot", "POV shot", "detail shot", "two-shot",
	"reaction shot", "tracking shot", "low angle shot", "high angle shot",
	"dutch angle shot",
}

// 统一的负向提示词
const negativePrompt = "blurry, low quality, distorted, deformed, ugly, bad anatomy, watermark, text, signature"

const (
	defaultStyle   = "cinematic"
	defaultEngine  = "flux"
	snippetRunes   = 80 // 画面内容片段长度上限
	minChunkSize   = 50 // 片段切分的最小步长，避免除出零
	maxShotPersons = 2  // 每镜头最多点名的角色数
)

// ShotPrompt 单个镜头的生图提示词
type ShotPrompt struct {
	Prompt         string `json:"prompt"`                // 正向提示词
	NegativePrompt string `json:"negative_prompt"`       // 负向提示词
	SceneIdx       int    `json:"scene_idx"`             // 所属场景序号，从 0 开始
	ShotIdx        int    `json:"shot_idx"`              // 镜头序号，从 0 开始
	ShotType       string `json:"shot_type"`             // 镜头类型
	ID             string `json:"id"`                    // scene_%03d_shot_%02d
	TokenCount     int    `json:"token_count,omitempty"` // 提示词 token 数，启用统计时填写
}

// PromptComposer 镜头提示词合成器
//
// 将场景文本按镜头密度切成片段，逐镜头拼装
// 场景标签、镜头类型、出场角色、画面元素、内容片段与风格标签。
type PromptComposer struct {
	style       string
	engine      string
	customStyle string
	encoder     *tiktoken.Tiktoken
}

// NewPromptComposer 创建提示词合成器，style/engine 为空时取 cinematic/flux
func NewPromptComposer(style, engine string) *PromptComposer {
	if style == "" {
		style = defaultStyle
	}
	if engine == "" {
		engine = defaultEngine
	}
	return &PromptComposer{style: style, engine: engine}
}

// SetCustomStyle 设置追加在提示词末尾的自定义风格文本
func (pc *PromptComposer) SetCustomStyle(custom string) {
	pc.customStyle = strings.TrimSpace(custom)
}

// EnableTokenCount 开启提示词 token 统计
//
// 使用 cl100k_base 编码，首次调用可能下载编码表。失败时返回错误，
// 统计保持关闭，不影响合成。
func (pc *PromptComposer) EnableTokenCount() error {
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return fmt.Errorf("load tiktoken encoding: %w", err)
	}
	pc.encoder = encoder
	return nil
}

// Compose 为场景合成 density 个镜头提示词
//
// 场景文本压平后按 max(长度/density, 50) 步长切片，片段截断到 80 字符；
// 片段取尽时提前停止，产出少于 density 个镜头是正常结果。
// density 不为正或文本为空时返回 nil。
func (pc *PromptComposer) Compose(scene Scene, density int, entities []Entity) []ShotPrompt {
	if density <= 0 {
		return nil
	}
	flat := strings.Join(strings.Fields(scene.Text), " ")
	if flat == "" {
		return nil
	}

	flatRunes := []rune(flat)
	chunkSize := len(flatRunes) / density
	if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}

	hints := ExtractVisualHints(scene.Text)
	featured := pc.featuredEntities(scene.Text, entities)
	styleMod := styleTemplates[pc.style]
	if styleMod == "" {
		styleMod = styleTemplates[defaultStyle]
	}
	qualityMod := engineQuality[pc.engine]
	if qualityMod == "" {
		qualityMod = engineQuality[defaultEngine]
	}

	var shots []ShotPrompt
	for i := 0; i < density; i++ {
		snippet := sliceRunes(flatRunes, i*chunkSize, chunkSize, snippetRunes)
		if snippet == "" {
			break
		}
		shotType := shotTypeRotation[i%len(shotTypeRotation)]

		parts := []string{
			fmt.Sprintf("Scene %d, Shot %d", scene.Index+1, i+1),
			shotType,
		}
		if featured != "" {
			parts = append(parts, "featuring: "+featured)
		}
		if loc := hints.Location(); loc != "" {
			parts = append(parts, "setting: "+loc)
		}
		if tod := hints.TimeOfDay(); tod != "" {
			parts = append(parts, tod+" lighting")
		}
		if w := hints.WeatherHint(); w != "" {
			parts = append(parts, w)
		}
		if mood := hints.Mood(); mood != "" {
			parts = append(parts, mood+" atmosphere")
		}
		parts = append(parts, "depicting: "+snippet, styleMod, qualityMod)
		if pc.customStyle != "" {
			parts = append(parts, pc.customStyle)
		}

		prompt := strings.Join(parts, ", ")
		shot := ShotPrompt{
			Prompt:         prompt,
			NegativePrompt: negativePrompt,
			SceneIdx:       scene.Index,
			ShotIdx:        i,
			ShotType:       shotType,
			ID:             fmt.Sprintf("scene_%03d_shot_%02d", scene.Index+1, i+1),
		}
		if pc.encoder != nil {
			shot.TokenCount = len(pc.encoder.Encode(prompt, nil, nil))
		}
		shots = append(shots, shot)
	}
	return shots
}

// featuredEntities 挑选场景文本中出现的前两个角色
//
// 按实体列表顺序做大小写不敏感的子串匹配，带描述的角色
// 以 "Name (description)" 形式呈现。
func (pc *PromptComposer) featuredEntities(sceneText string, entities []Entity) string {
	lower := strings.ToLower(sceneText)
	var names []string
	for _, e := range entities {
		if len(names) == maxShotPersons {
			break
		}
		if !strings.Contains(lower, strings.ToLower(e.Name)) {
			continue
		}
		if e.Description != "" {
			names = append(names, fmt.Sprintf("%s (%s)", e.Name, e.Description))
		} else {
			names = append(names, e.Name)
		}
	}
	return strings.Join(names, ", ")
}

// sliceRunes 取 [start, start+size) 区间并截断到 limit 个字符
func sliceRunes(runes []rune, start, size, limit int) string {
	if start >= len(runes) {
		return ""
	}
	end := start + size
	if end > len(runes) {
		end = len(runes)
	}
	if end-start > limit {
		end = start + limit
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// ShotTypes 返回镜头类型轮换表的副本
func ShotTypes() []string {
	out := make([]string, len(shotTypeRotation))
	copy(out, shotTypeRotation)
	return out
}

// StyleNames 返回受支持的画面风格名
func StyleNames() []string {
	return []string{"cinematic", "anime", "realistic", "painterly", "comic", "storyboard"}
}

// EngineNames 返回受支持的生图引擎名
func EngineNames() []string {
	return []string{"flux", "sdxl", "sd15", "cascade", "pixart"}
}
