package storytools

import (
	"fmt"
	"sort"
	"strings"
)

// 音效关键词表，每个关键词对应一到两个候选音景描述，首个为主描述
var sfxKeywordTable = []struct {
	keyword string
	prompts []string
}{
	// 天气
	{"rain", []string{"rain ambience, water drops, wet surface", "light rain, gentle patter"}},
	{"storm", []string{"thunderstorm, heavy rain, thunder rumble", "storm ambience, wind howling"}},
	{"thunder", []string{"thunder crack, distant rumble, lightning"}},
	{"wind", []string{"wind blowing, air movement, breeze"}},
	{"snow", []string{"snow falling, winter ambience, soft crunch"}},

	// 自然环境
	{"forest", []string{"forest ambience, birds chirping, leaves rustling, nature sounds"}},
	{"ocean", []string{"ocean waves, seashore, water splashing, seagulls"}},
	{"river", []string{"flowing water, stream, river ambience"}},
	{"city", []string{"city ambience, traffic, distant sirens, urban soundscape"}},
	{"crowd", []string{"crowd murmur, people talking, busy atmosphere"}},
	{"market", []string{"marketplace bustle, vendors calling, busy crowd"}},

	// 室内
	{"fire", []string{"crackling fire, fireplace, warm flames"}},
	{"door", []string{"door opening, door closing, wooden creak"}},
	{"footsteps", []string{"footsteps, walking sounds"}},
	{"clock", []string{"clock ticking, time passing"}},

	// 动作
	{"battle", []string{"battle sounds, swords clashing, combat"}},
	{"fight", []string{"fighting sounds, punches, impacts"}},
	{"sword", []string{"sword slash, metal clang, blade ring"}},
	{"gun", []string{"gunshot, weapon fire"}},
	{"explosion", []string{"explosion, blast, debris"}},
	{"running", []string{"running footsteps, rapid movement"}},
	{"chase", []string{"chase music tension, running, pursuit"}},

	// 情绪
	{"crying", []string{"soft crying, emotional moment, tears"}},
	{"laughing", []string{"laughter, joyful sounds"}},
	{"scream", []string{"scream, shout, alarmed voice"}},
	{"whisper", []string{"whispered voices, quiet conversation"}},

	// 动物
	{"horse", []string{"horse galloping, hooves, neigh"}},
	{"dog", []string{"dog barking, animal sounds"}},
	{"bird", []string{"birds chirping, bird calls"}},
	{"wolf", []string{"wolf howl, wild animal"}},

	// 时段
	{"morning", []string{"morning ambience, birds, sunrise atmosphere"}},
	{"night", []string{"night ambience, crickets, owl, darkness"}},
	{"dawn", []string{"dawn sounds, early morning, quiet awakening"}},
	{"dusk", []string{"evening ambience, sunset sounds"}},
}

// 关键词到音效类别的归属，表外关键词归入 other
var sfxCategories = []struct {
	name     string
	keywords []string
}{
	{"weather", []string{"rain", "storm", "thunder", "wind", "snow"}},
	{"nature", []string{"forest", "ocean", "river", "bird", "wolf"}},
	{"urban", []string{"city", "crowd", "market", "traffic"}},
	{"action", []string{"battle", "fight", "sword", "gun", "explosion", "running", "chase"}},
	{"interior", []string{"fire", "door", "footsteps", "clock"}},
	{"emotional", []string{"crying", "laughing", "scream", "whisper"}},
	{"time", []string{"morning", "night", "dawn", "dusk"}},
}

// SFXCue 单条音效线索
type SFXCue struct {
	Keyword  string   `json:"keyword"`  // 命中的关键词
	Prompts  []string `json:"prompts"`  // 候选音景描述
	Priority int      `json:"priority"` // 关键词在文本中的出现次数
	Prompt   string   `json:"prompt"`   // 主音景描述
}

// SceneSFX 场景的音效线索集合
type SceneSFX struct {
	Cues           []SFXCue `json:"cues"`            // 线索列表，按类别分组排序
	CombinedPrompt string   `json:"combined_prompt"` // 前 5 条主描述的拼接
	SceneIdx       int      `json:"scene_idx"`       // 场景序号，从 0 开始
	ID             string   `json:"id"`              // sfx_scene_%03d
	CueCount       int      `json:"cue_count"`       // 线索数
}

// SFXCueComposer 音效线索合成器
//
// 对场景文本做小写子串匹配，命中次数作为优先级，
// 每个类别保留优先级最高的两条。
type SFXCueComposer struct{}

// NewSFXCueComposer 创建音效线索合成器
func NewSFXCueComposer() *SFXCueComposer {
	return &SFXCueComposer{}
}

// Compose 合成场景的音效线索
//
// 无任何关键词命中时给出默认的室内底噪线索，优先级 1。
func (sc *SFXCueComposer) Compose(sceneText string, sceneIdx int) SceneSFX {
	lower := strings.ToLower(sceneText)

	grouped := make(map[string][]SFXCue)
	var categoryOrder []string
	for _, entry := range sfxKeywordTable {
		count := strings.Count(lower, entry.keyword)
		if count == 0 {
			continue
		}
		category := categorizeSFX(entry.keyword)
		if _, seen := grouped[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		grouped[category] = append(grouped[category], SFXCue{
			Keyword:  entry.keyword,
			Prompts:  entry.prompts,
			Priority: count,
			Prompt:   entry.prompts[0],
		})
	}

	var cues []SFXCue
	for _, category := range categoryOrder {
		candidates := grouped[category]
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Priority > candidates[j].Priority
		})
		if len(candidates) > 2 {
			candidates = candidates[:2]
		}
		cues = append(cues, candidates...)
	}

	if len(cues) == 0 {
		cues = append(cues, SFXCue{
			Keyword:  "ambient",
			Prompts:  []string{"subtle room tone", "quiet background ambience"},
			Priority: 1,
			Prompt:   "subtle room tone ambience",
		})
	}

	primary := make([]string, 0, 5)
	for _, cue := range cues {
		if len(primary) == 5 {
			break
		}
		primary = append(primary, cue.Prompt)
	}

	return SceneSFX{
		Cues:           cues,
		CombinedPrompt: strings.Join(primary, ", "),
		SceneIdx:       sceneIdx,
		ID:             fmt.Sprintf("sfx_scene_%03d", sceneIdx+1),
		CueCount:       len(cues),
	}
}

// categorizeSFX 返回关键词所属的音效类别
func categorizeSFX(keyword string) string {
	for _, cat := range sfxCategories {
		for _, kw := range cat.keywords {
			if kw == keyword {
				return cat.name
			}
		}
	}
	return "other"
}
