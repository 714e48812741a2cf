package storytools

import "strings"

// SceneType 场景内容类型
type SceneType string

const (
	SceneTypeAction      SceneType = "action"      // 动作场景
	SceneTypeDialogue    SceneType = "dialogue"    // 对话场景
	SceneTypeDescriptive SceneType = "descriptive" // 描写场景
	SceneTypeMixed       SceneType = "mixed"       // 混合场景
)

// 各类型的关键词表，匹配不区分大小写
var (
	actionKeywords = []string{
		"fight", "battle", "ran", "running", "chase", "attacked", "explosion",
		"sword", "gun", "punch", "kick", "dodge", "jump", "fell", "crash",
		"scream", "shout", "quick", "fast", "sudden", "burst", "race",
	}
	dialogueKeywords = []string{
		"said", "asked", "replied", "whispered", "shouted", "muttered",
		"spoke", "told", "answered", "exclaimed", "murmured", "stammered",
	}
	descriptiveKeywords = []string{
		"beautiful", "ancient", "vast", "silent", "peaceful", "serene",
		"landscape", "horizon", "sky", "mountain", "forest", "ocean",
		"slowly", "gently", "quietly", "calmly",
	}
)

// Classification 场景分类结果
type Classification struct {
	Type       SceneType `json:"type"`       // 场景类型
	Multiplier float64   `json:"multiplier"` // 镜头密度系数
	Density    int       `json:"density"`    // 建议镜头数，已钳制在 [2, 24]
}

// ContentClassifier 场景内容分类器
//
// 统计三类关键词的子串出现次数，取最高者定类型；最高分不足 2 时归为
// mixed。类型系数乘以基准密度得到该场景的建议镜头数。
type ContentClassifier struct {
	actionMultiplier      float64
	dialogueMultiplier    float64
	descriptiveMultiplier float64
	baseDensity           int
}

// NewContentClassifier 创建分类器，默认系数 action 1.5 / dialogue 1.0 /
// descriptive 0.7，基准密度 6
func NewContentClassifier() *ContentClassifier {
	return &ContentClassifier{
		actionMultiplier:      1.5,
		dialogueMultiplier:    1.0,
		descriptiveMultiplier: 0.7,
		baseDensity:           6,
	}
}

// SetMultipliers 设置各类型的镜头密度系数
func (cc *ContentClassifier) SetMultipliers(action, dialogue, descriptive float64) {
	cc.actionMultiplier = action
	cc.dialogueMultiplier = dialogue
	cc.descriptiveMultiplier = descriptive
}

// SetBaseDensity 设置基准镜头密度
func (cc *ContentClassifier) SetBaseDensity(n int) {
	if n > 0 {
		cc.baseDensity = n
	}
}

// Classify 对场景文本分类并给出建议镜头密度
//
// 得分并列时按 action、dialogue、descriptive 的优先级取类型。
func (cc *ContentClassifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	actionScore := keywordOccurrences(lower, actionKeywords)
	dialogueScore := keywordOccurrences(lower, dialogueKeywords)
	descriptiveScore := keywordOccurrences(lower, descriptiveKeywords)

	maxScore := actionScore
	if dialogueScore > maxScore {
		maxScore = dialogueScore
	}
	if descriptiveScore > maxScore {
		maxScore = descriptiveScore
	}

	sceneType := SceneTypeMixed
	multiplier := 1.0
	switch {
	case maxScore < 2:
		// 证据不足，按 mixed 处理
	case actionScore == maxScore:
		sceneType = SceneTypeAction
		multiplier = cc.actionMultiplier
	case dialogueScore == maxScore:
		sceneType = SceneTypeDialogue
		multiplier = cc.dialogueMultiplier
	default:
		sceneType = SceneTypeDescriptive
		multiplier = cc.descriptiveMultiplier
	}

	return Classification{
		Type:       sceneType,
		Multiplier: multiplier,
		Density:    ClampDensity(cc.baseDensity, multiplier),
	}
}

// ClampDensity 按系数缩放基准密度并钳制在 [2, 24]
func ClampDensity(base int, multiplier float64) int {
	density := int(float64(base) * multiplier)
	if density < 2 {
		density = 2
	}
	if density > 24 {
		density = 24
	}
	return density
}

// keywordOccurrences 统计关键词子串出现次数之和
func keywordOccurrences(lower string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(lower, kw)
	}
	return total
}
