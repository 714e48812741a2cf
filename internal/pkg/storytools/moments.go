package storytools

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// 关键时刻模式，每项带类型标签和重要度权重，匹配小写文本
var importancePatterns = []struct {
	pattern *regexp.Regexp
	label   string
	weight  float64
}{
	{regexp.MustCompile(`\bfor the first time\b`), "first_encounter", 1.5},
	{regexp.MustCompile(`\bsuddenly\b`), "sudden_event", 1.3},
	{regexp.MustCompile(`\brealized\b`), "realization", 1.2},
	{regexp.MustCompile(`\bdiscovered\b`), "discovery", 1.4},
	{regexp.MustCompile(`\bfinally\b`), "culmination", 1.3},
	{regexp.MustCompile(`\bnever before\b`), "unique_event", 1.4},
	{regexp.MustCompile(`\bchanged everything\b`), "turning_point", 1.5},
	{regexp.MustCompile(`\blast\b.*\btime\b`), "finality", 1.3},
	{regexp.MustCompile(`\bdeath\b|\bdied\b|\bkilled\b`), "death", 1.5},
	{regexp.MustCompile(`\blove\b|\bkiss\b|\bembrace\b`), "romance", 1.3},
	{regexp.MustCompile(`\bwar\b|\bbattle\b|\bfight\b`), "conflict", 1.4},
	{regexp.MustCompile(`\bvictory\b|\bwon\b|\btriumph\b`), "victory", 1.4},
	{regexp.MustCompile(`\bdefeat\b|\blost\b|\bfailed\b`), "defeat", 1.3},
	{regexp.MustCompile(`\bsecret\b|\bhidden\b|\brevealed\b`), "revelation", 1.3},
}

// KeyMoment 关键时刻提取结果
type KeyMoment struct {
	ParagraphIndex  int      `json:"paragraph_index"`  // 段落序号，从 0 开始
	Importance      float64  `json:"importance"`       // 重要度，保留两位小数
	MomentTypes     []string `json:"moment_types"`     // 命中的类型标签
	TextSnippet     string   `json:"text_snippet"`     // 段落首句，最长 200 字符
	FullParagraph   string   `json:"full_paragraph"`   // 完整段落
	SuggestedPrompt string   `json:"suggested_prompt"` // 建议的画面提示词
}

// KeyMomentExtractor 关键时刻提取器
//
// 逐段匹配时刻模式，重要度取命中权重的最大值（基线 1.0），
// 达到阈值的段落视为关键时刻。
type KeyMomentExtractor struct {
	defaultThreshold float64
}

// NewKeyMomentExtractor 创建关键时刻提取器，默认阈值 1.3
func NewKeyMomentExtractor() *KeyMomentExtractor {
	return &KeyMomentExtractor{defaultThreshold: 1.3}
}

// Extract 提取重要度达到阈值的段落
//
// 结果按重要度降序排列，同分保持段落先后顺序。
// threshold 不为正时使用默认阈值。空文本返回 nil。
func (ke *KeyMomentExtractor) Extract(text string, threshold float64) []KeyMoment {
	if threshold <= 0 {
		threshold = ke.defaultThreshold
	}
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var moments []KeyMoment
	for idx, para := range paragraphs {
		lower := strings.ToLower(para)
		var types []string
		importance := 1.0
		for _, ip := range importancePatterns {
			if ip.pattern.MatchString(lower) {
				types = append(types, ip.label)
				importance = math.Max(importance, ip.weight)
			}
		}
		if importance < threshold {
			continue
		}

		sentence := firstSentence(para)
		moments = append(moments, KeyMoment{
			ParagraphIndex:  idx,
			Importance:      math.Round(importance*100) / 100,
			MomentTypes:     types,
			TextSnippet:     truncateRunes(sentence, 200),
			FullParagraph:   para,
			SuggestedPrompt: fmt.Sprintf("Key moment: %s, %s", strings.Join(types, ", "), truncateRunes(sentence, 100)),
		})
	}

	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Importance > moments[j].Importance
	})
	return moments
}
