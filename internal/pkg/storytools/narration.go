package storytools

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	markdownBoldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	markdownItalicPattern = regexp.MustCompile(`\*(.+?)\*`)
	markdownHeaderPattern = regexp.MustCompile(`#{1,6}\s*`)
	markdownLinkPattern   = regexp.MustCompile(`\[(.+?)\]\(.+?\)`)
	excessNewlinePattern  = regexp.MustCompile(`\n{3,}`)
	excessSpacePattern    = regexp.MustCompile(` {2,}`)
	dialogueSpanPattern   = regexp.MustCompile(`"[^"\n]*"|'[^'\n]*'`)
)

// NarrationUnit 场景的旁白文档
type NarrationUnit struct {
	Text                     string  `json:"text"`                       // 清理后的旁白文本
	SceneIdx                 int     `json:"scene_idx"`                  // 场景序号，从 0 开始
	ID                       string  `json:"id"`                         // narration_scene_%03d
	WordCount                int     `json:"word_count"`                 // 词数
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"` // 预计朗读时长（秒），保留一位小数
	DialogueRatio            float64 `json:"dialogue_ratio"`             // 对白词数占比，保留两位小数
	HasDialogue              bool    `json:"has_dialogue"`               // 对白占比超过 0.3 时为真
}

// NarrationBuilder 旁白构建器，按朗读语速估算时长
type NarrationBuilder struct {
	wordsPerMinute int
}

// NewNarrationBuilder 创建旁白构建器，默认语速 150 词每分钟
func NewNarrationBuilder() *NarrationBuilder {
	return &NarrationBuilder{wordsPerMinute: 150}
}

// SetWordsPerMinute 设置朗读语速，非正值忽略
func (nb *NarrationBuilder) SetWordsPerMinute(wpm int) {
	if wpm > 0 {
		nb.wordsPerMinute = wpm
	}
}

// Build 将场景文本整理为旁白文档
//
// 去除 Markdown 痕迹并收敛空白后统计词数、朗读时长与对白占比。
func (nb *NarrationBuilder) Build(sceneText string, sceneIdx int) NarrationUnit {
	narration := strings.TrimSpace(sceneText)
	narration = markdownBoldPattern.ReplaceAllString(narration, "$1")
	narration = markdownItalicPattern.ReplaceAllString(narration, "$1")
	narration = markdownHeaderPattern.ReplaceAllString(narration, "")
	narration = markdownLinkPattern.ReplaceAllString(narration, "$1")
	narration = excessNewlinePattern.ReplaceAllString(narration, "\n\n")
	narration = excessSpacePattern.ReplaceAllString(narration, " ")

	wordCount := len(strings.Fields(narration))
	duration := float64(wordCount) / float64(nb.wordsPerMinute) * 60

	dialogueWords := 0
	for _, span := range dialogueSpanPattern.FindAllString(narration, -1) {
		dialogueWords += len(strings.Fields(span))
	}
	denominator := wordCount
	if denominator < 1 {
		denominator = 1
	}
	ratio := float64(dialogueWords) / float64(denominator)

	return NarrationUnit{
		Text:                     narration,
		SceneIdx:                 sceneIdx,
		ID:                       fmt.Sprintf("narration_scene_%03d", sceneIdx+1),
		WordCount:                wordCount,
		EstimatedDurationSeconds: math.Round(duration*10) / 10,
		DialogueRatio:            math.Round(ratio*100) / 100,
		HasDialogue:              ratio > 0.3,
	}
}
