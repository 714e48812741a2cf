package storytools

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// 场景切换标记模式，匹配位置视为叙事断点
var sceneBreakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*\*\s*\*\s*\*\s*\n`),  // *** 分隔线
	regexp.MustCompile(`\n\s*---+\s*\n`),          // --- 分隔线
	regexp.MustCompile(`\n\s*#{1,3}\s+`),          // markdown 标题
	regexp.MustCompile(`(?i)\nchapter\s+\d+`),     // 章节标题
	regexp.MustCompile(`(?i)\npart\s+\d+`),        // 部标题
	regexp.MustCompile(`\n\s*\d+\.\s+`),           // 编号标题
	regexp.MustCompile(`\n{3,}`),                  // 连续空行
}

// Scene 场景切分结果
type Scene struct {
	ID          string `json:"id"`           // 场景标识，形如 scene_001
	Index       int    `json:"index"`        // 场景序号，从 0 开始
	Text        string `json:"text"`         // 场景文本，段落间以空行连接
	StartOffset int    `json:"start_offset"` // 场景首段在原文中的字节偏移
	CharCount   int    `json:"char_count"`   // 字符数
	ParaCount   int    `json:"para_count"`   // 段落数
}

// SceneSegmenter 场景切分器，按叙事断点和字符预算将文本切分为场景
type SceneSegmenter struct {
	defaultMaxChars int
	cache           *SplitCache
}

// NewSceneSegmenter 创建场景切分器，默认每场景上限 2000 字符
func NewSceneSegmenter() *SceneSegmenter {
	return &SceneSegmenter{defaultMaxChars: 2000}
}

// SetCache 设置切分结果缓存，nil 表示不缓存
func (ss *SceneSegmenter) SetCache(cache *SplitCache) {
	ss.cache = cache
}

// Segment 将文本切分为场景序列
//
// 段落为最小单位，出现以下任一情况时开启新场景:
//   - 当前段与上一段之间存在场景切换标记
//   - 加入当前段会使场景超出 maxChars 字符预算
//
// 单段超出预算时独占一个场景。maxChars 不为正时使用默认值。
// 空文本返回 nil。
func (ss *SceneSegmenter) Segment(text string, maxChars int) []Scene {
	if maxChars <= 0 {
		maxChars = ss.defaultMaxChars
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if ss.cache != nil {
		if scenes, ok := ss.cache.Get(text, maxChars); ok {
			return scenes
		}
	}

	scenes := ss.segment(text, maxChars)
	if ss.cache != nil {
		ss.cache.Put(text, maxChars, scenes)
	}
	return scenes
}

func (ss *SceneSegmenter) segment(text string, maxChars int) []Scene {
	breaks := detectSceneBreaks(text)
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var scenes []Scene
	var current []string
	currentLen := 0
	sceneStart := 0
	searchPos := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.Join(current, "\n\n")
		scenes = append(scenes, Scene{
			ID:          fmt.Sprintf("scene_%03d", len(scenes)+1),
			Index:       len(scenes),
			Text:        joined,
			StartOffset: sceneStart,
			CharCount:   utf8.RuneCountInString(joined),
			ParaCount:   len(current),
		})
	}

	for _, para := range paragraphs {
		paraPos := strings.Index(text[searchPos:], para)
		if paraPos < 0 {
			paraPos = searchPos
		} else {
			paraPos += searchPos
		}
		paraLen := utf8.RuneCountInString(para)

		if len(current) > 0 &&
			(breakBetween(breaks, sceneStart, paraPos) || currentLen+paraLen+2 > maxChars) {
			flush()
			current = nil
			currentLen = 0
			sceneStart = paraPos
		}

		if len(current) > 0 {
			currentLen += 2
		}
		current = append(current, para)
		currentLen += paraLen
		searchPos = paraPos + len(para)
	}
	flush()

	return scenes
}

// detectSceneBreaks 返回所有场景切换标记的起始字节偏移，升序去重
func detectSceneBreaks(text string) []int {
	var offsets []int
	for _, pattern := range sceneBreakPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			offsets = append(offsets, loc[0])
		}
	}
	if len(offsets) == 0 {
		return nil
	}
	sort.Ints(offsets)
	unique := offsets[:1]
	for _, off := range offsets[1:] {
		if off != unique[len(unique)-1] {
			unique = append(unique, off)
		}
	}
	return unique
}

// breakBetween 判断 (start, pos] 区间内是否存在切换标记
func breakBetween(breaks []int, start, pos int) bool {
	for _, b := range breaks {
		if b > pos {
			return false
		}
		if b > start {
			return true
		}
	}
	return false
}
