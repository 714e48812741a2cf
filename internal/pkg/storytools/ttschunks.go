package storytools

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-ego/gse"
)

var markdownUnderscorePattern = regexp.MustCompile(`_(.+?)_`)

// TTSChunk 单条语音合成分块
type TTSChunk struct {
	Index            int     `json:"index"`             // 全局分块序号，从 0 开始
	SceneIdx         int     `json:"scene_idx"`         // 所属场景序号
	Text             string  `json:"text"`              // 分块文本
	CharCount        int     `json:"char_count"`        // 字符数
	WordCount        int     `json:"word_count"`        // 词数
	EstimatedSeconds float64 `json:"estimated_seconds"` // 预计语音时长（秒），按 15 字符每秒
	IsSceneEnd       bool    `json:"is_scene_end"`      // 是否为场景的最后一块
	ID               string  `json:"id"`                // tts_chunk_%04d
}

// TTSChunker 语音分块器
//
// 将旁白按段落优先填充为长度受限的分块，过长段落退到句子边界，
// 过长句子优先在逗号处断开，无逗号时按 gse 词边界断开，最后才硬切。
type TTSChunker struct {
	maxChars  int
	addPauses bool
	segmenter *gse.Segmenter
}

// NewTTSChunker 创建语音分块器，默认每块上限 1000 字符，场景末尾追加停顿标记
func NewTTSChunker() *TTSChunker {
	tc := &TTSChunker{
		maxChars:  1000,
		addPauses: true,
	}
	// 初始化失败时 segmenter 保持 nil，退化为按字符断开
	if seg, err := gse.New(); err == nil {
		tc.segmenter = &seg
	}
	return tc
}

// SetMaxChars 设置每块字符数上限，非正值忽略
func (tc *TTSChunker) SetMaxChars(n int) {
	if n > 0 {
		tc.maxChars = n
	}
}

// SetAddPauses 设置是否在场景末块追加 " ..." 停顿标记
func (tc *TTSChunker) SetAddPauses(enabled bool) {
	tc.addPauses = enabled
}

// Chunk 将旁白列表切分为语音分块
//
// 每个旁白的最后一块标记 is_scene_end。空旁白跳过，空列表返回 nil。
func (tc *TTSChunker) Chunk(narrations []NarrationUnit) []TTSChunk {
	var chunks []TTSChunk

	appendChunk := func(text string, sceneIdx int, sceneEnd bool) {
		if tc.addPauses && sceneEnd {
			text = strings.TrimRight(text, " \t\n") + " ..."
		}
		charCount := utf8.RuneCountInString(text)
		chunks = append(chunks, TTSChunk{
			Index:            len(chunks),
			SceneIdx:         sceneIdx,
			Text:             text,
			CharCount:        charCount,
			WordCount:        len(strings.Fields(text)),
			EstimatedSeconds: float64(charCount) / 15,
			IsSceneEnd:       sceneEnd,
			ID:               fmt.Sprintf("tts_chunk_%04d", len(chunks)),
		})
	}

	for _, unit := range narrations {
		text := cleanForTTS(unit.Text)
		if text == "" {
			continue
		}

		current := ""
		for _, para := range SplitParagraphs(text) {
			paraLen := utf8.RuneCountInString(para)
			if utf8.RuneCountInString(current)+paraLen+2 <= tc.maxChars {
				if current != "" {
					current += "\n\n" + para
				} else {
					current = para
				}
				continue
			}

			if current != "" {
				appendChunk(current, unit.SceneIdx, false)
			}
			if paraLen <= tc.maxChars {
				current = para
				continue
			}

			// 段落超限，退到句子边界
			current = ""
			for _, sentence := range SplitSentences(para) {
				sentenceLen := utf8.RuneCountInString(sentence)
				if utf8.RuneCountInString(current)+sentenceLen+1 <= tc.maxChars {
					current = strings.TrimSpace(current + " " + sentence)
					continue
				}
				if current != "" {
					appendChunk(current, unit.SceneIdx, false)
				}
				if sentenceLen <= tc.maxChars {
					current = sentence
					continue
				}
				// 句子仍超限，强制断开
				parts := tc.forceSplit(sentence)
				for _, part := range parts[:len(parts)-1] {
					appendChunk(part, unit.SceneIdx, false)
				}
				current = parts[len(parts)-1]
			}
		}

		if current != "" {
			appendChunk(current, unit.SceneIdx, true)
		}
	}
	return chunks
}

// TotalEstimatedSeconds 计算分块总语音时长（秒）
func TotalEstimatedSeconds(chunks []TTSChunk) float64 {
	totalChars := 0
	for _, c := range chunks {
		totalChars += c.CharCount
	}
	return float64(totalChars) / 15
}

// forceSplit 强制断开超长句子
//
// 有逗号时在逗号处累积断开，否则按词边界断开，单词仍超长时硬切。
func (tc *TTSChunker) forceSplit(sentence string) []string {
	if strings.Contains(sentence, ",") {
		var parts []string
		current := ""
		for _, seg := range strings.Split(sentence, ",") {
			if utf8.RuneCountInString(current)+utf8.RuneCountInString(seg)+1 <= tc.maxChars {
				current = strings.TrimSpace(strings.Trim(current+","+seg, ","))
			} else {
				if current != "" {
					parts = append(parts, current)
				}
				current = strings.TrimSpace(seg)
			}
		}
		if current != "" {
			parts = append(parts, current)
		}
		if len(parts) > 0 {
			return parts
		}
	}

	var parts []string
	current := ""
	for _, word := range tc.cutWords(sentence) {
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(word) <= tc.maxChars {
			current += word
			continue
		}
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			parts = append(parts, trimmed)
		}
		if utf8.RuneCountInString(word) > tc.maxChars {
			pieces := hardCutRunes(word, tc.maxChars)
			for _, piece := range pieces[:len(pieces)-1] {
				parts = append(parts, piece)
			}
			current = pieces[len(pieces)-1]
		} else {
			current = word
		}
	}
	if trimmed := strings.TrimSpace(current); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		parts = append(parts, sentence)
	}
	return parts
}

// cutWords 返回句子的词序列，无分词器时退化为按字符切分
func (tc *TTSChunker) cutWords(sentence string) []string {
	if tc.segmenter != nil {
		return tc.segmenter.Cut(sentence, false)
	}
	words := make([]string, 0, utf8.RuneCountInString(sentence))
	for _, r := range sentence {
		words = append(words, string(r))
	}
	return words
}

// hardCutRunes 按字符数硬切文本
func hardCutRunes(text string, maxLen int) []string {
	runes := []rune(text)
	var parts []string
	for start := 0; start < len(runes); start += maxLen {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// cleanForTTS 为语音合成清理文本
//
// 去除 Markdown 痕迹，统一智能引号，收敛多余空白。
func cleanForTTS(text string) string {
	text = markdownBoldPattern.ReplaceAllString(text, "$1")
	text = markdownItalicPattern.ReplaceAllString(text, "$1")
	text = markdownUnderscorePattern.ReplaceAllString(text, "$1")
	text = markdownHeaderPattern.ReplaceAllString(text, "")
	text = smartQuoteReplacer.Replace(text)
	text = excessNewlinePattern.ReplaceAllString(text, "\n\n")
	text = excessSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
