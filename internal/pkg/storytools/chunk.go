package storytools

import (
	"strings"
	"unicode/utf8"
)

// Chunk 段落分块结果
type Chunk struct {
	Index          int    `json:"index"`           // 分块序号，从 0 开始
	Text           string `json:"text"`            // 分块文本，段落间以空行连接
	WordCount      int    `json:"word_count"`      // 词数
	ParagraphCount int    `json:"paragraph_count"` // 段落数（含重叠段）
	CharCount      int    `json:"char_count"`      // 字符数
}

// ParagraphChunker 段落分块器，按段落边界将长文本切成字符数受限的块
type ParagraphChunker struct {
	defaultMaxChars  int
	overlapSentences int
}

// NewParagraphChunker 创建段落分块器，默认每块上限 4000 字符
func NewParagraphChunker() *ParagraphChunker {
	return &ParagraphChunker{defaultMaxChars: 4000}
}

// SetOverlapSentences 设置块间重叠句数
//
// 开启后，新块以上一块末段的最后 n 句开头，作为独立段落计入段落数。
func (pc *ParagraphChunker) SetOverlapSentences(n int) {
	if n < 0 {
		n = 0
	}
	pc.overlapSentences = n
}

// Chunk 将文本按段落切分为字符数不超过 maxChars 的块
//
// 段落永不跨块切断；单段超限时整段独占一块。
// maxChars 不为正时使用默认值。空文本返回 nil。
func (pc *ParagraphChunker) Chunk(text string, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = pc.defaultMaxChars
	}

	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.Join(current, "\n\n")
		chunks = append(chunks, Chunk{
			Index:          len(chunks),
			Text:           joined,
			WordCount:      len(strings.Fields(joined)),
			ParagraphCount: len(current),
			CharCount:      utf8.RuneCountInString(joined),
		})
	}

	for _, para := range paragraphs {
		paraLen := utf8.RuneCountInString(para)
		if len(current) > 0 && currentLen+paraLen+2 > maxChars {
			lastPara := current[len(current)-1]
			flush()
			current = nil
			currentLen = 0
			if pc.overlapSentences > 0 {
				if overlap := lastSentences(lastPara, pc.overlapSentences); overlap != "" {
					current = append(current, overlap)
					currentLen = utf8.RuneCountInString(overlap)
				}
			}
		}
		if len(current) > 0 {
			currentLen += 2
		}
		current = append(current, para)
		currentLen += paraLen
	}
	flush()

	return chunks
}

// lastSentences 取段落的最后 n 句，以空格连接
func lastSentences(para string, n int) string {
	sentences := SplitSentences(para)
	if len(sentences) == 0 || n <= 0 {
		return ""
	}
	if n > len(sentences) {
		n = len(sentences)
	}
	return strings.Join(sentences[len(sentences)-n:], " ")
}
