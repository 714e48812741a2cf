package storytools

import (
	"strings"
	"unicode"
)

// SplitParagraphs 按空行切分段落，去除首尾空白并丢弃空段
func SplitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// SplitSentences 按句末标点（. ! ?）后跟空白的位置切分句子
//
// 连续标点（如省略号、!?）归入前一句，句内标点不切分。
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		// 吞掉连续的句末标点
		j := i + 1
		for j < len(runes) && isSentenceEnd(runes[j]) {
			j++
		}
		if j < len(runes) && unicode.IsSpace(runes[j]) {
			if s := strings.TrimSpace(string(runes[start:j])); s != "" {
				sentences = append(sentences, s)
			}
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
		}
		i = j - 1
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// firstSentence 返回文本的第一个句子，找不到句子边界时返回整段
func firstSentence(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	return sentences[0]
}

// truncateRunes 按字符数截断文本，不足时原样返回
func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
