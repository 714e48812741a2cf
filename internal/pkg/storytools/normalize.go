package storytools

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 样板行匹配模式（页码、章节标题、markdown 标题等）
var (
	pageNumberLinePattern = regexp.MustCompile(`^\d+$`)
	dashedPageLinePattern = regexp.MustCompile(`^-\s*\d+\s*-$`)
	numberedLinePattern   = regexp.MustCompile(`^\d+\.$`)
	chapterHeadingPattern = regexp.MustCompile(`(?i)^(chapter|part)\s+\d+`)
	atxHeadingPattern     = regexp.MustCompile(`^#{1,6}\s`)
	pageWordLinePattern   = regexp.MustCompile(`(?i)^page\s+\d+$`)
	excessiveBlankPattern = regexp.MustCompile(`\n{4,}`)
)

// 智能引号统一替换为对称引号
var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // 左双引号
	"”", `"`, // 右双引号
	"„", `"`, // 下双引号
	"‘", "'", // 左单引号
	"’", "'", // 右单引号
	"‚", "'", // 下单引号
)

// TextNormalizer 文本归一化器，统一换行、引号并清理行尾空白
type TextNormalizer struct {
	stripBoilerplate bool
}

// NewTextNormalizer 创建文本归一化器
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// SetStripBoilerplate 设置是否剥离页码、章节标题等样板行
func (tn *TextNormalizer) SetStripBoilerplate(strip bool) {
	tn.stripBoilerplate = strip
}

// Normalize 归一化原始文本
//
// 处理步骤:
//  1. 剥离 UTF-8 BOM
//  2. 统一 CRLF/CR 为 LF
//  3. 智能引号替换为对称引号
//  4. 清理每行行尾空白
//  5. 可选剥离样板行
//  6. 压缩 4 个以上连续换行为 3 个
func (tn *TextNormalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.TrimPrefix(raw, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = smartQuoteReplacer.Replace(text)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if tn.stripBoilerplate && isBoilerplateLine(line) {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.Join(kept, "\n")
	text = excessiveBlankPattern.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text)
}

// isBoilerplateLine 判断是否为页码、章节标题、版权声明等样板行
func isBoilerplateLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if pageNumberLinePattern.MatchString(trimmed) ||
		dashedPageLinePattern.MatchString(trimmed) ||
		numberedLinePattern.MatchString(trimmed) ||
		chapterHeadingPattern.MatchString(trimmed) ||
		atxHeadingPattern.MatchString(trimmed) ||
		pageWordLinePattern.MatchString(trimmed) {
		return true
	}

	if utf8.RuneCountInString(trimmed) < 30 {
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "all rights reserved") ||
			strings.Contains(lower, "copyright ©") ||
			strings.Contains(lower, "isbn") {
			return true
		}
	}

	return false
}
