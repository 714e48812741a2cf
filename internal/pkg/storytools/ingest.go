package storytools

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// 读入支持的编码名，auto 为按序探测
const (
	EncodingAuto   = "auto"
	EncodingUTF8   = "utf-8"
	EncodingUTF16  = "utf-16"
	EncodingLatin1 = "latin-1"
	EncodingCP1252 = "cp1252"
	EncodingASCII  = "ascii"
)

var (
	excessBlankLinePattern = regexp.MustCompile(`\n{4,}`)
	pageNumberPattern      = regexp.MustCompile(`\n\s*\d+\s*\n`)
	pageDashNumberPattern  = regexp.MustCompile(`\n\s*-\s*\d+\s*-\s*\n`)

	chapterHeaderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^chapter\s+\d+`),
		regexp.MustCompile(`(?i)^part\s+\d+`),
		regexp.MustCompile(`^\d+\.\s*$`),
		regexp.MustCompile(`^#{1,6}\s+`),
	}
)

// IngestResult 源文本读入结果
type IngestResult struct {
	Text      string `json:"-"`          // 解码后的正文
	Encoding  string `json:"encoding"`   // 实际使用的编码
	SizeBytes int    `json:"size_bytes"` // 原始字节数
	WordCount int    `json:"word_count"` // 空白分词的词数
	CharCount int    `json:"char_count"` // 字符数
	Status    string `json:"status"`     // 人类可读的读入说明
}

// TextIngester 源文本读入器
//
// 将上传或落盘的原始字节解码为正文，自动探测常见编码，
// 可选清洗排版噪音与剔除章节标题行。
type TextIngester struct {
	encoding      string
	cleanText     bool
	removeHeaders bool
}

// NewTextIngester 创建读入器，默认自动探测编码并清洗文本
func NewTextIngester() *TextIngester {
	return &TextIngester{encoding: EncodingAuto, cleanText: true}
}

// SetEncoding 指定解码编码，空值忽略
func (ti *TextIngester) SetEncoding(name string) {
	if name != "" {
		ti.encoding = name
	}
}

// SetCleanText 设置是否清洗排版噪音
func (ti *TextIngester) SetCleanText(on bool) {
	ti.cleanText = on
}

// SetRemoveHeaders 设置是否剔除章节标题行
func (ti *TextIngester) SetRemoveHeaders(on bool) {
	ti.removeHeaders = on
}

// Decode 解码原始字节为正文文本
//
// 已知二进制容器格式与无法解码的输入返回错误；
// 解码后为空的输入不视为错误，返回零值结果。
func (ti *TextIngester) Decode(raw []byte) (IngestResult, error) {
	if len(raw) == 0 {
		return IngestResult{Encoding: ti.encoding, Status: "empty source text"}, nil
	}

	if kind, _ := filetype.Match(raw); kind != filetype.Unknown {
		return IngestResult{SizeBytes: len(raw), Status: fmt.Sprintf("unsupported binary format: %s (%s)", kind.Extension, kind.MIME.Value)},
			fmt.Errorf("unsupported binary format: %s", kind.MIME.Value)
	}

	var (
		text string
		enc  string
		err  error
	)
	if ti.encoding == EncodingAuto {
		text, enc = decodeAuto(raw)
	} else {
		enc = ti.encoding
		text, err = decodeAs(raw, ti.encoding)
		if err != nil {
			return IngestResult{SizeBytes: len(raw), Encoding: enc, Status: fmt.Sprintf("decode failed: %v", err)}, err
		}
	}

	if ti.cleanText {
		text = cleanIngested(text)
	}
	if ti.removeHeaders {
		text = removeChapterHeaders(text)
	}

	result := IngestResult{
		Text:      text,
		Encoding:  enc,
		SizeBytes: len(raw),
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
	if strings.TrimSpace(text) == "" {
		result.Status = "empty source text"
		return result, nil
	}
	result.Status = fmt.Sprintf("Encoding: %s\nSize: %d bytes\nWords: %d\nCharacters: %d",
		enc, result.SizeBytes, result.WordCount, result.CharCount)
	return result, nil
}

// decodeAuto 按 utf-8、utf-16(BOM)、latin-1 的顺序探测解码
func decodeAuto(raw []byte) (string, string) {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		return string(raw[3:]), EncodingUTF8
	}
	if text, ok := decodeUTF16(raw); ok {
		return text, EncodingUTF16
	}
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8
	}
	// latin-1 对任意字节都可解码，作为兜底
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), EncodingLatin1
	}
	return string(text), EncodingLatin1
}

// decodeAs 按指定编码解码
func decodeAs(raw []byte, name string) (string, error) {
	switch name {
	case EncodingUTF8:
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid utf-8 byte sequence")
		}
		return strings.TrimPrefix(string(raw), "\ufeff"), nil
	case EncodingUTF16:
		if text, ok := decodeUTF16(raw); ok {
			return text, nil
		}
		// 无 BOM 时按小端解码
		decoded, err := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	case EncodingLatin1:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	case EncodingCP1252:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	case EncodingASCII:
		for i := 0; i < len(raw); i++ {
			if raw[i] > 0x7F {
				return "", fmt.Errorf("non-ascii byte 0x%02x at offset %d", raw[i], i)
			}
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// decodeUTF16 依据 BOM 解码 utf-16，无 BOM 返回 false
func decodeUTF16(raw []byte) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	var endian xunicode.Endianness
	switch {
	case raw[0] == 0xFF && raw[1] == 0xFE:
		endian = xunicode.LittleEndian
	case raw[0] == 0xFE && raw[1] == 0xFF:
		endian = xunicode.BigEndian
	default:
		return "", false
	}
	decoded, err := xunicode.UTF16(endian, xunicode.ExpectBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// cleanIngested 清洗排版噪音：BOM、换行、多余空行、行尾空白、弯引号、页码
func cleanIngested(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = excessBlankLinePattern.ReplaceAllString(text, "\n\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	text = strings.Join(lines, "\n")

	text = smartQuoteReplacer.Replace(text)
	text = pageNumberPattern.ReplaceAllString(text, "\n")
	text = pageDashNumberPattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// removeChapterHeaders 剔除章节标题行
func removeChapterHeaders(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isChapterHeader(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isChapterHeader(line string) bool {
	for _, pattern := range chapterHeaderPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
