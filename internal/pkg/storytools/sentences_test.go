package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitParagraphs(t *testing.T) {
	Convey("SplitParagraphs 能按空行切分段落", t, func() {
		Convey("空文本应返回空结果", func() {
			So(SplitParagraphs(""), ShouldBeEmpty)
			So(SplitParagraphs("   \n\n  \n\n "), ShouldBeEmpty)
		})

		Convey("按空行切分并去除首尾空白", func() {
			paragraphs := SplitParagraphs("  first para \n\nsecond para\n\n\n\nthird para  ")
			So(paragraphs, ShouldResemble, []string{"first para", "second para", "third para"})
		})

		Convey("单段文本返回单个段落", func() {
			paragraphs := SplitParagraphs("only one paragraph here")
			So(len(paragraphs), ShouldEqual, 1)
			So(paragraphs[0], ShouldEqual, "only one paragraph here")
		})
	})
}

func TestSplitSentences(t *testing.T) {
	Convey("SplitSentences 能按句末标点切分句子", t, func() {
		Convey("空文本应返回空结果", func() {
			So(SplitSentences(""), ShouldBeEmpty)
		})

		Convey("按句号、问号、叹号切分", func() {
			sentences := SplitSentences("Hello world. How are you? Great! Done.")
			So(sentences, ShouldResemble, []string{
				"Hello world.", "How are you?", "Great!", "Done.",
			})
		})

		Convey("连续标点归入前一句", func() {
			sentences := SplitSentences("Wait... what? Really?!")
			So(sentences, ShouldResemble, []string{"Wait...", "what?", "Really?!"})
		})

		Convey("无句末标点时整段作为一句", func() {
			sentences := SplitSentences("no punctuation at all")
			So(sentences, ShouldResemble, []string{"no punctuation at all"})
		})

		Convey("句内小数点不切分", func() {
			sentences := SplitSentences("Version 2.5 works fine. Next sentence.")
			So(len(sentences), ShouldEqual, 2)
			So(sentences[0], ShouldEqual, "Version 2.5 works fine.")
		})
	})
}

func TestTruncateRunes(t *testing.T) {
	Convey("truncateRunes 能按字符数截断", t, func() {
		So(truncateRunes("hello", 3), ShouldEqual, "hel")
		So(truncateRunes("héllo", 2), ShouldEqual, "hé")
		So(truncateRunes("short", 10), ShouldEqual, "short")
		So(truncateRunes("any", 0), ShouldEqual, "")
	})
}
