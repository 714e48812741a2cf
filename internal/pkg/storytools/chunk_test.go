package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParagraphChunker_Chunk(t *testing.T) {
	Convey("ParagraphChunker.Chunk 能按段落边界切分长文本", t, func() {
		pc := NewParagraphChunker()

		Convey("空文本应返回 nil", func() {
			So(pc.Chunk("", 100), ShouldBeNil)
			So(pc.Chunk("  \n\n  ", 100), ShouldBeNil)
		})

		Convey("短文本归入单块", func() {
			chunks := pc.Chunk("One two three.", 100)
			So(len(chunks), ShouldEqual, 1)
			So(chunks[0].Index, ShouldEqual, 0)
			So(chunks[0].Text, ShouldEqual, "One two three.")
			So(chunks[0].WordCount, ShouldEqual, 3)
			So(chunks[0].ParagraphCount, ShouldEqual, 1)
			So(chunks[0].CharCount, ShouldEqual, 14)
		})

		Convey("超出预算时在段落边界断开", func() {
			para := strings.Repeat("a", 60)
			chunks := pc.Chunk(para+"\n\n"+para+"\n\n"+para, 130)
			So(len(chunks), ShouldEqual, 2)
			// 前两段加空行共 122 字符，第三段放不下
			So(chunks[0].ParagraphCount, ShouldEqual, 2)
			So(chunks[0].CharCount, ShouldEqual, 122)
			So(chunks[1].Index, ShouldEqual, 1)
			So(chunks[1].ParagraphCount, ShouldEqual, 1)
			So(chunks[1].CharCount, ShouldEqual, 60)
		})

		Convey("单段超限时独占一块", func() {
			text := "tiny\n\n" + strings.Repeat("b", 300) + "\n\ntiny"
			chunks := pc.Chunk(text, 100)
			So(len(chunks), ShouldEqual, 3)
			So(chunks[1].CharCount, ShouldEqual, 300)
		})

		Convey("maxChars 不为正时使用默认上限", func() {
			para := strings.Repeat("c", 100)
			chunks := pc.Chunk(para+"\n\n"+para, 0)
			So(len(chunks), ShouldEqual, 1)
			So(chunks[0].CharCount, ShouldEqual, 202)
		})

		Convey("开启重叠后新块以上一块末句开头", func() {
			overlapping := NewParagraphChunker()
			overlapping.SetOverlapSentences(1)
			paraA := "First sentence here. Second sentence here."
			paraB := strings.Repeat("d", 100)
			chunks := overlapping.Chunk(paraA+"\n\n"+paraB, 50)
			So(len(chunks), ShouldEqual, 2)
			So(chunks[0].Text, ShouldEqual, paraA)
			So(chunks[1].ParagraphCount, ShouldEqual, 2)
			So(strings.HasPrefix(chunks[1].Text, "Second sentence here."), ShouldBeTrue)
		})

		Convey("重叠句数为负时视为不重叠", func() {
			plain := NewParagraphChunker()
			plain.SetOverlapSentences(-3)
			para := strings.Repeat("e", 60)
			chunks := plain.Chunk(para+"\n\n"+para, 70)
			So(len(chunks), ShouldEqual, 2)
			So(chunks[1].ParagraphCount, ShouldEqual, 1)
		})
	})
}
