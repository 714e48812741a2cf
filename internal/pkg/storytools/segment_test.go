package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSceneSegmenter_Segment(t *testing.T) {
	Convey("SceneSegmenter.Segment 能按叙事断点和预算切分场景", t, func() {
		ss := NewSceneSegmenter()

		Convey("空文本应返回 nil", func() {
			So(ss.Segment("", 500), ShouldBeNil)
			So(ss.Segment("   \n\n  ", 500), ShouldBeNil)
		})

		Convey("*** 分隔线开启新场景", func() {
			scenes := ss.Segment("Para one.\n\n***\n\nPara two.", 500)
			So(len(scenes), ShouldEqual, 2)
			So(scenes[0].ID, ShouldEqual, "scene_001")
			So(scenes[0].Index, ShouldEqual, 0)
			So(scenes[0].Text, ShouldEqual, "Para one.")
			So(scenes[0].StartOffset, ShouldEqual, 0)
			// 分隔线段落归入新场景的开头
			So(scenes[1].ID, ShouldEqual, "scene_002")
			So(scenes[1].Text, ShouldEqual, "***\n\nPara two.")
			So(scenes[1].StartOffset, ShouldEqual, 11)
		})

		Convey("--- 分隔线开启新场景", func() {
			scenes := ss.Segment("Before the line.\n\n----\n\nAfter the line.", 500)
			So(len(scenes), ShouldEqual, 2)
			So(scenes[1].Text, ShouldContainSubstring, "After the line.")
		})

		Convey("markdown 标题开启新场景", func() {
			scenes := ss.Segment("Intro text.\n\n## Battle\n\nThe fight begins.", 500)
			So(len(scenes), ShouldEqual, 2)
			So(scenes[0].Text, ShouldEqual, "Intro text.")
			So(scenes[1].Text, ShouldEqual, "## Battle\n\nThe fight begins.")
		})

		Convey("章节标题开启新场景", func() {
			scenes := ss.Segment("End of one.\n\nChapter 2\n\nNew day.", 500)
			So(len(scenes), ShouldEqual, 2)
			So(strings.HasPrefix(scenes[1].Text, "Chapter 2"), ShouldBeTrue)
		})

		Convey("超出预算时在段落边界断开", func() {
			para := strings.Repeat("a", 900)
			scenes := ss.Segment(para+"\n\n"+para+"\n\n"+para, 2000)
			So(len(scenes), ShouldEqual, 2)
			So(scenes[0].CharCount, ShouldEqual, 1802)
			So(scenes[0].ParaCount, ShouldEqual, 2)
			So(scenes[1].CharCount, ShouldEqual, 900)
			So(scenes[1].ParaCount, ShouldEqual, 1)
			So(scenes[1].StartOffset, ShouldEqual, 1804)
		})

		Convey("maxChars 不为正时使用默认预算", func() {
			para := strings.Repeat("b", 900)
			scenes := ss.Segment(para+"\n\n"+para+"\n\n"+para, 0)
			So(len(scenes), ShouldEqual, 2)
		})

		Convey("单段超出预算时独占场景", func() {
			scenes := ss.Segment(strings.Repeat("c", 2500), 2000)
			So(len(scenes), ShouldEqual, 1)
			So(scenes[0].CharCount, ShouldEqual, 2500)
		})

		Convey("注入缓存后重复切分命中缓存", func() {
			cached := NewSceneSegmenter()
			cache := NewSplitCache(4)
			cached.SetCache(cache)
			text := "Para one.\n\n***\n\nPara two."
			first := cached.Segment(text, 500)
			So(cache.Len(), ShouldEqual, 1)
			second := cached.Segment(text, 500)
			So(second, ShouldResemble, first)
		})
	})
}
