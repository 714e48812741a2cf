package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNarrationBuilder_Build(t *testing.T) {
	Convey("NarrationBuilder.Build 能整理旁白并估算时长", t, func() {
		nb := NewNarrationBuilder()

		Convey("去除 Markdown 痕迹", func() {
			unit := nb.Build("## Header\n\n**Bold** and *italic* and [link](http://example.com)", 0)
			So(unit.Text, ShouldEqual, "Header\n\nBold and italic and link")
			So(unit.WordCount, ShouldEqual, 6)
		})

		Convey("编号与场景序号对应", func() {
			unit := nb.Build("Some narration.", 2)
			So(unit.SceneIdx, ShouldEqual, 2)
			So(unit.ID, ShouldEqual, "narration_scene_003")
		})

		Convey("按 150 词每分钟估算时长", func() {
			unit := nb.Build(strings.Repeat("word ", 300), 0)
			So(unit.WordCount, ShouldEqual, 300)
			So(unit.EstimatedDurationSeconds, ShouldEqual, 120.0)
		})

		Convey("时长保留一位小数", func() {
			unit := nb.Build("one two three four five six", 0)
			So(unit.EstimatedDurationSeconds, ShouldEqual, 2.4)
		})

		Convey("语速可调，非正值忽略", func() {
			slow := NewNarrationBuilder()
			slow.SetWordsPerMinute(60)
			So(slow.Build(strings.Repeat("word ", 10), 0).EstimatedDurationSeconds, ShouldEqual, 10.0)

			kept := NewNarrationBuilder()
			kept.SetWordsPerMinute(0)
			So(kept.Build(strings.Repeat("word ", 10), 0).EstimatedDurationSeconds, ShouldEqual, 4.0)
		})

		Convey("统计对白占比", func() {
			unit := nb.Build(`"Hello there," she said quietly.`, 0)
			So(unit.DialogueRatio, ShouldEqual, 0.4)
			So(unit.HasDialogue, ShouldBeTrue)
		})

		Convey("单引号对白同样计入", func() {
			unit := nb.Build("'Run,' he shouted.", 0)
			So(unit.DialogueRatio, ShouldEqual, 0.33)
			So(unit.HasDialogue, ShouldBeTrue)
		})

		Convey("无对白时占比为零", func() {
			unit := nb.Build("He walked away without a word.", 0)
			So(unit.DialogueRatio, ShouldEqual, 0.0)
			So(unit.HasDialogue, ShouldBeFalse)
		})

		Convey("空文本产出零值旁白", func() {
			unit := nb.Build("   ", 0)
			So(unit.Text, ShouldEqual, "")
			So(unit.WordCount, ShouldEqual, 0)
			So(unit.EstimatedDurationSeconds, ShouldEqual, 0.0)
		})
	})
}
