package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSFXCueComposer_Compose(t *testing.T) {
	Convey("SFXCueComposer.Compose 能合成场景音效线索", t, func() {
		sc := NewSFXCueComposer()

		Convey("命中次数作为优先级", func() {
			sfx := sc.Compose("Rain fell on the forest. The rain soaked Elena. Thunder rolled.", 0)
			So(sfx.CueCount, ShouldEqual, 3)
			So(sfx.Cues[0].Keyword, ShouldEqual, "rain")
			So(sfx.Cues[0].Priority, ShouldEqual, 2)
			So(sfx.Cues[0].Prompt, ShouldEqual, "rain ambience, water drops, wet surface")
			So(sfx.Cues[1].Keyword, ShouldEqual, "thunder")
			So(sfx.Cues[2].Keyword, ShouldEqual, "forest")
			So(sfx.ID, ShouldEqual, "sfx_scene_001")
			So(sfx.SceneIdx, ShouldEqual, 0)
			So(sfx.CombinedPrompt, ShouldContainSubstring, "rain ambience")
		})

		Convey("每个类别最多保留两条", func() {
			sfx := sc.Compose("Rain, rain, rain. The storm grew and the storm howled with wind and thunder.", 1)
			So(sfx.CueCount, ShouldEqual, 2)
			So(sfx.Cues[0].Keyword, ShouldEqual, "rain")
			So(sfx.Cues[1].Keyword, ShouldEqual, "storm")
			So(sfx.ID, ShouldEqual, "sfx_scene_002")
		})

		Convey("拼接描述最多取前五条", func() {
			sfx := sc.Compose("Rain hit the forest city door as the battle raged; someone was crying at night.", 0)
			So(sfx.CueCount, ShouldEqual, 7)
			So(sfx.CombinedPrompt, ShouldContainSubstring, "battle sounds, swords clashing")
			So(sfx.CombinedPrompt, ShouldNotContainSubstring, "soft crying")
			So(sfx.CombinedPrompt, ShouldNotContainSubstring, "night ambience")
		})

		Convey("无命中时给出默认底噪线索", func() {
			sfx := sc.Compose("Quiet words passed between them.", 2)
			So(sfx.CueCount, ShouldEqual, 1)
			So(sfx.Cues[0].Keyword, ShouldEqual, "ambient")
			So(sfx.Cues[0].Priority, ShouldEqual, 1)
			So(sfx.CombinedPrompt, ShouldEqual, "subtle room tone ambience")
			So(sfx.ID, ShouldEqual, "sfx_scene_003")
		})
	})
}

func TestCategorizeSFX(t *testing.T) {
	Convey("categorizeSFX 能归类音效关键词", t, func() {
		So(categorizeSFX("rain"), ShouldEqual, "weather")
		So(categorizeSFX("forest"), ShouldEqual, "nature")
		So(categorizeSFX("battle"), ShouldEqual, "action")
		So(categorizeSFX("clock"), ShouldEqual, "interior")
		// 表外关键词归入 other
		So(categorizeSFX("horse"), ShouldEqual, "other")
		So(categorizeSFX("dog"), ShouldEqual, "other")
	})
}
