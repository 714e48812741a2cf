package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractVisualHints(t *testing.T) {
	Convey("ExtractVisualHints 能提取画面元素关键词", t, func() {
		Convey("按关键词表顺序命中各类元素", func() {
			hints := ExtractVisualHints("At dawn, rain fell over the dark forest near the mountain.")
			So(hints.Locations, ShouldResemble, []string{"forest", "mountain"})
			So(hints.TimesOfDay, ShouldResemble, []string{"dawn"})
			So(hints.Weather, ShouldResemble, []string{"rain"})
			So(hints.Atmosphere, ShouldResemble, []string{"dark"})
		})

		Convey("访问器返回各类首个命中", func() {
			hints := ExtractVisualHints("At dawn, rain fell over the dark forest near the mountain.")
			So(hints.Location(), ShouldEqual, "forest")
			So(hints.TimeOfDay(), ShouldEqual, "dawn")
			So(hints.WeatherHint(), ShouldEqual, "rain")
			So(hints.Mood(), ShouldEqual, "dark")
		})

		Convey("匹配不区分大小写", func() {
			hints := ExtractVisualHints("RAIN hammered the CASTLE at NIGHT.")
			So(hints.Location(), ShouldEqual, "castle")
			So(hints.TimeOfDay(), ShouldEqual, "night")
			So(hints.WeatherHint(), ShouldEqual, "rain")
		})

		Convey("无命中时返回空结果", func() {
			hints := ExtractVisualHints("He waited.")
			So(hints.Locations, ShouldBeEmpty)
			So(hints.Location(), ShouldEqual, "")
			So(hints.Mood(), ShouldEqual, "")
		})

		Convey("空文本返回空结果", func() {
			hints := ExtractVisualHints("")
			So(hints.TimesOfDay, ShouldBeEmpty)
			So(hints.Weather, ShouldBeEmpty)
		})
	})
}
