package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration 能格式化人类可读时长", t, func() {
		So(FormatDuration(0), ShouldEqual, "0s")
		So(FormatDuration(45), ShouldEqual, "45s")
		So(FormatDuration(59.9), ShouldEqual, "59s")
		So(FormatDuration(60), ShouldEqual, "1m 0s")
		So(FormatDuration(125), ShouldEqual, "2m 5s")
		So(FormatDuration(3599), ShouldEqual, "59m 59s")
		So(FormatDuration(3600), ShouldEqual, "1h 0m 0s")
		So(FormatDuration(3725), ShouldEqual, "1h 2m 5s")
	})
}

func TestPipelineSettings(t *testing.T) {
	Convey("PipelineSettings 能填充缺省值并校验取值", t, func() {
		Convey("缺省设定", func() {
			defaults := NewPipelineSettings()
			So(defaults.ImageEngine, ShouldEqual, "flux")
			So(defaults.ImageStyle, ShouldEqual, "cinematic")
			So(defaults.VoiceMode, ShouldEqual, "index_tts")
			So(defaults.SFXMode, ShouldEqual, "mmaudio_auto")
			So(defaults.BrollDensity, ShouldEqual, 4)
			So(defaults.SceneTransition, ShouldEqual, "fade")
			So(defaults.TargetVideoFPS, ShouldEqual, 24)
			So(defaults.TargetResolution, ShouldEqual, "1920x1080")
			So(defaults.ParallaxEnabled, ShouldBeTrue)
		})

		Convey("Normalize 填充空白字段", func() {
			ps := PipelineSettings{}.Normalize()
			So(ps.ImageEngine, ShouldEqual, "flux")
			So(ps.VoiceMode, ShouldEqual, "index_tts")
			So(ps.BrollDensity, ShouldEqual, 4)
			So(ps.TargetVideoFPS, ShouldEqual, 24)
		})

		Convey("Normalize 钳制镜头密度", func() {
			dense := PipelineSettings{BrollDensity: 100}.Normalize()
			So(dense.BrollDensity, ShouldEqual, 24)
			sparse := PipelineSettings{BrollDensity: 1}.Normalize()
			So(sparse.BrollDensity, ShouldEqual, 2)
		})

		Convey("Normalize 保留已设字段", func() {
			ps := PipelineSettings{ImageEngine: "sdxl", VoiceMode: "xtts"}.Normalize()
			So(ps.ImageEngine, ShouldEqual, "sdxl")
			So(ps.VoiceMode, ShouldEqual, "xtts")
		})

		Convey("Validate 接受合法设定", func() {
			So(NewPipelineSettings().Validate(), ShouldBeNil)
		})

		Convey("Validate 拒绝未知取值", func() {
			bad := NewPipelineSettings()
			bad.ImageEngine = "dalle"
			err := bad.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "image_engine")

			bad = NewPipelineSettings()
			bad.VoiceMode = "espeak"
			err = bad.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "voice_mode")
		})
	})
}

func TestBuildPipelineConfig(t *testing.T) {
	Convey("BuildPipelineConfig 能组装下游配置", t, func() {
		settings := NewPipelineSettings()
		settings.CharacterProfile = "elena_v2"
		settings.HasVoiceReference = true
		stats := PipelineStats{
			NumScenes:     12,
			TotalShots:    48,
			TotalSeconds:  125.67,
			NumCharacters: 3,
			TotalWords:    5400,
		}

		config := BuildPipelineConfig(settings, stats)
		So(config.ImageEngine, ShouldEqual, "flux")
		So(config.CharacterProfile, ShouldEqual, "elena_v2")
		So(config.NumScenes, ShouldEqual, 12)
		So(config.TotalShots, ShouldEqual, 48)
		So(config.EstimatedDurationSeconds, ShouldEqual, 125.7)
		So(config.EstimatedDurationFormatted, ShouldEqual, "2m 5s")
		So(config.HasVoiceReference, ShouldBeTrue)
	})
}

func TestRenderSummary(t *testing.T) {
	Convey("RenderSummary 能渲染制作计划摘要", t, func() {
		settings := NewPipelineSettings()
		stats := PipelineStats{NumScenes: 12, TotalShots: 48, TotalSeconds: 125.67, NumCharacters: 3}
		config := BuildPipelineConfig(settings, stats)

		summary := RenderSummary(config, stats)
		So(summary, ShouldContainSubstring, "NOVEL CINEMATIC PRODUCTION PLAN")
		So(summary, ShouldContainSubstring, "estimated duration:")
		So(summary, ShouldContainSubstring, "2m 5s")
		So(summary, ShouldContainSubstring, "characters detected: 3")
		So(summary, ShouldContainSubstring, "parallax:   enabled")
		So(summary, ShouldContainSubstring, "voice reference: no")
		So(summary, ShouldContainSubstring, "b-roll density: 4 shots/scene")
	})
}

func TestSupportedNameLists(t *testing.T) {
	Convey("支持取值清单返回副本", t, func() {
		So(VoiceModeNames(), ShouldResemble, []string{"index_tts", "index_clone", "xtts", "voxcpm", "chatterbox"})
		So(SFXModeNames(), ShouldResemble, []string{"mmaudio_auto", "mmaudio_prompted", "stable_audio", "none"})
		So(TransitionNames(), ShouldResemble, []string{"fade", "cut", "dissolve", "wipe"})
		So(ResolutionNames(), ShouldResemble, []string{"1920x1080", "1280x720", "3840x2160", "1080x1920", "720x1280"})

		names := VoiceModeNames()
		names[0] = "mutated"
		So(VoiceModeNames()[0], ShouldEqual, "index_tts")
	})
}
