package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPromptComposer_Compose(t *testing.T) {
	Convey("PromptComposer.Compose 能为场景合成镜头提示词", t, func() {
		pc := NewPromptComposer("", "")
		scene := Scene{
			ID:    "scene_001",
			Index: 0,
			Text:  "Elena drew her sword in the dark forest at night, and Marcus followed her quietly.",
		}
		entities := []Entity{{Name: "Elena"}, {Name: "Marcus"}}

		Convey("density 不为正或文本为空时返回 nil", func() {
			So(pc.Compose(scene, 0, entities), ShouldBeNil)
			So(pc.Compose(Scene{Index: 0, Text: "   "}, 4, entities), ShouldBeNil)
		})

		Convey("按密度产出镜头并编号", func() {
			shots := pc.Compose(scene, 2, entities)
			So(len(shots), ShouldEqual, 2)
			So(shots[0].ID, ShouldEqual, "scene_001_shot_01")
			So(shots[0].SceneIdx, ShouldEqual, 0)
			So(shots[0].ShotIdx, ShouldEqual, 0)
			So(shots[0].ShotType, ShouldEqual, "establishing wide shot")
			So(shots[1].ID, ShouldEqual, "scene_001_shot_02")
			So(shots[1].ShotType, ShouldEqual, "medium shot")
		})

		Convey("片段取尽时提前停止", func() {
			// 82 字符按最小步长 50 切片，只够两个镜头
			shots := pc.Compose(scene, 10, entities)
			So(len(shots), ShouldEqual, 2)
		})

		Convey("提示词包含场景标签、角色、画面元素与风格", func() {
			shots := pc.Compose(scene, 2, entities)
			prompt := shots[0].Prompt
			So(prompt, ShouldContainSubstring, "Scene 1, Shot 1")
			So(prompt, ShouldContainSubstring, "featuring: Elena, Marcus")
			So(prompt, ShouldContainSubstring, "setting: forest")
			So(prompt, ShouldContainSubstring, "night lighting")
			So(prompt, ShouldContainSubstring, "dark atmosphere")
			So(prompt, ShouldContainSubstring, "depicting: Elena drew")
			So(prompt, ShouldContainSubstring, "cinematic film still")
			So(prompt, ShouldContainSubstring, "masterpiece, best quality")
		})

		Convey("负向提示词统一", func() {
			shots := pc.Compose(scene, 1, entities)
			So(shots[0].NegativePrompt, ShouldContainSubstring, "blurry, low quality")
		})

		Convey("带描述的角色以括号呈现", func() {
			described := []Entity{{Name: "Elena", Description: "red cloak"}, {Name: "Marcus"}}
			shots := pc.Compose(scene, 1, described)
			So(shots[0].Prompt, ShouldContainSubstring, "featuring: Elena (red cloak), Marcus")
		})

		Convey("每镜头最多点名两个角色", func() {
			three := []Entity{{Name: "Elena"}, {Name: "Marcus"}, {Name: "Night"}}
			shots := pc.Compose(scene, 1, three)
			So(shots[0].Prompt, ShouldContainSubstring, "featuring: Elena, Marcus")
			So(shots[0].Prompt, ShouldNotContainSubstring, "Night")
		})

		Convey("场景序号参与编号", func() {
			later := scene
			later.Index = 4
			shots := pc.Compose(later, 1, nil)
			So(shots[0].ID, ShouldEqual, "scene_005_shot_01")
			So(shots[0].Prompt, ShouldContainSubstring, "Scene 5, Shot 1")
		})

		Convey("镜头类型按轮换表取模", func() {
			long := Scene{Index: 0, Text: strings.Repeat("wander through the misty vale ", 30)}
			shots := pc.Compose(long, 14, nil)
			So(len(shots), ShouldEqual, 14)
			So(shots[13].ShotType, ShouldEqual, shots[0].ShotType)
		})

		Convey("内容片段截断到 80 字符", func() {
			wall := Scene{Index: 0, Text: strings.Repeat("x", 200)}
			shots := pc.Compose(wall, 1, nil)
			So(len(shots), ShouldEqual, 1)
			So(shots[0].Prompt, ShouldContainSubstring, strings.Repeat("x", 80))
			So(shots[0].Prompt, ShouldNotContainSubstring, strings.Repeat("x", 81))
		})

		Convey("未知风格与引擎回退到默认", func() {
			fallback := NewPromptComposer("watercolor", "dalle")
			shots := fallback.Compose(scene, 1, nil)
			So(shots[0].Prompt, ShouldContainSubstring, "cinematic film still")
			So(shots[0].Prompt, ShouldContainSubstring, "masterpiece, best quality")
		})

		Convey("自定义风格追加在提示词末尾", func() {
			custom := NewPromptComposer("anime", "sdxl")
			custom.SetCustomStyle("  neon glow  ")
			shots := custom.Compose(scene, 1, nil)
			So(shots[0].Prompt, ShouldContainSubstring, "anime art style")
			So(shots[0].Prompt, ShouldEndWith, "neon glow")
		})

		Convey("未开启统计时 token 数为零", func() {
			shots := pc.Compose(scene, 1, nil)
			So(shots[0].TokenCount, ShouldEqual, 0)
		})
	})
}

func TestShotTypes(t *testing.T) {
	Convey("ShotTypes 返回轮换表副本", t, func() {
		types := ShotTypes()
		So(len(types), ShouldEqual, 13)
		So(types[0], ShouldEqual, "establishing wide shot")

		types[0] = "mutated"
		So(ShotTypes()[0], ShouldEqual, "establishing wide shot")
	})
}

func TestStyleAndEngineNames(t *testing.T) {
	Convey("StyleNames 与 EngineNames 返回受支持的取值", t, func() {
		So(StyleNames(), ShouldContain, "cinematic")
		So(len(StyleNames()), ShouldEqual, 6)
		So(EngineNames(), ShouldContain, "flux")
		So(len(EngineNames()), ShouldEqual, 5)
	})
}
