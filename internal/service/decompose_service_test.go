package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/config"
	"fable/internal/pkg/storytools"
)

// 三个场景：写景、对话、打斗，Alice 和 Marcus 反复出现
const testNovel = `Alice walked through the ancient forest, the vast landscape stretching toward the horizon. The mountain air was silent and peaceful. Alice paused beside the river while the morning light touched the water gently.

***

"Where are you going?" asked Marcus. "The road is dangerous."

"I must reach the city before night," Alice replied. Marcus shook his head and whispered a warning before Alice turned away.

***

The battle erupted at dawn. Alice drew her sword as the explosion shattered the gate. Soldiers ran through the smoke while Marcus shouted her name over the chaos of the fight.`

func newTestService() DecomposeService {
	cfg := &config.Config{}
	return NewDecomposeService(cfg, nil, nil, nil, nil)
}

func TestDecomposeService_Decompose(t *testing.T) {
	Convey("Decompose 在无任何外部依赖时也能完成全流程", t, func() {
		svc := newTestService()
		ctx := context.Background()

		Convey("内联正文走完整流水线", func() {
			result, err := svc.Decompose(ctx, &DecomposeRequest{
				Title: "The Forest Road",
				Text:  testNovel,
			})
			So(err, ShouldBeNil)
			So(result.RunID, ShouldNotBeEmpty)
			So(result.Title, ShouldEqual, "The Forest Road")
			So(result.Encoding, ShouldEqual, "utf-8")
			So(result.Status, ShouldContainSubstring, "Encoding: utf-8")

			Convey("场景带分类标注", func() {
				So(len(result.Scenes), ShouldEqual, 3)
				So(result.Scenes[0].Scene.ID, ShouldEqual, "scene_001")
				So(result.Scenes[0].SceneType, ShouldEqual, string(storytools.SceneTypeDescriptive))
				So(result.Scenes[1].SceneType, ShouldEqual, string(storytools.SceneTypeDialogue))
				So(result.Scenes[2].SceneType, ShouldEqual, string(storytools.SceneTypeAction))
				So(result.Scenes[2].Density, ShouldBeGreaterThan, result.Scenes[1].Density)
				So(result.Scenes[0].DurationEstimate, ShouldBeGreaterThan, 0)
			})

			Convey("每个场景都有分镜提示词", func() {
				So(len(result.Prompts), ShouldEqual, 3)
				for _, scenePrompts := range result.Prompts {
					So(len(scenePrompts), ShouldBeGreaterThan, 0)
				}
				first := result.Prompts[0][0]
				So(first.ID, ShouldEqual, "scene_001_shot_01")
				So(first.Prompt, ShouldContainSubstring, "Scene 1, Shot 1")
				So(first.NegativePrompt, ShouldContainSubstring, "blurry")
				// 默认风格与引擎
				So(first.Prompt, ShouldContainSubstring, "cinematic")
			})

			Convey("角色按提及次数排序", func() {
				So(len(result.Characters), ShouldBeGreaterThanOrEqualTo, 2)
				So(result.Characters[0].Name, ShouldEqual, "Alice")
				So(result.Characters[0].Mentions, ShouldBeGreaterThanOrEqualTo,
					result.Characters[1].Mentions)
				So(len(result.Characters[0].ID), ShouldEqual, 8)
			})

			Convey("旁白与音效逐场景对齐", func() {
				So(len(result.Narration), ShouldEqual, 3)
				So(result.Narration[1].HasDialogue, ShouldBeTrue)
				So(result.Narration[0].ID, ShouldEqual, "narration_scene_001")

				So(len(result.SFX), ShouldEqual, 3)
				So(result.SFX[2].CueCount, ShouldBeGreaterThan, 0)
				So(result.SFX[2].ID, ShouldEqual, "sfx_scene_003")
			})

			Convey("语音分片覆盖全部旁白", func() {
				So(len(result.TTSChunks), ShouldBeGreaterThanOrEqualTo, 3)
				So(result.TTSChunks[0].ID, ShouldEqual, "tts_chunk_0000")
				last := result.TTSChunks[len(result.TTSChunks)-1]
				So(last.IsSceneEnd, ShouldBeTrue)
			})

			Convey("汇总与批次规划一致", func() {
				So(result.Summary.NumScenes, ShouldEqual, 3)
				totalShots := 0
				for _, p := range result.Prompts {
					totalShots += len(p)
				}
				So(result.Summary.TotalShots, ShouldEqual, totalShots)
				So(result.Summary.ImageEngine, ShouldEqual, "flux")
				So(result.Summary.ImageStyle, ShouldEqual, "cinematic")
				So(result.Summary.EstimatedDurationFormatted, ShouldNotBeEmpty)

				So(result.Plan.TotalItems, ShouldEqual, 3)
				So(result.Plan.AllComplete, ShouldBeFalse)
				So(result.Plan.RemainingItems, ShouldEqual, 3)
			})
		})

		Convey("请求设定覆盖默认值", func() {
			result, err := svc.Decompose(ctx, &DecomposeRequest{
				Text: testNovel,
				Settings: storytools.PipelineSettings{
					ImageStyle:        "anime",
					ImageEngine:       "sdxl",
					CustomStylePrompt: "vivid colors",
				},
			})
			So(err, ShouldBeNil)
			So(result.Summary.ImageStyle, ShouldEqual, "anime")
			So(result.Summary.ImageEngine, ShouldEqual, "sdxl")
			So(result.Prompts[0][0].Prompt, ShouldContainSubstring, "vivid colors")
		})

		Convey("空正文返回 ErrEmptySource", func() {
			_, err := svc.Decompose(ctx, &DecomposeRequest{Text: "   \n\n  "})
			So(errors.Is(err, ErrEmptySource), ShouldBeTrue)
		})

		Convey("既无正文也无源文件 key 返回 ErrEmptySource", func() {
			_, err := svc.Decompose(ctx, &DecomposeRequest{})
			So(errors.Is(err, ErrEmptySource), ShouldBeTrue)
		})

		Convey("二进制内容返回 ErrUnsupportedFormat", func() {
			_, err := svc.Decompose(ctx, &DecomposeRequest{
				Text: "\x89PNG\r\n\x1a\n000000000000",
			})
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("非法设定值被拒绝", func() {
			_, err := svc.Decompose(ctx, &DecomposeRequest{
				Text:     testNovel,
				Settings: storytools.PipelineSettings{ImageEngine: "dalle"},
			})
			So(errors.Is(err, ErrInvalidSettings), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "image_engine")
		})
	})
}

func TestDecomposeService_QueriesWithoutMongo(t *testing.T) {
	Convey("未配置 MongoDB 时查询类接口统一报持久化未启用", t, func() {
		svc := newTestService()
		ctx := context.Background()

		_, err := svc.GetRun(ctx, "some-run")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		_, err = svc.GetScenes(ctx, "some-run")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		_, err = svc.GetSummary(ctx, "some-run")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		_, err = svc.MarkCheckpoint(ctx, &CheckpointRequest{RunID: "some-run"})
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		Convey("未配置渲染主机时渲染提交不可用", func() {
			_, err := svc.RenderRun(ctx, &RenderRequest{RunID: "some-run"})
			So(errors.Is(err, ErrRenderUnavailable), ShouldBeTrue)
		})
	})
}

func TestDecomposeService_Previews(t *testing.T) {
	Convey("预览接口无状态试跑单个组件", t, func() {
		svc := newTestService()
		ctx := context.Background()

		Convey("PreviewSegment 返回切分结果", func() {
			result := svc.PreviewSegment(ctx, &PreviewSegmentRequest{Text: testNovel})
			So(result.NumScenes, ShouldEqual, 3)
			So(result.Scenes[0].ID, ShouldEqual, "scene_001")

			Convey("相同输入复用切分缓存", func() {
				again := svc.PreviewSegment(ctx, &PreviewSegmentRequest{Text: testNovel})
				So(again.NumScenes, ShouldEqual, 3)
			})
		})

		Convey("PreviewEntities 识别角色并合并附加名单", func() {
			result := svc.PreviewEntities(ctx, &PreviewEntitiesRequest{
				Text:       testNovel,
				ExtraNames: []string{"Elena: silver-haired rider"},
			})
			So(result.NumCharacters, ShouldBeGreaterThanOrEqualTo, 3)
			var elena *storytools.Entity
			for i := range result.Characters {
				if result.Characters[i].Name == "Elena" {
					elena = &result.Characters[i]
				}
			}
			So(elena, ShouldNotBeNil)
			So(elena.Description, ShouldEqual, "silver-haired rider")
			So(elena.Tier, ShouldEqual, storytools.EntityTierBackground)
		})

		Convey("PreviewClassify 返回类型与密度", func() {
			result := svc.PreviewClassify(ctx, &PreviewClassifyRequest{
				Text: "The battle raged as the sword met the gun and the chase began with an explosion.",
			})
			So(result.Classification.Type, ShouldEqual, storytools.SceneTypeAction)
			So(result.Classification.Density, ShouldBeGreaterThanOrEqualTo, 2)
		})

		Convey("PreviewMoments 返回重要度达标的段落", func() {
			text := "The morning was quiet and nothing happened at all.\n\n" +
				"Suddenly the bridge collapsed and the battle began.\n\n" +
				"She discovered the hidden letter for the first time."
			result := svc.PreviewMoments(ctx, &PreviewMomentsRequest{Text: text})
			So(result.NumMoments, ShouldEqual, 2)
			So(len(result.Moments), ShouldEqual, 2)
			// 重要度降序：discovery/first_encounter(1.5) 在 conflict(1.4) 之前
			So(result.Moments[0].ParagraphIndex, ShouldEqual, 2)
			So(result.Moments[0].Importance, ShouldEqual, 1.5)
			So(result.Moments[0].MomentTypes, ShouldContain, "discovery")
			So(result.Moments[1].ParagraphIndex, ShouldEqual, 1)
			So(result.Moments[1].MomentTypes, ShouldContain, "conflict")

			Convey("提高阈值后只剩最重要的段落", func() {
				strict := svc.PreviewMoments(ctx, &PreviewMomentsRequest{Text: text, Threshold: 1.45})
				So(strict.NumMoments, ShouldEqual, 1)
				So(strict.Moments[0].ParagraphIndex, ShouldEqual, 2)
			})
		})

		Convey("PreviewPrompts 把整段文本当作一个场景", func() {
			result := svc.PreviewPrompts(ctx, &PreviewPromptsRequest{
				Text:   testNovel,
				Style:  "storyboard",
				Engine: "sd15",
			})
			So(len(result.Prompts), ShouldBeGreaterThan, 0)
			So(result.Prompts[0].ID, ShouldEqual, "scene_001_shot_01")
			So(result.Prompts[0].SceneIdx, ShouldEqual, 0)
			So(result.Prompts[0].Prompt, ShouldContainSubstring, "Scene 1, Shot 1")
		})
	})
}
