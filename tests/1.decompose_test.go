// Package tests 分解流水线落库与导出集成测试
//
// 运行测试：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -run TestDecompose_PersistAndExport -v
//
// 说明：
//   - 验证一次完整分解的七类文档全部落库，以及 JSON 产物导出到本地存储
package tests

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/story"
	"fable/internal/service"
)

// TestDecompose_PersistAndExport 测试分解结果落库和产物导出
func TestDecompose_PersistAndExport(t *testing.T) {
	Convey("Decompose 落库与导出测试", t, func() {
		ctx := testCtx
		services := testServices

		result, err := services.DecomposeService.Decompose(ctx, &service.DecomposeRequest{
			Title: "The Forest Road",
			Text:  testNovel,
		})
		So(err, ShouldBeNil)
		So(result.RunID, ShouldNotBeEmpty)
		So(len(result.Scenes), ShouldEqual, 3)

		Convey("运行记录状态为 completed 且带统计", func() {
			run, err := services.RunRepo.FindByID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(run.Title, ShouldEqual, "The Forest Road")
			So(run.Status, ShouldEqual, story.RunStatusCompleted)
			So(run.ErrorMsg, ShouldBeEmpty)
			So(run.Stats.NumScenes, ShouldEqual, 3)
			So(run.Stats.TotalShots, ShouldBeGreaterThan, 0)
			So(run.Stats.NumCharacters, ShouldBeGreaterThanOrEqualTo, 2)
			So(run.Stats.NumTTSChunks, ShouldBeGreaterThan, 0)
			So(run.Stats.TotalWords, ShouldBeGreaterThan, 0)
			So(run.Stats.TotalSeconds, ShouldBeGreaterThan, 0)
			// 参数快照回填了生效的默认值
			So(run.Settings.ImageStyle, ShouldNotBeEmpty)
			So(run.Settings.ImageEngine, ShouldNotBeEmpty)
		})

		Convey("场景文档按序号落库", func() {
			scenes, err := services.SceneRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(scenes), ShouldEqual, 3)
			for i, sc := range scenes {
				So(sc.Index, ShouldEqual, i)
				So(sc.RunID, ShouldEqual, result.RunID)
				So(sc.Text, ShouldNotBeEmpty)
				So(sc.ID, ShouldNotBeEmpty)
			}
			So(scenes[0].SceneID, ShouldEqual, "scene_001")
			So(scenes[2].SceneID, ShouldEqual, "scene_003")
			So(scenes[0].SceneType, ShouldEqual, "descriptive")
			So(scenes[1].SceneType, ShouldEqual, "dialogue")
			So(scenes[2].SceneType, ShouldEqual, "action")
		})

		Convey("分镜提示词初始为 pending", func() {
			prompts, err := services.ShotPromptRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(prompts), ShouldBeGreaterThanOrEqualTo, 3)
			So(prompts[0].ShotID, ShouldEqual, "scene_001_shot_01")
			for _, p := range prompts {
				So(p.SubmitStatus, ShouldEqual, story.SubmitStatusPending)
				So(p.Prompt, ShouldNotBeEmpty)
				So(p.NegativePrompt, ShouldNotBeEmpty)
			}
		})

		Convey("角色、旁白、音效、TTS 分块齐备", func() {
			characters, err := services.CharacterRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(characters), ShouldBeGreaterThanOrEqualTo, 2)
			So(characters[0].Name, ShouldEqual, "Alice")
			So(characters[0].Slug, ShouldNotBeEmpty)

			narration, err := services.NarrationRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(narration), ShouldEqual, 3)
			So(narration[0].NarrationID, ShouldEqual, "narration_scene_001")
			So(narration[1].HasDialogue, ShouldBeTrue)

			sfx, err := services.SFXRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(sfx), ShouldEqual, 3)
			So(sfx[2].SFXID, ShouldEqual, "sfx_scene_003")

			chunks, err := services.TTSChunkRepo.FindByRunID(ctx, result.RunID)
			So(err, ShouldBeNil)
			So(len(chunks), ShouldBeGreaterThan, 0)
			So(chunks[0].ChunkID, ShouldEqual, "tts_chunk_0000")
			So(chunks[len(chunks)-1].IsSceneEnd, ShouldBeTrue)
		})

		Convey("七类 JSON 产物导出到存储", func() {
			exportDir := filepath.Join(testStorageDir, "runs", result.RunID)
			for _, name := range []string{
				"scenes.json", "prompts.json", "characters.json",
				"narration.json", "sfx.json", "tts_chunks.json", "summary.json",
			} {
				_, err := os.Stat(filepath.Join(exportDir, name))
				So(err, ShouldBeNil)
			}

			// 导出产物可读且与落库内容一致
			reader, err := services.Storage.Download(ctx, "runs/"+result.RunID+"/scenes.json")
			So(err, ShouldBeNil)
			defer reader.Close()
			data, err := io.ReadAll(reader)
			So(err, ShouldBeNil)

			var exported []service.SceneDoc
			So(json.Unmarshal(data, &exported), ShouldBeNil)
			So(len(exported), ShouldEqual, 3)
			So(exported[0].Scene.ID, ShouldEqual, "scene_001")
		})

		Convey("软删除后运行不可见", func() {
			doomed := decomposeTestNovel(t, "To Be Deleted")

			err := services.RunRepo.Delete(ctx, doomed.RunID)
			So(err, ShouldBeNil)

			_, err = services.DecomposeService.GetRun(ctx, doomed.RunID)
			So(errors.Is(err, service.ErrRunNotFound), ShouldBeTrue)
		})
	})
}
