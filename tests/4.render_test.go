// Package tests 渲染提交集成测试
//
// 运行测试：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -run TestDecompose_Render -v
//
// 说明：
//   - 使用 httptest 伪装 ComfyUI 主机，验证分镜批量提交与提交状态回写
package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/config"
	"fable/internal/model/story"
	"fable/internal/pkg/comfyui"
	"fable/internal/service"
)

// writeTestWorkflow 生成一个最小的工作流模板（带 Positive 提示词节点）
func writeTestWorkflow(t *testing.T) string {
	t.Helper()

	workflow := map[string]interface{}{
		"12": map[string]interface{}{
			"class_type": "CLIPTextEncode",
			"_meta":      map[string]interface{}{"title": "Positive Prompt"},
			"inputs":     map[string]interface{}{"text": ""},
		},
	}
	data, err := json.Marshal(workflow)
	if err != nil {
		t.Fatalf("序列化工作流失败: %v", err)
	}

	path := filepath.Join(t.TempDir(), "workflow.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("写入工作流模板失败: %v", err)
	}
	return path
}

// TestDecompose_Render 测试分镜渲染提交
func TestDecompose_Render(t *testing.T) {
	Convey("渲染提交测试", t, func() {
		ctx := testCtx

		// 伪装的 ComfyUI 主机：校验载荷结构并返回任务ID
		var received int64
		fakeHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if _, ok := payload["prompt"]; !ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			atomic.AddInt64(&received, 1)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"prompt_id": "job-123"})
		}))
		defer fakeHost.Close()

		render := comfyui.NewClient(&comfyui.Config{
			APIURL:     fakeHost.URL,
			Timeout:    5 * time.Second,
			MaxRetries: 1,
			RetryDelay: 10 * time.Millisecond,
			RatePerSec: 1000,
		})

		svc := service.NewDecomposeService(&config.Config{}, testDB, nil, testStorage, render)

		result, err := svc.Decompose(ctx, &service.DecomposeRequest{
			Title: "Render Run",
			Text:  testNovel,
		})
		So(err, ShouldBeNil)
		workflowPath := writeTestWorkflow(t)

		Convey("待渲染分镜全部提交成功", func() {
			renderResult, err := svc.RenderRun(ctx, &service.RenderRequest{
				RunID:        result.RunID,
				WorkflowPath: workflowPath,
			})
			So(err, ShouldBeNil)
			So(renderResult.Submitted, ShouldEqual, result.Summary.TotalShots)
			So(renderResult.Failed, ShouldEqual, 0)
			So(len(renderResult.Shots), ShouldEqual, result.Summary.TotalShots)
			So(atomic.LoadInt64(&received), ShouldEqual, int64(result.Summary.TotalShots))
			for _, shot := range renderResult.Shots {
				So(shot.Success, ShouldBeTrue)
				So(shot.PromptID, ShouldEqual, "job-123")
			}

			Convey("提交状态与任务ID回写到分镜文档", func() {
				prompts, err := testServices.ShotPromptRepo.FindByRunID(ctx, result.RunID)
				So(err, ShouldBeNil)
				for _, p := range prompts {
					So(p.SubmitStatus, ShouldEqual, story.SubmitStatusSubmitted)
					So(p.RenderTaskID, ShouldEqual, "job-123")
				}
			})

			Convey("再次提交时没有待渲染分镜", func() {
				_, err := svc.RenderRun(ctx, &service.RenderRequest{
					RunID:        result.RunID,
					WorkflowPath: workflowPath,
				})
				So(errors.Is(err, service.ErrNoPendingShots), ShouldBeTrue)
			})
		})

		Convey("工作流模板缺失时报错", func() {
			_, err := svc.RenderRun(ctx, &service.RenderRequest{
				RunID:        result.RunID,
				WorkflowPath: filepath.Join(t.TempDir(), "missing.json"),
			})
			So(err, ShouldNotBeNil)
		})

		Convey("不存在的运行返回 ErrRunNotFound", func() {
			_, err := svc.RenderRun(ctx, &service.RenderRequest{
				RunID:        "no-such-run",
				WorkflowPath: workflowPath,
			})
			So(errors.Is(err, service.ErrRunNotFound), ShouldBeTrue)
		})
	})
}
