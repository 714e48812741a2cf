package comfyui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client ComfyUI API 客户端
// 只负责把组装好的提示词作为工作流提交给渲染主机，不在进程内做任何图像合成
type Client struct {
	config      *Config
	apiURL      string
	fallbackURL string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewClient 创建 ComfyUI 客户端
func NewClient(config *Config) *Client {
	config.ApplyDefaults()
	apiURL := normalizePromptURL(config.APIURL)
	return &Client{
		config:      config,
		apiURL:      apiURL,
		fallbackURL: getFallbackPromptURL(apiURL),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSec), 1),
	}
}

// SubmitWorkflowResult 工作流提交结果
type SubmitWorkflowResult struct {
	Success bool
	Data    map[string]interface{}
	Error   string
}

// SubmitWorkflow 提交工作流，自动处理端点 405/404 的回退
func (c *Client) SubmitWorkflow(ctx context.Context, workflow map[string]interface{}, tagParam string) (*SubmitWorkflowResult, error) {
	payload := map[string]interface{}{
		"prompt":    workflow,
		"client_id": "fable",
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal workflow payload: %w", err)
	}

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.config.RetryDelay)
		}

		// 首选归一端点
		urlPrimary := appendQueryParam(c.apiURL, "image", tagParam)
		result, err := c.submitRequest(ctx, urlPrimary, payloadBytes)
		if err == nil && result.Success {
			return result, nil
		}

		// 在 404/405 时尝试备用 /prompt
		if result != nil && (result.Error == "404" || result.Error == "405") {
			log.Warn().Str("fallback_url", c.fallbackURL).Msg("提交端点返回错误，尝试回退到备用端点")
			urlFallback := appendQueryParam(c.fallbackURL, "image", tagParam)
			result2, err2 := c.submitRequest(ctx, urlFallback, payloadBytes)
			if err2 == nil && result2.Success {
				return result2, nil
			}
			if err2 != nil {
				return nil, err2
			}
			if attempt < c.config.MaxRetries-1 {
				continue
			}
			return result2, nil
		}

		if err != nil {
			if attempt < c.config.MaxRetries-1 {
				continue
			}
			return nil, err
		}

		if attempt < c.config.MaxRetries-1 {
			continue
		}
		return result, nil
	}

	return &SubmitWorkflowResult{
		Success: false,
		Error:   "所有重试尝试都失败了",
	}, nil
}

func (c *Client) submitRequest(ctx context.Context, url string, payload []byte) (*SubmitWorkflowResult, error) {
	// 限流在每次实际发起请求前生效，重试和回退同样受约束
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmitWorkflowResult{
			Success: false,
			Error:   fmt.Sprintf("请求错误: %v", err),
		}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SubmitWorkflowResult{
			Success: false,
			Error:   fmt.Sprintf("读取响应失败: %v", err),
		}, nil
	}

	if resp.StatusCode == 200 {
		var data map[string]interface{}
		if err := json.Unmarshal(body, &data); err != nil {
			return &SubmitWorkflowResult{
				Success: true,
				Data:    map[string]interface{}{"raw": string(body)},
			}, nil
		}
		return &SubmitWorkflowResult{
			Success: true,
			Data:    data,
		}, nil
	}

	return &SubmitWorkflowResult{
		Success: false,
		Error:   fmt.Sprintf("%d", resp.StatusCode),
	}, nil
}

// ShotSubmission 单个镜头的提交输入
type ShotSubmission struct {
	ShotID string // 镜头ID（scene_001_shot_01），作为提交标记透传
	Prompt string // 组装好的正向提示词
}

// ShotSubmitResult 单个镜头的提交结果
type ShotSubmitResult struct {
	ShotID   string
	Success  bool
	PromptID string // 渲染主机返回的任务ID（如有）
	Error    string
}

// SubmitShots 将一组镜头提示词逐个写入工作流模板并提交
// 每个镜头基于同一模板打补丁（替换正向提示词节点），提交受限流约束
// 单个镜头失败不中断后续提交，结果逐条返回
func (c *Client) SubmitShots(ctx context.Context, workflow map[string]interface{}, shots []ShotSubmission) []ShotSubmitResult {
	results := make([]ShotSubmitResult, 0, len(shots))

	for _, shot := range shots {
		if err := ctx.Err(); err != nil {
			results = append(results, ShotSubmitResult{
				ShotID: shot.ShotID,
				Error:  err.Error(),
			})
			continue
		}

		patched := SetPositivePrompt(workflow, shot.Prompt)
		result, err := c.SubmitWorkflow(ctx, patched, shot.ShotID)
		if err != nil {
			results = append(results, ShotSubmitResult{
				ShotID: shot.ShotID,
				Error:  err.Error(),
			})
			continue
		}

		sr := ShotSubmitResult{
			ShotID:  shot.ShotID,
			Success: result.Success,
			Error:   result.Error,
		}
		if pid, ok := result.Data["prompt_id"].(string); ok {
			sr.PromptID = pid
		}
		results = append(results, sr)

		log.Info().
			Str("shot_id", shot.ShotID).
			Bool("success", sr.Success).
			Str("prompt_id", sr.PromptID).
			Msg("镜头工作流已提交")
	}

	return results
}

// LoadWorkflowJSON 加载工作流 JSON 模板
func LoadWorkflowJSON(path string) (map[string]interface{}, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("工作流JSON不存在: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow JSON: %w", err)
	}

	var workflow map[string]interface{}
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("unmarshal workflow JSON: %w", err)
	}

	return workflow, nil
}

// SetPositivePrompt 将 workflow 中的正向提示词替换为 promptText
// 优先使用 _meta.title 辨识 Positive 节点，回退到固定节点 ID '12'
func SetPositivePrompt(workflow map[string]interface{}, promptText string) map[string]interface{} {
	// 深拷贝
	workflowBytes, err := json.Marshal(workflow)
	if err != nil {
		log.Warn().Err(err).Msg("深拷贝工作流失败")
		return workflow
	}

	var wf map[string]interface{}
	if err := json.Unmarshal(workflowBytes, &wf); err != nil {
		log.Warn().Err(err).Msg("反序列化工作流失败")
		return workflow
	}

	// 尝试根据 _meta.title 包含 'Positive' 的 CLIPTextEncode 节点识别
	var positiveNodeID string
	for nodeID, nodeVal := range wf {
		node, ok := nodeVal.(map[string]interface{})
		if !ok {
			continue
		}

		classType, _ := node["class_type"].(string)
		if classType != "CLIPTextEncode" {
			continue
		}

		meta, _ := node["_meta"].(map[string]interface{})
		title, _ := meta["title"].(string)
		if strings.Contains(title, "Positive") {
			positiveNodeID = nodeID
			break
		}
	}

	// 回退到固定节点 ID '12'
	if positiveNodeID == "" {
		if node12, ok := wf["12"].(map[string]interface{}); ok {
			classType, _ := node12["class_type"].(string)
			if classType == "CLIPTextEncode" {
				positiveNodeID = "12"
			}
		}
	}

	if positiveNodeID == "" {
		log.Warn().Msg("未找到正向提示节点，跳过替换")
		return wf
	}

	node := wf[positiveNodeID].(map[string]interface{})
	inputs, _ := node["inputs"].(map[string]interface{})
	inputs["text"] = promptText

	return wf
}
