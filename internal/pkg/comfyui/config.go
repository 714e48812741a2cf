package comfyui

import (
	"net/url"
	"strings"
	"time"
)

// Config ComfyUI 配置
// 工作流模板路径不在这里：模板由调用方加载后整体传入，客户端只管提交
type Config struct {
	APIURL     string        // API URL（如 http://127.0.0.1:8188/api/prompt）
	Timeout    time.Duration // 请求超时时间
	MaxRetries int           // 最大重试次数
	RetryDelay time.Duration // 重试延迟
	RatePerSec float64       // 每秒提交上限（限流）
}

// ApplyDefaults 为零值字段补默认值
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 1 * time.Second
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 2
	}
}

// normalizePromptURL 规范化工作流提交端点
// 端点兼容策略：
//   - 支持传入以下形式：
//     1) http://host:port → 归一到 http://host:port/api/prompt
//     2) http://host:port/api → 归一到 http://host:port/api/prompt
//     3) http://host:port/api/prompt → 原样使用
//     4) http://host:port/prompt → 原样使用（部分部署只暴露 /prompt）
//     5) 其他包含 /api/... 的路径 → 回到根并使用 /api/prompt
func normalizePromptURL(urlStr string) string {
	base := strings.TrimSpace(urlStr)
	base = strings.TrimSuffix(base, "/")

	if base == "" {
		base = "http://127.0.0.1:8188"
	}

	// 已是标准 /api/prompt
	if strings.HasSuffix(base, "/api/prompt") || strings.Contains(base, "/api/prompt") {
		return base
	}

	// 明确传入了 /prompt（不带 /api）
	if strings.HasSuffix(base, "/prompt") || (strings.Contains(base, "/prompt") && !strings.Contains(base, "/api")) {
		return base
	}

	// 以 /api 结尾，补齐 /prompt
	if strings.HasSuffix(base, "/api") {
		return base + "/prompt"
	}

	// 包含 /api/... 的其他形式，回到根并统一到 /api/prompt
	if strings.Contains(base, "/api") {
		parts := strings.Split(base, "/api")
		return strings.TrimSuffix(parts[0], "/") + "/api/prompt"
	}

	// 纯主机:端口形式，默认 /api/prompt
	return base + "/api/prompt"
}

// getFallbackPromptURL 获取备用端点 /prompt
func getFallbackPromptURL(promptURL string) string {
	root := strings.TrimSuffix(promptURL, "/")
	if strings.Contains(root, "/api/prompt") {
		parts := strings.Split(root, "/api/prompt")
		return strings.TrimSuffix(parts[0], "/") + "/prompt"
	}
	if strings.Contains(root, "/prompt") {
		parts := strings.Split(root, "/prompt")
		return strings.TrimSuffix(parts[0], "/") + "/prompt"
	}
	if strings.Contains(root, "/api") {
		parts := strings.Split(root, "/api")
		return strings.TrimSuffix(parts[0], "/") + "/prompt"
	}
	return root + "/prompt"
}

// appendQueryParam 为 URL 追加查询参数
func appendQueryParam(urlStr, key, value string) string {
	if value == "" {
		return urlStr
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		sep := "&"
		if !strings.Contains(urlStr, "?") {
			sep = "?"
		}
		return urlStr + sep + key + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
