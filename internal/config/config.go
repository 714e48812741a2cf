package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	ComfyUI  ComfyUIConfig  `mapstructure:"comfyui"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig API 认证配置
// Enabled 为 false 时所有接口公开访问（本地/内网部署的默认形态）
type AuthConfig struct {
	Enabled     bool          `mapstructure:"enabled"`      // 是否启用 Bearer Token 认证
	JWTSecret   string        `mapstructure:"jwt_secret"`   // JWT密钥
	TokenExpiry time.Duration `mapstructure:"token_expiry"` // Token过期时间
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径
	BaseURL  string `mapstructure:"base_url"`  // 基础URL（用于生成访问URL）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`          // OSS端点
	Bucket          string `mapstructure:"bucket"`            // Bucket名称
	AccessKeyID     string `mapstructure:"access_key_id"`     // AccessKey ID
	AccessKeySecret string `mapstructure:"access_key_secret"` // AccessKey Secret
	PresignExpiry   int    `mapstructure:"presign_expiry"`    // 预签名URL过期时间（秒）
}

// PipelineConfig 分解流水线默认参数
// 每个请求可以覆盖这些值；空值在服务层按内置默认补齐
type PipelineConfig struct {
	Style         string  `mapstructure:"style"`           // 视觉风格（cinematic/anime/...）
	Engine        string  `mapstructure:"engine"`          // 图像引擎（flux/sdxl/...）
	Density       int     `mapstructure:"density"`         // 每场景基准镜头数
	MaxSceneChars int     `mapstructure:"max_scene_chars"` // 单场景最大字符数
	VoiceMode     string  `mapstructure:"voice_mode"`      // 旁白声音模式
	SFXMode       string  `mapstructure:"sfx_mode"`        // 音效提示模式
	Transition    string  `mapstructure:"transition"`      // 转场类型
	FPS           int     `mapstructure:"fps"`             // 目标帧率
	Resolution    string  `mapstructure:"resolution"`      // 目标分辨率
	Parallax      bool    `mapstructure:"parallax"`        // 是否启用视差
	WordsPerMin   float64 `mapstructure:"words_per_min"`   // 旁白语速（词/分钟）
	TTSMaxChars   int     `mapstructure:"tts_max_chars"`   // 单个TTS分块最大字符数
	BatchSize     int     `mapstructure:"batch_size"`      // 镜头批次大小
	TokenCounts   bool    `mapstructure:"token_counts"`    // 是否统计提示词 token 数（首次使用会下载编码表）
}

// ComfyUIConfig 渲染主机（ComfyUI）配置
type ComfyUIConfig struct {
	APIURL       string        `mapstructure:"api_url"`       // 提交端点（任意形态，客户端会归一化）
	WorkflowJSON string        `mapstructure:"workflow_json"` // 工作流模板路径
	Timeout      time.Duration `mapstructure:"timeout"`       // 单次请求超时
	MaxRetries   int           `mapstructure:"max_retries"`   // 最大重试次数
	RetryDelay   time.Duration `mapstructure:"retry_delay"`   // 重试间隔
	RatePerSec   float64       `mapstructure:"rate_per_sec"`  // 每秒提交上限
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	ResultTTL time.Duration `mapstructure:"result_ttl"` // 分解结果在 Redis 中的保留时长
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth enabled but jwt_secret is empty")
	}

	return nil
}
