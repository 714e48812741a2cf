package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fable/internal/config"
	"fable/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fable",
	Short: "Fable - novel decomposition service",
	Long: `Fable decomposes long-form novel text into scenes, shot prompts,
character sheets, narration units, SFX cues and TTS chunks, ready for a
downstream image/video rendering pipeline.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.fable")
	}

	// 环境变量设置
	viper.SetEnvPrefix("FABLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB（留空 URI 表示纯内存模式）
	viper.SetDefault("mongo.uri", "")
	viper.SetDefault("mongo.database", "fable")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis（留空 Addr 表示不启用结果缓存）
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)

	// Auth（注册 jwt_secret 键，FABLE_AUTH_JWT_SECRET 才能进 Unmarshal）
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_expiry", "24h")

	// Storage（留空 Type 表示不导出 JSON 产物）
	viper.SetDefault("storage.type", "")

	// Pipeline：空值由服务层按内置默认补齐，这里只放最常改的几项
	viper.SetDefault("pipeline.style", "cinematic")
	viper.SetDefault("pipeline.engine", "flux")
	viper.SetDefault("pipeline.density", 0)
	viper.SetDefault("pipeline.max_scene_chars", 0)
	viper.SetDefault("pipeline.token_counts", false)

	// ComfyUI（留空 APIURL 表示不启用渲染提交）
	viper.SetDefault("comfyui.api_url", "")
	viper.SetDefault("comfyui.workflow_json", "")
	viper.SetDefault("comfyui.timeout", "30s")
	viper.SetDefault("comfyui.max_retries", 3)
	viper.SetDefault("comfyui.retry_delay", "2s")
	viper.SetDefault("comfyui.rate_per_sec", 2.0)

	// Cache
	viper.SetDefault("cache.result_ttl", "24h")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
