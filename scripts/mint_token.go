package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fable/internal/config"
	"fable/internal/pkg/jwtauth"
	"fable/internal/pkg/logger"
)

// 给启用了认证的部署签发调用端 Token。
// 用法：go run scripts/mint_token.go -subject ci-pipeline -role writer -expiry 720h
func main() {
	subject := flag.String("subject", "dev", "token subject (caller identity)")
	role := flag.String("role", "writer", "token role")
	expiry := flag.Duration("expiry", 0, "token lifetime (default: auth.token_expiry)")
	flag.Parse()

	// 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.fable")

	viper.SetEnvPrefix("FABLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 注册键，否则 Unmarshal 看不到仅来自环境变量的值
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_expiry", "24h")

	// 秘钥可以完全来自环境变量，缺少配置文件不算错误
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "auth.jwt_secret is empty, set FABLE_AUTH_JWT_SECRET or configure it")
		os.Exit(1)
	}

	tokenExpiry := *expiry
	if tokenExpiry == 0 {
		tokenExpiry = cfg.Auth.TokenExpiry
	}
	if tokenExpiry == 0 {
		tokenExpiry = 24 * time.Hour
	}

	token, err := jwtauth.NewJWT(cfg.Auth.JWTSecret, tokenExpiry).GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Token minted: subject=%s role=%s expires_in=%s\n", *subject, *role, tokenExpiry)
	fmt.Println(token)
}
