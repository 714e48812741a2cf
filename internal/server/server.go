package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "fable/docs" // Swagger 文档注册
	"fable/internal/config"
	"fable/internal/handler"
	previewHandler "fable/internal/handler/preview"
	runHandler "fable/internal/handler/run"
	sourceHandler "fable/internal/handler/source"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/comfyui"
	"fable/internal/pkg/jwtauth"
	"fable/internal/pkg/mongodb"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storagefactory"
	"fable/internal/server/middleware"
	"fable/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
	svc    service.DecomposeService
	srcSvc service.SourceService
}

// New 创建服务器实例
// MongoDB / Redis / 对象存储 / 渲染主机均为可选依赖，
// 未配置或连接失败时降级运行（详见 service.NewDecomposeService）
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化对象存储 (可选)
	var store storage.Storage
	if cfg.Storage.Type != "" {
		st, err := storagefactory.NewStorage(context.Background(), &cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize storage, continuing without it")
		} else {
			store = st
			log.Info().Str("type", cfg.Storage.Type).Msg("initialized storage")
		}
	}

	// 初始化渲染客户端 (可选)
	var render *comfyui.Client
	if cfg.ComfyUI.APIURL != "" {
		render = comfyui.NewClient(&comfyui.Config{
			APIURL:     cfg.ComfyUI.APIURL,
			Timeout:    cfg.ComfyUI.Timeout,
			MaxRetries: cfg.ComfyUI.MaxRetries,
			RetryDelay: cfg.ComfyUI.RetryDelay,
			RatePerSec: cfg.ComfyUI.RatePerSec,
		})
		log.Info().Str("api_url", cfg.ComfyUI.APIURL).Msg("initialized render client")
	}

	var db *mongo.Database
	if mongoClient != nil {
		db = mongoClient.Database()
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
		svc:    service.NewDecomposeService(cfg, db, redisCache, store, render),
		srcSvc: service.NewSourceService(db, store),
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查：就绪探针对已配置的 MongoDB/Redis 各做一次快速 ping
	healthHandler := handler.NewHealthHandler(s.readyProbe())
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	runHdl := runHandler.NewHandler(s.svc)
	previewHdl := previewHandler.NewHandler(s.svc)
	sourceHdl := sourceHandler.NewHandler(s.srcSvc)

	// API v1
	v1 := s.engine.Group("/api/v1")

	// 启用认证时全部业务接口走 Bearer Token
	if s.cfg.Auth.Enabled {
		jwtSecret := s.cfg.Auth.JWTSecret
		if jwtSecret == "" {
			jwtSecret = "default-secret-key-change-in-production"
			log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
		}

		tokenExpiry := s.cfg.Auth.TokenExpiry
		if tokenExpiry == 0 {
			tokenExpiry = 24 * time.Hour
		}

		v1.Use(middleware.Auth(jwtauth.NewJWT(jwtSecret, tokenExpiry)))
	}

	{
		// 源文本管理
		v1.POST("/sources", sourceHdl.UploadSource)
		v1.GET("/sources", sourceHdl.ListSources)
		v1.GET("/sources/:id", sourceHdl.GetSource)
		v1.GET("/sources/:id/download", sourceHdl.DownloadSource)
		v1.DELETE("/sources/:id", sourceHdl.DeleteSource)

		// 分解运行
		v1.POST("/runs", runHdl.CreateRun)
		v1.GET("/runs/:id", runHdl.GetRun)
		v1.GET("/runs/:id/scenes", runHdl.GetScenes)
		v1.GET("/runs/:id/prompts", runHdl.GetPrompts)
		v1.GET("/runs/:id/characters", runHdl.GetCharacters)
		v1.GET("/runs/:id/narration", runHdl.GetNarration)
		v1.GET("/runs/:id/sfx", runHdl.GetSFX)
		v1.GET("/runs/:id/tts-chunks", runHdl.GetTTSChunks)
		v1.GET("/runs/:id/summary", runHdl.GetSummary)
		v1.POST("/runs/:id/checkpoint", runHdl.MarkCheckpoint)
		v1.POST("/runs/:id/render", runHdl.Render)

		// 组件预览（无状态试跑）
		v1.POST("/preview/segment", previewHdl.Segment)
		v1.POST("/preview/entities", previewHdl.Entities)
		v1.POST("/preview/classify", previewHdl.Classify)
		v1.POST("/preview/prompts", previewHdl.Prompts)
		v1.POST("/preview/moments", previewHdl.Moments)
	}
}

// readyProbe 就绪探针
// 未配置的依赖不参与判定；已配置的依赖任一 ping 不通即未就绪
func (s *Server) readyProbe() func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if s.mongo != nil && s.mongo.Client().Ping(ctx, readpref.Primary()) != nil {
			return false
		}
		if s.redis != nil && s.redis.Client().Ping(ctx).Err() != nil {
			return false
		}
		return true
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
