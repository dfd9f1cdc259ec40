package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fyerfyer/study-planner/api"
	"github.com/fyerfyer/study-planner/api/handler"
	"github.com/fyerfyer/study-planner/api/middleware"
	plannerconfig "github.com/fyerfyer/study-planner/config"
	"github.com/fyerfyer/study-planner/internal/database"
	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/repository"
	"github.com/fyerfyer/study-planner/internal/services"
	"github.com/fyerfyer/study-planner/internal/session"
	"github.com/fyerfyer/study-planner/internal/study"
	"github.com/fyerfyer/study-planner/pkg/storage"
)

// 命令行参数，显式设置时覆盖配置文件
type flags struct {
	ConfigFile   string        // 配置文件路径
	Port         int           // 服务端口
	Mode         string        // 运行模式 (debug/release)
	LogLevel     string        // 日志级别
	StoragePath  string        // 本地文件存储路径
	DatabaseDSN  string        // 数据库DSN
	SessionType  string        // 会话存储类型
	RedisAddr    string        // Redis 地址
	ReadTimeout  time.Duration // 读取超时
	WriteTimeout time.Duration // 写入超时
}

func main() {
	// 加载 .env，文件不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Failed to load .env file: %v", err)
	}

	f := parseFlags()

	cfg, err := plannerconfig.Load(f.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, f)

	gin.SetMode(cfg.Server.Mode)

	logger := setupLogger(cfg.Log)
	logger.Info("Starting Study Planner...")

	if err := setupDatabase(cfg.Database, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	fileStorage, err := setupStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	sessions, err := setupSessions(cfg.Session)
	if err != nil {
		logger.Fatalf("Failed to initialize session store: %v", err)
	}
	if closer, ok := sessions.(io.Closer); ok {
		defer closer.Close()
	}

	engine := setupEngine(cfg, logger)

	// 初始化业务服务
	authService := services.NewAuthService(
		repository.NewUserRepository(),
		sessions,
		services.WithAuthLogger(logger),
	)
	materialService := services.NewMaterialService(
		repository.NewMaterialRepository(),
		fileStorage,
		engine,
		services.WithMaterialLogger(logger),
	)

	// 设置路由
	var routerOpts []api.RouterOption
	if cfg.Server.Cors {
		routerOpts = append(routerOpts, api.WithCors())
	}
	r := api.SetupRouter(
		handler.NewAuthHandler(authService),
		handler.NewMaterialHandler(materialService),
		handler.NewVideoHandler(services.NewVideoService()),
		authService,
		routerOpts...,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.ConfigFile, "config", "config.yaml", "Path to config file")

	// 服务配置
	flag.IntVar(&f.Port, "port", 8080, "Server port")
	flag.StringVar(&f.Mode, "mode", "debug", "Run mode (debug/release)")
	flag.StringVar(&f.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	flag.DurationVar(&f.ReadTimeout, "read-timeout", 30*time.Second, "Read timeout")
	flag.DurationVar(&f.WriteTimeout, "write-timeout", 60*time.Second, "Write timeout")

	// 存储配置
	flag.StringVar(&f.StoragePath, "storage", "./data/uploads", "Local file storage path")
	flag.StringVar(&f.DatabaseDSN, "db", "data/planner.db", "SQLite database path")

	// 会话配置
	flag.StringVar(&f.SessionType, "session", "memory", "Session store type (memory/redis)")
	flag.StringVar(&f.RedisAddr, "redis-addr", "localhost:6379", "Redis address for sessions")

	flag.Parse()
	return f
}

// applyFlags 用显式设置的命令行参数覆盖配置文件
func applyFlags(cfg *plannerconfig.Config, f flags) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Server.Port = f.Port
		case "mode":
			cfg.Server.Mode = f.Mode
		case "log-level":
			cfg.Log.Level = f.LogLevel
		case "read-timeout":
			cfg.Server.ReadTimeout = f.ReadTimeout
		case "write-timeout":
			cfg.Server.WriteTimeout = f.WriteTimeout
		case "storage":
			cfg.Storage.Path = f.StoragePath
		case "db":
			cfg.Database.DSN = f.DatabaseDSN
		case "session":
			cfg.Session.Type = f.SessionType
		case "redis-addr":
			cfg.Session.RedisAddr = f.RedisAddr
		}
	})
}

// setupLogger 设置日志系统，配置了文件时同时写入滚动日志
func setupLogger(cfg plannerconfig.LogConfig) *logrus.Logger {
	logger := middleware.GetLogger()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.File != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}))
	}

	return logger
}

// setupDatabase 设置数据库
func setupDatabase(cfg plannerconfig.DatabaseConfig, logger *logrus.Logger) error {
	dbConfig := database.DefaultConfig()
	dbConfig.Type = cfg.Type
	if cfg.DSN != "" {
		dbConfig.DSN = cfg.DSN
	}
	return database.Setup(dbConfig, logger)
}

// setupStorage 设置文件存储服务
func setupStorage(cfg plannerconfig.StorageConfig) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type: cfg.Type,
		Local: storage.LocalConfig{
			Path: cfg.Path,
		},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		},
	})
}

// setupSessions 设置会话存储
func setupSessions(cfg plannerconfig.SessionConfig) (session.Store, error) {
	sessionConfig := session.DefaultConfig()
	sessionConfig.Type = cfg.Type
	sessionConfig.RedisAddr = cfg.RedisAddr
	sessionConfig.RedisPassword = cfg.RedisPassword
	sessionConfig.RedisDB = cfg.RedisDB
	if cfg.TTL > 0 {
		sessionConfig.TTL = cfg.TTL
	}
	return session.NewStore(sessionConfig)
}

// setupEngine 创建学习计划引擎
func setupEngine(cfg *plannerconfig.Config, logger *logrus.Logger) *study.Engine {
	fetcher := document.NewWebFetcher(
		document.WithTimeout(cfg.Extractor.URLTimeout),
		document.WithUserAgent(cfg.Extractor.UserAgent),
	)
	extractor := document.NewExtractor(
		document.WithFetcher(fetcher),
		document.WithExtractorLogger(logger),
	)

	opts := []study.Option{
		study.WithLogger(logger),
		study.WithExtractor(extractor),
	}
	if cfg.Quiz.Seed != 0 {
		opts = append(opts, study.WithSeed(cfg.Quiz.Seed))
	}
	return study.NewEngine(opts...)
}
