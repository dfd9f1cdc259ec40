package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // 服务器主机
	Port         int           `mapstructure:"port"`          // 服务器端口
	Mode         string        `mapstructure:"mode"`          // 运行模式：debug 或 release
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // 读取超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // 写入超时
	Cors         bool          `mapstructure:"cors"`          // 是否允许跨域
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`        // 日志级别
	File       string `mapstructure:"file"`         // 日志文件，为空时只输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个文件最大尺寸
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的旧文件数
	MaxAgeDays int    `mapstructure:"max_age_days"` // 旧文件保留天数
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type"`     // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`     // 本地存储路径
	Bucket    string `mapstructure:"bucket"`   // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"` // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // 数据库类型，目前只支持sqlite
	DSN  string `mapstructure:"dsn"`  // 数据源名称
}

// SessionConfig 会话配置
type SessionConfig struct {
	Type          string        `mapstructure:"type"`           // 会话存储类型：memory 或 redis
	TTL           time.Duration `mapstructure:"ttl"`            // 会话有效期
	RedisAddr     string        `mapstructure:"redis_addr"`     // Redis地址
	RedisPassword string        `mapstructure:"redis_password"` // Redis密码
	RedisDB       int           `mapstructure:"redis_db"`       // Redis数据库编号
}

// ExtractorConfig 文本提取配置
type ExtractorConfig struct {
	URLTimeout time.Duration `mapstructure:"url_timeout"` // 网页抓取超时
	UserAgent  string        `mapstructure:"user_agent"`  // 抓取使用的User-Agent
}

// QuizConfig 测验配置
type QuizConfig struct {
	Seed int64 `mapstructure:"seed"` // 随机种子，0表示按时间播种
}

// Load 从文件和环境变量加载配置
// 配置文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	var config Config

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	// 支持环境变量覆盖，例如 SERVER_PORT、SESSION_REDIS_ADDR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expandSecrets(&config)
	return &config, nil
}

// expandSecrets 展开 ${VAR} 形式的敏感配置
func expandSecrets(cfg *Config) {
	for _, s := range []*string{
		&cfg.Storage.AccessKey,
		&cfg.Storage.SecretKey,
		&cfg.Session.RedisPassword,
	} {
		if strings.HasPrefix(*s, "${") && strings.HasSuffix(*s, "}") {
			if val := os.Getenv((*s)[2 : len(*s)-1]); val != "" {
				*s = val
			}
		}
	}
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.cors", false)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./data/uploads")
	v.SetDefault("storage.bucket", "study-planner")
	v.SetDefault("storage.use_ssl", false)

	// 数据库默认配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/planner.db")

	// 会话默认配置
	v.SetDefault("session.type", "memory")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)

	// 文本提取默认配置
	v.SetDefault("extractor.url_timeout", "10s")
	v.SetDefault("extractor.user_agent", "StudyPlanner/1.0")

	// 测验默认配置
	v.SetDefault("quiz.seed", 0)
}
