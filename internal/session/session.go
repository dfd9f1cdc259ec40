package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store 会话令牌存储接口
type Store interface {
	// Create 为用户创建新的会话令牌
	Create(ctx context.Context, username string) (string, error)
	// Lookup 查找令牌对应的用户名，令牌无效或过期时返回 models.ErrUnauthorized
	Lookup(ctx context.Context, token string) (string, error)
	// Revoke 作废令牌，令牌不存在时不报错
	Revoke(ctx context.Context, token string) error
}

// Factory 会话存储工厂函数类型
type Factory func(config Config) (Store, error)

// 注册的会话存储实现
var registry = make(map[string]Factory)

// RegisterStore 注册会话存储实现
func RegisterStore(name string, factory Factory) {
	registry[name] = factory
}

// NewStore 根据配置创建会话存储，未知类型使用内存存储
func NewStore(config Config) (Store, error) {
	if factory, ok := registry[config.Type]; ok {
		return factory(config)
	}
	return NewMemoryStore(config)
}

// Config 会话配置
type Config struct {
	// 存储类型: "memory" 或 "redis"
	Type string
	// Redis连接地址 (仅Redis使用)
	RedisAddr string
	// Redis密码 (仅Redis使用)
	RedisPassword string
	// Redis数据库编号 (仅Redis使用)
	RedisDB int
	// 会话有效期
	TTL time.Duration
	// 自动清理间隔时间 (仅内存存储使用)
	CleanupInterval time.Duration
}

// DefaultConfig 返回默认会话配置
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		TTL:             24 * time.Hour,
		CleanupInterval: 10 * time.Minute,
	}
}

// newToken 生成随机令牌
func newToken() string {
	return uuid.NewString()
}

// key 生成存储键
func key(token string) string {
	return "session:" + token
}
