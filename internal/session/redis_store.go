package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fyerfyer/study-planner/internal/models"
)

// RedisStore 基于Redis实现的会话存储
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 创建Redis会话存储，创建时检查连接
func NewRedisStore(config Config) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Create 创建会话
func (r *RedisStore) Create(ctx context.Context, username string) (string, error) {
	token := newToken()
	if err := r.client.Set(ctx, key(token), username, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Lookup 查找会话
func (r *RedisStore) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", models.ErrUnauthorized
	}
	username, err := r.client.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return username, nil
}

// Revoke 作废会话
func (r *RedisStore) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, key(token)).Err()
}

// Close 关闭Redis连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// 在包初始化时注册Redis存储
func init() {
	RegisterStore("redis", NewRedisStore)
}
