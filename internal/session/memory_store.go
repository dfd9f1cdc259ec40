package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fyerfyer/study-planner/internal/models"
)

// MemoryStore 基于go-cache实现的内存会话存储
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore(config Config) (Store, error) {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cleanupInterval := config.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}, nil
}

// Create 创建会话
func (m *MemoryStore) Create(_ context.Context, username string) (string, error) {
	token := newToken()
	m.cache.Set(key(token), username, m.ttl)
	return token, nil
}

// Lookup 查找会话
func (m *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", models.ErrUnauthorized
	}
	value, found := m.cache.Get(key(token))
	if !found {
		return "", models.ErrUnauthorized
	}
	username, ok := value.(string)
	if !ok {
		return "", models.ErrUnauthorized
	}
	return username, nil
}

// Revoke 作废会话
func (m *MemoryStore) Revoke(_ context.Context, token string) error {
	m.cache.Delete(key(token))
	return nil
}

// 在包初始化时注册内存存储
func init() {
	RegisterStore("memory", NewMemoryStore)
}
