package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "memory", cfg.Session.Type)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Second, cfg.Extractor.URLTimeout)
	assert.Equal(t, "StudyPlanner/1.0", cfg.Extractor.UserAgent)
	assert.Equal(t, int64(0), cfg.Quiz.Seed)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
storage:
  type: minio
  endpoint: localhost:9000
  secret_key: ${PLANNER_TEST_SECRET}
session:
  type: redis
  ttl: 2h
extractor:
  url_timeout: 3s
quiz:
  seed: 42
`), 0644))

	t.Setenv("PLANNER_TEST_SECRET", "s3cret")
	t.Setenv("SESSION_REDIS_ADDR", "redis:6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "minio", cfg.Storage.Type)
	assert.Equal(t, "s3cret", cfg.Storage.SecretKey)
	assert.Equal(t, "redis", cfg.Session.Type)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis:6380", cfg.Session.RedisAddr)
	assert.Equal(t, 3*time.Second, cfg.Extractor.URLTimeout)
	assert.Equal(t, int64(42), cfg.Quiz.Seed)
	assert.Equal(t, "data/planner.db", cfg.Database.DSN)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
