package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: assistant-test
`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)

	assert.Equal(t, "assistant-test", cfg.App.Name)
	assert.Equal(t, 30*60*1000, cfg.Patterns.CacheDuration)
	assert.Equal(t, 10000, cfg.Patterns.RequestTimeout)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "none", cfg.Outcomes.Sink)
	assert.Equal(t, ":9102", cfg.Metrics.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_RedisSessionRequiresAddress(t *testing.T) {
	path := writeConfig(t, `
session:
  store: redis
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.redis.address")
}

func TestLoadFromFile_InvalidSessionStoreRejected(t *testing.T) {
	path := writeConfig(t, `
session:
  store: cassandra
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFromFile_HTTPSinkRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
outcomes:
  sink: http
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outcomes.base_url")
}

func TestLoadFromFile_PostgresSinkRequiresConnection(t *testing.T) {
	path := writeConfig(t, `
outcomes:
  sink: postgres
database:
  postgres:
    host: localhost
    database: assistant
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.user")
}

func TestLoadFromFile_FullConfig(t *testing.T) {
	path := writeConfig(t, `
patterns:
  base_url: http://patterns.local
  cache_duration: 60000
  redis_cache: true
session:
  store: redis
  ttl: 120000
outcomes:
  sink: http
  base_url: http://collector.local
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)

	assert.Equal(t, "http://patterns.local", cfg.Patterns.BaseURL)
	assert.True(t, cfg.Patterns.RedisCache)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "http://collector.local", cfg.Outcomes.BaseURL)
	assert.Equal(t, time.Minute, GetDuration(cfg.Patterns.CacheDuration))
	assert.Equal(t, 2*time.Minute, GetDuration(cfg.Session.TTL))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
