package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.KV.Backend)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, time.Second, cfg.Auth.Latency)
	assert.Equal(t, "demo@example.com", cfg.Auth.DemoEmail)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Empty(t, cfg.App.APIKeys)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KV_BACKEND", "postgres")
	t.Setenv("KV_POSTGRES_HOST", "db")
	t.Setenv("KV_POSTGRES_PASS", "secret")
	t.Setenv("API_KEYS", "k1, ,k2")
	t.Setenv("AUTH_LATENCY", "0s")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:secret@db:5432/metamarket?sslmode=disable", cfg.KV.PostgresDSN())
	assert.Equal(t, []string{"k1", "k2"}, cfg.App.APIKeys)
	assert.Equal(t, time.Duration(0), cfg.Auth.Latency)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("KV_BACKEND", "mongodb")

	_, err := Load()
	assert.ErrorContains(t, err, "KV_BACKEND")
}

func TestLoad_RejectsUnknownCache(t *testing.T) {
	t.Setenv("CACHE_TYPE", "memcached")

	assert.Panics(t, func() { MustLoad() })
}

func TestKVConfig_MySQLDSN(t *testing.T) {
	k := KVConfig{MySQLUser: "u", MySQLPassword: "p", MySQLHost: "h", MySQLPort: 3306, MySQLName: "n"}

	assert.Equal(t, "u:p@tcp(h:3306)/n?parseTime=true", k.MySQLDSN())
}

func TestRedisConfig_Address(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}

	assert.Equal(t, "cache:6380", r.Address())
}
