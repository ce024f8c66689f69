package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("COMPASS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("COMPASS_ENV", "local")
	t.Setenv("COMPASS_PROVIDER_KEY", "testAPIKey")
	t.Setenv("COMPASS_PROVIDER_TYPE", "google-rest")
	t.Setenv("COMPASS_RATE_WINDOW", "30s")
	t.Setenv("COMPASS_CACHE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.Equal(t, "google-rest", cfg.Provider.Type)
	assert.Equal(t, "testAPIKey", cfg.Provider.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 50, cfg.Provider.QPS)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.IdleTTL)
	assert.Equal(t, "postgres", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.ValidationTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CoordinatesTTL)
	assert.Equal(t, time.Hour, cfg.Cache.NearbyTTL)
	assert.Equal(t, "testHost", cfg.Cache.Database.Host)
	assert.Equal(t, "12345", cfg.Cache.Database.Port)
	assert.Equal(t, "admin", cfg.Cache.Database.User)
	assert.Equal(t, "adminpass", cfg.Cache.Database.Password)
	assert.Equal(t, "testName", cfg.Cache.Database.Name)
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, ".env")
	filet.File(t, path, "COMPASS_RATE_CAPACITY=7\nREDIS_ADDR=redis:6379\n")

	t.Setenv("COMPASS_ENV_FILE", path)
	t.Setenv("COMPASS_CACHE_BACKEND", "redis")
	t.Cleanup(func() {
		_ = os.Unsetenv("COMPASS_RATE_CAPACITY")
		_ = os.Unsetenv("REDIS_ADDR")
	})

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 7, cfg.RateLimit.Capacity)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 0, cfg.Cache.Redis.DB)
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		key   string
		panic string
	}{
		{"COMPASS_HEALTH_PORT", "failed to parse port for monitoring server from configuration, must be an integer"},
		{"COMPASS_HTTP_PORT", "failed to parse port for API server from configuration, must be an integer"},
		{"COMPASS_PROVIDER_TIMEOUT", "failed to parse provider timeout from configuration"},
		{"COMPASS_RATE_CAPACITY", "failed to parse rate limit capacity from configuration, must be an integer"},
		{"COMPASS_RATE_WINDOW", "failed to parse rate limit window from configuration"},
		{"COMPASS_CACHE_NEARBY_TTL", "failed to parse nearby cache ttl from configuration"},
		{"REDIS_DB", "failed to parse redis database from configuration, must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("COMPASS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
			t.Setenv(tt.key, "error_value")

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
