package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every HRMS_ variable the tests touch. withEnv clears them all first so
// ambient shell configuration cannot leak into assertions.
var hrmsEnvKeys = []string{
	"HRMS_APP_NAME",
	"HRMS_APP_ENV",
	"HRMS_APP_PORT",
	"HRMS_DATABASE_HOST",
	"HRMS_DATABASE_PORT",
	"HRMS_DATABASE_USER",
	"HRMS_DATABASE_PASSWORD",
	"HRMS_DATABASE_DBNAME",
	"HRMS_DATABASE_SSLMODE",
	"HRMS_DATABASE_MAX_OPEN_CONNS",
	"HRMS_DATABASE_MAX_IDLE_CONNS",
	"HRMS_JWT_SECRET",
	"HRMS_HTTP_CORS_ALLOW_ORIGINS",
	"HRMS_HTTP_RATE_LIMIT",
	"HRMS_HTTP_RATE_LIMIT_WINDOW",
	"HRMS_CACHE_STAGE_LIST_TTL",
	"HRMS_CACHE_ALLOW_IN_MEMORY_FALLBACK",
}

func withEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range hrmsEnvKeys {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
			os.Unsetenv(key)
		}
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hrms-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "hrms", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, 6000*time.Second, cfg.Cache.StageListTTL)
	assert.True(t, cfg.Cache.AllowInMemoryFallback)
}

func TestLoadFromEnvironment(t *testing.T) {
	withEnv(t, map[string]string{
		"HRMS_APP_NAME":                "hr-api",
		"HRMS_APP_ENV":                 "staging",
		"HRMS_APP_PORT":                "9000",
		"HRMS_DATABASE_HOST":           "pg.internal",
		"HRMS_DATABASE_PORT":           "5433",
		"HRMS_DATABASE_USER":           "hr_rw",
		"HRMS_DATABASE_PASSWORD":       "s3cret",
		"HRMS_DATABASE_DBNAME":         "hr_staging",
		"HRMS_DATABASE_SSLMODE":        "require",
		"HRMS_DATABASE_MAX_OPEN_CONNS": "50",
		"HRMS_DATABASE_MAX_IDLE_CONNS": "10",
		"HRMS_CACHE_STAGE_LIST_TTL":    "30m",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hr-api", cfg.App.Name)
	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "hr_rw", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "hr_staging", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Cache.StageListTTL)
}

func TestLoadPoolValidation(t *testing.T) {
	t.Run("idle above open is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{
			"HRMS_DATABASE_MAX_OPEN_CONNS": "10",
			"HRMS_DATABASE_MAX_IDLE_CONNS": "20",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("negative idle is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{"HRMS_DATABASE_MAX_IDLE_CONNS": "-1"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("negative rate limit is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{"HRMS_HTTP_RATE_LIMIT": "-1"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http.rate_limit cannot be negative")
	})

	t.Run("negative rate limit window is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{"HRMS_HTTP_RATE_LIMIT_WINDOW": "-5s"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http.rate_limit_window cannot be negative")
	})

	t.Run("zero rate limit falls back to the default", func(t *testing.T) {
		withEnv(t, map[string]string{"HRMS_HTTP_RATE_LIMIT": "0"})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.HTTP.RateLimit)
	})

	t.Run("zero open falls back to the default", func(t *testing.T) {
		withEnv(t, map[string]string{"HRMS_DATABASE_MAX_OPEN_CONNS": "0"})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoadProductionValidation(t *testing.T) {
	// A production config that passes every check. Each case below breaks
	// exactly one rule on top of it.
	base := map[string]string{
		"HRMS_APP_ENV":                        "production",
		"HRMS_JWT_SECRET":                     "an-hmac-signing-secret-of-sufficient-length",
		"HRMS_DATABASE_PASSWORD":              "prod-db-password",
		"HRMS_DATABASE_SSLMODE":               "verify-full",
		"HRMS_CACHE_ALLOW_IN_MEMORY_FALLBACK": "false",
	}

	cases := []struct {
		name    string
		key     string
		value   string // empty means unset
		wantErr string
	}{
		{"missing jwt secret", "HRMS_JWT_SECRET", "", "jwt.secret is required in production"},
		{"short jwt secret", "HRMS_JWT_SECRET", "too-short", "jwt.secret must be at least 32 characters"},
		{"missing database password", "HRMS_DATABASE_PASSWORD", "", "database.password is required in production"},
		{"ssl disabled", "HRMS_DATABASE_SSLMODE", "disable", "database.sslmode cannot be 'disable' in production"},
		{"in-memory cache fallback", "HRMS_CACHE_ALLOW_IN_MEMORY_FALLBACK", "true", "allow_in_memory_fallback"},
		{"wildcard cors origin", "HRMS_HTTP_CORS_ALLOW_ORIGINS", "*", "cors_allow_origins"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := make(map[string]string, len(base)+1)
			for k, v := range base {
				env[k] = v
			}
			delete(env, tc.key)
			if tc.value != "" {
				env[tc.key] = tc.value
			}
			withEnv(t, env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("valid production config passes", func(t *testing.T) {
		withEnv(t, base)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.False(t, cfg.Cache.AllowInMemoryFallback)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "pg.internal",
		Port:     5433,
		User:     "hr_rw",
		Password: "p@ss/word#1",
		DBName:   "hr",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "pg.internal:5433")
	assert.Contains(t, dsn, "/hr")
	assert.Contains(t, dsn, "sslmode=require")
	// Credentials must be URL-escaped so the DSN stays parseable.
	assert.Contains(t, dsn, "p%40ss%2Fword%231")
	assert.NotContains(t, dsn, "p@ss/word#1")

	t.Run("empty password still yields a DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", DBName: "hrms", SSLMode: "disable"}
		assert.NotEmpty(t, cfg.DSN())
	})
}
