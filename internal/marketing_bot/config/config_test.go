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
	t.Setenv("TOKEN_BOT", "123:abc")
	t.Setenv("GENERATIVE_API_KEY", "gsk_test")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.EnvLogsLevel)
	assert.Equal(t, "groq", cfg.EnvGenerativeName)
	assert.InDelta(t, 0.7, cfg.EnvGenerativeTemperature, 0.0001)
	assert.Equal(t, 2000, cfg.EnvGenerativeMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.EnvCompletionTimeout)
	assert.Equal(t, "http://databox.com/ppc-industry-benchmarks", cfg.EnvBenchmarkURL)
	assert.Equal(t, 6*time.Hour, cfg.EnvBenchmarkCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.EnvStateTTL)
	assert.Equal(t, ":8080", cfg.EnvHTTPAddr)
	assert.Empty(t, cfg.EnvRedisAddr)
}

func TestLoad_FromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bot.env")
	content := "TOKEN_BOT=file-token\nGENERATIVE_API_KEY=file-key\nGENERATIVE_NAME=gemini\nSTATE_TTL=30m\nREDIS_ADDR=localhost:6379\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("TOKEN_BOT", "env-token")
	t.Cleanup(func() {
		for _, key := range []string{"GENERATIVE_API_KEY", "GENERATIVE_NAME", "STATE_TTL", "REDIS_ADDR"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := load(file)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.EnvBotToken, "environment wins over file")
	assert.Equal(t, "file-key", cfg.EnvGenerativeApiKey)
	assert.Equal(t, "gemini", cfg.EnvGenerativeName)
	assert.Equal(t, 30*time.Minute, cfg.EnvStateTTL)
	assert.Equal(t, "localhost:6379", cfg.EnvRedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("required token", func(t *testing.T) {
		t.Setenv("TOKEN_BOT", "")
		t.Setenv("GENERATIVE_API_KEY", "key")
		_ = os.Unsetenv("TOKEN_BOT")
		_, err := load(missing)
		require.Error(t, err)
	})
	t.Run("non positive workers", func(t *testing.T) {
		t.Setenv("TOKEN_BOT", "t")
		t.Setenv("GENERATIVE_API_KEY", "key")
		t.Setenv("BENCHMARK_WORKERS", "0")
		_, err := load(missing)
		require.Error(t, err)
	})
}
