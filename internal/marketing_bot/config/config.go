package config

import (
	"errors"
	"fmt"
	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"io/fs"
	"time"
)

const defaultEnvFile = "bot.env"

// Config holds the application configuration parameters.
// Each field corresponds to an expected environment variable.
type Config struct {
	EnvLogsLevel   string `env:"LOG_LEVEL" envDefault:"info"`                 // Log level for the application (e.g., debug, info)
	EnvLogFileName string `env:"LOG_FILE_NAME" envDefault:"marketingBot.log"` // File's name for log
	EnvBotToken    string `env:"TOKEN_BOT,required"`                          // Telegram Bot Token for authentication with the Telegram API
	EnvBotDebug    bool   `env:"BOT_DEBUG" envDefault:"false"`                // Verbose Telegram API logging

	EnvGenerativeName        string        `env:"GENERATIVE_NAME" envDefault:"groq"`       // Generative AI provider ("groq" or "gemini")
	EnvGenerativeApiKey      string        `env:"GENERATIVE_API_KEY,required"`             // API Key for the generative AI service
	EnvGenerativeModel       string        `env:"GENERATIVE_MODEL"`                        // Model name, provider default when empty
	EnvGenerativeBaseURL     string        `env:"GENERATIVE_BASE_URL"`                     // OpenAI-compatible API root, Groq when empty
	EnvGenerativeTemperature float32       `env:"GENERATIVE_TEMPERATURE" envDefault:"0.7"` // Sampling temperature
	EnvGenerativeMaxTokens   int           `env:"GENERATIVE_MAX_TOKENS" envDefault:"2000"` // Reply length limit
	EnvCompletionTimeout     time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"30s"`     // Timeout of one completion attempt

	EnvBenchmarkURL      string        `env:"BENCHMARK_URL" envDefault:"http://databox.com/ppc-industry-benchmarks"` // Benchmark page
	EnvBenchmarkTimeout  time.Duration `env:"BENCHMARK_TIMEOUT" envDefault:"15s"`                                    // Page download timeout
	EnvBenchmarkCacheTTL time.Duration `env:"BENCHMARK_CACHE_TTL" envDefault:"6h"`                                   // How long scraped tables are reused
	EnvBenchmarkWorkers  int           `env:"BENCHMARK_WORKERS" envDefault:"2"`                                      // Parallel page downloads

	EnvRedisAddr     string `env:"REDIS_ADDR"`              // Redis for the benchmark cache, in-memory cache when empty
	EnvRedisPassword string `env:"REDIS_PASSWORD"`          // Redis password
	EnvRedisDB       int    `env:"REDIS_DB" envDefault:"0"` // Redis database number

	EnvStateTTL time.Duration `env:"STATE_TTL" envDefault:"24h"`   // Inactivity period after which a dialog is forgotten
	EnvHTTPAddr string        `env:"HTTP_ADDR" envDefault:":8080"` // Ops server address (/healthz, /metrics)
}

// NewConfig loads bot.env when it exists and parses the environment into Config.
// Variables already present in the environment win over the file.
func NewConfig() (*Config, error) {
	return load(defaultEnvFile)
}

func load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("new load %s: %w", envFile, err)
		}
		logrus.Infof("Env file %s not found, using process environment", envFile)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		logrus.WithError(err).Error("Failed to parse environment")
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if config.EnvBenchmarkWorkers <= 0 {
		return nil, fmt.Errorf("BENCHMARK_WORKERS must be positive, got %d", config.EnvBenchmarkWorkers)
	}
	return config, nil
}
