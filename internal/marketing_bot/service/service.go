// Package service holds the marketing assistant logic: the intake dialog state
// machine, keyword and FAQ pipelines on top of a completion provider, the
// benchmark lookup and the Telegram adapter that drives them.
package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"time"
)

// CompletionClient sends role-tagged messages to a generative model.
type CompletionClient interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// BenchmarkFetcher downloads and parses the benchmark tables.
type BenchmarkFetcher interface {
	FetchBenchmarks(ctx context.Context) (models.Benchmarks, error)
}

// BenchmarkCache stores the last successful benchmark table.
type BenchmarkCache interface {
	Get(ctx context.Context) (models.Benchmarks, bool, error)
	Set(ctx context.Context, data models.Benchmarks, ttl time.Duration) error
}

// The UsersChatStateRepository defines the interface for user state storage.
type UsersChatStateRepository interface {
	Lock(userID int64) func()
	Get(userID int64) models.UserState
	Save(state models.UserState)
	Clear(userID int64)
}

// KeywordSource produces keyword suggestions for a business profile.
type KeywordSource interface {
	Generate(ctx context.Context, req models.KeywordRequest) []models.KeywordRecord
}

// FAQSource answers a free-form marketing question.
type FAQSource interface {
	Answer(ctx context.Context, question string) string
}

// BenchmarkSource returns benchmark tables, empty when unavailable.
type BenchmarkSource interface {
	Benchmarks(ctx context.Context) models.Benchmarks
}
