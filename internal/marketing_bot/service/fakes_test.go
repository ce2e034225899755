package service

import (
	"context"
	"sync"
	"time"

	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/repository"
)

type fakeCompletion struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]models.Message
}

func (f *fakeCompletion) Complete(_ context.Context, messages []models.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	return f.reply, f.err
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// spyStore counts Clear calls on top of the real in-memory store.
type spyStore struct {
	*repository.UsersState
	mu     sync.Mutex
	clears int
}

func newSpyStore() *spyStore {
	return &spyStore{UsersState: repository.NewUsersStateMap(time.Hour)}
}

func (s *spyStore) Clear(userID int64) {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	s.UsersState.Clear(userID)
}

func (s *spyStore) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

type fakeKeywords struct {
	records  []models.KeywordRecord
	requests []models.KeywordRequest
}

func (f *fakeKeywords) Generate(_ context.Context, req models.KeywordRequest) []models.KeywordRecord {
	f.requests = append(f.requests, req)
	return f.records
}

type fakeFAQ struct {
	questions []string
}

func (f *fakeFAQ) Answer(_ context.Context, question string) string {
	f.questions = append(f.questions, question)
	return "answer: " + question
}

type fakeBenchmarkSource struct {
	data  models.Benchmarks
	calls int
}

func (f *fakeBenchmarkSource) Benchmarks(_ context.Context) models.Benchmarks {
	f.calls++
	return f.data
}

// blockingBenchmarks holds every fetch until release is closed.
type blockingBenchmarks struct {
	release chan struct{}
}

func (b *blockingBenchmarks) Benchmarks(ctx context.Context) models.Benchmarks {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return models.Benchmarks{}
}
