package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var retailBenchmarks = models.Benchmarks{
	models.PlatformGoogle: {{Industry: "Retail", CTR: "4.5%", CPC: "$1.35"}},
}

type fakeFetcher struct {
	calls   int32
	data    models.Benchmarks
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchBenchmarks(_ context.Context) (models.Benchmarks, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.data, f.err
}

type failingCache struct{}

func (failingCache) Get(context.Context) (models.Benchmarks, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, models.Benchmarks, time.Duration) error {
	return errors.New("cache down")
}

func TestBenchmarkService_CachesSuccess(t *testing.T) {
	fetcher := &fakeFetcher{data: retailBenchmarks}
	svc := NewBenchmarkService(fetcher, repository.NewMemoryBenchmarkCache(), time.Hour, 2)

	assert.Equal(t, retailBenchmarks, svc.Benchmarks(context.Background()))
	assert.Equal(t, retailBenchmarks, svc.Benchmarks(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
}

func TestBenchmarkService_FailureIsEmptyAndNotCached(t *testing.T) {
	fetcher := &fakeFetcher{data: models.Benchmarks{}, err: errors.New("status 503")}
	svc := NewBenchmarkService(fetcher, repository.NewMemoryBenchmarkCache(), time.Hour, 1)

	got := svc.Benchmarks(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	svc.Benchmarks(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetcher.calls))
}

func TestBenchmarkService_EmptyTablesNotCached(t *testing.T) {
	fetcher := &fakeFetcher{data: models.Benchmarks{models.PlatformFacebook: {}}}
	svc := NewBenchmarkService(fetcher, repository.NewMemoryBenchmarkCache(), time.Hour, 1)

	svc.Benchmarks(context.Background())
	svc.Benchmarks(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetcher.calls))
}

func TestBenchmarkService_CacheErrorsIgnored(t *testing.T) {
	fetcher := &fakeFetcher{data: retailBenchmarks}
	svc := NewBenchmarkService(fetcher, failingCache{}, time.Hour, 1)

	assert.Equal(t, retailBenchmarks, svc.Benchmarks(context.Background()))
}

func TestBenchmarkService_ConcurrentMissesShareOneScrape(t *testing.T) {
	fetcher := &fakeFetcher{
		data:    retailBenchmarks,
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
	svc := NewBenchmarkService(fetcher, repository.NewMemoryBenchmarkCache(), time.Hour, 4)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]models.Benchmarks, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Benchmarks(context.Background())
		}(i)
	}

	<-fetcher.started
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
	for _, r := range results {
		require.Equal(t, retailBenchmarks, r)
	}
}
