package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"time"
)

const benchmarksFlightKey = "benchmarks"

// BenchmarkService serves benchmark tables from the cache and scrapes the page
// on a bounded pool of workers when the cache is cold. Concurrent misses share one scrape.
type BenchmarkService struct {
	fetcher BenchmarkFetcher
	cache   BenchmarkCache
	ttl     time.Duration
	sem     *semaphore.Weighted // Ограничивает число одновременных загрузок страницы
	group   singleflight.Group
}

// NewBenchmarkService creates a BenchmarkService.
// Arguments:
//   - fetcher: page scraper.
//   - cache: storage for successful results, nil disables caching.
//   - ttl: how long a scraped table is served from the cache.
//   - workers: maximum number of scrapes running at once.
//
// Returns a pointer to a BenchmarkService.
func NewBenchmarkService(fetcher BenchmarkFetcher, cache BenchmarkCache, ttl time.Duration, workers int) *BenchmarkService {
	if workers <= 0 {
		workers = 1
	}
	return &BenchmarkService{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// Benchmarks returns the tables grouped by platform or an empty mapping when
// they can not be obtained. Errors are logged, never returned.
func (s *BenchmarkService) Benchmarks(ctx context.Context) models.Benchmarks {
	if data, ok := s.fromCache(ctx); ok {
		metrics.BenchmarkFetches.WithLabelValues("cache").Inc()
		return data
	}

	v, err, shared := s.group.Do(benchmarksFlightKey, func() (interface{}, error) {
		return s.scrape(ctx)
	})
	if err != nil {
		logrus.WithError(err).WithField("shared", shared).Error("Failed to fetch benchmarks")
		metrics.BenchmarkFetches.WithLabelValues("error").Inc()
		return models.Benchmarks{}
	}
	metrics.BenchmarkFetches.WithLabelValues("scrape").Inc()
	return v.(models.Benchmarks)
}

func (s *BenchmarkService) scrape(ctx context.Context) (models.Benchmarks, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	data, err := s.fetcher.FetchBenchmarks(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && hasEntries(data) {
		if err = s.cache.Set(ctx, data, s.ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache benchmarks")
		}
	}
	return data, nil
}

func (s *BenchmarkService) fromCache(ctx context.Context) (models.Benchmarks, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read cached benchmarks")
		return nil, false
	}
	return data, ok
}

func hasEntries(data models.Benchmarks) bool {
	for _, entries := range data {
		if len(entries) > 0 {
			return true
		}
	}
	return false
}
