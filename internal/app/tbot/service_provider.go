// Package tbot provides dependency injection and service management for the marketing bot.
// It initializes and provides access to services, repositories and clients required for bot operations.
package tbot

import (
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/api"
	opsHTTP "github.com/DenisKhanov/MarketingBot/internal/marketing_bot/api/http"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/config"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/infra/generative"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/repository"
	botServ "github.com/DenisKhanov/MarketingBot/internal/marketing_bot/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

// ServiceProvider manages the dependency injection for bot components.
type ServiceProvider struct {
	cfg *config.Config

	// Clients
	completionClient botServ.CompletionClient
	redisClient      *redis.Client
	botAPI           *tgbotapi.BotAPI

	// Repositories
	usersStateRepo *repository.UsersState
	benchmarkCache botServ.BenchmarkCache

	// Services
	keywordService   *botServ.KeywordGenerator
	faqService       *botServ.MarketingFAQ
	benchmarkService *botServ.BenchmarkService
	dialog           *botServ.Dialog
	botService       *botServ.TgBotServices

	// Ops server
	opsServer *http.Server

	completionOnce sync.Once
	completionErr  error
	cacheOnce      sync.Once
	stateRepoOnce  sync.Once
	keywordOnce    sync.Once
	faqOnce        sync.Once
	benchmarkOnce  sync.Once
	dialogOnce     sync.Once
	botAPIOnce     sync.Once
	botAPIErr      error
	botServiceOnce sync.Once
	opsServerOnce  sync.Once
}

// NewServiceProvider creates a new instance of the service provider.
func NewServiceProvider(cfg *config.Config) *ServiceProvider {
	return &ServiceProvider{cfg: cfg}
}

// CompletionClient returns the generative model client chosen by GENERATIVE_NAME.
func (s *ServiceProvider) CompletionClient() (botServ.CompletionClient, error) {
	s.completionOnce.Do(func() {
		s.completionClient, s.completionErr = generative.ModelFactory(s.cfg.EnvGenerativeName, generative.Settings{
			APIKey:      s.cfg.EnvGenerativeApiKey,
			ModelName:   s.cfg.EnvGenerativeModel,
			BaseURL:     s.cfg.EnvGenerativeBaseURL,
			MaxTokens:   s.cfg.EnvGenerativeMaxTokens,
			Temperature: s.cfg.EnvGenerativeTemperature,
			Timeout:     s.cfg.EnvCompletionTimeout,
		})
		if s.completionErr != nil {
			logrus.Errorf("Failed to initialize Generative service: %v", s.completionErr)
			return
		}
		logrus.WithField("provider", s.cfg.EnvGenerativeName).Info("Generative model initialized")
	})
	if s.completionErr != nil {
		return nil, fmt.Errorf("generative service not initialized: %w", s.completionErr)
	}
	return s.completionClient, nil
}

// ChatStateRepository returns the in-memory store of user dialog states.
func (s *ServiceProvider) ChatStateRepository() *repository.UsersState {
	s.stateRepoOnce.Do(func() {
		s.usersStateRepo = repository.NewUsersStateMap(s.cfg.EnvStateTTL)
		logrus.Info("UsersState repository initialized")
	})
	return s.usersStateRepo
}

// BenchmarkCache returns the Redis cache when REDIS_ADDR is set and the in-memory one otherwise.
func (s *ServiceProvider) BenchmarkCache() botServ.BenchmarkCache {
	s.cacheOnce.Do(func() {
		if s.cfg.EnvRedisAddr == "" {
			s.benchmarkCache = repository.NewMemoryBenchmarkCache()
			logrus.Info("In-memory benchmark cache initialized")
			return
		}
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     s.cfg.EnvRedisAddr,
			Password: s.cfg.EnvRedisPassword,
			DB:       s.cfg.EnvRedisDB,
		})
		s.benchmarkCache = repository.NewRedisBenchmarkCache(s.redisClient)
		logrus.WithField("addr", s.cfg.EnvRedisAddr).Info("Redis benchmark cache initialized")
	})
	return s.benchmarkCache
}

// KeywordService returns the keyword pipeline.
func (s *ServiceProvider) KeywordService() (*botServ.KeywordGenerator, error) {
	client, err := s.CompletionClient()
	if err != nil {
		return nil, err
	}
	s.keywordOnce.Do(func() {
		s.keywordService = botServ.NewKeywordGenerator(client)
	})
	return s.keywordService, nil
}

// FAQService returns the marketing FAQ responder.
func (s *ServiceProvider) FAQService() (*botServ.MarketingFAQ, error) {
	client, err := s.CompletionClient()
	if err != nil {
		return nil, err
	}
	s.faqOnce.Do(func() {
		s.faqService = botServ.NewMarketingFAQ(client)
	})
	return s.faqService, nil
}

// BenchmarkService returns the cached benchmark lookup.
func (s *ServiceProvider) BenchmarkService() *botServ.BenchmarkService {
	s.benchmarkOnce.Do(func() {
		scraper := api.NewBenchmarkScraper(s.cfg.EnvBenchmarkURL, s.cfg.EnvBenchmarkTimeout)
		s.benchmarkService = botServ.NewBenchmarkService(scraper, s.BenchmarkCache(), s.cfg.EnvBenchmarkCacheTTL, s.cfg.EnvBenchmarkWorkers)
		logrus.Info("BenchmarkService initialized")
	})
	return s.benchmarkService
}

// Dialog returns the intake state machine.
func (s *ServiceProvider) Dialog() (*botServ.Dialog, error) {
	keywords, err := s.KeywordService()
	if err != nil {
		return nil, err
	}
	faq, err := s.FAQService()
	if err != nil {
		return nil, err
	}
	s.dialogOnce.Do(func() {
		s.dialog = botServ.NewDialog(s.ChatStateRepository(), keywords, faq, s.BenchmarkService())
		logrus.Info("Dialog initialized")
	})
	return s.dialog, nil
}

// BotAPI returns the Telegram Bot API instance.
func (s *ServiceProvider) BotAPI() (*tgbotapi.BotAPI, error) {
	s.botAPIOnce.Do(func() {
		s.botAPI, s.botAPIErr = tgbotapi.NewBotAPI(s.cfg.EnvBotToken)
		if s.botAPIErr != nil {
			logrus.Errorf("Failed to initialize BotAPI: %v", s.botAPIErr)
			return
		}
		s.botAPI.Debug = s.cfg.EnvBotDebug
		logrus.Info("BotApi initialized")
	})
	if s.botAPIErr != nil {
		return nil, fmt.Errorf("bot API not initialized: %w", s.botAPIErr)
	}
	return s.botAPI, nil
}

// BotService returns the main Telegram bot service.
func (s *ServiceProvider) BotService(bot botServ.BotSender) (*botServ.TgBotServices, error) {
	dialog, err := s.Dialog()
	if err != nil {
		logrus.Errorf("Failed to get dialog: %v", err)
		return nil, fmt.Errorf("bot service not initialized: %w", err)
	}
	s.botServiceOnce.Do(func() {
		s.botService = botServ.NewTgBot(bot, dialog)
		logrus.Info("BotService initialized")
	})
	return s.botService, nil
}

// OpsServer returns the HTTP server for /healthz and /metrics.
func (s *ServiceProvider) OpsServer() *http.Server {
	s.opsServerOnce.Do(func() {
		s.opsServer = opsHTTP.NewServer(s.cfg.EnvHTTPAddr)
	})
	return s.opsServer
}

// Close releases clients that hold connections.
func (s *ServiceProvider) Close() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close redis client")
		}
	}
	if closer, ok := s.completionClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close generative client")
		}
	}
}
