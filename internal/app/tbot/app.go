package tbot

import (
	"context"
	"errors"
	"github.com/DenisKhanov/MarketingBot/internal/logcfg"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

// App represents the application structure responsible for initializing dependencies
// and running the Telegram bot.
type App struct {
	serviceProvider *ServiceProvider // The service provider for dependency injection
	config          *config.Config   // The configuration object for the application
}

// NewApp creates a new instance of the application.
func NewApp(ctx context.Context) (*App, error) {
	app := &App{}
	err := app.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Run starts the application and runs the Telegram bot until SIGINT or SIGTERM.
func (a *App) Run() {
	a.runTelegramBot()
}

// initDeps initializes all dependencies required by the application.
func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.initServices,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// initConfig initializes the application configuration.
func (a *App) initConfig(_ context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a.config = cfg
	return logcfg.RunLoggerConfig(a.config.EnvLogsLevel, a.config.EnvLogFileName)
}

// initServiceProvider initializes the service provider for dependency injection.
func (a *App) initServiceProvider(_ context.Context) error {
	a.serviceProvider = NewServiceProvider(a.config)
	return nil
}

// initServices builds the dialog eagerly so that a bad provider configuration fails at startup.
func (a *App) initServices(_ context.Context) error {
	_, err := a.serviceProvider.Dialog()
	return err
}

// runTelegramBot starts the Telegram bot with graceful shutdown.
func (a *App) runTelegramBot() {
	defer a.serviceProvider.Close()

	// Initialize bot API
	botAPI, err := a.serviceProvider.BotAPI()
	if err != nil {
		logrus.Fatalf("[ERROR] can't make telegram bot, %v", err)
	}
	logrus.Infof("Bot API created successfully for %s", botAPI.Self.UserName)

	// Initialize bot service
	myBot, err := a.serviceProvider.BotService(botAPI)
	if err != nil {
		logrus.Fatalf("[ERROR] can't make bot service, %v", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.serviceProvider.ChatStateRepository().RunJanitor(ctx, janitorInterval(a.config.EnvStateTTL))

	opsServer := a.serviceProvider.OpsServer()
	go func() {
		logrus.Infof("Ops server started on: %s", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Ops server stopped")
		}
	}()

	// Configure updates channel
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60 // seconds timeout
	updates := botAPI.GetUpdatesChan(updateConfig)

	// Blocks until the signal, then drains queued events
	myBot.Run(ctx, context.Background(), updates)
	botAPI.StopReceivingUpdates()
	logrus.Info("Update loop stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = opsServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Ops server shutdown error")
	}
	logrus.Info("Bot exited")
}

// janitorInterval runs eviction four times per ttl, but not more often than once a second.
func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
