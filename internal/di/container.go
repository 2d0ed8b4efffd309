package di

import (
	"context"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/config"
	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/factory"
	"github.com/mikey/email-insights/internal/logging"
	"github.com/mikey/email-insights/internal/ports"
	"github.com/mikey/email-insights/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewProviderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register mail provider
	if err := container.Provide(func(f *factory.ProviderFactory) (core.MailProvider, error) {
		return f.CreateMailProvider(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register report cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ReportCache, error) {
		return f.CreateReportCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register ignored senders
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) []string {
		ignoredSenders := cfg.GetStringSlice("mail.ignore_senders")
		if len(ignoredSenders) > 0 {
			logger.Info("Loaded ignored senders", zap.Strings("senders", ignoredSenders))
		}
		return ignoredSenders
	}); err != nil {
		return nil, err
	}

	// Register analyzer
	if err := container.Provide(core.NewAnalyzer); err != nil {
		return nil, err
	}

	// Register insights service
	if err := container.Provide(core.NewInsightsService); err != nil {
		return nil, err
	}

	// Register the analysis surface
	if err := container.Provide(func(s *core.InsightsService) ports.InsightsEngine {
		return s
	}); err != nil {
		return nil, err
	}

	return container, nil
}
