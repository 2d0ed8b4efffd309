package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/adapters/gmail"
	"github.com/mikey/email-insights/internal/adapters/imap"
	"github.com/mikey/email-insights/internal/config"
	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/utils"
)

// ProviderFactory creates mail providers based on configuration
type ProviderFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ProviderFactory {
	return &ProviderFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateMailProvider creates a mail provider based on the configuration
func (f *ProviderFactory) CreateMailProvider(ctx context.Context) (core.MailProvider, error) {
	mailConfig := f.cfg.GetMail()

	switch mailConfig.Provider {
	case "gmail":
		return gmail.NewProvider(ctx, f.cfg.GetGmail(), f.logger, f.textProcessor)
	case "imap":
		return imap.NewProvider(f.cfg.GetIMAP(), f.logger, f.textProcessor)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", mailConfig.Provider)
	}
}
