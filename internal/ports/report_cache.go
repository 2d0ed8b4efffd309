package ports

import (
	"context"

	"github.com/mikey/email-insights/internal/core"
)

// ReportCache defines the interface for caching per-message analysis reports
type ReportCache interface {
	// Get retrieves a cached report for a message
	Get(ctx context.Context, messageID string) (*core.CachedReport, error)

	// Set stores a cached report
	Set(ctx context.Context, entry *core.CachedReport) error

	// Delete removes a cached report
	Delete(ctx context.Context, messageID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
