package ports

import (
	"context"

	"github.com/mikey/email-insights/internal/core"
)

// InsightsEngine defines the interface for the full email analysis surface
type InsightsEngine interface {
	// AnalyzeMessage produces the analysis report for a single message
	AnalyzeMessage(ctx context.Context, msg core.EmailMessage) (*core.AnalysisReport, error)

	// AnalyzeBatch runs the aggregate analyses over a batch of messages
	AnalyzeBatch(messages []core.EmailMessage) (core.CommunicationPatterns, core.ProductivityMetrics, error)

	// AnalyzeInbox fetches messages from the provider and produces the full digest
	AnalyzeInbox(ctx context.Context, limit int64, query string) (*core.InboxDigest, error)
}
