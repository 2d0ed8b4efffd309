package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNilMessage is returned when a caller passes a nil message. This is a
// contract violation by the caller, not a recoverable runtime condition.
var ErrNilMessage = errors.New("email message is nil")

// snippetLength is the preview length carried in inbox digests
const snippetLength = 100

// InsightsService is the core service for email analysis
type InsightsService struct {
	provider       MailProvider
	analyzer       *Analyzer
	cache          ReportCache
	logger         *zap.Logger
	cacheEnabled   bool
	cacheTTL       time.Duration
	ignoredSenders []string
}

// NewInsightsService creates a new insights service
func NewInsightsService(
	provider MailProvider,
	analyzer *Analyzer,
	cache ReportCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	ignoredSenders []string,
) *InsightsService {
	return &InsightsService{
		provider:       provider,
		analyzer:       analyzer,
		cache:          cache,
		logger:         logger,
		cacheEnabled:   cacheEnabled,
		cacheTTL:       cacheTTL,
		ignoredSenders: ignoredSenders,
	}
}

// isSenderIgnored checks if the sender matches a configured ignore rule
func (s *InsightsService) isSenderIgnored(sender string) bool {
	sender = strings.ToLower(sender)
	for _, ignored := range s.ignoredSenders {
		if strings.Contains(sender, strings.ToLower(ignored)) {
			return true
		}
	}
	return false
}

// AnalyzeMessage analyzes a single message, consulting the report cache when
// enabled. The cache is an optimization only: a cached report is identical to
// a recomputed one.
func (s *InsightsService) AnalyzeMessage(ctx context.Context, msg EmailMessage) (*AnalysisReport, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	if s.cacheEnabled && msg.ID() != "" {
		if entry, err := s.cache.Get(ctx, msg.ID()); err == nil {
			s.logger.Debug("Cache hit for message", zap.String("message_id", msg.ID()))
			report := entry.Report
			return &report, nil
		}
	}

	report := s.analyzer.Analyze(msg)

	if s.cacheEnabled && msg.ID() != "" {
		entry := &CachedReport{
			MessageID:  msg.ID(),
			Report:     report,
			AnalyzedAt: time.Now(),
			ExpiresAt:  time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update report cache", zap.Error(err))
		}
	}

	return &report, nil
}

// AnalyzeBatch runs the aggregate analyses over caller-supplied messages
func (s *InsightsService) AnalyzeBatch(messages []EmailMessage) (CommunicationPatterns, ProductivityMetrics, error) {
	for _, msg := range messages {
		if msg == nil {
			return CommunicationPatterns{}, ProductivityMetrics{}, ErrNilMessage
		}
	}
	return s.analyzer.AnalyzeCommunicationPatterns(messages),
		s.analyzer.GenerateProductivityMetrics(messages),
		nil
}

// AnalyzeInbox fetches messages from the configured provider and produces the
// full digest: one report per message plus the batch analyses.
func (s *InsightsService) AnalyzeInbox(ctx context.Context, limit int64, query string) (*InboxDigest, error) {
	fetched, err := s.provider.FetchMessages(ctx, limit, query)
	if err != nil {
		return nil, err
	}

	messages := make([]EmailMessage, 0, len(fetched))
	for _, msg := range fetched {
		if msg != nil && s.isSenderIgnored(msg.Sender()) {
			s.logger.Debug("Skipping ignored sender", zap.String("sender", msg.Sender()))
			continue
		}
		messages = append(messages, msg)
	}

	s.logger.Info("Fetched messages for analysis",
		zap.Int("count", len(messages)),
		zap.String("query", query))

	reports := make([]MessageReport, 0, len(messages))
	for _, msg := range messages {
		report, err := s.AnalyzeMessage(ctx, msg)
		if err != nil {
			return nil, err
		}
		reports = append(reports, MessageReport{
			MessageID: msg.ID(),
			Sender:    msg.Sender(),
			Subject:   msg.Subject(),
			Snippet:   msg.Snippet(snippetLength),
			Report:    *report,
		})
	}

	patterns, productivity, err := s.AnalyzeBatch(messages)
	if err != nil {
		return nil, err
	}

	return &InboxDigest{
		Reports:      reports,
		Patterns:     patterns,
		Productivity: productivity,
	}, nil
}
