package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/config"
	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/di"
	"github.com/mikey/email-insights/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	engine ports.InsightsEngine,
	cacheRepo core.ReportCache,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailConfig := cfg.GetMail()
	logger.Info("Analyzing inbox",
		zap.String("provider", mailConfig.Provider),
		zap.Int64("limit", mailConfig.FetchLimit),
		zap.String("query", mailConfig.Query))

	digest, err := engine.AnalyzeInbox(ctx, mailConfig.FetchLimit, mailConfig.Query)
	if err != nil {
		logger.Error("Failed to analyze inbox", zap.Error(err))
		return err
	}

	printDigest(digest)

	// Stop the cache cleanup goroutine if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Analysis complete", zap.Int("messages", digest.Patterns.TotalMessagesAnalyzed))
	return nil
}

func printDigest(digest *core.InboxDigest) {
	fmt.Printf("\n=== Messages ===\n")
	for _, r := range digest.Reports {
		fmt.Printf("\nFrom: %s\nSubject: %s\n", r.Sender, r.Subject)
		if r.Snippet != "" {
			fmt.Printf("  %s\n", r.Snippet)
		}
		fmt.Printf("  priority=%.2f sentiment=%s (%.2f) category=%s (%.2f) spam=%.2f\n",
			r.Report.PriorityScore,
			r.Report.Sentiment, r.Report.SentimentConfidence,
			r.Report.Category, r.Report.CategoryConfidence,
			r.Report.SpamProbability)
		if len(r.Report.UrgencyIndicators) > 0 {
			fmt.Printf("  urgency: %v\n", r.Report.UrgencyIndicators)
		}
		if len(r.Report.KeyTopics) > 0 {
			fmt.Printf("  topics: %v\n", r.Report.KeyTopics)
		}
		fmt.Printf("  reading time: %ds, response suggested: %t\n",
			r.Report.EstimatedReadingTime, r.Report.ResponseSuggested)
	}

	patterns := digest.Patterns
	fmt.Printf("\n=== Communication Patterns ===\n")
	fmt.Printf("Messages analyzed: %d\n", patterns.TotalMessagesAnalyzed)
	if patterns.AvgResponseTime != nil {
		fmt.Printf("Average response time: %v\n", *patterns.AvgResponseTime)
	}
	fmt.Printf("Peak activity hours: %v\n", patterns.PeakActivityHours)
	for _, sender := range patterns.MostFrequentSenders {
		fmt.Printf("  %s: %d messages\n", sender.Sender, sender.Count)
	}
	for category, count := range patterns.CategoryDistribution {
		fmt.Printf("  %s: %d (avg sentiment %.2f)\n", category, count, patterns.SentimentTrend[category])
	}

	productivity := digest.Productivity
	fmt.Printf("\n=== Productivity ===\n")
	fmt.Printf("High-priority unread: %d\n", productivity.UnreadPriorityMessages)
	fmt.Printf("Estimated daily email time: %v\n", productivity.EstimatedDailyEmailTime)
	fmt.Printf("Response efficiency: %.2f\n", productivity.ResponseEfficiencyScore)
	fmt.Printf("Overload risk: %s\n", productivity.EmailOverloadRisk)
	for _, rec := range productivity.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
