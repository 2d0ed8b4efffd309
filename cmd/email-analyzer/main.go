package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/logging"
	"github.com/mikey/email-insights/internal/utils"
)

var (
	inputFile = flag.String("file", "", "Input email file (use stdin if not specified)")
	markRead  = flag.Bool("read", false, "Treat the message as already read")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	textProcessor := utils.NewTextProcessor(logger)
	body, err := textProcessor.ExtractTextFromMessage(msg)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	message := buildMessage(msg, body, *markRead)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", message.From)
	fmt.Printf("Subject: %s\n", message.Subj)
	fmt.Printf("Date: %s\n", message.Received.Format(time.RFC3339))
	fmt.Printf("Body length: %d bytes\n", len(message.Body))

	if *verbose {
		preview := textProcessor.Snippet(message.Body, 500)
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	analyzer := core.NewAnalyzer()
	startTime := time.Now()
	report := analyzer.Analyze(message)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Priority score: %.4f\n", report.PriorityScore)
	fmt.Printf("Sentiment: %s (confidence %.4f)\n", report.Sentiment, report.SentimentConfidence)
	fmt.Printf("Category: %s (confidence %.4f)\n", report.Category, report.CategoryConfidence)
	fmt.Printf("Urgency indicators: %v\n", report.UrgencyIndicators)
	fmt.Printf("Spam probability: %.4f\n", report.SpamProbability)
	fmt.Printf("Estimated reading time: %ds\n", report.EstimatedReadingTime)
	fmt.Printf("Key topics: %v\n", report.KeyTopics)
	fmt.Printf("Response suggested: %t\n", report.ResponseSuggested)
	fmt.Printf("Processing time: %v\n", duration)
}

// buildMessage converts a parsed RFC 5322 message into the analyzer's message
// shape. A missing or unparseable Date header falls back to the current time.
func buildMessage(msg *mail.Message, body string, read bool) *core.Message {
	from := msg.Header.Get("From")
	if addr, err := mail.ParseAddress(from); err == nil {
		from = addr.Address
	} else {
		from = strings.TrimSpace(from)
	}

	timestamp, err := msg.Header.Date()
	if err != nil {
		timestamp = time.Now()
	}

	return &core.Message{
		MsgID:    msg.Header.Get("Message-Id"),
		From:     from,
		Subj:     msg.Header.Get("Subject"),
		Body:     body,
		Received: timestamp.UTC(),
		Read:     read,
	}
}
