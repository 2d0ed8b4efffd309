package core

import (
	"time"
)

// Sentiment is the overall tone detected in a message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Category is the classification bucket assigned to a message
type Category string

const (
	CategoryWork         Category = "work"
	CategoryPersonal     Category = "personal"
	CategoryPromotional  Category = "promotional"
	CategoryNotification Category = "notification"
	CategoryGeneral      Category = "general"
)

// OverloadRisk is a coarse bucket for average daily email volume
type OverloadRisk string

const (
	OverloadLow    OverloadRisk = "low"
	OverloadMedium OverloadRisk = "medium"
	OverloadHigh   OverloadRisk = "high"
)

// Urgency indicator names emitted by the analyzer
const (
	IndicatorDeadlineMention      = "deadline_mention"
	IndicatorTimePressure         = "time_pressure"
	IndicatorActionRequired       = "action_required"
	IndicatorCapsEmphasis         = "caps_emphasis"
	IndicatorMultipleExclamations = "multiple_exclamations"
)

// AnalysisReport is the per-message analysis result
type AnalysisReport struct {
	PriorityScore        float64 // 0.0 (low) to 1.0 (critical)
	Sentiment            Sentiment
	SentimentConfidence  float64 // 0.0 to 1.0
	Category             Category
	CategoryConfidence   float64 // 0.0 to 1.0
	UrgencyIndicators    []string
	SpamProbability      float64 // 0.0 (not spam) to 1.0 (likely spam)
	EstimatedReadingTime int     // seconds, never below 30
	KeyTopics            []string
	ResponseSuggested    bool
}

// SenderCount pairs a sender address with how many messages it sent
type SenderCount struct {
	Sender string
	Count  int
}

// CommunicationPatterns summarizes traffic across a batch of messages
type CommunicationPatterns struct {
	TotalMessagesAnalyzed int
	AvgResponseTime       *time.Duration // nil when no same-day gaps exist
	PeakActivityHours     []int          // hours of day (0-23), most frequent first
	MostFrequentSenders   []SenderCount
	CategoryDistribution  map[Category]int
	SentimentTrend        map[Category]float64 // category -> avg sentiment score
}

// ProductivityMetrics carries productivity insights and recommendations
type ProductivityMetrics struct {
	UnreadPriorityMessages  int
	EstimatedDailyEmailTime time.Duration
	ResponseEfficiencyScore float64 // 0.0 to 1.0
	EmailOverloadRisk       OverloadRisk
	Recommendations         []string
}

// MessageReport ties an analysis report to the message it was produced from
type MessageReport struct {
	MessageID string
	Sender    string
	Subject   string
	Snippet   string
	Report    AnalysisReport
}

// InboxDigest bundles per-message reports with the batch analyses
type InboxDigest struct {
	Reports      []MessageReport
	Patterns     CommunicationPatterns
	Productivity ProductivityMetrics
}

// CachedReport is an analysis report stored in a ReportCache with an expiry
type CachedReport struct {
	MessageID  string
	Report     AnalysisReport
	AnalyzedAt time.Time
	ExpiresAt  time.Time
}

// Message is a plain EmailMessage implementation used by the CLI and tests
type Message struct {
	MsgID    string
	From     string
	Subj     string
	Body     string
	Received time.Time
	Read     bool
	Starred  bool
}

func (m *Message) ID() string           { return m.MsgID }
func (m *Message) Sender() string       { return m.From }
func (m *Message) Subject() string      { return m.Subj }
func (m *Message) BodyText() string     { return m.Body }
func (m *Message) Timestamp() time.Time { return m.Received }
func (m *Message) IsRead() bool         { return m.Read }
func (m *Message) IsStarred() bool      { return m.Starred }

// Snippet returns the first maxLength runes of the body
func (m *Message) Snippet(maxLength int) string {
	runes := []rune(m.Body)
	if maxLength <= 0 || len(runes) <= maxLength {
		return m.Body
	}
	return string(runes[:maxLength]) + "..."
}
