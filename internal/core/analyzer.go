package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Analyzer scores email messages with rule-based heuristics. All scoring is a
// pure function of message content and metadata; the keyword and pattern
// tables are package-level and never mutated, so a single Analyzer is safe for
// concurrent use.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze performs the full heuristic analysis on a single message. Empty
// subjects and bodies are valid input and produce the documented defaults.
func (a *Analyzer) Analyze(msg EmailMessage) AnalysisReport {
	raw := msg.Subject() + " " + msg.BodyText()
	content := strings.ToLower(raw)

	sentiment, sentimentConfidence := analyzeSentiment(content)
	category, categoryConfidence := categorizeMessage(content)

	return AnalysisReport{
		PriorityScore:        priorityScore(msg, content),
		Sentiment:            sentiment,
		SentimentConfidence:  sentimentConfidence,
		Category:             category,
		CategoryConfidence:   categoryConfidence,
		UrgencyIndicators:    detectUrgencyIndicators(raw),
		SpamProbability:      spamProbability(msg, raw, content),
		EstimatedReadingTime: estimateReadingTime(content),
		KeyTopics:            extractKeyTopics(content),
		ResponseSuggested:    shouldSuggestResponse(msg, content),
	}
}

// AnalyzeCommunicationPatterns summarizes traffic across a batch of messages.
// An empty batch yields zero totals with all collections empty.
func (a *Analyzer) AnalyzeCommunicationPatterns(messages []EmailMessage) CommunicationPatterns {
	if len(messages) == 0 {
		return CommunicationPatterns{
			PeakActivityHours:    []int{},
			MostFrequentSenders:  []SenderCount{},
			CategoryDistribution: map[Category]int{},
			SentimentTrend:       map[Category]float64{},
		}
	}

	reports := a.batchReports(messages)

	categoryCounts := make(map[Category]int)
	sentimentSums := make(map[Category]float64)
	for i, msg := range messages {
		report := reports.get(i, msg)
		categoryCounts[report.Category]++
		sentimentSums[report.Category] += sentimentScore(report.Sentiment)
	}

	sentimentTrend := make(map[Category]float64, len(sentimentSums))
	for category, sum := range sentimentSums {
		sentimentTrend[category] = sum / float64(categoryCounts[category])
	}

	return CommunicationPatterns{
		TotalMessagesAnalyzed: len(messages),
		AvgResponseTime:       avgResponseTime(messages),
		PeakActivityHours:     peakActivityHours(messages),
		MostFrequentSenders:   mostFrequentSenders(messages),
		CategoryDistribution:  categoryCounts,
		SentimentTrend:        sentimentTrend,
	}
}

// GenerateProductivityMetrics derives productivity insights from a batch of
// messages. An empty batch yields default low-risk metrics with a single
// explanatory recommendation.
func (a *Analyzer) GenerateProductivityMetrics(messages []EmailMessage) ProductivityMetrics {
	if len(messages) == 0 {
		return ProductivityMetrics{
			ResponseEfficiencyScore: 1.0,
			EmailOverloadRisk:       OverloadLow,
			Recommendations:         []string{"No messages to analyze"},
		}
	}

	reports := a.batchReports(messages)

	priorityUnread := 0
	totalReadingSeconds := 0
	for i, msg := range messages {
		report := reports.get(i, msg)
		if !msg.IsRead() && report.PriorityScore > highPriorityThreshold {
			priorityUnread++
		}
		totalReadingSeconds += report.EstimatedReadingTime
	}

	overloadRisk := assessOverloadRisk(messages)

	return ProductivityMetrics{
		UnreadPriorityMessages:  priorityUnread,
		EstimatedDailyEmailTime: time.Duration(totalReadingSeconds) * time.Second,
		ResponseEfficiencyScore: a.responseEfficiency(messages, reports),
		EmailOverloadRisk:       overloadRisk,
		Recommendations:         a.recommendations(messages, priorityUnread, overloadRisk),
	}
}

// batchMemo caches per-message reports within one batch call to avoid
// recomputation. Keyed by message ID; messages without an ID fall back to the
// batch index, so results are identical either way.
type batchMemo struct {
	analyzer *Analyzer
	byID     map[string]AnalysisReport
	byIndex  map[int]AnalysisReport
}

func (a *Analyzer) batchReports(messages []EmailMessage) *batchMemo {
	return &batchMemo{
		analyzer: a,
		byID:     make(map[string]AnalysisReport, len(messages)),
		byIndex:  make(map[int]AnalysisReport),
	}
}

func (m *batchMemo) get(index int, msg EmailMessage) AnalysisReport {
	if id := msg.ID(); id != "" {
		if report, ok := m.byID[id]; ok {
			return report
		}
		report := m.analyzer.Analyze(msg)
		m.byID[id] = report
		return report
	}
	if report, ok := m.byIndex[index]; ok {
		return report
	}
	report := m.analyzer.Analyze(msg)
	m.byIndex[index] = report
	return report
}

func priorityScore(msg EmailMessage, content string) float64 {
	score := 0.5

	for _, kw := range highPriorityKeywords {
		if strings.Contains(content, kw.keyword) {
			score = min1(score + kw.weight*0.3)
		}
	}
	for _, kw := range mediumPriorityKeywords {
		if strings.Contains(content, kw.keyword) {
			score = min1(score + kw.weight*0.2)
		}
	}

	sender := strings.ToLower(msg.Sender())
	if !strings.Contains(sender, "noreply") && !strings.Contains(sender, "donotreply") {
		score += 0.1
	}

	if strings.Contains(content, "?") {
		score += 0.15
	}

	if containsAny(content, automatedMarkers) {
		score -= 0.2
	}

	if score < 0.0 {
		return 0.0
	}
	return min1(score)
}

func analyzeSentiment(content string) (Sentiment, float64) {
	positiveCount := 0
	for _, word := range positiveWords {
		if strings.Contains(content, word) {
			positiveCount++
		}
	}
	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(content, word) {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return SentimentNeutral, 0.7
	}

	positiveRatio := float64(positiveCount) / float64(total)
	confidence := min1(float64(total) / 10)

	if positiveRatio > positiveSentimentThreshold {
		return SentimentPositive, confidence
	}
	if positiveRatio < negativeSentimentThreshold {
		return SentimentNegative, confidence
	}
	return SentimentNeutral, confidence
}

func categorizeMessage(content string) (Category, float64) {
	best := CategoryGeneral
	maxScore := 0

	// First maximum in table order wins ties
	for _, matcher := range categoryMatchers {
		score := 0
		for _, pattern := range matcher.patterns {
			score += len(pattern.FindAllString(content, -1))
		}
		if score > maxScore {
			maxScore = score
			best = matcher.category
		}
	}

	if maxScore == 0 {
		return CategoryGeneral, 0.5
	}
	return best, min1(float64(maxScore) / 5)
}

func detectUrgencyIndicators(raw string) []string {
	indicators := make([]string, 0, len(urgencyMatchers))
	for _, matcher := range urgencyMatchers {
		if matcher.pattern.MatchString(raw) {
			indicators = append(indicators, matcher.indicator)
		}
	}
	return indicators
}

func spamProbability(msg EmailMessage, raw, content string) float64 {
	score := 0.0

	for _, pattern := range spamIndicators {
		if pattern.MatchString(raw) {
			score += 0.2
		}
	}

	if containsAny(strings.ToLower(msg.Sender()), suspiciousSenderWords) {
		score += 0.1
	}

	if strings.Count(content, "http") > excessiveLinksThreshold {
		score += 0.2
	}

	if containsAny(strings.ToLower(msg.Subject()), spamSubjectWords) {
		score += 0.15
	}

	return min1(score)
}

func estimateReadingTime(content string) int {
	wordCount := len(strings.Fields(content))
	// 200 words per minute, floor of 30 seconds
	seconds := float64(wordCount) / wordsPerMinute * 60
	if seconds < minReadingTimeSeconds {
		return minReadingTimeSeconds
	}
	return int(seconds)
}

func extractKeyTopics(content string) []string {
	counts := make(map[string]int)
	var order []string
	for _, word := range topicWordPattern.FindAllString(content, -1) {
		word = strings.ToLower(word)
		if stopWords[word] {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	// Stable sort keeps first-encountered order on equal counts
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeyTopics {
		order = order[:maxKeyTopics]
	}
	return order
}

func shouldSuggestResponse(msg EmailMessage, content string) bool {
	if containsAny(content, automatedMarkers) {
		return false
	}
	if containsAny(strings.ToLower(msg.Sender()), automatedSenders) {
		return false
	}
	if strings.Contains(content, "?") {
		return true
	}
	for _, pattern := range requestPatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return false
}

func sentimentScore(sentiment Sentiment) float64 {
	switch sentiment {
	case SentimentPositive:
		return 1.0
	case SentimentNegative:
		return 0.0
	default:
		return 0.5
	}
}

func avgResponseTime(messages []EmailMessage) *time.Duration {
	if len(messages) < minMessagesForAnalysis {
		return nil
	}

	sorted := sortedByTimestamp(messages)

	var total time.Duration
	kept := 0
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp().Sub(sorted[i-1].Timestamp())
		if gap < 24*time.Hour {
			total += gap
			kept++
		}
	}
	if kept == 0 {
		return nil
	}

	avg := total / time.Duration(kept)
	return &avg
}

func peakActivityHours(messages []EmailMessage) []int {
	counts := make(map[int]int)
	var order []int
	for _, msg := range messages {
		hour := msg.Timestamp().Hour()
		if _, seen := counts[hour]; !seen {
			order = append(order, hour)
		}
		counts[hour]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxPeakHours {
		order = order[:maxPeakHours]
	}
	return order
}

func mostFrequentSenders(messages []EmailMessage) []SenderCount {
	counts := make(map[string]int)
	var order []string
	for _, msg := range messages {
		sender := msg.Sender()
		if _, seen := counts[sender]; !seen {
			order = append(order, sender)
		}
		counts[sender]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxFrequentSenders {
		order = order[:maxFrequentSenders]
	}

	senders := make([]SenderCount, len(order))
	for i, sender := range order {
		senders[i] = SenderCount{Sender: sender, Count: counts[sender]}
	}
	return senders
}

func assessOverloadRisk(messages []EmailMessage) OverloadRisk {
	sorted := sortedByTimestamp(messages)
	first := sorted[0].Timestamp()
	last := sorted[len(sorted)-1].Timestamp()

	// A same-day burst still counts as one full day
	days := int(last.Sub(first).Hours() / 24)
	if days < 1 {
		days = 1
	}

	perDay := float64(len(messages)) / float64(days)
	switch {
	case perDay > emailOverloadThreshold:
		return OverloadHigh
	case perDay > mediumOverloadThreshold:
		return OverloadMedium
	default:
		return OverloadLow
	}
}

func (a *Analyzer) responseEfficiency(messages []EmailMessage, reports *batchMemo) float64 {
	now := a.now()
	efficient := 0
	actionable := 0

	for i, msg := range messages {
		age := now.Sub(msg.Timestamp())
		if age < time.Hour {
			continue
		}
		if !reports.get(i, msg).ResponseSuggested {
			continue
		}
		actionable++
		if msg.IsRead() && age < 24*time.Hour {
			efficient++
		}
	}

	if actionable == 0 {
		return 1.0
	}
	return float64(efficient) / float64(actionable)
}

func (a *Analyzer) recommendations(messages []EmailMessage, priorityUnread int, risk OverloadRisk) []string {
	var recommendations []string

	if priorityUnread > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Focus on %d high-priority unread messages first", priorityUnread))
	}

	if risk == OverloadHigh {
		recommendations = append(recommendations,
			"Consider using filters to reduce email volume",
			"Set specific times for email processing to improve focus")
	}

	unread := 0
	for _, msg := range messages {
		if !msg.IsRead() {
			unread++
		}
	}
	if len(messages) > 0 && float64(unread)/float64(len(messages)) > unreadRatioThreshold {
		recommendations = append(recommendations,
			"Consider batch processing emails to reduce unread backlog")
	}

	now := a.now()
	oldUnread := 0
	for _, msg := range messages {
		if !msg.IsRead() && int(now.Sub(msg.Timestamp()).Hours()/24) > oldUnreadDaysThreshold {
			oldUnread++
		}
	}
	if oldUnread > oldUnreadCountThreshold {
		recommendations = append(recommendations,
			"Archive or delete old unread messages to reduce clutter")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Your email management looks good!")
	}

	return recommendations
}

func sortedByTimestamp(messages []EmailMessage) []EmailMessage {
	sorted := make([]EmailMessage, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})
	return sorted
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
