package core

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer() *Analyzer {
	a := NewAnalyzer()
	a.now = func() time.Time { return testNow }
	return a
}

func testMessage(id, sender, subject, body string, ts time.Time, read bool) *Message {
	return &Message{
		MsgID:    id,
		From:     sender,
		Subj:     subject,
		Body:     body,
		Received: ts,
		Read:     read,
	}
}

func TestAnalyzeUrgentMessage(t *testing.T) {
	a := newTestAnalyzer()
	msg := testMessage("m1", "boss@work.com",
		"URGENT: Critical system failure - action required",
		"Emergency situation requires immediate attention. Please respond ASAP.",
		testNow, false)

	report := a.Analyze(msg)

	if report.PriorityScore <= 0.7 {
		t.Errorf("expected priority score > 0.7, got %f", report.PriorityScore)
	}
	if len(report.UrgencyIndicators) == 0 {
		t.Error("expected urgency indicators, got none")
	}

	want := []string{IndicatorTimePressure, IndicatorActionRequired, IndicatorCapsEmphasis}
	if !reflect.DeepEqual(report.UrgencyIndicators, want) {
		t.Errorf("urgency indicators = %v, want %v", report.UrgencyIndicators, want)
	}
}

func TestAnalyzeAutomatedNewsletter(t *testing.T) {
	a := newTestAnalyzer()
	msg := testMessage("m2", "noreply@marketing.com",
		"Weekly newsletter - deals",
		"automated message, do not reply",
		testNow, true)

	report := a.Analyze(msg)

	if report.PriorityScore >= 0.6 {
		t.Errorf("expected priority score < 0.6, got %f", report.PriorityScore)
	}
	if report.ResponseSuggested {
		t.Error("expected no response suggestion for automated message")
	}
}

func TestAnalyzeSpamMessage(t *testing.T) {
	a := newTestAnalyzer()
	msg := testMessage("m3", "suspicious@example.com",
		"Congratulations winner",
		"lottery winner million dollars click here!!!",
		testNow, false)

	report := a.Analyze(msg)

	if report.SpamProbability <= 0.5 {
		t.Errorf("expected spam probability > 0.5, got %f", report.SpamProbability)
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	a := newTestAnalyzer()
	messages := []*Message{
		testMessage("b1", "", "", "", testNow, false),
		testMessage("b2", "boss@work.com", "urgent emergency critical deadline asap", "important priority action required?", testNow, false),
		testMessage("b3", "noreply@promo.com", "FREE MONEY WIN", "lottery winner click here viagra!!! http http http http http http", testNow, true),
		testMessage("b4", "friend@home.net", "dinner on the weekend?", "family birthday party celebration", testNow, true),
	}

	for _, msg := range messages {
		report := a.Analyze(msg)

		if report.PriorityScore < 0.0 || report.PriorityScore > 1.0 {
			t.Errorf("%s: priority score %f out of bounds", msg.MsgID, report.PriorityScore)
		}
		if report.SpamProbability < 0.0 || report.SpamProbability > 1.0 {
			t.Errorf("%s: spam probability %f out of bounds", msg.MsgID, report.SpamProbability)
		}
		if report.SentimentConfidence < 0.0 || report.SentimentConfidence > 1.0 {
			t.Errorf("%s: sentiment confidence %f out of bounds", msg.MsgID, report.SentimentConfidence)
		}
		if report.CategoryConfidence < 0.0 || report.CategoryConfidence > 1.0 {
			t.Errorf("%s: category confidence %f out of bounds", msg.MsgID, report.CategoryConfidence)
		}
		if report.EstimatedReadingTime < 30 {
			t.Errorf("%s: reading time %d below floor", msg.MsgID, report.EstimatedReadingTime)
		}

		switch report.Sentiment {
		case SentimentPositive, SentimentNegative, SentimentNeutral:
		default:
			t.Errorf("%s: unexpected sentiment %q", msg.MsgID, report.Sentiment)
		}
		switch report.Category {
		case CategoryWork, CategoryPersonal, CategoryPromotional, CategoryNotification, CategoryGeneral:
		default:
			t.Errorf("%s: unexpected category %q", msg.MsgID, report.Category)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := newTestAnalyzer()
	msg := testMessage("m4", "colleague@work.com",
		"Project update", "Can you review the proposal before the meeting?",
		testNow, false)

	first := a.Analyze(msg)
	second := a.Analyze(msg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("analyze is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyzePriorityMonotonicity(t *testing.T) {
	a := newTestAnalyzer()
	without := testMessage("m5", "colleague@work.com", "Project report", "The numbers look fine.", testNow, false)
	with := testMessage("m6", "colleague@work.com", "urgent Project report", "The numbers look fine.", testNow, false)

	plain := a.Analyze(without).PriorityScore
	boosted := a.Analyze(with).PriorityScore

	if boosted < plain {
		t.Errorf("adding urgent keyword decreased priority: %f -> %f", plain, boosted)
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantSentiment  Sentiment
		wantConfidence float64
	}{
		{"no sentiment words", "the quarterly numbers are attached", SentimentNeutral, 0.7},
		{"positive", "thanks, the results are great and excellent", SentimentPositive, 0.3},
		{"negative", "problem with the error, deployment failed", SentimentNegative, 0.3},
		{"mixed", "thanks but there is a problem", SentimentNeutral, 0.2},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := a.Analyze(testMessage("s", "x@y.com", "", tt.body, testNow, false))
			if report.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %s, want %s", report.Sentiment, tt.wantSentiment)
			}
			if diff := report.SentimentConfidence - tt.wantConfidence; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("confidence = %f, want %f", report.SentimentConfidence, tt.wantConfidence)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantCategory Category
	}{
		{"work", "the project budget needs a proposal for the client", CategoryWork},
		{"personal", "family dinner at home for your birthday", CategoryPersonal},
		{"promotional", "huge sale, limited time discount offer", CategoryPromotional},
		{"notification", "security alert: password verification for your account", CategoryNotification},
		{"general", "nothing in particular here", CategoryGeneral},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := a.Analyze(testMessage("c", "x@y.com", "", tt.body, testNow, false))
			if report.Category != tt.wantCategory {
				t.Errorf("category = %s, want %s", report.Category, tt.wantCategory)
			}
		})
	}
}

func TestCategorizeTieBreak(t *testing.T) {
	a := newTestAnalyzer()

	// One work match and one personal match: table order prefers work
	report := a.Analyze(testMessage("t", "x@y.com", "", "meeting with family", testNow, false))
	if report.Category != CategoryWork {
		t.Errorf("tie broke to %s, want %s", report.Category, CategoryWork)
	}
}

func TestCategorizeGeneralConfidence(t *testing.T) {
	a := newTestAnalyzer()
	report := a.Analyze(testMessage("g", "x@y.com", "", "", testNow, false))
	if report.Category != CategoryGeneral {
		t.Errorf("category = %s, want general", report.Category)
	}
	if report.CategoryConfidence != 0.5 {
		t.Errorf("confidence = %f, want 0.5", report.CategoryConfidence)
	}
}

func TestEstimatedReadingTime(t *testing.T) {
	a := newTestAnalyzer()

	// 50 nine-word sentences is well past the 200 wpm floor
	long := strings.Repeat("one two three four five six seven eight nine. ", 50)
	report := a.Analyze(testMessage("r1", "x@y.com", "notes", long, testNow, false))
	if report.EstimatedReadingTime <= 60 {
		t.Errorf("long body reading time = %d, want > 60", report.EstimatedReadingTime)
	}

	report = a.Analyze(testMessage("r2", "x@y.com", "note", "just a few words in here", testNow, false))
	if report.EstimatedReadingTime != 30 {
		t.Errorf("short body reading time = %d, want 30 floor", report.EstimatedReadingTime)
	}
}

func TestKeyTopics(t *testing.T) {
	a := newTestAnalyzer()
	body := "kubernetes cluster kubernetes deployment cluster kubernetes rollout"
	report := a.Analyze(testMessage("k", "x@y.com", "", body, testNow, false))

	want := []string{"kubernetes", "cluster", "deployment", "rollout"}
	if !reflect.DeepEqual(report.KeyTopics, want) {
		t.Errorf("key topics = %v, want %v", report.KeyTopics, want)
	}
}

func TestKeyTopicsFiltersStopWordsAndShortWords(t *testing.T) {
	a := newTestAnalyzer()
	body := "this that with from they have will your would could an ox at it"
	report := a.Analyze(testMessage("k2", "x@y.com", "", body, testNow, false))

	if len(report.KeyTopics) != 0 {
		t.Errorf("expected no key topics, got %v", report.KeyTopics)
	}
}

func TestKeyTopicsCapped(t *testing.T) {
	a := newTestAnalyzer()
	body := "alpha bravo charlie delta echo foxtrot golf hotel"
	report := a.Analyze(testMessage("k3", "x@y.com", "", body, testNow, false))

	if len(report.KeyTopics) != 5 {
		t.Errorf("expected 5 key topics, got %d: %v", len(report.KeyTopics), report.KeyTopics)
	}
	want := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	if !reflect.DeepEqual(report.KeyTopics, want) {
		t.Errorf("key topics = %v, want %v", report.KeyTopics, want)
	}
}

func TestResponseSuggested(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		body   string
		want   bool
	}{
		{"question mark", "colleague@work.com", "are you joining the call?", true},
		{"request pattern", "colleague@work.com", "please review and let me know", true},
		{"can you", "colleague@work.com", "can you send the figures", true},
		{"plain statement", "colleague@work.com", "the report is attached", false},
		{"automated content", "colleague@work.com", "this is an automated message, do not reply", false},
		{"automated sender", "no-reply@service.com", "are you joining the call?", false},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := a.Analyze(testMessage("rs", tt.sender, "", tt.body, testNow, false))
			if report.ResponseSuggested != tt.want {
				t.Errorf("response suggested = %t, want %t", report.ResponseSuggested, tt.want)
			}
		})
	}
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	a := newTestAnalyzer()
	report := a.Analyze(testMessage("e", "", "", "", testNow, false))

	if report.Sentiment != SentimentNeutral {
		t.Errorf("sentiment = %s, want neutral", report.Sentiment)
	}
	if report.Category != CategoryGeneral {
		t.Errorf("category = %s, want general", report.Category)
	}
	if report.EstimatedReadingTime != 30 {
		t.Errorf("reading time = %d, want 30", report.EstimatedReadingTime)
	}
	if len(report.KeyTopics) != 0 {
		t.Errorf("key topics = %v, want none", report.KeyTopics)
	}
}

func TestAnalyzeCommunicationPatternsEmpty(t *testing.T) {
	a := newTestAnalyzer()
	patterns := a.AnalyzeCommunicationPatterns(nil)

	if patterns.TotalMessagesAnalyzed != 0 {
		t.Errorf("total = %d, want 0", patterns.TotalMessagesAnalyzed)
	}
	if patterns.AvgResponseTime != nil {
		t.Errorf("avg response time = %v, want nil", *patterns.AvgResponseTime)
	}
	if len(patterns.PeakActivityHours) != 0 || len(patterns.MostFrequentSenders) != 0 {
		t.Error("expected empty activity collections")
	}
	if len(patterns.CategoryDistribution) != 0 || len(patterns.SentimentTrend) != 0 {
		t.Error("expected empty category collections")
	}
}

func TestAnalyzeCommunicationPatterns(t *testing.T) {
	a := newTestAnalyzer()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	messages := []EmailMessage{
		testMessage("p1", "alice@work.com", "meeting", "thanks, the project plan looks great and excellent", base, true),
		testMessage("p2", "alice@work.com", "meeting", "problem with the client error, the build failed", base.Add(1*time.Hour), true),
		testMessage("p3", "bob@home.net", "dinner", "family birthday party", base.Add(5*time.Hour), false),
	}

	patterns := a.AnalyzeCommunicationPatterns(messages)

	if patterns.TotalMessagesAnalyzed != 3 {
		t.Errorf("total = %d, want 3", patterns.TotalMessagesAnalyzed)
	}

	wantSenders := []SenderCount{{"alice@work.com", 2}, {"bob@home.net", 1}}
	if !reflect.DeepEqual(patterns.MostFrequentSenders, wantSenders) {
		t.Errorf("senders = %v, want %v", patterns.MostFrequentSenders, wantSenders)
	}

	wantHours := []int{9, 10, 14}
	if !reflect.DeepEqual(patterns.PeakActivityHours, wantHours) {
		t.Errorf("peak hours = %v, want %v", patterns.PeakActivityHours, wantHours)
	}

	if patterns.CategoryDistribution[CategoryWork] != 2 {
		t.Errorf("work count = %d, want 2", patterns.CategoryDistribution[CategoryWork])
	}
	if patterns.CategoryDistribution[CategoryPersonal] != 1 {
		t.Errorf("personal count = %d, want 1", patterns.CategoryDistribution[CategoryPersonal])
	}
	if _, ok := patterns.CategoryDistribution[CategoryPromotional]; ok {
		t.Error("promotional category should be absent, not zero")
	}

	// One positive and one negative work message average to 0.5
	if trend := patterns.SentimentTrend[CategoryWork]; trend != 0.5 {
		t.Errorf("work sentiment trend = %f, want 0.5", trend)
	}
}

func TestAvgResponseTime(t *testing.T) {
	a := newTestAnalyzer()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	messages := []EmailMessage{
		testMessage("a1", "x@y.com", "", "", base, true),
		testMessage("a2", "x@y.com", "", "", base.Add(time.Hour), true),
	}
	patterns := a.AnalyzeCommunicationPatterns(messages)

	if patterns.AvgResponseTime == nil {
		t.Fatal("expected avg response time, got nil")
	}
	if *patterns.AvgResponseTime != time.Hour {
		t.Errorf("avg response time = %v, want 1h", *patterns.AvgResponseTime)
	}
}

func TestAvgResponseTimeIgnoresMultiDayGaps(t *testing.T) {
	a := newTestAnalyzer()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	messages := []EmailMessage{
		testMessage("a1", "x@y.com", "", "", base, true),
		testMessage("a2", "x@y.com", "", "", base.Add(48*time.Hour), true),
	}
	patterns := a.AnalyzeCommunicationPatterns(messages)

	if patterns.AvgResponseTime != nil {
		t.Errorf("avg response time = %v, want nil when all gaps exceed a day", *patterns.AvgResponseTime)
	}
}

func TestGenerateProductivityMetricsEmpty(t *testing.T) {
	a := newTestAnalyzer()
	metrics := a.GenerateProductivityMetrics(nil)

	if metrics.UnreadPriorityMessages != 0 {
		t.Errorf("unread priority = %d, want 0", metrics.UnreadPriorityMessages)
	}
	if metrics.EstimatedDailyEmailTime != 0 {
		t.Errorf("daily time = %v, want 0", metrics.EstimatedDailyEmailTime)
	}
	if metrics.ResponseEfficiencyScore != 1.0 {
		t.Errorf("efficiency = %f, want 1.0", metrics.ResponseEfficiencyScore)
	}
	if metrics.EmailOverloadRisk != OverloadLow {
		t.Errorf("risk = %s, want low", metrics.EmailOverloadRisk)
	}
	if len(metrics.Recommendations) == 0 {
		t.Error("expected at least one recommendation")
	}
}

func TestGenerateProductivityMetrics(t *testing.T) {
	a := newTestAnalyzer()

	messages := []EmailMessage{
		// Unread urgent message pushes past the priority threshold
		testMessage("u1", "boss@work.com", "urgent emergency deadline", "asap please respond", testNow.Add(-2*time.Hour), false),
		testMessage("u2", "colleague@work.com", "notes", "the report is attached", testNow.Add(-3*time.Hour), true),
	}

	metrics := a.GenerateProductivityMetrics(messages)

	if metrics.UnreadPriorityMessages != 1 {
		t.Errorf("unread priority = %d, want 1", metrics.UnreadPriorityMessages)
	}
	if metrics.EstimatedDailyEmailTime != 60*time.Second {
		t.Errorf("daily time = %v, want 60s", metrics.EstimatedDailyEmailTime)
	}
	if metrics.EmailOverloadRisk != OverloadLow {
		t.Errorf("risk = %s, want low", metrics.EmailOverloadRisk)
	}

	want := "Focus on 1 high-priority unread messages first"
	if len(metrics.Recommendations) == 0 || metrics.Recommendations[0] != want {
		t.Errorf("recommendations = %v, want first %q", metrics.Recommendations, want)
	}
}

func TestResponseEfficiency(t *testing.T) {
	a := newTestAnalyzer()

	messages := []EmailMessage{
		// Actionable, read within a day: efficient
		testMessage("e1", "x@y.com", "", "can you check this?", testNow.Add(-2*time.Hour), true),
		// Actionable but unread: not efficient
		testMessage("e2", "x@y.com", "", "could you confirm?", testNow.Add(-2*time.Hour), false),
		// Too recent to count
		testMessage("e3", "x@y.com", "", "would you reply?", testNow.Add(-30*time.Minute), false),
	}

	metrics := a.GenerateProductivityMetrics(messages)
	if metrics.ResponseEfficiencyScore != 0.5 {
		t.Errorf("efficiency = %f, want 0.5", metrics.ResponseEfficiencyScore)
	}
}

func TestResponseEfficiencyNoActionable(t *testing.T) {
	a := newTestAnalyzer()

	messages := []EmailMessage{
		testMessage("n1", "x@y.com", "", "the report is attached", testNow.Add(-2*time.Hour), true),
	}

	metrics := a.GenerateProductivityMetrics(messages)
	if metrics.ResponseEfficiencyScore != 1.0 {
		t.Errorf("efficiency = %f, want 1.0 with no actionable messages", metrics.ResponseEfficiencyScore)
	}
}

func TestOverloadRiskHighForSameDayBurst(t *testing.T) {
	a := newTestAnalyzer()

	// 60 messages in a single day: above the high-risk threshold
	var messages []EmailMessage
	for i := 0; i < 60; i++ {
		messages = append(messages,
			testMessage(fmt.Sprintf("o%d", i), "x@y.com", "", "the report is attached",
				testNow.Add(-time.Duration(i)*time.Minute), true))
	}

	metrics := a.GenerateProductivityMetrics(messages)
	if metrics.EmailOverloadRisk != OverloadHigh {
		t.Errorf("risk = %s, want high", metrics.EmailOverloadRisk)
	}

	found := 0
	for _, rec := range metrics.Recommendations {
		if rec == "Consider using filters to reduce email volume" ||
			rec == "Set specific times for email processing to improve focus" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected both overload recommendations, found %d in %v", found, metrics.Recommendations)
	}
}

func TestRecommendationsForUnreadBacklog(t *testing.T) {
	a := newTestAnalyzer()

	// Six old unread messages also trip the stale-backlog suggestion
	var messages []EmailMessage
	for i := 0; i < 6; i++ {
		messages = append(messages,
			testMessage(fmt.Sprintf("ob%d", i), "x@y.com", "", "the report is attached",
				testNow.Add(-10*24*time.Hour), false))
	}

	metrics := a.GenerateProductivityMetrics(messages)

	wantBatch := "Consider batch processing emails to reduce unread backlog"
	wantArchive := "Archive or delete old unread messages to reduce clutter"
	got := strings.Join(metrics.Recommendations, "\n")
	if !strings.Contains(got, wantBatch) {
		t.Errorf("recommendations missing %q: %v", wantBatch, metrics.Recommendations)
	}
	if !strings.Contains(got, wantArchive) {
		t.Errorf("recommendations missing %q: %v", wantArchive, metrics.Recommendations)
	}
}

func TestRecommendationsFallback(t *testing.T) {
	a := newTestAnalyzer()

	messages := []EmailMessage{
		testMessage("f1", "x@y.com", "", "the report is attached", testNow.Add(-2*time.Hour), true),
	}

	metrics := a.GenerateProductivityMetrics(messages)
	want := []string{"Your email management looks good!"}
	if !reflect.DeepEqual(metrics.Recommendations, want) {
		t.Errorf("recommendations = %v, want %v", metrics.Recommendations, want)
	}
}

func TestBatchMemoMatchesDirectAnalysis(t *testing.T) {
	a := newTestAnalyzer()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	messages := []EmailMessage{
		testMessage("d1", "alice@work.com", "meeting", "can you review the project proposal?", base, false),
		testMessage("d1", "alice@work.com", "meeting", "can you review the project proposal?", base, false),
		testMessage("", "bob@home.net", "dinner", "family birthday party", base.Add(time.Hour), true),
	}

	patterns := a.AnalyzeCommunicationPatterns(messages)

	// Memoized batch results must match per-message analysis
	direct := a.Analyze(messages[0])
	if patterns.CategoryDistribution[direct.Category] == 0 {
		t.Errorf("batch distribution missing directly computed category %s", direct.Category)
	}
	if patterns.TotalMessagesAnalyzed != 3 {
		t.Errorf("total = %d, want 3", patterns.TotalMessagesAnalyzed)
	}
}
