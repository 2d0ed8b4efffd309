package core

import "regexp"

// Scoring thresholds shared by the analyzer
const (
	highPriorityThreshold      = 0.7
	mediumOverloadThreshold    = 20
	emailOverloadThreshold     = 50
	positiveSentimentThreshold = 0.6
	negativeSentimentThreshold = 0.4
	excessiveLinksThreshold    = 5
	minMessagesForAnalysis     = 2
	unreadRatioThreshold       = 0.3
	oldUnreadDaysThreshold     = 7
	oldUnreadCountThreshold    = 5
	wordsPerMinute             = 200
	minReadingTimeSeconds      = 30
	maxKeyTopics               = 5
	maxPeakHours               = 3
	maxFrequentSenders         = 5
)

// keywordWeight pairs a keyword with its priority weight. Slices keep a fixed
// iteration order so scoring is deterministic.
type keywordWeight struct {
	keyword string
	weight  float64
}

var highPriorityKeywords = []keywordWeight{
	{"urgent", 0.9},
	{"asap", 0.8},
	{"emergency", 1.0},
	{"critical", 0.9},
	{"deadline", 0.7},
	{"important", 0.6},
	{"action required", 0.8},
	{"please respond", 0.6},
	{"time sensitive", 0.8},
	{"priority", 0.7},
}

var mediumPriorityKeywords = []keywordWeight{
	{"meeting", 0.5},
	{"schedule", 0.4},
	{"reminder", 0.4},
	{"follow up", 0.5},
	{"please review", 0.5},
	{"feedback", 0.4},
	{"update", 0.3},
	{"status", 0.3},
}

var positiveWords = []string{
	"thanks", "thank you", "appreciate", "excellent", "great", "wonderful",
	"perfect", "awesome", "congratulations", "success", "pleased", "happy",
}

var negativeWords = []string{
	"problem", "issue", "error", "failed", "wrong", "bad", "terrible",
	"disappointed", "frustrated", "angry", "concerned", "worry", "urgent",
}

// categoryMatcher holds the compiled patterns for one category. Table order is
// the documented tie-break: the first category with the maximum score wins.
type categoryMatcher struct {
	category Category
	patterns []*regexp.Regexp
}

var categoryMatchers = []categoryMatcher{
	{CategoryWork, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(meeting|project|deadline|client|budget|proposal|contract)\b`),
		regexp.MustCompile(`(?i)\b(team|manager|department|office|business|corporate)\b`),
	}},
	{CategoryPersonal, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(family|friend|birthday|vacation|personal|home)\b`),
		regexp.MustCompile(`(?i)\b(weekend|evening|dinner|party|celebration)\b`),
	}},
	{CategoryPromotional, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(sale|discount|offer|deal|promotion|marketing)\b`),
		regexp.MustCompile(`(?i)\b(buy now|limited time|free|save|purchase)\b`),
	}},
	{CategoryNotification, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(notification|alert|reminder|confirmation|receipt)\b`),
		regexp.MustCompile(`(?i)\b(account|security|password|login|verification)\b`),
	}},
}

// urgencyMatcher names an urgency signal and the pattern that triggers it.
// Caps emphasis is deliberately case-sensitive and runs against the original
// text; the remaining patterns are case-insensitive.
type urgencyMatcher struct {
	indicator string
	pattern   *regexp.Regexp
}

var urgencyMatchers = []urgencyMatcher{
	{IndicatorDeadlineMention, regexp.MustCompile(`(?i)\b(deadline|due date|expires|until)\b`)},
	{IndicatorTimePressure, regexp.MustCompile(`(?i)\b(asap|urgent|immediately|quickly)\b`)},
	{IndicatorActionRequired, regexp.MustCompile(`(?i)\b(action required|please respond|need response)\b`)},
	{IndicatorCapsEmphasis, regexp.MustCompile(`\b[A-Z]{4,}\b`)},
	{IndicatorMultipleExclamations, regexp.MustCompile(`!{2,}`)},
}

var spamIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(lottery|winner|million dollars|inheritance|prince)\b`),
	regexp.MustCompile(`(?i)\b(click here|act now|limited time|urgent action)\b`),
	regexp.MustCompile(`(?i)\b(viagra|pharmacy|medication|pills)\b`),
	regexp.MustCompile(`[A-Z]{5,}`), // excessive caps
	regexp.MustCompile(`!{3,}`),     // multiple exclamation marks
}

var suspiciousSenderWords = []string{"noreply", "marketing", "promo"}

var spamSubjectWords = []string{"free", "win", "money", "deal"}

var automatedMarkers = []string{"automated", "do not reply", "noreply"}

var automatedSenders = []string{"noreply", "donotreply", "no-reply"}

var requestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bplease\b.*\b(let me know|respond|reply|confirm)\b`),
	regexp.MustCompile(`(?i)\bcan you\b`),
	regexp.MustCompile(`(?i)\bwould you\b`),
	regexp.MustCompile(`(?i)\bcould you\b`),
}

var topicWordPattern = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)

// stopWords are excluded from key topic extraction
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "they": true,
	"have": true, "will": true, "your": true, "would": true, "could": true,
}
