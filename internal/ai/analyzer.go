package ai

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Analysis is what the conversation pipeline derives from one inbound text.
type Analysis struct {
	Intent     string              `json:"intent"`
	Entities   map[string][]string `json:"entities,omitempty"`
	Sentiment  string              `json:"sentiment"`
	Confidence float64             `json:"confidence"`
	Language   string              `json:"language"`
}

// Analyzer is a pluggable strategy; the keyword matcher is the fallback
// implementation, a remote model can be swapped in without touching callers.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

const (
	IntentGreeting   = "greeting"
	IntentPricing    = "pricing"
	IntentServices   = "services"
	IntentScheduling = "scheduling"
	IntentHuman      = "human_handoff"
	IntentFarewell   = "farewell"
	IntentUnknown    = "unknown"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-]{8,}\d`)
)

// scanned in fixed order so equal-hit ties resolve deterministically
var intentOrder = []string{
	IntentGreeting, IntentPricing, IntentScheduling,
	IntentHuman, IntentServices, IntentFarewell,
}

// intent keyword sets, english + hebrew
var intentKeywords = map[string][]string{
	IntentGreeting:   {"hello", "hi ", "hey", "good morning", "good evening", "שלום", "היי", "בוקר טוב", "ערב טוב"},
	IntentPricing:    {"price", "pricing", "cost", "how much", "quote", "מחיר", "עלות", "כמה עולה", "הצעת מחיר"},
	IntentServices:   {"service", "automation", "chatbot", "ai", "integration", "what do you do", "שירות", "אוטומציה", "בוט", "בינה מלאכותית"},
	IntentScheduling: {"meeting", "schedule", "call", "appointment", "demo", "פגישה", "לקבוע", "שיחה", "דמו"},
	IntentHuman:      {"human", "agent", "representative", "person", "talk to someone", "נציג", "אדם", "בן אדם", "לדבר עם"},
	IntentFarewell:   {"bye", "goodbye", "thanks", "thank you", "ביי", "להתראות", "תודה"},
}

var positiveWords = []string{"great", "good", "thanks", "awesome", "perfect", "love", "מעולה", "תודה", "נהדר", "אחלה"}
var negativeWords = []string{"bad", "problem", "issue", "angry", "terrible", "disappointed", "גרוע", "בעיה", "מאוכזב", "נורא"}

// KeywordAnalyzer is the deterministic fallback strategy: keyword sets per
// intent, regex entity extraction, word-list sentiment, script-based language
// detection. It never fails.
type KeywordAnalyzer struct{}

func NewKeywordAnalyzer() *KeywordAnalyzer { return &KeywordAnalyzer{} }

func (a *KeywordAnalyzer) Analyze(_ context.Context, text string) (Analysis, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	result := Analysis{
		Intent:    IntentUnknown,
		Sentiment: "neutral",
		Language:  detectLanguage(text),
		Entities:  map[string][]string{},
	}
	if lower == "" {
		return result, nil
	}

	bestHits := 0
	for _, intent := range intentOrder {
		hits := 0
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			result.Intent = intent
		}
	}

	// confidence by match density, capped; unknown stays at zero
	if bestHits > 0 {
		result.Confidence = 0.5 + 0.15*float64(bestHits)
		if result.Confidence > 0.95 {
			result.Confidence = 0.95
		}
	}

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		result.Sentiment = "positive"
	case neg > pos:
		result.Sentiment = "negative"
	}

	if emails := emailPattern.FindAllString(text, -1); len(emails) > 0 {
		result.Entities["emails"] = emails
	}
	if phones := phonePattern.FindAllString(text, -1); len(phones) > 0 {
		result.Entities["phones"] = phones
	}

	return result, nil
}

// detectLanguage classifies by script: any Hebrew rune wins, otherwise
// english.
func detectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Hebrew, r) {
			return "he"
		}
	}
	return "en"
}
