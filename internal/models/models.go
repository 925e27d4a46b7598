// Package models defines the core data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Verdict classifies a fact-checked claim.
type Verdict string

const (
	VerdictCredible     Verdict = "credible"
	VerdictQuestionable Verdict = "questionable"
	VerdictFalse        Verdict = "false"
)

// Valid reports whether v is one of the three known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictCredible, VerdictQuestionable, VerdictFalse:
		return true
	}
	return false
}

// Sentiment is the tone attributed to a keyword or to a content window.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// NormalizeSentiment maps free-form model output onto the sentiment enum,
// falling back to neutral for anything unrecognized.
func NormalizeSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// EngagementLevel describes how actively readers interact with content.
type EngagementLevel string

const (
	EngagementLow      EngagementLevel = "low"
	EngagementModerate EngagementLevel = "moderate"
	EngagementHigh     EngagementLevel = "high"
)

// NormalizeEngagement maps free-form model output onto the engagement enum,
// falling back to moderate for anything unrecognized.
func NormalizeEngagement(s string) EngagementLevel {
	switch EngagementLevel(strings.ToLower(strings.TrimSpace(s))) {
	case EngagementLow:
		return EngagementLow
	case EngagementHigh:
		return EngagementHigh
	default:
		return EngagementModerate
	}
}

// Timeframe is the content window a trend analysis covers.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// ParseTimeframe validates a caller-supplied timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(strings.ToLower(strings.TrimSpace(s))) {
	case TimeframeDay:
		return TimeframeDay, nil
	case TimeframeWeek:
		return TimeframeWeek, nil
	case TimeframeMonth:
		return TimeframeMonth, nil
	}
	return "", fmt.Errorf("unknown timeframe %q (expected day, week or month)", s)
}

// Window returns the duration the timeframe covers.
func (t Timeframe) Window() time.Duration {
	switch t {
	case TimeframeWeek:
		return 7 * 24 * time.Hour
	case TimeframeMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ModelAnalysis is one provider's validated opinion on a claim.
type ModelAnalysis struct {
	Provider   string   `json:"provider"`
	Verdict    Verdict  `json:"verdict"`
	Confidence int      `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	RedFlags   []string `json:"red_flags,omitempty"`
}

// Validate rejects analyses with an unknown verdict and clamps confidence
// to [0,100]. An unknown verdict is a discard condition, never defaulted.
func (a *ModelAnalysis) Validate() error {
	if !a.Verdict.Valid() {
		return fmt.Errorf("unknown verdict %q", a.Verdict)
	}
	if a.Confidence < 0 {
		a.Confidence = 0
	}
	if a.Confidence > 100 {
		a.Confidence = 100
	}
	return nil
}

// FactCheckResult is the aggregate outcome of a multi-provider fact check.
type FactCheckResult struct {
	ID              string          `json:"id"`
	Claim           string          `json:"claim"`
	OverallVerdict  Verdict         `json:"overall_verdict"`
	ConfidenceScore int             `json:"confidence_score"`
	Models          []ModelAnalysis `json:"models"`
	Consensus       string          `json:"consensus"`
	Recommendations []string        `json:"recommendations"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// TopicEntry is one trending topic with its derived relevance.
type TopicEntry struct {
	Topic          string `json:"topic"`
	Category       string `json:"category"`
	MentionCount   int    `json:"mention_count"`
	RelevanceScore int    `json:"relevance_score"`
}

// KeywordEntry is one trending keyword with frequency and tone.
type KeywordEntry struct {
	Keyword   string    `json:"keyword"`
	Frequency int       `json:"frequency"`
	Sentiment Sentiment `json:"sentiment"`
}

// TrendInsights summarizes the merged specialist reports.
type TrendInsights struct {
	OverallSentiment Sentiment       `json:"overall_sentiment"`
	EngagementLevel  EngagementLevel `json:"engagement_level"`
	Summary          string          `json:"summary"`
	Recommendations  []string        `json:"recommendations"`
}

// TrendsResult is the aggregate outcome of a trend analysis.
type TrendsResult struct {
	ID             string         `json:"id"`
	TimeRange      Timeframe      `json:"time_range"`
	TrendingTopics []TopicEntry   `json:"trending_topics"`
	Keywords       []KeywordEntry `json:"keywords"`
	Insights       TrendInsights  `json:"insights"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}

// TopicReport is the raw payload expected from the topics specialist.
type TopicReport struct {
	Topics           []TopicEntry `json:"topics"`
	OverallSentiment string       `json:"overall_sentiment"`
	Summary          string       `json:"summary"`
	Recommendations  []string     `json:"recommendations,omitempty"`
}

// Validate checks required fields and normalizes value domains in place.
func (r *TopicReport) Validate() error {
	if r.Topics == nil {
		return fmt.Errorf("missing required field %q", "topics")
	}
	for i := range r.Topics {
		if strings.TrimSpace(r.Topics[i].Topic) == "" {
			return fmt.Errorf("topic %d has an empty name", i)
		}
		if r.Topics[i].MentionCount < 0 {
			r.Topics[i].MentionCount = 0
		}
	}
	return nil
}

// KeywordReport is the raw payload expected from the keywords specialist.
type KeywordReport struct {
	Keywords        []KeywordEntry `json:"keywords"`
	EngagementLevel string         `json:"engagement_level"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// Validate checks required fields and normalizes value domains in place.
func (r *KeywordReport) Validate() error {
	if r.Keywords == nil {
		return fmt.Errorf("missing required field %q", "keywords")
	}
	for i := range r.Keywords {
		if strings.TrimSpace(r.Keywords[i].Keyword) == "" {
			return fmt.Errorf("keyword %d is empty", i)
		}
		if r.Keywords[i].Frequency < 0 {
			r.Keywords[i].Frequency = 0
		}
		r.Keywords[i].Sentiment = NormalizeSentiment(string(r.Keywords[i].Sentiment))
	}
	return nil
}
