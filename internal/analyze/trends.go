// Package analyze implements the specialist trend-analysis flow.
package analyze

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sabq4org/consensus/internal/content"
	"github.com/sabq4org/consensus/internal/ensemble"
	"github.com/sabq4org/consensus/internal/extract"
	"github.com/sabq4org/consensus/internal/llm"
	"github.com/sabq4org/consensus/internal/models"
)

const (
	maxKeywords        = 30
	maxRecommendations = 5

	facetTopics   = "topics"
	facetKeywords = "keywords"
)

const topicsSystemPrompt = `You are a news analyst. From the content corpus you are given, identify the trending topics.

Respond with a JSON object:
{
  "topics": [
    {"topic": "Topic name", "category": "Section or beat", "mention_count": 12}
  ],
  "overall_sentiment": "positive|neutral|negative",
  "summary": "One-paragraph overview of what readers are engaging with",
  "recommendations": ["Optional editorial suggestions"]
}

mention_count is how many corpus items discuss the topic. Only respond with the JSON object, no other text.`

const keywordsSystemPrompt = `You are a news analyst. From the content corpus you are given, extract the trending keywords.

Respond with a JSON object:
{
  "keywords": [
    {"keyword": "term", "frequency": 8, "sentiment": "positive|neutral|negative"}
  ],
  "engagement_level": "low|moderate|high",
  "recommendations": ["Optional editorial suggestions"]
}

frequency is how often the keyword appears across the corpus. Only respond with the JSON object, no other text.`

// AnalyzeTrends collects the corpus for the requested window and asks two
// specialist providers for complementary facets, merging them into one
// result. An empty corpus short-circuits to a well-formed "no data" result
// without any provider call; a failed specialist fails the whole request.
func (e *Engine) AnalyzeTrends(ctx context.Context, timeframe models.Timeframe, limit int) (*models.TrendsResult, error) {
	requestID := uuid.New().String()

	if limit <= 0 {
		limit = e.corpusLimit
	}

	since := time.Now().Add(-timeframe.Window())
	articles, err := e.store.ArticlesSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to collect articles: %w", err)
	}
	comments, err := e.store.CommentsSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to collect comments: %w", err)
	}

	if len(articles) == 0 && len(comments) == 0 {
		log.Info().
			Str("request_id", requestID).
			Str("timeframe", string(timeframe)).
			Msg("Empty corpus, skipping provider calls")
		return emptyTrendsResult(requestID, timeframe), nil
	}

	corpus := renderCorpus(articles, comments)

	calls := []ensemble.Call{
		{
			Label:    facetTopics,
			Provider: e.topicsProvider,
			System:   topicsSystemPrompt,
			User:     corpus,
			Timeout:  e.trendsTimeout,
			Options:  llm.DefaultCompletionOptions(),
		},
		{
			Label:    facetKeywords,
			Provider: e.keywordsProvider,
			System:   keywordsSystemPrompt,
			User:     corpus,
			Timeout:  e.trendsTimeout,
			Options:  llm.DefaultCompletionOptions(),
		},
	}

	log.Info().
		Str("request_id", requestID).
		Str("timeframe", string(timeframe)).
		Int("articles", len(articles)).
		Int("comments", len(comments)).
		Msg("Dispatching trend specialists")

	outcomes := ensemble.Run(ctx, requestID, calls)

	var topicReport models.TopicReport
	var keywordReport models.KeywordReport
	for _, out := range outcomes {
		switch out.Label {
		case facetTopics:
			err = settleSpecialist(requestID, out, &topicReport)
		case facetKeywords:
			err = settleSpecialist(requestID, out, &keywordReport)
		}
		if err != nil {
			return nil, err
		}
	}

	result := mergeReports(requestID, timeframe, &topicReport, &keywordReport)

	log.Info().
		Str("request_id", requestID).
		Int("topics", len(result.TrendingTopics)).
		Int("keywords", len(result.Keywords)).
		Str("engagement", string(result.Insights.EngagementLevel)).
		Msg("Trend analysis complete")

	return result, nil
}

// settleSpecialist turns one specialist outcome into its validated report.
// Unlike the voting flow there is no redundancy to absorb a loss here, so
// every failure is fatal to the request.
func settleSpecialist[T interface{ Validate() error }](requestID string, out ensemble.Outcome, report T) error {
	if !out.OK() {
		return &SpecialistError{Facet: out.Label, Err: out.Err}
	}

	if err := extract.JSON(out.Text, report); err != nil {
		log.Error().
			Str("request_id", requestID).
			Str("provider", out.Provider).
			Str("facet", out.Label).
			Str("raw", extract.Excerpt(out.Text, 120)).
			Err(err).
			Msg("Specialist returned unparseable payload")
		return &SpecialistError{Facet: out.Label, Err: err}
	}

	if err := report.Validate(); err != nil {
		log.Error().
			Str("request_id", requestID).
			Str("provider", out.Provider).
			Str("facet", out.Label).
			Err(err).
			Msg("Specialist payload failed validation")
		return &SpecialistError{Facet: out.Label, Err: err}
	}

	return nil
}

// mergeReports combines the two facets: derived topic relevance, capped
// keywords and deduplicated recommendations from both specialists plus the
// rule-derived ones.
func mergeReports(requestID string, timeframe models.Timeframe, topics *models.TopicReport, keywords *models.KeywordReport) *models.TrendsResult {
	trending := scoreTopics(topics.Topics)

	kws := keywords.Keywords
	if len(kws) > maxKeywords {
		kws = kws[:maxKeywords]
	}

	sentiment := models.NormalizeSentiment(topics.OverallSentiment)
	engagement := models.NormalizeEngagement(keywords.EngagementLevel)

	var recs []string
	recs = append(recs, topics.Recommendations...)
	recs = append(recs, keywords.Recommendations...)
	recs = append(recs, ruleRecommendations(trending, sentiment, engagement)...)

	return &models.TrendsResult{
		ID:             requestID,
		TimeRange:      timeframe,
		TrendingTopics: trending,
		Keywords:       kws,
		Insights: models.TrendInsights{
			OverallSentiment: sentiment,
			EngagementLevel:  engagement,
			Summary:          topics.Summary,
			Recommendations:  dedupe(recs, maxRecommendations),
		},
		AnalyzedAt: time.Now(),
	}
}

// scoreTopics derives each topic's relevance as its mention count normalized
// to 0-100 against the most-mentioned topic, then sorts descending. The sort
// is stable so equally relevant topics keep their reported order.
func scoreTopics(topics []models.TopicEntry) []models.TopicEntry {
	scored := append([]models.TopicEntry{}, topics...)

	maxMentions := 0
	for _, t := range scored {
		if t.MentionCount > maxMentions {
			maxMentions = t.MentionCount
		}
	}
	if maxMentions < 1 {
		maxMentions = 1
	}

	for i := range scored {
		scored[i].RelevanceScore = int(math.Round(100 * float64(scored[i].MentionCount) / float64(maxMentions)))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	return scored
}

func ruleRecommendations(topics []models.TopicEntry, sentiment models.Sentiment, engagement models.EngagementLevel) []string {
	var recs []string
	if sentiment == models.SentimentNegative {
		recs = append(recs, "Balance the coverage mix; overall reader sentiment is negative.")
	}
	if engagement == models.EngagementHigh {
		recs = append(recs, "Schedule follow-up coverage while engagement is high.")
	}
	if len(topics) > 0 {
		recs = append(recs, fmt.Sprintf("Commission a follow-up piece on %q.", topics[0].Topic))
	}
	return recs
}

// emptyTrendsResult is the no-data short-circuit: well-formed and neutral,
// produced without any provider work.
func emptyTrendsResult(requestID string, timeframe models.Timeframe) *models.TrendsResult {
	return &models.TrendsResult{
		ID:             requestID,
		TimeRange:      timeframe,
		TrendingTopics: []models.TopicEntry{},
		Keywords:       []models.KeywordEntry{},
		Insights: models.TrendInsights{
			OverallSentiment: models.SentimentNeutral,
			EngagementLevel:  models.EngagementLow,
			Summary:          fmt.Sprintf("No published content or comments in the last %s.", timeframe),
			Recommendations:  []string{},
		},
		AnalyzedAt: time.Now(),
	}
}

// renderCorpus formats the corpus into the prompt body both specialists
// receive. Item text is bounded so a single long article cannot blow the
// request past provider token limits.
func renderCorpus(articles []content.Article, comments []content.Comment) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Content corpus: %d articles, %d comments.\n", len(articles), len(comments)))

	if len(articles) > 0 {
		b.WriteString("\nArticles (newest first):\n")
		for i, a := range articles {
			b.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, a.Category, a.Title))
			if a.Summary != "" {
				b.WriteString(": ")
				b.WriteString(truncate(a.Summary, 280))
			}
			b.WriteString("\n")
		}
	}

	if len(comments) > 0 {
		b.WriteString("\nReader comments (newest first):\n")
		for i, c := range comments {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncate(c.Body, 200)))
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
