package analyze

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sabq4org/consensus/internal/config"
	"github.com/sabq4org/consensus/internal/content"
	"github.com/sabq4org/consensus/internal/llm"
	"github.com/sabq4org/consensus/internal/models"
)

// scriptedProvider returns a canned reply or error and counts invocations.
type scriptedProvider struct {
	name  string
	reply string
	err   error
	calls atomic.Int32
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) CompleteWithSystem(ctx context.Context, system, user string, opts llm.CompletionOptions) (string, error) {
	p.calls.Add(1)
	return p.reply, p.err
}

// stubStore serves a fixed corpus.
type stubStore struct {
	articles []content.Article
	comments []content.Comment
}

func (s *stubStore) ArticlesSince(ctx context.Context, since time.Time, limit int) ([]content.Article, error) {
	return s.articles, nil
}

func (s *stubStore) CommentsSince(ctx context.Context, since time.Time, limit int) ([]content.Comment, error) {
	return s.comments, nil
}

func (s *stubStore) Close() error { return nil }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.FactCheck.Panel = []string{"alpha", "beta", "gamma"}
	cfg.Trends.TopicsProvider = "topics"
	cfg.Trends.KeywordsProvider = "keywords"
	return cfg
}

// newTestEngine builds an engine over scripted providers. The panel slots
// alpha/beta/gamma and the two specialists must all be present in providers.
func newTestEngine(t *testing.T, providers map[string]llm.Provider, store content.Store) *Engine {
	t.Helper()
	engine, err := NewEngine(testConfig(), providers, store)
	require.NoError(t, err)
	return engine
}

func analysisReply(t *testing.T, verdict string, confidence int) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"verdict":    verdict,
		"confidence": confidence,
		"reasoning":  "scripted",
	})
	require.NoError(t, err)
	return string(data)
}

func topicsReply(t *testing.T, report models.TopicReport) string {
	t.Helper()
	data, err := json.Marshal(report)
	require.NoError(t, err)
	return string(data)
}

func keywordsReply(t *testing.T, report models.KeywordReport) string {
	t.Helper()
	data, err := json.Marshal(report)
	require.NoError(t, err)
	return string(data)
}

func someArticles() []content.Article {
	return []content.Article{
		{ID: "a1", Title: "Transit fares rise", Summary: "Fares up 10%", Category: "city", PublishedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "a2", Title: "Stadium opens", Summary: "New arena", Category: "sport", PublishedAt: time.Now().Add(-4 * time.Hour)},
	}
}
