package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabq4org/consensus/internal/llm"
	"github.com/sabq4org/consensus/internal/models"
)

func panelProviders(alpha, beta, gamma *scriptedProvider) map[string]llm.Provider {
	return map[string]llm.Provider{
		"alpha":    alpha,
		"beta":     beta,
		"gamma":    gamma,
		"topics":   &scriptedProvider{name: "topics"},
		"keywords": &scriptedProvider{name: "keywords"},
	}
}

func TestCheckFactAccuracyMajority(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", reply: analysisReply(t, "credible", 90)}
	beta := &scriptedProvider{name: "beta", reply: "```json\n" + analysisReply(t, "credible", 70) + "\n```"}
	gamma := &scriptedProvider{name: "gamma", reply: analysisReply(t, "false", 80)}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "The city has 5 million residents", "")
	require.NoError(t, err)

	assert.Equal(t, models.VerdictCredible, result.OverallVerdict)
	assert.Equal(t, 80, result.ConfidenceScore) // (90+70+80)/3
	assert.Len(t, result.Models, 3)
	assert.Equal(t, "2 of 3 models judge the claim credible.", result.Consensus)
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Recommendations)
}

func TestCheckFactAccuracyNoMajorityDefaultsQuestionable(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", reply: analysisReply(t, "credible", 80)}
	beta := &scriptedProvider{name: "beta", reply: analysisReply(t, "false", 75)}
	gamma := &scriptedProvider{name: "gamma", reply: analysisReply(t, "questionable", 50)}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "claim", "")
	require.NoError(t, err)

	assert.Equal(t, models.VerdictQuestionable, result.OverallVerdict)
	assert.Contains(t, result.Consensus, "No majority among 3")
}

func TestCheckFactAccuracyMeanExcludesFailures(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", reply: analysisReply(t, "credible", 80)}
	beta := &scriptedProvider{name: "beta", reply: analysisReply(t, "credible", 60)}
	gamma := &scriptedProvider{name: "gamma", err: errors.New("transport down")}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "claim", "with context")
	require.NoError(t, err)

	// 70, not (80+60+0)/3; the failed provider is out of the denominator.
	assert.Equal(t, 70, result.ConfidenceScore)
	assert.Len(t, result.Models, 2)
	assert.Equal(t, "2 of 2 models judge the claim credible.", result.Consensus)
}

func TestCheckFactAccuracyInvalidVerdictDiscarded(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", reply: analysisReply(t, "probably fine", 99)}
	beta := &scriptedProvider{name: "beta", reply: analysisReply(t, "false", 90)}
	gamma := &scriptedProvider{name: "gamma", reply: analysisReply(t, "false", 70)}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "claim", "")
	require.NoError(t, err)

	// The unknown verdict is dropped, never coerced into a known one.
	assert.Len(t, result.Models, 2)
	assert.Equal(t, models.VerdictFalse, result.OverallVerdict)
	assert.Equal(t, 80, result.ConfidenceScore)
}

func TestCheckFactAccuracyAllFailed(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", err: errors.New("down")}
	beta := &scriptedProvider{name: "beta", reply: "no structure here at all"}
	gamma := &scriptedProvider{name: "gamma", reply: analysisReply(t, "unsure", 10)}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "claim", "")
	require.Nil(t, result)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestCheckFactAccuracyLowConfidenceRecommendation(t *testing.T) {
	alpha := &scriptedProvider{name: "alpha", reply: analysisReply(t, "questionable", 30)}
	beta := &scriptedProvider{name: "beta", reply: analysisReply(t, "questionable", 40)}
	gamma := &scriptedProvider{name: "gamma", reply: analysisReply(t, "credible", 50)}

	engine := newTestEngine(t, panelProviders(alpha, beta, gamma), &stubStore{})

	result, err := engine.CheckFactAccuracy(context.Background(), "claim", "")
	require.NoError(t, err)

	assert.Contains(t, result.Recommendations, "Consult a domain expert; model confidence is low.")

	// No duplicate recommendation strings.
	seen := map[string]bool{}
	for _, r := range result.Recommendations {
		assert.False(t, seen[r], "duplicate recommendation %q", r)
		seen[r] = true
	}
}

func TestVoteSingleValidAnalysisIsQuestionable(t *testing.T) {
	verdict, agreeing := vote([]models.ModelAnalysis{
		{Provider: "alpha", Verdict: models.VerdictCredible, Confidence: 95},
	})

	// One opinion cannot form a majority; the conservative default wins.
	assert.Equal(t, models.VerdictQuestionable, verdict)
	assert.Zero(t, agreeing)
}

func TestMeanConfidenceRounds(t *testing.T) {
	got := meanConfidence([]models.ModelAnalysis{
		{Confidence: 70}, {Confidence: 70}, {Confidence: 71},
	})
	assert.Equal(t, 70, got)

	got = meanConfidence([]models.ModelAnalysis{
		{Confidence: 70}, {Confidence: 71}, {Confidence: 71},
	})
	assert.Equal(t, 71, got)
}
