// Package analyze implements the redundant-voting fact-check flow.
package analyze

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sabq4org/consensus/internal/ensemble"
	"github.com/sabq4org/consensus/internal/extract"
	"github.com/sabq4org/consensus/internal/llm"
	"github.com/sabq4org/consensus/internal/models"
)

const factCheckSystemPrompt = `You are a fact-checking analyst for a news publisher. Assess the accuracy of the claim.

Your task:
1. Judge whether the claim is credible, questionable or false
2. Assign a confidence score between 0 and 100
3. Explain your reasoning briefly
4. List any red flags (missing sources, implausible numbers, loaded framing)

Respond with a JSON object:
{
  "verdict": "credible|questionable|false",
  "confidence": 0-100,
  "reasoning": "Brief explanation of your decision",
  "red_flags": ["..."]
}

Verdict meanings:
- credible: the claim is consistent with well-established facts
- questionable: the claim cannot be confirmed or is partially correct
- false: the claim contradicts well-established facts

Only respond with the JSON object, no other text.`

// baseRecommendations is the fixed set of investigative next steps every
// fact-check result starts from.
var baseRecommendations = []string{
	"Verify the claim against primary sources before publishing.",
	"Check the date and context of any statistics the claim cites.",
}

var verdictRecommendations = map[models.Verdict]string{
	models.VerdictCredible:     "Attribute the claim to its original source in the article.",
	models.VerdictQuestionable: "Flag the story for editorial review before publication.",
	models.VerdictFalse:        "Do not republish the claim without a prominent correction.",
}

// lowConfidenceThreshold triggers the expert-review recommendation.
const lowConfidenceThreshold = 60

// CheckFactAccuracy dispatches the claim to every panel provider, validates
// each opinion independently and reduces the surviving ones by majority vote.
// It fails with ErrAllProvidersFailed when no opinion survives validation.
func (e *Engine) CheckFactAccuracy(ctx context.Context, claim, claimContext string) (*models.FactCheckResult, error) {
	requestID := uuid.New().String()

	user := fmt.Sprintf("Claim to check: %s", claim)
	if claimContext != "" {
		user = fmt.Sprintf("Claim to check: %s\n\nContext: %s", claim, claimContext)
	}

	calls := make([]ensemble.Call, len(e.panel))
	for i, p := range e.panel {
		calls[i] = ensemble.Call{
			Label:    "fact-check",
			Provider: p,
			System:   factCheckSystemPrompt,
			User:     user,
			Timeout:  e.factCheckTimeout,
			Options:  llm.DefaultCompletionOptions(),
		}
	}

	log.Info().
		Str("request_id", requestID).
		Int("panel_size", len(calls)).
		Msg("Dispatching fact-check panel")

	outcomes := ensemble.Run(ctx, requestID, calls)

	analyses := collectAnalyses(requestID, outcomes)
	if len(analyses) == 0 {
		log.Error().
			Str("request_id", requestID).
			Int("dispatched", len(calls)).
			Msg("No valid analysis survived extraction")
		return nil, ErrAllProvidersFailed
	}

	verdict, agreeing := vote(analyses)
	confidence := meanConfidence(analyses)

	result := &models.FactCheckResult{
		ID:              requestID,
		Claim:           claim,
		OverallVerdict:  verdict,
		ConfidenceScore: confidence,
		Models:          analyses,
		Consensus:       consensusStatement(verdict, agreeing, len(analyses)),
		Recommendations: factCheckRecommendations(verdict, confidence),
		CheckedAt:       time.Now(),
	}

	log.Info().
		Str("request_id", requestID).
		Str("verdict", string(result.OverallVerdict)).
		Int("confidence", result.ConfidenceScore).
		Int("valid_models", len(analyses)).
		Msg("Fact check complete")

	return result, nil
}

// collectAnalyses extracts and validates one ModelAnalysis per successful
// outcome. A malformed or schema-violating response is dropped and logged,
// identical in effect to a transport failure.
func collectAnalyses(requestID string, outcomes []ensemble.Outcome) []models.ModelAnalysis {
	var analyses []models.ModelAnalysis
	for _, out := range outcomes {
		if !out.OK() {
			continue // already logged by the executor
		}

		var analysis models.ModelAnalysis
		if err := extract.JSON(out.Text, &analysis); err != nil {
			log.Warn().
				Str("request_id", requestID).
				Str("provider", out.Provider).
				Str("raw", extract.Excerpt(out.Text, 120)).
				Err(err).
				Msg("Dropping unparseable analysis")
			continue
		}

		analysis.Provider = out.Provider
		if err := analysis.Validate(); err != nil {
			log.Warn().
				Str("request_id", requestID).
				Str("provider", out.Provider).
				Str("raw", extract.Excerpt(out.Text, 120)).
				Err(err).
				Msg("Dropping invalid analysis")
			continue
		}

		analyses = append(analyses, analysis)
	}
	return analyses
}

// vote tallies verdicts over the valid analyses. Any verdict with at least
// two votes wins; otherwise the result falls back to questionable, the
// conservative needs-human-review state. The tally is commutative over
// outcome arrival order.
func vote(analyses []models.ModelAnalysis) (models.Verdict, int) {
	counts := map[models.Verdict]int{}
	for _, a := range analyses {
		counts[a.Verdict]++
	}

	winner := models.VerdictQuestionable
	best := 0
	for _, v := range []models.Verdict{models.VerdictCredible, models.VerdictQuestionable, models.VerdictFalse} {
		if counts[v] > best {
			winner, best = v, counts[v]
		}
	}

	if best < 2 {
		return models.VerdictQuestionable, counts[models.VerdictQuestionable]
	}
	return winner, best
}

// meanConfidence averages confidence across valid analyses only; dropped
// providers do not count toward the denominator.
func meanConfidence(analyses []models.ModelAnalysis) int {
	if len(analyses) == 0 {
		return 0
	}
	sum := 0
	for _, a := range analyses {
		sum += a.Confidence
	}
	return int(math.Round(float64(sum) / float64(len(analyses))))
}

// consensusStatement reports agreement out of the number of valid analyses,
// not the nominal panel size.
func consensusStatement(verdict models.Verdict, agreeing, valid int) string {
	if agreeing >= 2 {
		return fmt.Sprintf("%d of %d models judge the claim %s.", agreeing, valid, verdict)
	}
	return fmt.Sprintf("No majority among %d valid models; defaulting to %s.", valid, models.VerdictQuestionable)
}

func factCheckRecommendations(verdict models.Verdict, confidence int) []string {
	recs := append([]string{}, baseRecommendations...)
	if r, ok := verdictRecommendations[verdict]; ok {
		recs = append(recs, r)
	}
	if confidence < lowConfidenceThreshold {
		recs = append(recs, "Consult a domain expert; model confidence is low.")
	}
	return dedupe(recs, 0)
}

// dedupe removes exact-string duplicates preserving first-seen order and,
// when max > 0, truncates the list to max entries.
func dedupe(items []string, max int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
