package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Verdict    string `json:"verdict"`
	Confidence int    `json:"confidence"`
}

func TestJSONPlainObject(t *testing.T) {
	var p payload
	err := JSON(`{"verdict": "credible", "confidence": 85}`, &p)
	require.NoError(t, err)
	assert.Equal(t, "credible", p.Verdict)
	assert.Equal(t, 85, p.Confidence)
}

func TestJSONMarkdownFence(t *testing.T) {
	raw := "```json\n{\"verdict\": \"false\", \"confidence\": 40}\n```"
	var p payload
	require.NoError(t, JSON(raw, &p))
	assert.Equal(t, "false", p.Verdict)
}

func TestJSONEmbeddedInProse(t *testing.T) {
	raw := `Sure! Here is my analysis of the claim:

{"verdict": "questionable", "confidence": 55}

Let me know if you need anything else.`
	var p payload
	require.NoError(t, JSON(raw, &p))
	assert.Equal(t, "questionable", p.Verdict)
	assert.Equal(t, 55, p.Confidence)
}

func TestJSONNestedBracesAndStrings(t *testing.T) {
	// Braces inside string values must not end the object early, and the
	// first balanced object wins over trailing ones.
	raw := `{"verdict": "credible", "confidence": 70, "reasoning": "uses {markers} and \"quotes\""} {"verdict": "false"}`
	var p struct {
		Verdict   string `json:"verdict"`
		Reasoning string `json:"reasoning"`
	}
	require.NoError(t, JSON(raw, &p))
	assert.Equal(t, "credible", p.Verdict)
	assert.Equal(t, `uses {markers} and "quotes"`, p.Reasoning)
}

func TestJSONNoObject(t *testing.T) {
	var p payload
	err := JSON("I cannot answer that in a structured way.", &p)
	require.Error(t, err)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestJSONUnbalanced(t *testing.T) {
	var p payload
	err := JSON(`{"verdict": "credible", "confidence": 85`, &p)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestJSONMalformed(t *testing.T) {
	var p payload
	err := JSON(`{"verdict": credible}`, &p)
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.NotEmpty(t, decodeErr.Excerpt)
}

func TestExcerptBoundsAndFlattens(t *testing.T) {
	assert.Equal(t, "line one line two", Excerpt("line one\n  line two\t", 120))

	assert.Len(t, []rune(Excerpt("aaaaaaaaaa", 4)), 7) // 4 runes plus "..."
}
