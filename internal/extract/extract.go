// Package extract locates and decodes structured JSON payloads embedded in
// free-text model responses. Providers routinely wrap structured output in
// prose or markdown fences; the pipeline treats anything it cannot locate or
// decode as a failed outcome, never as a fault.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// NotFoundError indicates no balanced JSON object could be located in a response.
type NotFoundError struct {
	Excerpt string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no JSON object found in response (excerpt: %q)", e.Excerpt)
}

// DecodeError indicates a located JSON object failed to decode.
type DecodeError struct {
	Excerpt string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON in response (excerpt: %q): %v", e.Excerpt, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// JSON locates the first balanced JSON object embedded in raw and decodes it
// into v. Markdown fences are stripped first; the brace scan is string- and
// escape-aware, so braces inside string values do not end the object early.
func JSON(raw string, v any) error {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if matches := fenceRe.FindStringSubmatch(text); len(matches) > 1 {
			text = matches[1]
		}
	}

	obj, ok := firstObject(text)
	if !ok {
		return &NotFoundError{Excerpt: Excerpt(raw, 120)}
	}

	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return &DecodeError{Excerpt: Excerpt(obj, 120), Err: err}
	}

	return nil
}

// firstObject returns the first balanced top-level {...} block in s.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// Excerpt returns a bounded, newline-free prefix of raw suitable for logging.
func Excerpt(raw string, n int) string {
	s := strings.Join(strings.Fields(raw), " ")
	if runes := []rune(s); len(runes) > n {
		s = string(runes[:n]) + "..."
	}
	return s
}
