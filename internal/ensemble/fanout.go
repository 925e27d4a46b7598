// Package ensemble dispatches independent provider calls concurrently and
// collects a settled outcome per call.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sabq4org/consensus/internal/llm"
)

// DefaultTimeout bounds a call whose Timeout is unset.
const DefaultTimeout = 45 * time.Second

// Call is one unit of provider work. Immutable once constructed.
type Call struct {
	Label    string // caller-chosen tag, e.g. the specialist facet
	Provider llm.Provider
	System   string
	User     string
	Timeout  time.Duration
	Options  llm.CompletionOptions
}

// Outcome is the settled result of one Call. Exactly one of Text and Err
// carries the result.
type Outcome struct {
	Label    string
	Provider string
	Text     string
	Err      error
	Elapsed  time.Duration
}

// OK reports whether the call produced a payload.
func (o Outcome) OK() bool { return o.Err == nil }

// Run executes every call concurrently and waits until all of them reach a
// terminal state. It always returns exactly len(calls) outcomes, index-aligned
// with the input; one call timing out or failing never cancels its siblings.
func Run(ctx context.Context, requestID string, calls []Call) []Outcome {
	outcomes := make([]Outcome, len(calls))

	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func(i int, call Call) {
			defer wg.Done()
			outcomes[i] = settle(ctx, requestID, call)
		}(i, calls[i])
	}
	wg.Wait()

	return outcomes
}

func settle(ctx context.Context, requestID string, call Call) (out Outcome) {
	out.Label = call.Label
	out.Provider = call.Provider.Name()

	timeout := call.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	// A misbehaving adapter must not take down sibling calls.
	defer func() {
		out.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("provider panicked: %v", r)
		}
		logOutcome(requestID, out)
	}()

	text, err := call.Provider.CompleteWithSystem(callCtx, call.System, call.User, call.Options)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			out.Err = fmt.Errorf("timed out after %s: %w", timeout, err)
		} else {
			out.Err = err
		}
		return out
	}

	out.Text = text
	return out
}

func logOutcome(requestID string, out Outcome) {
	evt := log.Debug()
	if out.Err != nil {
		evt = log.Warn().Err(out.Err)
	}
	evt.
		Str("request_id", requestID).
		Str("provider", out.Provider).
		Str("label", out.Label).
		Dur("elapsed", out.Elapsed).
		Msg("Provider call settled")
}
