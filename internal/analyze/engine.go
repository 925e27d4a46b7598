// Package analyze orchestrates multi-provider consensus analysis: redundant
// fact-check voting and specialist trend merging.
package analyze

import (
	"errors"
	"fmt"
	"time"

	"github.com/sabq4org/consensus/internal/config"
	"github.com/sabq4org/consensus/internal/content"
	"github.com/sabq4org/consensus/internal/llm"
)

// ErrAllProvidersFailed is returned when no provider produced a valid
// analysis. A fact check never returns a result with zero surviving models.
var ErrAllProvidersFailed = errors.New("all providers failed")

// SpecialistError reports the loss of a required trend facet. There is no
// redundant source for a missing specialization, so it fails the request.
type SpecialistError struct {
	Facet string
	Err   error
}

func (e *SpecialistError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Facet, e.Err)
}

func (e *SpecialistError) Unwrap() error { return e.Err }

// Engine wires the provider panel, the specialists and the content store
// into the two public analysis flows.
type Engine struct {
	panel            []llm.Provider // fact-check voters, fixed size 3
	topicsProvider   llm.Provider
	keywordsProvider llm.Provider
	store            content.Store

	factCheckTimeout time.Duration
	trendsTimeout    time.Duration
	corpusLimit      int
}

// NewEngine creates an engine from validated configuration and the adapters
// built for it. providers maps configured names to their adapters.
func NewEngine(cfg *config.Config, providers map[string]llm.Provider, store content.Store) (*Engine, error) {
	e := &Engine{
		store:            store,
		factCheckTimeout: time.Duration(cfg.FactCheck.TimeoutSeconds) * time.Second,
		trendsTimeout:    time.Duration(cfg.Trends.TimeoutSeconds) * time.Second,
		corpusLimit:      cfg.Trends.CorpusLimit,
	}

	for _, name := range cfg.FactCheck.Panel {
		p, ok := providers[name]
		if !ok {
			return nil, fmt.Errorf("panel provider %q has no adapter", name)
		}
		e.panel = append(e.panel, p)
	}

	var ok bool
	if e.topicsProvider, ok = providers[cfg.Trends.TopicsProvider]; !ok {
		return nil, fmt.Errorf("topics provider %q has no adapter", cfg.Trends.TopicsProvider)
	}
	if e.keywordsProvider, ok = providers[cfg.Trends.KeywordsProvider]; !ok {
		return nil, fmt.Errorf("keywords provider %q has no adapter", cfg.Trends.KeywordsProvider)
	}

	if e.corpusLimit <= 0 {
		e.corpusLimit = 50
	}

	return e, nil
}
