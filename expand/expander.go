package expand

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

const (
	// memoKeyLimit bounds the memo key length for pathological inputs.
	memoKeyLimit = 200

	// memoEntryLimit caps the memo map. The map is replaced wholesale once
	// the cap is hit; utterance traffic is repetitive enough that the hot
	// entries repopulate within a few calls.
	memoEntryLimit = 1024
)

// Expander runs the two-tier query expansion. The rule tier always runs;
// the model tier is a fallback for utterances the rules could not read,
// and its failures degrade to the rule result.
type Expander struct {
	model  ai.QueryExpander
	memo   atomic.Pointer[map[string]*core.ExpandedQuery]
	logger *slog.Logger
}

// Option is a functional option for configuring an Expander.
type Option func(*Expander) error

// WithLogger sets a custom logger for the expander.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) error {
		if logger != nil {
			e.logger = logger.With("component", "expander")
		}
		return nil
	}
}

// WithModel attaches a model-backed query expander as the second tier.
// Without it the expander is purely rule-based.
func WithModel(model ai.QueryExpander) Option {
	return func(e *Expander) error {
		e.model = model
		return nil
	}
}

// New creates an Expander. By default no model tier is attached.
func New(opts ...Option) (*Expander, error) {
	e := &Expander{
		logger: slog.Default().With("component", "expander"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	empty := make(map[string]*core.ExpandedQuery)
	e.memo.Store(&empty)
	return e, nil
}

// Expand turns an utterance into a structured query. Results are memoized
// per normalized utterance. Model-tier failures are logged and degrade to
// the rule result; Expand only errors on empty input.
//
// The returned value is shared across callers and must not be mutated.
func (e *Expander) Expand(ctx context.Context, utterance string) (*core.ExpandedQuery, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, ErrEmptyUtterance
	}

	key := memoKey(utterance)
	if cached, ok := (*e.memo.Load())[key]; ok {
		return cached, nil
	}

	result := RuleExpand(utterance)

	// A rule-tier clinical term or follow-up classification settles the
	// query; the model tier only sees utterances the rules drew blank on.
	if e.model != nil && len(result.ClinicalTerms) == 0 && !result.IsFollowUp {
		modeled, err := e.model.ExpandQuery(ctx, utterance)
		if err != nil {
			e.logger.Warn("model expansion failed, using rule result", "err", err)
		} else {
			result.Merge(modeled)
			// The rule tier's new-symptom override outranks the model's
			// follow-up judgment.
			if lexicon.HasNewSymptom(utterance) {
				result.IsFollowUp = false
			}
		}
	}

	e.store(key, result)
	return result, nil
}

// store publishes a memo entry with a copy-on-write swap.
func (e *Expander) store(key string, value *core.ExpandedQuery) {
	for {
		old := e.memo.Load()
		if _, ok := (*old)[key]; ok {
			return
		}
		var next map[string]*core.ExpandedQuery
		if len(*old) >= memoEntryLimit {
			next = make(map[string]*core.ExpandedQuery)
		} else {
			next = make(map[string]*core.ExpandedQuery, len(*old)+1)
			for k, v := range *old {
				next[k] = v
			}
		}
		next[key] = value
		if e.memo.CompareAndSwap(old, &next) {
			return
		}
	}
}

func memoKey(utterance string) string {
	key := lexicon.Normalize(utterance)
	if len(key) > memoKeyLimit {
		key = key[:memoKeyLimit]
	}
	return key
}
