package search

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/winregi/ai"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/metrics"
)

// maxCachedExpansions bounds the expansion cache. A full cache is dropped
// wholesale.
const maxCachedExpansions = 512

// ExpandingStrategy adds model-suggested keywords to the queries of an inner
// strategy. Scoring is delegated unchanged. If the expander fails, the inner
// query is used as is.
//
// Successful expansions are cached by normalized query, so repeating a query
// against the same strategy ranks the same way even though the model may
// answer differently each time. Failures are not cached.
type ExpandingStrategy struct {
	inner    Strategy
	expander ai.QueryExpander
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string][]string
}

var _ Strategy = (*ExpandingStrategy)(nil)

// NewExpandingStrategy wraps inner with expander. m may be nil.
func NewExpandingStrategy(inner Strategy, expander ai.QueryExpander, m *metrics.Metrics) (*ExpandingStrategy, error) {
	if inner == nil {
		return nil, ErrStrategyRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}
	return &ExpandingStrategy{
		inner:    inner,
		expander: expander,
		metrics:  m,
		logger:   slog.Default().With("component", "expanding-strategy"),
		cache:    make(map[string][]string),
	}, nil
}

// Tokenize tokenizes with the inner strategy and appends the normalized
// expansion keywords to Query.Expanded. Empty queries are not expanded.
func (s *ExpandingStrategy) Tokenize(ctx context.Context, text string) (*core.Query, error) {
	q, err := s.inner.Tokenize(ctx, text)
	if err != nil || q.IsEmpty() {
		return q, err
	}

	expanded, ok := s.cached(q.Normalized)
	if !ok {
		keywords, err := s.expander.ExpandQuery(ctx, text)
		if err != nil {
			s.logger.Warn("query expansion failed, using plain query", "err", err)
			s.metrics.ExpansionFailed()
			return q, nil
		}
		for _, k := range keywords {
			for _, tok := range normalize(k) {
				if !slices.Contains(expanded, tok) && !slices.Contains(q.Tokens, tok) {
					expanded = append(expanded, tok)
				}
			}
		}
		s.store(q.Normalized, expanded)
	}

	for _, tok := range expanded {
		if !slices.Contains(q.Expanded, tok) {
			q.Expanded = append(q.Expanded, tok)
		}
	}
	return q, nil
}

func (s *ExpandingStrategy) cached(key string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expanded, ok := s.cache[key]
	return expanded, ok
}

func (s *ExpandingStrategy) store(key string, expanded []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cache) >= maxCachedExpansions {
		clear(s.cache)
	}
	s.cache[key] = slices.Clone(expanded)
}

// ScoreAgainstEntry delegates to the inner strategy.
func (s *ExpandingStrategy) ScoreAgainstEntry(q *core.Query, entry *core.SettingEntry) Match {
	return s.inner.ScoreAgainstEntry(q, entry)
}
