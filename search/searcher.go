package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/metrics"
	"github.com/poiesic/winregi/profile"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit is the number of ranked results returned by default.
	DefaultLimit = 10

	defaultParallelThreshold = 512
)

// Searcher ranks catalog entries against free-text queries.
// It is safe for concurrent use.
type Searcher struct {
	catalog           catalog.Catalog
	strategy          Strategy
	limit             int
	parallelThreshold int
	monitor           SearchMonitor
	metrics           *metrics.Metrics
	logger            *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithStrategy sets the matching strategy.
// Default is a KeywordStrategy with DefaultWeights.
func WithStrategy(strategy Strategy) Option {
	return func(s *Searcher) error {
		if strategy == nil {
			return ErrStrategyRequired
		}
		s.strategy = strategy
		return nil
	}
}

// WithLimit sets the maximum number of results.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return ErrInvalidLimit
		}
		s.limit = limit
		return nil
	}
}

// WithParallelThreshold sets the catalog size from which scoring fans out
// across goroutines.
func WithParallelThreshold(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			n = 1
		}
		s.parallelThreshold = n
		return nil
	}
}

// WithMonitor sets a monitor that observes every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithMetrics records searches on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Searcher) error {
		s.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over c.
func NewSearcher(c catalog.Catalog, opts ...Option) (*Searcher, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}

	s := &Searcher{
		catalog:           c,
		limit:             DefaultLimit,
		parallelThreshold: defaultParallelThreshold,
		monitor:           &noopMonitor{},
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.strategy == nil {
		strategy, err := NewKeywordStrategy()
		if err != nil {
			return nil, err
		}
		s.strategy = strategy
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Limit returns the configured result limit.
func (s *Searcher) Limit() int {
	return s.limit
}

// Search ranks catalog entries against text.
//
// A query that normalizes to nothing returns an empty, non-nil slice and no
// error. If the catalog cannot be loaded the error wraps
// catalog.ErrCatalogUnavailable and no results are returned.
//
// When p is non-nil and the query is not empty, the search is recorded in
// the profile's history in the background.
func (s *Searcher) Search(ctx context.Context, p *profile.Profile, text string) ([]*core.RankedResult, error) {
	start := time.Now()
	s.monitor.Start(text)

	q, err := s.strategy.Tokenize(ctx, text)
	if err != nil {
		s.logger.Error("error tokenizing query", "query", text, "err", err)
		s.metrics.ObserveSearch(metrics.OutcomeError, 0, time.Since(start))
		return nil, err
	}
	s.monitor.AfterTokenize(q)

	if q.IsEmpty() {
		results := []*core.RankedResult{}
		s.monitor.Finish(results)
		s.metrics.ObserveSearch(metrics.OutcomeEmpty, 0, time.Since(start))
		return results, nil
	}

	entries, err := s.catalog.LoadEntries(ctx)
	if err != nil {
		s.logger.Error("catalog unreachable", "err", err)
		s.metrics.ObserveSearch(metrics.OutcomeUnavailable, 0, time.Since(start))
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
	}
	s.monitor.AfterCatalogLoad(len(entries))

	matches, err := s.scoreAll(ctx, q, entries)
	if err != nil {
		s.metrics.ObserveSearch(metrics.OutcomeError, 0, time.Since(start))
		return nil, err
	}

	results := make([]*core.RankedResult, 0, len(entries))
	for i, m := range matches {
		if !m.Candidate {
			continue
		}
		s.monitor.Candidate(entries[i], m)
		results = append(results, &core.RankedResult{
			Entry:   entries[i],
			Score:   m.Score,
			Matched: m.Matched,
		})
	}

	rank(results)
	if len(results) > s.limit {
		results = results[:s.limit]
	}
	for _, r := range results {
		r.SuggestedActionId = suggestAction(q, r.Entry)
	}

	s.monitor.Finish(results)
	s.metrics.ObserveSearch(metrics.OutcomeOK, len(results), time.Since(start))
	s.logger.Debug("search complete", "query", text, "kind", q.Kind, "tokens", q.Tokens, "results", len(results))

	if p != nil {
		p.RecordSearch(text, len(results))
	}
	return results, nil
}

// scoreAll scores every entry. Results are indexed like entries, so the
// outcome does not depend on whether scoring ran in parallel.
func (s *Searcher) scoreAll(ctx context.Context, q *core.Query, entries []*core.SettingEntry) ([]Match, error) {
	matches := make([]Match, len(entries))

	if len(entries) < s.parallelThreshold {
		for i, entry := range entries {
			matches[i] = s.strategy.ScoreAgainstEntry(q, entry)
		}
		return matches, nil
	}

	workers := max(runtime.NumCPU(), 1)
	chunk := (len(entries) + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(entries); lo += chunk {
		hi := min(lo+chunk, len(entries))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				matches[i] = s.strategy.ScoreAgainstEntry(q, entries[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

// rank sorts by descending score, then by ascending entry ID.
func rank(results []*core.RankedResult) {
	slices.SortFunc(results, func(a, b *core.RankedResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Entry.Id, b.Entry.Id)
	})
}
