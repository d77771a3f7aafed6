package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/poiesic/winregi/ai/mock"
	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/metrics"
	"github.com/poiesic/winregi/profile"
	"github.com/poiesic/winregi/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T, c catalog.Catalog, opts ...Option) *Searcher {
	t.Helper()
	s, err := NewSearcher(c, opts...)
	require.NoError(t, err)
	return s
}

func newTestProfile(t *testing.T) (*profile.Manager, *profile.Profile) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	m, err := profile.NewManager(repos.Profiles, repos.History, repos.Applied)
	require.NoError(t, err)
	t.Cleanup(func() {
		m.Release()
		repos.Close()
	})
	p, err := m.Open(context.Background(), "tester")
	require.NoError(t, err)
	return m, p
}

func TestNewSearcher(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewSearcher(testCatalog(), WithLimit(0))
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewSearcher(testCatalog(), WithStrategy(nil))
	assert.ErrorIs(t, err, ErrStrategyRequired)

	s := newTestSearcher(t, testCatalog())
	assert.Equal(t, DefaultLimit, s.Limit())
}

func TestSearchEmptyQuery(t *testing.T) {
	unreachable := &mockCatalog{LoadEntriesFunc: func(ctx context.Context) ([]*core.SettingEntry, error) {
		return nil, errors.New("should not be called")
	}}
	s := newTestSearcher(t, unreachable)

	for _, text := range []string{"", "   ", "?!", "how do I do it"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			results, err := s.Search(context.Background(), nil, text)
			require.NoError(t, err)
			require.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
	assert.Zero(t, unreachable.callCount)
}

// tokenless drops the tokens its inner strategy produced, leaving intents
// and expansions in place.
type tokenless struct {
	Strategy
}

func (s tokenless) Tokenize(ctx context.Context, text string) (*core.Query, error) {
	q, err := s.Strategy.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}
	q.Tokens = nil
	q.Normalized = ""
	return q, nil
}

func TestSearchIntentsWithoutTokens(t *testing.T) {
	keyword, err := NewKeywordStrategy()
	require.NoError(t, err)

	q, err := tokenless{keyword}.Tokenize(context.Background(), "dark mode")
	require.NoError(t, err)
	require.NotEmpty(t, q.Intents)
	require.NotEmpty(t, q.Expanded)

	c := &mockCatalog{LoadEntriesFunc: func(ctx context.Context) ([]*core.SettingEntry, error) {
		return testCatalog().Entries(), nil
	}}
	s := newTestSearcher(t, c, WithStrategy(tokenless{keyword}))

	results, err := s.Search(context.Background(), nil, "dark mode")
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
	assert.Zero(t, c.callCount)
}

func TestSearchNightLightAboveBatterySaver(t *testing.T) {
	s := newTestSearcher(t, testCatalog())

	results, err := s.Search(context.Background(), nil, "enable dark mode")
	require.NoError(t, err)

	ids := resultIDs(results)
	require.Contains(t, ids, "night-light")
	night := indexOf(ids, "night-light")
	if battery := indexOf(ids, "battery-saver"); battery >= 0 {
		assert.Less(t, night, battery)
		assert.Greater(t, results[night].Score, results[battery].Score)
	}
	assert.Contains(t, results[night].Matched, "dark")
}

func TestSearchEveryKeywordMatches(t *testing.T) {
	snap := testCatalog()
	s := newTestSearcher(t, snap, WithLimit(100))

	for _, entry := range snap.Entries() {
		for _, keyword := range entry.Keywords {
			t.Run(entry.Id+"/"+keyword, func(t *testing.T) {
				results, err := s.Search(context.Background(), nil, keyword)
				require.NoError(t, err)
				assert.Contains(t, resultIDs(results), entry.Id)
			})
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	builtin, err := catalog.Builtin()
	require.NoError(t, err)
	ctx := context.Background()

	shuffled := builtin.Entries()
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	reordered := &mockCatalog{LoadEntriesFunc: func(ctx context.Context) ([]*core.SettingEntry, error) {
		return shuffled, nil
	}}

	s := newTestSearcher(t, builtin, WithLimit(50))
	r := newTestSearcher(t, reordered, WithLimit(50))

	for _, query := range []string{"dark mode", "speed up my pc", "privacy", "battery", "turn off wifi"} {
		first, err := s.Search(ctx, nil, query)
		require.NoError(t, err)
		for range 5 {
			again, err := s.Search(ctx, nil, query)
			require.NoError(t, err)
			assert.Equal(t, resultIDs(first), resultIDs(again), query)
		}

		other, err := r.Search(ctx, nil, query)
		require.NoError(t, err)
		assert.Equal(t, resultIDs(first), resultIDs(other), query)
	}
}

func TestSearchParallelMatchesSequential(t *testing.T) {
	builtin, err := catalog.Builtin()
	require.NoError(t, err)
	ctx := context.Background()

	seq := newTestSearcher(t, builtin, WithLimit(50))
	par := newTestSearcher(t, builtin, WithLimit(50), WithParallelThreshold(1))

	for _, query := range []string{"dark mode", "night light", "disk space", "wifi"} {
		a, err := seq.Search(ctx, nil, query)
		require.NoError(t, err)
		b, err := par.Search(ctx, nil, query)
		require.NoError(t, err)
		assert.Equal(t, a, b, query)
	}
}

func TestSearchRanking(t *testing.T) {
	s := newTestSearcher(t, testCatalog())

	results, err := s.Search(context.Background(), nil, "dark")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.True(t, prev.Score > cur.Score || (prev.Score == cur.Score && prev.Entry.Id < cur.Entry.Id),
			"%s (%f) before %s (%f)", prev.Entry.Id, prev.Score, cur.Entry.Id, cur.Score)
	}
}

func TestSearchLimit(t *testing.T) {
	s := newTestSearcher(t, testCatalog(), WithLimit(1))

	results, err := s.Search(context.Background(), nil, "dark")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchCatalogUnavailable(t *testing.T) {
	cause := errors.New("disk gone")
	c := &mockCatalog{LoadEntriesFunc: func(ctx context.Context) ([]*core.SettingEntry, error) {
		return nil, cause
	}}
	s := newTestSearcher(t, c, WithMetrics(metrics.New(nil)))

	results, err := s.Search(context.Background(), nil, "dark mode")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, results)
}

func TestSearchSuggestedAction(t *testing.T) {
	s := newTestSearcher(t, testCatalog())
	ctx := context.Background()

	suggested := func(query string) string {
		results, err := s.Search(ctx, nil, query)
		require.NoError(t, err)
		for _, r := range results {
			if r.Entry.Id == "dark-mode" {
				return r.SuggestedActionId
			}
		}
		t.Fatalf("dark-mode not found for %q", query)
		return ""
	}

	assert.Equal(t, "enable", suggested("dark mode"))
	assert.Equal(t, "enable", suggested("turn on dark mode"))
	assert.Equal(t, "disable", suggested("disable dark mode"))
}

func TestSearchMonitor(t *testing.T) {
	monitor := &recordingMonitor{}
	s := newTestSearcher(t, testCatalog(), WithMonitor(monitor))

	results, err := s.Search(context.Background(), nil, "wifi")
	require.NoError(t, err)

	assert.Equal(t, []string{"wifi"}, monitor.started)
	require.Len(t, monitor.queries, 1)
	assert.Equal(t, []int{4}, monitor.loaded)
	assert.Contains(t, monitor.candidates, "wifi")
	require.Len(t, monitor.finished, 1)
	assert.Equal(t, results, monitor.finished[0])
}

func TestSearchRecordsHistory(t *testing.T) {
	m, p := newTestProfile(t)
	s := newTestSearcher(t, testCatalog())
	ctx := context.Background()

	_, err := s.Search(ctx, p, "night light")
	require.NoError(t, err)
	_, err = s.Search(ctx, p, "   ")
	require.NoError(t, err)
	m.Flush()

	history, err := p.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "night light", history[0].Query)
	assert.Positive(t, history[0].ResultCount)
}

func TestExpandingStrategy(t *testing.T) {
	ctx := context.Background()
	inner, err := NewKeywordStrategy()
	require.NoError(t, err)

	_, err = NewExpandingStrategy(nil, mock.NewMockQueryExpander(), nil)
	assert.ErrorIs(t, err, ErrStrategyRequired)
	_, err = NewExpandingStrategy(inner, nil, nil)
	assert.ErrorIs(t, err, ErrExpanderRequired)

	t.Run("adds keywords", func(t *testing.T) {
		expander := mock.NewMockQueryExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, q string) ([]string, error) {
			return []string{"night light"}, nil
		}
		strategy, err := NewExpandingStrategy(inner, expander, nil)
		require.NoError(t, err)
		s := newTestSearcher(t, testCatalog(), WithStrategy(strategy))

		results, err := s.Search(ctx, nil, "my screen is too yellow in the evening")
		require.NoError(t, err)
		assert.Contains(t, resultIDs(results), "night-light")
		assert.Equal(t, 1, expander.CallCount())
	})

	t.Run("falls back on failure", func(t *testing.T) {
		expander := mock.NewMockQueryExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, q string) ([]string, error) {
			return nil, errors.New("model offline")
		}
		strategy, err := NewExpandingStrategy(inner, expander, metrics.New(nil))
		require.NoError(t, err)

		plain := newTestSearcher(t, testCatalog())
		expanding := newTestSearcher(t, testCatalog(), WithStrategy(strategy))

		want, err := plain.Search(ctx, nil, "wifi")
		require.NoError(t, err)
		got, err := expanding.Search(ctx, nil, "wifi")
		require.NoError(t, err)
		assert.Equal(t, resultIDs(want), resultIDs(got))
	})

	t.Run("repeated queries reuse the expansion", func(t *testing.T) {
		answers := [][]string{{"night light"}, {"battery saver"}}
		expander := mock.NewMockQueryExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, q string) ([]string, error) {
			return answers[expander.CallCount()-1], nil
		}
		strategy, err := NewExpandingStrategy(inner, expander, nil)
		require.NoError(t, err)

		first, err := strategy.Tokenize(ctx, "Screen too yellow")
		require.NoError(t, err)
		second, err := strategy.Tokenize(ctx, "screen   too YELLOW!")
		require.NoError(t, err)
		assert.Equal(t, first.Expanded, second.Expanded)
		assert.Equal(t, 1, expander.CallCount())

		other, err := strategy.Tokenize(ctx, "laptop dies fast")
		require.NoError(t, err)
		assert.NotEqual(t, first.Expanded, other.Expanded)
		assert.Equal(t, 2, expander.CallCount())
	})

	t.Run("failures are retried", func(t *testing.T) {
		expander := mock.NewMockQueryExpander()
		expander.ExpandQueryFunc = func(ctx context.Context, q string) ([]string, error) {
			if expander.CallCount() == 1 {
				return nil, errors.New("model offline")
			}
			return []string{"night light"}, nil
		}
		strategy, err := NewExpandingStrategy(inner, expander, nil)
		require.NoError(t, err)

		q, err := strategy.Tokenize(ctx, "screen too yellow")
		require.NoError(t, err)
		assert.Empty(t, q.Expanded)
		q, err = strategy.Tokenize(ctx, "screen too yellow")
		require.NoError(t, err)
		assert.NotEmpty(t, q.Expanded)
		assert.Equal(t, 2, expander.CallCount())
	})

	t.Run("skips empty queries", func(t *testing.T) {
		expander := mock.NewMockQueryExpander()
		strategy, err := NewExpandingStrategy(inner, expander, nil)
		require.NoError(t, err)

		q, err := strategy.Tokenize(ctx, "the")
		require.NoError(t, err)
		assert.True(t, q.IsEmpty())
		assert.Zero(t, expander.CallCount())
	})
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	_, p := newTestProfile(t)
	require.NoError(t, p.AddFavorite(ctx, "wifi"))
	require.NoError(t, p.AddFavorite(ctx, "removed-from-catalog"))

	s := newTestSearcher(t, testCatalog())

	results, err := s.Recommend(ctx, p, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "night-light", "battery-saver"}, resultIDs(results))
	assert.Equal(t, "open", results[0].SuggestedActionId)

	results, err = s.Recommend(ctx, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"night-light", "battery-saver", "dark-mode", "wifi"}, resultIDs(results))
}

func TestRecommendCatalogUnavailable(t *testing.T) {
	c := &mockCatalog{LoadEntriesFunc: func(ctx context.Context) ([]*core.SettingEntry, error) {
		return nil, errors.New("gone")
	}}
	s := newTestSearcher(t, c)

	_, err := s.Recommend(context.Background(), nil, 5)
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
