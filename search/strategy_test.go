package search

import (
	"context"
	"testing"

	"github.com/poiesic/winregi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStrategy(t *testing.T, opts ...StrategyOption) *KeywordStrategy {
	t.Helper()
	s, err := NewKeywordStrategy(opts...)
	require.NoError(t, err)
	return s
}

func TestTokenize(t *testing.T) {
	s := newTestStrategy(t)
	ctx := context.Background()

	q, err := s.Tokenize(ctx, "Dark Mode!!")
	require.NoError(t, err)
	assert.Equal(t, "Dark Mode!!", q.Raw)
	assert.Equal(t, []string{"dark", "mode"}, q.Tokens)
	assert.Equal(t, "dark mode", q.Normalized)
	assert.Equal(t, []string{"dark mode"}, q.Intents)
	assert.Contains(t, q.Expanded, "theme")
	assert.Equal(t, core.QueryKindSearch, q.Kind)

	q, err = s.Tokenize(ctx, "")
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())
}

func TestTokenizeIntentWithStopWord(t *testing.T) {
	s := newTestStrategy(t)

	q, err := s.Tokenize(context.Background(), "How can I speed up my PC?")
	require.NoError(t, err)
	assert.NotContains(t, q.Tokens, "up")
	assert.Contains(t, q.Intents, "speed up")
	assert.Equal(t, core.QueryKindHowTo, q.Kind)
	assert.False(t, q.IsEmpty())
}

func TestQueryKind(t *testing.T) {
	s := newTestStrategy(t)
	tests := []struct {
		text string
		want core.QueryKind
	}{
		{"wifi", core.QueryKindSearch},
		{"how to enable wifi", core.QueryKindHowTo},
		{"what is night light", core.QueryKindQuestion},
		{"is wifi on?", core.QueryKindQuestion},
		{"turn on night light", core.QueryKindEnable},
		{"enable dark mode", core.QueryKindEnable},
		{"hide file extensions", core.QueryKindDisable},
		{"turn off location", core.QueryKindDisable},
		{"showcase", core.QueryKindSearch},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q, err := s.Tokenize(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Kind)
		})
	}
}

func TestScoreAgainstEntry(t *testing.T) {
	s := newTestStrategy(t)
	snap := testCatalog()
	dark, err := snap.Entry("dark-mode")
	require.NoError(t, err)
	battery, err := snap.Entry("battery-saver")
	require.NoError(t, err)

	q, err := s.Tokenize(context.Background(), "dark mode")
	require.NoError(t, err)

	m := s.ScoreAgainstEntry(q, dark)
	assert.True(t, m.Candidate)
	assert.Equal(t, []string{"dark", "mode"}, m.Matched)
	// full match + phrase + intent
	assert.InDelta(t, 1.0+0.5+0.3, m.Score, 1e-9)

	assert.False(t, s.ScoreAgainstEntry(q, battery).Candidate)
	assert.False(t, s.ScoreAgainstEntry(&core.Query{}, dark).Candidate)
}

func TestScoreWeights(t *testing.T) {
	s := newTestStrategy(t, WithWeights(Weights{Match: 2, Phrase: 0, Intent: 0}))
	assert.Equal(t, Weights{Match: 2}, s.Weights())

	night, err := testCatalog().Entry("night-light")
	require.NoError(t, err)

	q, err := s.Tokenize(context.Background(), "night wifi")
	require.NoError(t, err)
	m := s.ScoreAgainstEntry(q, night)
	assert.True(t, m.Candidate)
	assert.InDelta(t, 1.0, m.Score, 1e-9)
}

func TestIntentOnlyCandidate(t *testing.T) {
	table, err := ParseIntents([]byte(`
intents:
  - phrase: stay awake
    categories: [power]
    terms: []
`))
	require.NoError(t, err)
	s := newTestStrategy(t, WithIntents(table))

	battery, err := testCatalog().Entry("battery-saver")
	require.NoError(t, err)

	q, err := s.Tokenize(context.Background(), "stay awake")
	require.NoError(t, err)
	m := s.ScoreAgainstEntry(q, battery)
	assert.True(t, m.Candidate)
	assert.Empty(t, m.Matched)
	assert.InDelta(t, DefaultWeights.Intent, m.Score, 1e-9)
}

func TestSuggestAction(t *testing.T) {
	dark, err := testCatalog().Entry("dark-mode")
	require.NoError(t, err)

	assert.Equal(t, "enable", suggestAction(&core.Query{Kind: core.QueryKindSearch}, dark))
	assert.Equal(t, "enable", suggestAction(&core.Query{Kind: core.QueryKindEnable}, dark))
	assert.Equal(t, "disable", suggestAction(&core.Query{Kind: core.QueryKindDisable}, dark))
}

func TestIntents(t *testing.T) {
	t.Run("default table is cached", func(t *testing.T) {
		a, err := DefaultIntents()
		require.NoError(t, err)
		b, err := DefaultIntents()
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.NotEmpty(t, a.Intents)
	})

	t.Run("duplicate phrase", func(t *testing.T) {
		_, err := ParseIntents([]byte("intents:\n  - phrase: Wifi\n  - phrase: wifi\n"))
		assert.Error(t, err)
	})

	t.Run("empty phrase", func(t *testing.T) {
		_, err := ParseIntents([]byte("intents:\n  - phrase: '!!'\n"))
		assert.Error(t, err)
	})

	t.Run("stop word phrase", func(t *testing.T) {
		_, err := ParseIntents([]byte("intents:\n  - phrase: it up\n    categories: [power]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only stop words")
	})
}
