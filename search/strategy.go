package search

import (
	"context"
	"strings"

	"github.com/poiesic/winregi/core"
)

// Strategy turns text into a query and scores catalog entries against it.
// Implementations must be safe for concurrent use and must derive scores
// only from the query and the entry.
type Strategy interface {
	Tokenize(ctx context.Context, text string) (*core.Query, error)
	ScoreAgainstEntry(q *core.Query, entry *core.SettingEntry) Match
}

// Match is the result of scoring one entry.
type Match struct {
	Candidate bool
	Score     float64
	Matched   []string // query tokens found in the entry, in query order
}

// Weights tune the parts of a keyword score.
type Weights struct {
	Match  float64 // scaled by the fraction of query tokens found in the entry
	Phrase float64 // whole normalized query found in a keyword, tag or the name
	Intent float64 // an intent mapping fired for the entry
}

// DefaultWeights are used unless WithWeights overrides them.
var DefaultWeights = Weights{Match: 1.0, Phrase: 0.5, Intent: 0.3}

// KeywordStrategy matches stemmed query tokens against entry text and
// applies the intent table.
type KeywordStrategy struct {
	weights Weights
	intents *IntentTable
}

var _ Strategy = (*KeywordStrategy)(nil)

// StrategyOption configures a KeywordStrategy.
type StrategyOption func(*KeywordStrategy)

// WithWeights sets the scoring weights.
func WithWeights(w Weights) StrategyOption {
	return func(s *KeywordStrategy) {
		s.weights = w
	}
}

// WithIntents replaces the embedded intent table.
func WithIntents(t *IntentTable) StrategyOption {
	return func(s *KeywordStrategy) {
		if t != nil {
			s.intents = t
		}
	}
}

// NewKeywordStrategy creates the default matching strategy.
func NewKeywordStrategy(opts ...StrategyOption) (*KeywordStrategy, error) {
	s := &KeywordStrategy{weights: DefaultWeights}
	for _, opt := range opts {
		opt(s)
	}
	if s.intents == nil {
		t, err := DefaultIntents()
		if err != nil {
			return nil, err
		}
		s.intents = t
	}
	return s, nil
}

// Weights returns the configured weights.
func (s *KeywordStrategy) Weights() Weights {
	return s.weights
}

// Tokenize normalizes text and detects fired intents and the query kind.
// Blank or stop-word-only text yields an empty query, not an error.
func (s *KeywordStrategy) Tokenize(ctx context.Context, text string) (*core.Query, error) {
	cleaned := clean(text)
	tokens := normalize(text)

	q := &core.Query{
		Raw:        text,
		Normalized: strings.Join(tokens, " "),
		Tokens:     tokens,
		Kind:       s.intents.kind(text, cleaned),
	}

	seen := make(map[string]bool)
	for _, in := range s.intents.match(cleaned) {
		q.Intents = append(q.Intents, in.Phrase)
		for _, term := range s.intents.expanded[in.Phrase] {
			if !seen[term] {
				seen[term] = true
				q.Expanded = append(q.Expanded, term)
			}
		}
	}

	return q, nil
}

// ScoreAgainstEntry scores entry against q.
//
// An entry is a candidate if it shares a token with the query, if a fired
// intent favours its category, or if it contains an expanded term.
func (s *KeywordStrategy) ScoreAgainstEntry(q *core.Query, entry *core.SettingEntry) Match {
	if q.IsEmpty() || entry == nil {
		return Match{}
	}

	terms := entryTerms(entry)

	var matched []string
	for _, tok := range q.Tokens {
		if terms[tok] {
			matched = append(matched, tok)
		}
	}

	intentHit := s.intents.targets(q.Intents, entry.CategoryId)
	if !intentHit {
		for _, term := range q.Expanded {
			if terms[term] {
				intentHit = true
				break
			}
		}
	}

	if len(matched) == 0 && !intentHit {
		return Match{}
	}

	var score float64
	if len(q.Tokens) > 0 {
		score = s.weights.Match * float64(len(matched)) / float64(len(q.Tokens))
	}
	if phraseHit(q.Tokens, entry) {
		score += s.weights.Phrase
	}
	if intentHit {
		score += s.weights.Intent
	}

	return Match{Candidate: true, Score: score, Matched: matched}
}

// entryTerms collects the stemmed tokens of the name, description, keywords and tags.
func entryTerms(entry *core.SettingEntry) map[string]bool {
	terms := make(map[string]bool)
	add := func(text string) {
		for _, tok := range normalize(text) {
			terms[tok] = true
		}
	}
	add(entry.Name)
	add(entry.Description)
	for _, k := range entry.Keywords {
		add(k)
	}
	for _, t := range entry.Tags {
		add(t)
	}
	return terms
}

// phraseHit reports whether the query tokens appear as a run in the name,
// a keyword or a tag.
func phraseHit(tokens []string, entry *core.SettingEntry) bool {
	if len(tokens) == 0 {
		return false
	}
	if containsRun(normalize(entry.Name), tokens) {
		return true
	}
	for _, k := range entry.Keywords {
		if containsRun(normalize(k), tokens) {
			return true
		}
	}
	for _, t := range entry.Tags {
		if containsRun(normalize(t), tokens) {
			return true
		}
	}
	return false
}

// suggestAction picks the action matching an enable or disable query,
// then the default action.
func suggestAction(q *core.Query, entry *core.SettingEntry) string {
	want := core.EffectNone
	switch q.Kind {
	case core.QueryKindEnable:
		want = core.EffectEnable
	case core.QueryKindDisable:
		want = core.EffectDisable
	}
	if want != core.EffectNone {
		for _, a := range entry.Actions {
			if a.Effect == want {
				return a.Id
			}
		}
	}
	if a := entry.DefaultAction(); a != nil {
		return a.Id
	}
	return ""
}
