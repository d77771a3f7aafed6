package search

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/winregi/core"
	"gopkg.in/yaml.v3"
)

//go:embed intents.yaml
var defaultIntentsYAML []byte

// Intent maps a phrase to the categories it favours and the terms it adds.
type Intent struct {
	Phrase     string   `yaml:"phrase"`
	Categories []string `yaml:"categories"`
	Terms      []string `yaml:"terms"`
}

// IntentTable is the phrase table used by KeywordStrategy.
// Immutable after loading; safe for concurrent use.
type IntentTable struct {
	Intents []Intent            `yaml:"intents"`
	Kinds   map[string][]string `yaml:"kinds"`

	byPhrase map[string]*Intent
	expanded map[string][]string
}

var (
	cachedIntents *IntentTable
	intentsOnce   sync.Once
	intentsErr    error
)

// DefaultIntents returns the embedded intent table, parsed once and cached.
func DefaultIntents() (*IntentTable, error) {
	intentsOnce.Do(func() {
		cachedIntents, intentsErr = ParseIntents(defaultIntentsYAML)
		if intentsErr != nil {
			intentsErr = fmt.Errorf("parsing intents.yaml: %w", intentsErr)
			return
		}
		slog.Debug("intent table loaded", "intents", len(cachedIntents.Intents))
	})
	return cachedIntents, intentsErr
}

// ParseIntents decodes an intent table from YAML.
func ParseIntents(data []byte) (*IntentTable, error) {
	var t IntentTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	t.byPhrase = make(map[string]*Intent, len(t.Intents))
	t.expanded = make(map[string][]string, len(t.Intents))
	for i := range t.Intents {
		in := &t.Intents[i]
		in.Phrase = strings.Join(strings.Fields(clean(in.Phrase)), " ")
		if in.Phrase == "" {
			return nil, fmt.Errorf("intent %d: empty phrase", i)
		}
		// A phrase of stop words could fire on a query with no tokens.
		if len(normalize(in.Phrase)) == 0 {
			return nil, fmt.Errorf("intent %q: phrase has only stop words", in.Phrase)
		}
		if _, dup := t.byPhrase[in.Phrase]; dup {
			return nil, fmt.Errorf("intent %q: duplicate phrase", in.Phrase)
		}
		t.byPhrase[in.Phrase] = in

		var terms []string
		for _, term := range in.Terms {
			terms = append(terms, normalize(term)...)
		}
		t.expanded[in.Phrase] = terms
	}

	for kind, patterns := range t.Kinds {
		for i, p := range patterns {
			patterns[i] = strings.Join(strings.Fields(clean(p)), " ")
		}
		t.Kinds[kind] = patterns
	}

	return &t, nil
}

// match returns the intents whose phrase occurs in the cleaned query.
func (t *IntentTable) match(cleaned string) []*Intent {
	var fired []*Intent
	for i := range t.Intents {
		if containsPhrase(cleaned, t.Intents[i].Phrase) {
			fired = append(fired, &t.Intents[i])
		}
	}
	return fired
}

// targets reports whether any of the named intents favours category.
func (t *IntentTable) targets(intents []string, category string) bool {
	for _, name := range intents {
		in, ok := t.byPhrase[name]
		if !ok {
			continue
		}
		for _, c := range in.Categories {
			if c == category {
				return true
			}
		}
	}
	return false
}

// kind classifies the query. How-to wins over question, question over
// enable, and enable over disable.
func (t *IntentTable) kind(raw, cleaned string) core.QueryKind {
	has := func(kind string) bool {
		for _, p := range t.Kinds[kind] {
			if containsPhrase(cleaned, p) {
				return true
			}
		}
		return false
	}

	if has("how-to") {
		return core.QueryKindHowTo
	}
	if strings.Contains(raw, "?") {
		return core.QueryKindQuestion
	}
	if words := strings.Fields(cleaned); len(words) > 0 {
		for _, q := range t.Kinds["question"] {
			if words[0] == q {
				return core.QueryKindQuestion
			}
		}
	}
	if has("enable") {
		return core.QueryKindEnable
	}
	if has("disable") {
		return core.QueryKindDisable
	}
	return core.QueryKindSearch
}
