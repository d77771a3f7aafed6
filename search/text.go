package search

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Stop words dropped before stemming.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "because": true, "as": true, "what": true, "how": true,
	"when": true, "where": true, "who": true, "will": true, "way": true,
	"about": true, "many": true, "then": true, "them": true, "these": true,
	"so": true, "some": true, "can": true, "could": true, "would": true,
	"should": true, "my": true, "your": true, "his": true, "her": true,
	"their": true, "its": true, "our": true, "i": true, "we": true,
	"you": true, "they": true, "it": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "doing": true, "to": true, "for": true, "with": true,
	"in": true, "on": true, "at": true, "by": true, "of": true,
	"from": true, "up": true, "down": true, "that": true, "this": true,
}

// clean lowercases text, deletes apostrophes and turns every other
// punctuation or symbol rune into a space.
func clean(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return -1
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return ' '
		}
		return unicode.ToLower(r)
	}, text)
}

// normalize cleans text, drops stop words and stems what is left.
// Tokens keep their first-seen order and are unique.
func normalize(text string) []string {
	words := strings.Fields(clean(text))
	tokens := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))

	for _, word := range words {
		if stopWords[word] {
			continue
		}
		stem := english.Stem(word, false)
		if stem == "" || seen[stem] {
			continue
		}
		seen[stem] = true
		tokens = append(tokens, stem)
	}

	return tokens
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// Both are expected to be cleaned already.
func containsPhrase(text, phrase string) bool {
	phrase = strings.Join(strings.Fields(phrase), " ")
	if phrase == "" {
		return false
	}
	padded := " " + strings.Join(strings.Fields(text), " ") + " "
	return strings.Contains(padded, " "+phrase+" ")
}

// containsRun reports whether needle appears as a contiguous run in haystack.
func containsRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if haystack[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
