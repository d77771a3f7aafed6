package openai

import "strings"

// repairJSON fixes the malformed JSON small models tend to produce:
//   - keys missing their opening quote: {keywords": [...]}
//   - trailing commas before a closing bracket or brace
//
// Text inside string literals is left alone.
func repairJSON(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)

	inString := false
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inString {
			b.WriteRune(ch)
			if ch == '\\' && i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			b.WriteRune(ch)
		case ',':
			j := skipSpace(runes, i+1)
			if j < len(runes) && (runes[j] == ']' || runes[j] == '}') {
				continue
			}
			b.WriteRune(ch)
			i = writeKey(&b, runes, i+1) - 1
		case '{':
			b.WriteRune(ch)
			i = writeKey(&b, runes, i+1) - 1
		default:
			b.WriteRune(ch)
		}
	}

	return b.String()
}

// writeKey copies whitespace starting at i and, when it is followed by an
// unquoted key ending in `":`, writes the key with its missing opening quote.
// It returns the index of the first rune not yet written.
func writeKey(b *strings.Builder, runes []rune, i int) int {
	j := skipSpace(runes, i)
	b.WriteString(string(runes[i:j]))

	if j >= len(runes) || !isLetter(runes[j]) {
		return j
	}
	end := j
	for end < len(runes) && (isLetter(runes[end]) || runes[end] == '_') {
		end++
	}
	if end+1 < len(runes) && runes[end] == '"' && runes[end+1] == ':' {
		b.WriteRune('"')
		b.WriteString(string(runes[j:end]))
		b.WriteRune('"')
		return end + 1
	}
	return j
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' || runes[i] == '\r') {
		i++
	}
	return i
}
