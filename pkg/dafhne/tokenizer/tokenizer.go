// Package tokenizer splits question and definition text into tokens and
// maps surface forms onto dictionary head-words with a minimal,
// dictionary-scoped stemmer.
package tokenizer

import "strings"

// suffixes are stripped in this order when a surface token is not itself
// a head-word. The order is fixed: the first stripped form that is a
// head-word wins.
var suffixes = []string{"-s", "-es", "-ed", "-ing", "-ly"}

// Tokenize lower-cases text and splits on every rune that is not a
// letter or digit, preserving digits as their own tokens.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// StemToEntry returns the head-word token stems to within entrySet, and
// whether a match was found. It never proposes a word absent from
// entrySet: if token is already a member it is returned unchanged;
// otherwise common English suffixes are stripped in a fixed order and
// the first resulting form present in entrySet wins.
func StemToEntry(token string, entrySet map[string]struct{}) (string, bool) {
	if _, ok := entrySet[token]; ok {
		return token, true
	}
	for _, suf := range suffixes {
		stripped, ok := stripSuffix(token, suf)
		if !ok {
			continue
		}
		if _, ok := entrySet[stripped]; ok {
			return stripped, true
		}
	}
	return "", false
}

func stripSuffix(token, suf string) (string, bool) {
	s := strings.TrimPrefix(suf, "-")
	if !strings.HasSuffix(token, s) {
		return "", false
	}
	stripped := strings.TrimSuffix(token, s)
	if stripped == "" {
		return "", false
	}
	return stripped, true
}

// StemSequence maps a token sequence to head-words, skipping tokens that
// stem to nothing. It returns parallel slices of head-words and their
// original index in tokens, so callers can recover adjacency in the
// original sentence.
func StemSequence(tokens []string, entrySet map[string]struct{}) (words []string, positions []int) {
	for i, t := range tokens {
		if w, ok := StemToEntry(t, entrySet); ok {
			words = append(words, w)
			positions = append(positions, i)
		}
	}
	return words, positions
}
