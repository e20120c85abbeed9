// Package dictionary holds the DictionaryEntry/Dictionary data model and
// the parsers for the markdown and TOML dictionary formats, plus the
// companion test-suite format used by the evaluator.
package dictionary

import "strings"

// Entry is a single head-word's record: its definition, its examples, the
// section it was authored under, and whether it is a hand-crafted
// proper-noun entry.
type Entry struct {
	Word       string
	Definition string
	Examples   []string
	Section    string
	IsEntity   bool
}

// Dictionary is an ordered sequence of entries plus a set for O(1)
// head-word membership tests. Entries is the single source of truth for
// iteration order; Index must never be iterated directly when order
// matters.
type Dictionary struct {
	Entries []Entry
	Index   map[string]int // word -> index into Entries
}

// New builds a Dictionary from entries, lower-casing each word and
// building the membership index. Later duplicate words overwrite earlier
// ones in the index but both remain in Entries, matching the parser's
// append-only behaviour.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		Entries: make([]Entry, len(entries)),
		Index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		e.Word = strings.ToLower(strings.TrimSpace(e.Word))
		d.Entries[i] = e
		d.Index[e.Word] = i
	}
	return d
}

// Contains reports whether word is a head-word of the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.Index[word]
	return ok
}

// Get returns the entry for word and whether it was found.
func (d *Dictionary) Get(word string) (Entry, bool) {
	i, ok := d.Index[word]
	if !ok {
		return Entry{}, false
	}
	return d.Entries[i], true
}

// Words returns the head-words in dictionary order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.Word
	}
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.Entries) }

// Sentences splits a definition into trimmed, non-empty sentences on '.'.
func Sentences(text string) []string {
	parts := strings.Split(text, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstSentence returns the first sentence of a definition, or "" if the
// definition is empty.
func FirstSentence(def string) string {
	s := Sentences(def)
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
