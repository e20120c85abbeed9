// Package cache defines the capability-set interface assembler
// collaborators consume, and ships the one implementation this
// repository carries: a manual-file backend over a parsed dictionary.
// Wiktionary and Ollama-memoizing variants would live behind the same
// interface but need network and LLM clients, so they are not
// implemented here.
package cache

import "github.com/dafhne/engine/pkg/dafhne/dictionary"

// Lookup is the result of a cache lookup for one word.
type Lookup struct {
	Word        string
	Definitions []string
	Examples    []string
}

// Cache is the polymorphic backend contract: lookup, contains, name, len.
type Cache interface {
	Lookup(word string) (Lookup, bool)
	Contains(word string) bool
	Name() string
	Len() int
}

// ManualFile is a Cache backed by an already-parsed dictionary.
type ManualFile struct {
	dict *dictionary.Dictionary
}

// NewManualFile wraps d as a Cache.
func NewManualFile(d *dictionary.Dictionary) *ManualFile {
	return &ManualFile{dict: d}
}

// Lookup returns the entry for word, if present.
func (m *ManualFile) Lookup(word string) (Lookup, bool) {
	e, ok := m.dict.Get(word)
	if !ok {
		return Lookup{}, false
	}
	return Lookup{
		Word:        e.Word,
		Definitions: dictionary.Sentences(e.Definition),
		Examples:    e.Examples,
	}, true
}

// Contains reports whether word is present.
func (m *ManualFile) Contains(word string) bool { return m.dict.Contains(word) }

// Name returns the backend's name.
func (m *ManualFile) Name() string { return "manual" }

// Len returns the number of entries.
func (m *ManualFile) Len() int { return m.dict.Len() }
