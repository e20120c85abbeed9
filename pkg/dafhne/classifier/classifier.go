// Package classifier partitions a dictionary's head-words into structural
// (glue) and content sets by definition document-frequency.
package classifier

import (
	"math"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/tokenizer"
)

// structuralThreshold is the fraction of entries a word's definition-text
// document frequency must exceed for the word to count as structural.
// Fixed by contract, not tunable.
const structuralThreshold = 0.20

// Classification holds the structural/content partition of a dictionary's
// head-words, plus the doc-frequency counts it was computed from.
type Classification struct {
	Structural map[string]struct{}
	Content    map[string]struct{}
	DocFreq    map[string]int
}

// IsStructural reports whether w was classified as structural.
func (c *Classification) IsStructural(w string) bool {
	_, ok := c.Structural[w]
	return ok
}

// IsContent reports whether w was classified as content.
func (c *Classification) IsContent(w string) bool {
	_, ok := c.Content[w]
	return ok
}

// Classify computes doc_freq(w) for every head-word of d — the number of
// entries whose definition text (never examples) contains w after
// stemming — and partitions head-words into structural/content sets.
func Classify(d *dictionary.Dictionary) *Classification {
	entrySet := make(map[string]struct{}, d.Len())
	for _, w := range d.Words() {
		entrySet[w] = struct{}{}
	}

	docFreq := make(map[string]int, d.Len())
	for _, e := range d.Entries {
		seen := make(map[string]struct{})
		for _, tok := range tokenizer.Tokenize(e.Definition) {
			w, ok := tokenizer.StemToEntry(tok, entrySet)
			if !ok {
				continue
			}
			if _, already := seen[w]; already {
				continue
			}
			seen[w] = struct{}{}
			docFreq[w]++
		}
	}

	n := float64(d.Len())
	structural := make(map[string]struct{})
	content := make(map[string]struct{})
	for _, w := range d.Words() {
		if float64(docFreq[w]) > structuralThreshold*n {
			structural[w] = struct{}{}
		} else {
			content[w] = struct{}{}
		}
	}

	return &Classification{Structural: structural, Content: content, DocFreq: docFreq}
}

// TopicThreshold returns the document-frequency cutoff below which a
// head-word counts as a "topic word" for relation extraction:
// n * 0.25 / max(1, ln(n/50)), with log scaling loosening the threshold
// for larger dictionaries.
func TopicThreshold(n int) float64 {
	nf := float64(n)
	if nf <= 0 {
		return 0
	}
	scale := math.Log(nf / 50)
	if scale < 1 {
		scale = 1
	}
	return nf * 0.25 / scale
}

// IsTopicWord reports whether w's document frequency makes it a topic
// word relative to a dictionary of n entries.
func (c *Classification) IsTopicWord(w string, n int) bool {
	return float64(c.DocFreq[w]) < TopicThreshold(n)
}
