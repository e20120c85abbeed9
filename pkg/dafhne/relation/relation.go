// Package relation extracts (left_topic, connector_pattern, right_topic,
// negated) triples from definition and example sentences.
package relation

import (
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/tokenizer"
)

// SentenceRelation is one extracted relation between two head-words,
// connected by a literal token-sequence pattern.
type SentenceRelation struct {
	LeftWord         string
	RightWord        string
	ConnectorPattern []string
	Negated          bool
	Weight           float64

	// Entry is the head-word whose definition or example produced this
	// relation ("" for grammar text). PatternPos is the token position
	// of the pattern's first token within its sentence, and
	// FromDefinition distinguishes definition sentences from examples —
	// together they let connector discovery count, per definition,
	// patterns appearing near the start of a sentence.
	Entry          string
	PatternPos     int
	FromDefinition bool
}

// metaMarkers mark grammar-source sentences that talk about the text
// rather than stating a fact — these are filtered before extraction.
// A fixed list: marker phrases are not discoverable from text statistics.
var metaMarkers = []string{
	"tells you", "you see", "you say", "you can not say",
}

// DictionaryWeight is the relation weight assigned to dictionary-derived
// sentences (definitions and examples).
const DictionaryWeight = 1.0

// Extract walks every definition and example sentence of d and emits the
// relations found between consecutive topic-word positions. grammarWeight
// is the weight for relations reported via ExtractGrammar; Extract itself
// always uses DictionaryWeight.
func Extract(d *dictionary.Dictionary, cls *classifier.Classification, maxConnectorLen int) []SentenceRelation {
	entrySet := make(map[string]struct{}, d.Len())
	for _, w := range d.Words() {
		entrySet[w] = struct{}{}
	}

	var out []SentenceRelation
	for _, e := range d.Entries {
		for _, s := range dictionary.Sentences(e.Definition) {
			out = append(out, extractSentence(s, entrySet, cls, d.Len(), maxConnectorLen, DictionaryWeight, e.Word, true)...)
		}
		for _, s := range e.Examples {
			out = append(out, extractSentence(s, entrySet, cls, d.Len(), maxConnectorLen, DictionaryWeight, e.Word, false)...)
		}
	}
	return out
}

// ExtractGrammar is the grammar-text analogue of Extract: each section's
// sentences are visited in file order, meta-language sentences are
// filtered, and surviving relations are weighted by grammarWeight
// instead of DictionaryWeight.
func ExtractGrammar(sections []dictionary.GrammarSection, d *dictionary.Dictionary, cls *classifier.Classification, maxConnectorLen int, grammarWeight float64) []SentenceRelation {
	entrySet := make(map[string]struct{}, d.Len())
	for _, w := range d.Words() {
		entrySet[w] = struct{}{}
	}

	var out []SentenceRelation
	for _, sec := range sections {
		for _, s := range sec.Sentences {
			if isMeta(s) {
				continue
			}
			out = append(out, extractSentence(s, entrySet, cls, d.Len(), maxConnectorLen, grammarWeight, "", false)...)
		}
	}
	return out
}

func isMeta(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, m := range metaMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// extractSentence walks tokens left-to-right, mapping each to a
// head-word, and for every pair of consecutive topic-word positions (i,j)
// with j > i+1 emits a relation whose connector pattern is the mapped
// words strictly between i and j.
func extractSentence(sentence string, entrySet map[string]struct{}, cls *classifier.Classification, n, maxConnectorLen int, weight float64, entry string, fromDefinition bool) []SentenceRelation {
	tokens := tokenizer.Tokenize(sentence)
	words, positions := tokenizer.StemSequence(tokens, entrySet)

	var topicIdx []int
	for i, w := range words {
		if cls.IsTopicWord(w, n) {
			topicIdx = append(topicIdx, i)
		}
	}

	var out []SentenceRelation
	for a := 0; a+1 < len(topicIdx); a++ {
		i, j := topicIdx[a], topicIdx[a+1]
		if j <= i+1 {
			continue
		}
		pattern := append([]string{}, words[i+1:j]...)
		patternPos := positions[i+1]
		negated := false
		if len(pattern) > 0 && pattern[0] == "not" {
			negated = true
			pattern = pattern[1:]
			if len(pattern) == 0 {
				pattern = []string{"not"}
			} else {
				patternPos = positions[i+2]
			}
		}
		if len(pattern) > maxConnectorLen {
			continue
		}
		out = append(out, SentenceRelation{
			LeftWord:         words[i],
			RightWord:        words[j],
			ConnectorPattern: pattern,
			Negated:          negated,
			Weight:           weight,
			Entry:            entry,
			PatternPos:       patternPos,
			FromDefinition:   fromDefinition,
		})
	}
	return out
}
