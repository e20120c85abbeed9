package relation

import (
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
)

// relDict is balanced so dog/cat/animal stay topic words (low definition
// doc-frequency) while "is", "an", and "not" each clear the topic cutoff
// and classify structural — that is what lets them form connector
// patterns between topic pairs instead of becoming endpoints themselves.
func relDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "dog", Definition: "an animal.", Examples: []string{"a dog is an animal.", "a dog not a cat."}},
		{Word: "cat", Definition: "an animal."},
		{Word: "ant", Definition: "an insect."},
		{Word: "insect", Definition: "a thing."},
		{Word: "animal", Definition: "is a thing."},
		{Word: "thing", Definition: "is a word."},
		{Word: "word", Definition: "is a thing."},
		{Word: "is", Definition: "is a word."},
		{Word: "an", Definition: "is a thing."},
		{Word: "not", Definition: "is not here."},
		{Word: "cold", Definition: "is not hot."},
		{Word: "hot", Definition: "is not cold."},
	})
}

func TestExtractEmitsRelationBetweenTopicPair(t *testing.T) {
	d := relDict()
	cls := classifier.Classify(d)
	rels := Extract(d, cls, 3)

	var found *SentenceRelation
	for i, r := range rels {
		if r.LeftWord == "dog" && r.RightWord == "animal" {
			found = &rels[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected a dog -> animal relation from the example sentence, got %+v", rels)
	}
	if len(found.ConnectorPattern) != 2 || found.ConnectorPattern[0] != "is" || found.ConnectorPattern[1] != "an" {
		t.Errorf("connector pattern = %v, want [is an]", found.ConnectorPattern)
	}
	if found.Negated {
		t.Errorf("dog -> animal must not be negated")
	}
	if found.Weight != DictionaryWeight {
		t.Errorf("weight = %v, want %v", found.Weight, DictionaryWeight)
	}
	// "a dog is an animal." tokenizes to [a dog is an animal]; the pattern
	// starts at "is", token position 2 of an example sentence of dog.
	if found.PatternPos != 2 {
		t.Errorf("pattern position = %d, want 2", found.PatternPos)
	}
	if found.Entry != "dog" || found.FromDefinition {
		t.Errorf("entry/from_definition = %q/%v, want dog/false (example sentence)", found.Entry, found.FromDefinition)
	}
}

func TestExtractInvariants(t *testing.T) {
	d := relDict()
	cls := classifier.Classify(d)
	rels := Extract(d, cls, 3)

	if len(rels) == 0 {
		t.Fatalf("expected at least one relation")
	}
	for _, r := range rels {
		if len(r.ConnectorPattern) == 0 {
			t.Errorf("relation %+v has empty connector pattern", r)
		}
		if len(r.ConnectorPattern) > 3 {
			t.Errorf("relation %+v exceeds max connector length", r)
		}
		if !d.Contains(r.LeftWord) || !d.Contains(r.RightWord) {
			t.Errorf("relation %+v has a non-head-word endpoint", r)
		}
	}
}

func TestExtractLeadingNotMarksNegated(t *testing.T) {
	d := relDict()
	cls := classifier.Classify(d)
	rels := Extract(d, cls, 3)

	for _, r := range rels {
		if r.LeftWord == "dog" && r.RightWord == "cat" {
			if !r.Negated {
				t.Errorf("dog -> cat from %q should be negated: %+v", "a dog not a cat", r)
			}
			if len(r.ConnectorPattern) != 1 || r.ConnectorPattern[0] != "not" {
				t.Errorf("stripped-empty pattern must become [not], got %v", r.ConnectorPattern)
			}
			return
		}
	}
	t.Fatalf("expected a dog -> cat relation")
}

func TestExtractGrammarWeightAndMetaFilter(t *testing.T) {
	d := relDict()
	cls := classifier.Classify(d)
	sections := []dictionary.GrammarSection{
		{Name: "NOUNS", Sentences: []string{
			"a dog is an animal",
			"the ending tells you the tense", // meta, must be filtered
		}},
	}

	rels := ExtractGrammar(sections, d, cls, 3, 0.5)
	if len(rels) == 0 {
		t.Fatalf("expected grammar relations from the non-meta sentence")
	}
	for _, r := range rels {
		if r.Weight != 0.5 {
			t.Errorf("grammar relation weight = %v, want 0.5", r.Weight)
		}
		if r.LeftWord == "ending" || r.RightWord == "tense" {
			t.Errorf("meta sentence leaked into extraction: %+v", r)
		}
	}
}

func TestExtractGrammarDeterministicOrder(t *testing.T) {
	d := relDict()
	cls := classifier.Classify(d)
	sections := []dictionary.GrammarSection{
		{Name: "A", Sentences: []string{"a dog is an animal"}},
		{Name: "B", Sentences: []string{"a cat is an animal"}},
	}

	a := ExtractGrammar(sections, d, cls, 3, 0.5)
	b := ExtractGrammar(sections, d, cls, 3, 0.5)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic relation count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].LeftWord != b[i].LeftWord || a[i].RightWord != b[i].RightWord {
			t.Fatalf("relation order differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
