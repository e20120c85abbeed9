package resolver

import (
	"reflect"
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/connector"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/forcefield"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
)

// describeDict is sized (n=5) so "animal"'s single occurrence inside dog's
// definition does not exceed the structural cutoff (0.20*5 = 1.0) and no other
// entry's category collides with "animal", keeping negationSentences empty.
func describeDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "dog", Definition: "an animal that barks. It has four legs."},
		{Word: "animal", Definition: "a thing."},
		{Word: "thing", Definition: "a filler word."},
		{Word: "cat", Definition: "a filler word."},
		{Word: "bird", Definition: "a filler word."},
	})
}

func buildDescribeResolver(t *testing.T) *Resolver {
	t.Helper()
	d := describeDict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	strat := params.DefaultStrategy()
	conns := connector.Discover(rels, d, p, strat)
	space := forcefield.Build(d, cls, rels, conns, p, strat)
	return New(d, cls, space, p, strat, rels)
}

func TestDescribeCategoryRelativeClauseAndRewrittenIt(t *testing.T) {
	r := buildDescribeResolver(t)

	got := r.Describe("dog")
	want := []string{
		"Dog is an animal.",
		"Dog barks.",
		"A dog has four legs.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Describe(dog) = %v, want %v", got, want)
	}
}

func TestDescribeExtractsFirstSentenceAdjectives(t *testing.T) {
	// big and hot pass the property-word test (a "very ..." definition and
	// a two-word "not X" antonym sentence); thing stays the category even
	// though its doc-frequency is low, and the "a word." fillers keep hot
	// below the structural cutoff.
	d := dictionary.New([]dictionary.Entry{
		{Word: "sun", Definition: "a big hot thing."},
		{Word: "big", Definition: "very large."},
		{Word: "hot", Definition: "not cold."},
		{Word: "cold", Definition: "not hot."},
		{Word: "thing", Definition: "a word."},
		{Word: "word", Definition: "a thing."},
		{Word: "bird", Definition: "a word."},
		{Word: "fish", Definition: "a word."},
		{Word: "rock", Definition: "a word."},
		{Word: "tree", Definition: "a word."},
	})
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	strat := params.DefaultStrategy()
	conns := connector.Discover(rels, d, p, strat)
	space := forcefield.Build(d, cls, rels, conns, p, strat)
	r := New(d, cls, space, p, strat, rels)

	got := r.Describe("sun")
	want := []string{
		"Sun is a thing.",
		"Sun is big.",
		"Sun is hot.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Describe(sun) = %v, want %v", got, want)
	}
}

func TestDescribeUncategorizedWordHasNoSentences(t *testing.T) {
	r := buildDescribeResolver(t)

	got := r.Describe("cat")
	if len(got) != 0 {
		t.Errorf("Describe(cat) = %v, want empty (no extractable category)", got)
	}
}

func TestDescribeUnknownWordReturnsNil(t *testing.T) {
	r := buildDescribeResolver(t)

	if got := r.Describe("nonexistent"); got != nil {
		t.Errorf("Describe(nonexistent) = %v, want nil", got)
	}
}
