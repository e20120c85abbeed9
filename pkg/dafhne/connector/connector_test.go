package connector

import (
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
)

func sampleRelations() []relation.SentenceRelation {
	return []relation.SentenceRelation{
		{LeftWord: "dog", RightWord: "animal", ConnectorPattern: []string{"is", "an"}, Weight: 1},
		{LeftWord: "cat", RightWord: "animal", ConnectorPattern: []string{"is", "an"}, Weight: 1},
		{LeftWord: "sun", RightWord: "hot", ConnectorPattern: []string{"is"}, Weight: 1},
	}
}

func tinyDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "dog", Definition: "an animal."},
		{Word: "cat", Definition: "an animal."},
		{Word: "animal", Definition: "a living thing."},
		{Word: "sun", Definition: "a hot thing."},
		{Word: "hot", Definition: "not cold."},
	})
}

func TestDiscoverSortedByFrequencyDescendingThenLexicographic(t *testing.T) {
	p := params.Default()
	p.Dimensions = 4
	p.ConnectorMinFrequency = 1

	out := Discover(sampleRelations(), tinyDict(), p, params.DefaultStrategy())
	if len(out) < 2 {
		t.Fatalf("expected at least 2 connectors, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Frequency < out[i].Frequency {
			t.Fatalf("connectors not sorted by frequency descending: %+v before %+v", out[i-1], out[i])
		}
	}
	// "is an" appears twice, "is" once: "is an" must sort first.
	if patternKey(out[0].Pattern) != "is an" {
		t.Errorf("expected highest-frequency pattern %q first, got %q", "is an", patternKey(out[0].Pattern))
	}
}

func TestDiscoverUnitForceDirections(t *testing.T) {
	p := params.Default()
	p.Dimensions = 6
	p.ConnectorMinFrequency = 1

	out := Discover(sampleRelations(), tinyDict(), p, params.DefaultStrategy())
	for _, c := range out {
		n := geometry.Norm(c.ForceDirection)
		if diff := n - 1.0; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("connector %v force_direction norm = %v, want 1", c.Pattern, n)
		}
		if len(c.ForceDirection) != p.Dimensions {
			t.Errorf("connector %v force_direction has %d dims, want %d", c.Pattern, len(c.ForceDirection), p.Dimensions)
		}
	}
}

func TestDiscoverDeterministicGivenSeed(t *testing.T) {
	p := params.Default()
	p.Dimensions = 5
	p.ConnectorMinFrequency = 1
	strat := params.DefaultStrategy()

	a := Discover(sampleRelations(), tinyDict(), p, strat)
	b := Discover(sampleRelations(), tinyDict(), p, strat)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic connector count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for j := range a[i].ForceDirection {
			if a[i].ForceDirection[j] != b[i].ForceDirection[j] {
				t.Fatalf("non-deterministic force direction at connector %d dim %d: %v vs %v", i, j, a[i].ForceDirection[j], b[i].ForceDirection[j])
			}
		}
	}
}

func TestUniformityFilterSkippedBelow100Entries(t *testing.T) {
	d := tinyDict()
	candidates := []*candidate{{pattern: []string{"is"}, frequency: 5}}
	out := uniformityFilter(candidates, d, 5, 0.9)
	if len(out) != 1 {
		t.Fatalf("expected uniformity filter to be skipped below 100 entries, got %d survivors", len(out))
	}
}

func TestPositionalBonusCountsDefinitionsWithinFirstFivePositions(t *testing.T) {
	rels := []relation.SentenceRelation{
		{LeftWord: "dog", RightWord: "animal", ConnectorPattern: []string{"is"}, Entry: "dog", PatternPos: 2, FromDefinition: true},
		// same definition again: credited at most once per pattern.
		{LeftWord: "dog", RightWord: "thing", ConnectorPattern: []string{"is"}, Entry: "dog", PatternPos: 4, FromDefinition: true},
		// beyond the first 5 token positions: no credit.
		{LeftWord: "cat", RightWord: "animal", ConnectorPattern: []string{"is"}, Entry: "cat", PatternPos: 7, FromDefinition: true},
		// example sentence, not a definition: no credit.
		{LeftWord: "sun", RightWord: "hot", ConnectorPattern: []string{"is"}, Entry: "sun", PatternPos: 1, FromDefinition: false},
	}
	candidates := count(rels)
	applyPositionalBonus(candidates, rels)

	c, ok := candidates["is"]
	if !ok {
		t.Fatalf("candidate [is] missing")
	}
	if c.positionBonus != 0.5 {
		t.Errorf("positionBonus = %v, want 0.5 (one qualifying definition)", c.positionBonus)
	}
	if c.frequency != 4 {
		t.Errorf("frequency = %d, want 4 (reported frequency stays raw)", c.frequency)
	}
}

func TestFrequencyOnlySelection(t *testing.T) {
	candidates := count(sampleRelations())
	selected := selectCandidates(candidates, sampleRelations(), params.FrequencyOnly, 2)
	if len(selected) != 1 || patternKey(selected[0].pattern) != "is an" {
		t.Fatalf("expected only the frequency-2 pattern to survive a min_frequency=2 filter, got %+v", selected)
	}
}
