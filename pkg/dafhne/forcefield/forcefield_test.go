package forcefield

import (
	"math"
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/connector"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
)

func smallDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "dog", Definition: "an animal.", Examples: []string{"a dog can run."}},
		{Word: "animal", Definition: "a living thing."},
		{Word: "cat", Definition: "an animal."},
		{Word: "living", Definition: "a word."},
		{Word: "thing", Definition: "a word."},
		{Word: "run", Definition: "a word."},
	})
}

func TestBuildEveryWordPlacedWithFiniteFullDimensionPosition(t *testing.T) {
	d := smallDict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	p.Dimensions = 6
	p.LearningPasses = 5
	strat := params.DefaultStrategy()
	conns := connector.Discover(rels, d, p, strat)

	space := Build(d, cls, rels, conns, p, strat)

	for _, w := range d.Words() {
		pos, ok := space.Position(w)
		if !ok {
			t.Fatalf("word %q has no position", w)
		}
		if len(pos) != p.Dimensions {
			t.Fatalf("word %q position has %d dims, want %d", w, len(pos), p.Dimensions)
		}
		for _, c := range pos {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("word %q position has non-finite coordinate: %v", w, pos)
			}
		}
	}
}

func TestBuildDeterministicGivenSeed(t *testing.T) {
	d := smallDict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	p.Dimensions = 5
	p.LearningPasses = 4
	strat := params.DefaultStrategy()
	conns := connector.Discover(rels, d, p, strat)

	s1 := Build(d, cls, rels, conns, p, strat)
	s2 := Build(d, cls, rels, conns, p, strat)

	for _, w := range d.Words() {
		p1, _ := s1.Position(w)
		p2, _ := s2.Position(w)
		for i := range p1 {
			if p1[i] != p2[i] {
				t.Fatalf("word %q dim %d differs across identical-seed builds: %v vs %v", w, i, p1[i], p2[i])
			}
		}
	}
}

func TestBuildAllForceFunctionsAndNegationModelsProduceFinitePositions(t *testing.T) {
	forceFns := []params.ForceFunction{params.Linear, params.InverseDistance, params.Gravitational, params.Spring}
	negModels := []params.NegationModel{params.Inversion, params.Repulsion, params.AxisShift, params.SeparateDimension}
	multiConn := []params.MultiConnector{params.Sequential, params.FirstOnly, params.Weighted, params.Compositional}

	d := smallDict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	p.Dimensions = 5
	p.LearningPasses = 3

	for _, ff := range forceFns {
		for _, nm := range negModels {
			for _, mc := range multiConn {
				strat := params.DefaultStrategy()
				strat.ForceFunction = ff
				strat.NegationModel = nm
				strat.MultiConnector = mc
				conns := connector.Discover(rels, d, p, strat)
				space := Build(d, cls, rels, conns, p, strat)
				for _, w := range d.Words() {
					pos, _ := space.Position(w)
					for _, c := range pos {
						if math.IsNaN(c) || math.IsInf(c, 0) {
							t.Fatalf("ff=%v nm=%v mc=%v: word %q has non-finite coordinate %v", ff, nm, mc, w, pos)
						}
					}
				}
			}
		}
	}
}
