package simple

import (
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/inference"
)

func fact(left, right string, negated bool) inference.Fact {
	return inference.Fact{Pattern: []string{"is"}, Left: left, Right: right, Negated: negated}
}

func TestQueryDirectAndTransitive(t *testing.T) {
	e := New()
	e.AddFact(fact("dog", "animal", false))
	e.AddFact(fact("animal", "thing", false))

	reachable, negated, err := e.Query("dog", "animal")
	if err != nil || !reachable || negated {
		t.Errorf("Query(dog, animal) = (%v, %v, %v), want (true, false, nil)", reachable, negated, err)
	}

	reachable, negated, err = e.Query("dog", "thing")
	if err != nil || !reachable || negated {
		t.Errorf("Query(dog, thing) = (%v, %v, %v), want transitive (true, false, nil)", reachable, negated, err)
	}

	reachable, _, _ = e.Query("thing", "dog")
	if reachable {
		t.Errorf("Query(thing, dog) should not be reachable (edges are directed)")
	}
}

func TestQueryNegatedChain(t *testing.T) {
	e := New()
	e.AddFact(fact("cold", "hot", true))

	reachable, negated, _ := e.Query("cold", "hot")
	if !reachable || !negated {
		t.Errorf("Query(cold, hot) = (%v, %v), want (true, true)", reachable, negated)
	}
}

func TestQueryCycleTerminates(t *testing.T) {
	e := New()
	e.AddFact(fact("a", "b", false))
	e.AddFact(fact("b", "a", false))

	reachable, _, _ := e.Query("a", "c")
	if reachable {
		t.Errorf("Query over a cycle should terminate and report unreachable")
	}
}

func TestExpandRanksByConfidence(t *testing.T) {
	e := New()
	e.AddFact(fact("dog", "animal", false))
	e.AddFact(fact("animal", "thing", false))

	steps, err := e.Expand("dog", 2)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("Expand returned %d steps, want 2: %+v", len(steps), steps)
	}
	if steps[0].Word != "animal" || steps[1].Word != "thing" {
		t.Errorf("steps = %+v, want animal before thing", steps)
	}
	if steps[0].Confidence <= steps[1].Confidence {
		t.Errorf("confidence must decay per hop: %+v", steps)
	}
}

func TestAddFactDeduplicates(t *testing.T) {
	e := New()
	e.AddFact(fact("dog", "animal", false))
	e.AddFact(fact("dog", "animal", false))

	steps, _ := e.Expand("dog", 1)
	if len(steps) != 1 {
		t.Errorf("duplicate facts must not duplicate edges: %+v", steps)
	}
}
