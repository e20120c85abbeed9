// Package simple implements a pure-Go facts-map inference.Engine with
// transitive closure and BFS-based expansion, adapted from a
// subject/object facts engine retargeted to dafhne's
// (connector_pattern, left_word, right_word) dictionary relations.
package simple

import (
	"sort"

	"github.com/dafhne/engine/pkg/dafhne/inference"
)

// edge is one directed fact, decorated with its negation flag.
type edge struct {
	to      string
	negated bool
}

// Engine is a facts-map inference.Engine: forward edges keyed by left
// head-word, with transitive closure computed on demand.
type Engine struct {
	forward map[string][]edge
	explain map[[2]string]string
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{
		forward: make(map[string][]edge),
		explain: make(map[[2]string]string),
	}
}

// AddFact asserts f, deduplicating identical (left, right) edges.
func (e *Engine) AddFact(f inference.Fact) error {
	for _, ex := range e.forward[f.Left] {
		if ex.to == f.Right {
			return nil
		}
	}
	e.forward[f.Left] = append(e.forward[f.Left], edge{to: f.Right, negated: f.Negated})
	return nil
}

// Query reports whether left reaches right via direct lookup or
// transitive closure, tracking a visited set to guard against cycles.
func (e *Engine) Query(left, right string) (bool, bool, error) {
	visited := make(map[string]struct{})
	reachable, negated := e.queryTransitive(left, right, visited)
	if reachable {
		e.explain[[2]string{left, right}] = explanation(left, right, negated)
	}
	return reachable, negated, nil
}

func (e *Engine) queryTransitive(word, target string, visited map[string]struct{}) (bool, bool) {
	if _, seen := visited[word]; seen {
		return false, false
	}
	visited[word] = struct{}{}

	for _, ed := range e.forward[word] {
		if ed.to == target {
			return true, ed.negated
		}
	}
	for _, ed := range e.forward[word] {
		if reachable, negated := e.queryTransitive(ed.to, target, visited); reachable {
			return true, negated || ed.negated
		}
	}
	return false, false
}

// Expand performs a BFS out of word up to maxHops deep, with confidence
// decaying 0.7 per hop (steps whose confidence falls below 0.3 are
// dropped), sorted by
// confidence descending then word ascending.
func (e *Engine) Expand(word string, maxHops int) ([]inference.Step, error) {
	const decay = 0.7
	const minConfidence = 0.3

	type queued struct {
		word       string
		confidence float64
		hops       int
	}
	visited := map[string]struct{}{word: {}}
	queue := []queued{{word: word, confidence: 1.0, hops: 0}}
	var out []inference.Step

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.hops >= maxHops {
			continue
		}
		for _, ed := range neighbors(e.forward, cur.word) {
			if _, seen := visited[ed]; seen {
				continue
			}
			visited[ed] = struct{}{}
			conf := cur.confidence * decay
			if conf < minConfidence {
				continue
			}
			out = append(out, inference.Step{Word: ed, Confidence: conf})
			queue = append(queue, queued{word: ed, confidence: conf, hops: cur.hops + 1})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}

// neighbors returns the forward edge targets of word in sorted order, for
// deterministic BFS expansion.
func neighbors(forward map[string][]edge, word string) []string {
	edges := forward[word]
	out := make([]string, len(edges))
	for i, ed := range edges {
		out[i] = ed.to
	}
	sort.Strings(out)
	return out
}

// Explain returns the derivation recorded by the most recent matching
// Query call, or "" if none exists.
func (e *Engine) Explain(left, right string) string {
	return e.explain[[2]string{left, right}]
}

func explanation(left, right string, negated bool) string {
	if negated {
		return left + " does not reach " + right
	}
	return left + " reaches " + right
}
