// Package prolog implements inference.Engine on top of
// github.com/ichiban/prolog, asserting discovered relations as clauses
// and running chain queries as Prolog solves instead of hand-rolled
// recursion. Selected from cmd/eval with --inference=prolog; the
// simple engine remains the default backend.
package prolog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ichiban/prolog"

	"github.com/dafhne/engine/pkg/dafhne/inference"
)

// Engine wraps a *prolog.Interpreter seeded with a transitive "chain/2"
// rule over asserted "rel/4" facts.
type Engine struct {
	interp *prolog.Interpreter
	facts  []inference.Fact
}

// New returns an Engine with its base rules loaded.
func New() (*Engine, error) {
	interp := prolog.New(nil, nil)
	const rules = `
chain(X, Y) :- rel(_, X, Y, false).
chain(X, Y) :- rel(_, X, Z, false), chain(Z, Y).
`
	if err := interp.Exec(rules); err != nil {
		return nil, fmt.Errorf("dafhne: loading prolog rules: %w", err)
	}
	return &Engine{interp: interp}, nil
}

// AddFact asserts f as a rel/4 clause: rel(pattern, left, right, negated).
func (e *Engine) AddFact(f inference.Fact) error {
	pattern := atomize(strings.Join(f.Pattern, "_"))
	clause := fmt.Sprintf("rel(%s, %s, %s, %t).", pattern, atomize(f.Left), atomize(f.Right), f.Negated)
	if err := e.interp.Exec(clause); err != nil {
		return fmt.Errorf("dafhne: asserting prolog fact: %w", err)
	}
	e.facts = append(e.facts, f)
	return nil
}

// Query runs chain(Left, Right) and, on failure, checks the negated
// one-hop case rel(_, Left, Right, true) to report negated=true.
func (e *Engine) Query(left, right string) (bool, bool, error) {
	sols, err := e.interp.QueryContext(context.Background(), fmt.Sprintf("chain(%s, %s).", atomize(left), atomize(right)))
	if err != nil {
		return false, false, fmt.Errorf("dafhne: prolog chain query: %w", err)
	}
	defer sols.Close()
	if sols.Next() {
		return true, false, nil
	}

	negSols, err := e.interp.QueryContext(context.Background(), fmt.Sprintf("rel(_, %s, %s, true).", atomize(left), atomize(right)))
	if err != nil {
		return false, false, fmt.Errorf("dafhne: prolog negated query: %w", err)
	}
	defer negSols.Close()
	if negSols.Next() {
		return true, true, nil
	}
	return false, false, nil
}

// Expand is not implemented by the Prolog backend: BFS-style ranked
// expansion does not map cleanly onto the chain/2 rule's solve order,
// and nothing in this repository calls it on this backend. Callers
// needing Expand should use the simple engine.
func (e *Engine) Expand(word string, maxHops int) ([]inference.Step, error) {
	return nil, fmt.Errorf("dafhne: prolog engine does not implement Expand")
}

// Explain re-runs Query and renders the derivation textually; the
// ichiban/prolog solver does not expose a proof trace, so this reports
// only the verdict, not the witnessing chain.
func (e *Engine) Explain(left, right string) string {
	reachable, negated, err := e.Query(left, right)
	if err != nil || !reachable {
		return ""
	}
	if negated {
		return left + " does not reach " + right + " (prolog)"
	}
	return left + " reaches " + right + " (prolog)"
}

// atomize renders a dafhne head-word as a Prolog atom. Head-words are
// already lower-case alphanumeric tokens from the tokenizer, so this
// only needs to guard against the empty string and leading digits.
func atomize(s string) string {
	if s == "" {
		return "'_'"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "'" + s + "'"
	}
	return s
}
