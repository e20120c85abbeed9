// Package inference defines the pluggable symbolic-reasoning backend the
// resolver's definition-chain checker can optionally consult to
// corroborate a Yes/No verdict. The interface allows swapping
// implementations (a simple Go engine, a Prolog bridge) without
// touching the resolver.
package inference

// Fact is one asserted relation: a connector pattern between a left and
// right head-word, possibly negated.
type Fact struct {
	Pattern []string
	Left    string
	Right   string
	Negated bool
}

// Step is one hop of a chain query result.
type Step struct {
	Word       string
	Confidence float64
}

// Engine is the symbolic-reasoning backend contract.
type Engine interface {
	// AddFact asserts a relation into the engine's knowledge base.
	AddFact(f Fact) error

	// Query reports whether left reaches right via any chain of facts,
	// and whether that chain is negated.
	Query(left, right string) (reachable bool, negated bool, err error)

	// Expand returns words reachable from word within maxHops, most
	// confident first.
	Expand(word string, maxHops int) ([]Step, error)

	// Explain returns a human-readable derivation for a prior Query
	// call's result, or "" if none is available.
	Explain(left, right string) string
}
