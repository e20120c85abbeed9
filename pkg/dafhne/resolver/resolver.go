package resolver

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/inference"
	"github.com/dafhne/engine/pkg/dafhne/inference/simple"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
)

// chainCacheSize bounds the definition-chain memoization cache.
const chainCacheSize = 4096

// Resolver decodes questions against one trained space.
type Resolver struct {
	Dict   *dictionary.Dictionary
	Cls    *classifier.Classification
	Space  *geometry.Space
	Params params.EngineParams
	Strat  params.StrategyConfig
	Engine inference.Engine

	entrySet map[string]struct{}
	chainLRU *lru.Cache[chainKey, chainOutcome]
}

// New builds a Resolver for a trained space, wiring a pure-Go
// inference.Engine whose knowledge base is populated from rels —
// the same SentenceRelations the geometric builders consumed — so the
// definition-chain gate can consult it as a corroborating cross-check.
func New(d *dictionary.Dictionary, cls *classifier.Classification, space *geometry.Space, p params.EngineParams, strat params.StrategyConfig, rels []relation.SentenceRelation) *Resolver {
	eng := simple.New()
	for _, rel := range rels {
		eng.AddFact(inference.Fact{
			Pattern: rel.ConnectorPattern,
			Left:    rel.LeftWord,
			Right:   rel.RightWord,
			Negated: rel.Negated,
		})
	}
	return NewWithEngine(d, cls, space, p, strat, eng)
}

// NewWithEngine builds a Resolver with a caller-supplied inference.Engine
// (e.g. the inference/prolog backend) already populated with facts,
// instead of the default inference/simple engine New wires in.
func NewWithEngine(d *dictionary.Dictionary, cls *classifier.Classification, space *geometry.Space, p params.EngineParams, strat params.StrategyConfig, eng inference.Engine) *Resolver {
	entrySet := make(map[string]struct{}, d.Len())
	for _, w := range d.Words() {
		entrySet[w] = struct{}{}
	}
	cache, _ := lru.New[chainKey, chainOutcome](chainCacheSize)
	return &Resolver{Dict: d, Cls: cls, Space: space, Params: p, Strat: strat, Engine: eng, entrySet: entrySet, chainLRU: cache}
}

// Resolve answers a natural-language question, always returning one of
// the four Answer variants (the resolver is total).
func (r *Resolver) Resolve(question string) Answer {
	if prefix, left, right, op, ok := splitCompound(question); ok {
		leftQ := fmt.Sprintf("%s %s?", prefix, left)
		rightQ := fmt.Sprintf("%s %s?", prefix, right)
		leftAns := r.Resolve(leftQ)
		rightAns := r.Resolve(rightQ)
		return combine(op, leftAns, rightAns)
	}

	pq := parseQuestion(question, r.entrySet, r.Cls)
	switch pq.qType {
	case "what":
		return r.resolveWhatIs(pq)
	case "where":
		return r.resolveWhatIs(pq) // same category-extraction machinery; no distinct location model specified
	case "why":
		return r.resolveWhy(pq)
	case "when":
		return r.resolveWhen(pq)
	default:
		return r.resolveYesNo(pq)
	}
}

// combine applies the Yes/No boolean combination truth tables.
func combine(op string, left, right Answer) Answer {
	switch op {
	case "and":
		switch {
		case left.IsYes() && right.IsYes():
			return YesD(maxF(left.Distance, right.Distance))
		case left.IsNo() || right.IsNo():
			return NoD(maxF(left.Distance, right.Distance))
		default:
			return IDKD(meanF(left.Distance, right.Distance))
		}
	default: // "or"
		switch {
		case left.IsYes() || right.IsYes():
			return YesD(minF(left.Distance, right.Distance))
		case left.IsNo() && right.IsNo():
			return NoD(maxF(left.Distance, right.Distance))
		default:
			return IDKD(meanF(left.Distance, right.Distance))
		}
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func meanF(a, b float64) float64 { return (a + b) / 2 }

// IsPropertyWord implements the property-word filter: true if w's
// definition starts with "to" (verb), starts with an -ing participle
// (adjective), contains a two-word antonym sentence "not X", or starts
// with "in"/"very"/"more".
func (r *Resolver) IsPropertyWord(w string) bool {
	e, ok := r.Dict.Get(w)
	if !ok {
		return false
	}
	def := strings.TrimSpace(e.Definition)
	fields := strings.Fields(def)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	if first == "to" || first == "in" || first == "very" || first == "more" {
		return true
	}
	if strings.HasSuffix(first, "ing") {
		return true
	}
	for _, s := range dictionary.Sentences(def) {
		f := strings.Fields(s)
		if len(f) == 2 && strings.ToLower(f[0]) == "not" {
			return true
		}
	}
	return false
}

// IsConnectorWord reports whether w appears in any discovered connector
// pattern.
func (r *Resolver) IsConnectorWord(w string) bool {
	for _, c := range r.Space.Connectors {
		for _, tok := range c.Pattern {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// hasNotConnector reports whether the space discovered a ["not"]
// connector, gating whether the negation predicate can be trusted.
func (r *Resolver) hasNotConnector() bool {
	_, ok := r.Space.FindConnector([]string{"not"})
	return ok
}
