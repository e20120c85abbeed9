package resolver

import (
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
)

// chainOutcome is the tri-state result of a definition-chain check.
type chainOutcome int

const (
	chainInconclusive chainOutcome = iota
	chainYes
	chainNo
)

// Outcome is the exported tri-state result used by callers outside this
// package (the multi-space orchestrator's cross-space bridge chain).
type Outcome int

const (
	OutcomeInconclusive Outcome = iota
	OutcomeYes
	OutcomeNo
)

// ChainCheckPublic exposes the forward definition-chain check (chainCheck,
// up to max_chain_hops deep; without the reversed retry, inference-engine
// corroboration, or dictionary-membership fallback of chainGate) for
// cross-space bridge-chain callers.
func (r *Resolver) ChainCheckPublic(subject, object string) Outcome {
	switch r.chainCheck(subject, object) {
	case chainYes:
		return OutcomeYes
	case chainNo:
		return OutcomeNo
	default:
		return OutcomeInconclusive
	}
}

// chainKey is the memoization key for the LRU chain cache.
type chainKey struct {
	subject string
	object  string
	maxHops int
}

// chainGate runs the definition-chain gate: forward traversal
// from subject toward object, then reversed if inconclusive, then the
// dictionary-membership fallback rule.
func (r *Resolver) chainGate(subject, object string, connector []string) chainOutcome {
	key := chainKey{subject: subject, object: object, maxHops: r.Params.MaxChainHops}
	if r.chainLRU != nil {
		if v, ok := r.chainLRU.Get(key); ok {
			return v
		}
	}

	outcome := r.chainCheck(subject, object)
	if outcome == chainInconclusive {
		outcome = r.chainCheck(object, subject)
	}
	if outcome == chainInconclusive {
		outcome = r.engineCorroborate(subject, object)
	}
	if outcome == chainInconclusive {
		_, subjInDict := r.Dict.Get(subject)
		objEntry, objInDict := r.Dict.Get(object)
		if subjInDict && objInDict {
			if beginsWithArticle(objEntry.Definition) && !r.isVerbWord(object) && !r.IsPropertyWord(object) {
				outcome = chainNo
			}
		}
	}

	if r.chainLRU != nil {
		r.chainLRU.Add(key, outcome)
	}
	return outcome
}

// engineCorroborate consults the wired inference.Engine as an optional
// cross-check: its knowledge base spans every extracted
// relation (not just each hop's first sentence), so it can settle cases
// the first-sentence chain walk leaves inconclusive.
func (r *Resolver) engineCorroborate(subject, object string) chainOutcome {
	if r.Engine == nil {
		return chainInconclusive
	}
	reachable, negated, err := r.Engine.Query(subject, object)
	if err != nil || !reachable {
		return chainInconclusive
	}
	if negated {
		return chainNo
	}
	return chainYes
}

// chainCheck recursively traverses subject's definition (first sentence
// only at each hop, skipping examples containing quote marks), following
// at most max_follow_per_hop content head-words per hop, up to
// max_chain_hops deep, looking for object.
func (r *Resolver) chainCheck(subject, object string) chainOutcome {
	visited := make(map[string]struct{})
	return r.chainWalk(subject, object, 0, visited)
}

func (r *Resolver) chainWalk(word, target string, depth int, visited map[string]struct{}) chainOutcome {
	if depth >= r.Params.MaxChainHops {
		return chainInconclusive
	}
	if _, seen := visited[word]; seen {
		return chainInconclusive
	}
	visited[word] = struct{}{}

	e, ok := r.Dict.Get(word)
	if !ok {
		return chainInconclusive
	}
	sentence := dictionary.FirstSentence(e.Definition)
	tokens := strings.Fields(strings.ToLower(sentence))
	words := stemWords(tokens, r.entrySet)

	hit := false
	negatedHit := false
	for i, w := range words {
		if w != target {
			continue
		}
		hit = true
		if r.precededByNot(words, i) && r.hasNotConnector() {
			negatedHit = true
		}
		break
	}
	if hit {
		if negatedHit {
			return chainNo
		}
		return chainYes
	}

	followed := 0
	for _, w := range words {
		if w == word {
			continue
		}
		if r.Cls.IsStructural(w) {
			continue
		}
		if followed >= r.Params.MaxFollowPerHop {
			break
		}
		followed++
		result := r.chainWalk(w, target, depth+1, visited)
		if result != chainInconclusive {
			return result
		}
	}
	return chainInconclusive
}

// chainPath is the path-tracing variant used by Why resolution: it
// returns the hop sequence from subject to target if reached, or nil.
func (r *Resolver) chainPath(subject, target string) []string {
	visited := make(map[string]struct{})
	path, ok := r.chainPathWalk(subject, target, 0, visited)
	if !ok {
		return nil
	}
	return path
}

func (r *Resolver) chainPathWalk(word, target string, depth int, visited map[string]struct{}) ([]string, bool) {
	if depth >= r.Params.MaxChainHops {
		return nil, false
	}
	if _, seen := visited[word]; seen {
		return nil, false
	}
	visited[word] = struct{}{}

	e, ok := r.Dict.Get(word)
	if !ok {
		return nil, false
	}
	sentence := dictionary.FirstSentence(e.Definition)
	tokens := strings.Fields(strings.ToLower(sentence))
	words := stemWords(tokens, r.entrySet)

	for _, w := range words {
		if w == target {
			return []string{word, w}, true
		}
	}

	followed := 0
	for _, w := range words {
		if w == word || r.Cls.IsStructural(w) {
			continue
		}
		if followed >= r.Params.MaxFollowPerHop {
			break
		}
		followed++
		if rest, ok := r.chainPathWalk(w, target, depth+1, visited); ok {
			return append([]string{word}, rest...), true
		}
	}
	return nil, false
}
