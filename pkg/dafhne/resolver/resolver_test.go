package resolver

import (
	"testing"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/connector"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/forcefield"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
)

// eli5Dict builds a fixture dictionary in the ELI5 style where function
// words (is, a, an) are head-words like anything else and cross the
// structural doc-frequency cutoff, while dog/cat/animal/thing stay
// content. "what"/"why" must be head-words themselves: the tokenizer only
// preserves dictionary words, so a wh-word absent from the dictionary is
// stemmed away before question-type detection ever sees it.
func eli5Dict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "what", Definition: "this is a word."},
		{Word: "why", Definition: "this is a word."},
		{Word: "is", Definition: "this is a word."},
		{Word: "a", Definition: "this is a word."},
		{Word: "an", Definition: "this is a word."},
		{Word: "word", Definition: "a thing."},
		{Word: "thing", Definition: "this is a word."},
		{Word: "dog", Definition: "an animal."},
		{Word: "cat", Definition: "an animal."},
		{Word: "animal", Definition: "a thing."},
		{Word: "ant", Definition: "an insect."},
		{Word: "owl", Definition: "an insect."},
		{Word: "insect", Definition: "a creature."},
	})
}

func buildResolver(t *testing.T) *Resolver {
	t.Helper()
	d := eli5Dict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	strat := params.DefaultStrategy()
	conns := connector.Discover(rels, d, p, strat)
	space := forcefield.Build(d, cls, rels, conns, p, strat)
	return New(d, cls, space, p, strat, rels)
}

func TestResolveYesNoViaChain(t *testing.T) {
	r := buildResolver(t)

	if ans := r.Resolve("Is a dog an animal?"); !ans.IsYes() {
		t.Errorf("Is a dog an animal? = %+v, want Yes", ans)
	}
	if ans := r.Resolve("Is a dog a cat?"); !ans.IsNo() {
		t.Errorf("Is a dog a cat? = %+v, want No", ans)
	}
}

func TestResolveWhatIsCategory(t *testing.T) {
	r := buildResolver(t)

	ans := r.Resolve("What is a dog?")
	if !ans.IsWord() || ans.Word != "an animal" {
		t.Errorf("What is a dog? = %+v, want Word(an animal)", ans)
	}
}

func TestResolveWhatIsAttributeQuestionIsIDK(t *testing.T) {
	r := buildResolver(t)

	ans := r.Resolve("What color is a dog?")
	if !ans.IsIDK() {
		t.Errorf("What color is a dog? = %+v, want IDK (color is not a head-word)", ans)
	}
}

// negationDict gives the ["not"] pattern the example-sentence frequency
// it needs to survive connector discovery — without a ["not"] connector
// the chain walk would not trust its own negation predicate — while
// "not" itself clears both the structural and topic cutoffs.
func negationDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "what", Definition: "this is a word."},
		{Word: "is", Definition: "this is a word."},
		{Word: "a", Definition: "this is a word."},
		{Word: "word", Definition: "a thing."},
		{Word: "thing", Definition: "this is a word."},
		{Word: "not", Definition: "this is not a word."},
		{Word: "sun", Definition: "a big hot thing that is up."},
		{Word: "hot", Definition: "not cold.", Examples: []string{"hot not cold."}},
		{Word: "cold", Definition: "not hot.", Examples: []string{"cold not hot."}},
		{Word: "up", Definition: "this is a word."},
		{Word: "big", Definition: "this is a word."},
	})
}

func buildNegationResolver(t *testing.T, nm params.NegationModel) *Resolver {
	t.Helper()
	d := negationDict()
	cls := classifier.Classify(d)
	rels := relation.Extract(d, cls, 3)
	p := params.Default()
	strat := params.DefaultStrategy()
	strat.NegationModel = nm
	conns := connector.Discover(rels, d, p, strat)
	space := forcefield.Build(d, cls, rels, conns, p, strat)
	return New(d, cls, space, p, strat, rels)
}

func TestResolveNegatedDefinitionChain(t *testing.T) {
	r := buildNegationResolver(t, params.Inversion)

	if ans := r.Resolve("Is the sun cold?"); !ans.IsNo() {
		t.Errorf("Is the sun cold? = %+v, want No (hot's definition negates cold)", ans)
	}
	if ans := r.Resolve("Is the sun hot?"); !ans.IsYes() {
		t.Errorf("Is the sun hot? = %+v, want Yes", ans)
	}
}

func TestResolveAcrossNegationModels(t *testing.T) {
	// every negation model normalises its geometric verdict by a mean
	// measured the same way as its own distance; the chain gate then makes
	// the final answers stable across models.
	models := []params.NegationModel{params.Inversion, params.Repulsion, params.AxisShift, params.SeparateDimension}
	for _, nm := range models {
		r := buildNegationResolver(t, nm)

		if ans := r.Resolve("Is the sun cold?"); !ans.IsNo() {
			t.Errorf("negation_model=%v: Is the sun cold? = %+v, want No", nm, ans)
		}
		if ans := r.Resolve("Is the sun hot?"); !ans.IsYes() {
			t.Errorf("negation_model=%v: Is the sun hot? = %+v, want Yes", nm, ans)
		}
	}
}

func TestResolveWhyChainsThroughTwoHops(t *testing.T) {
	r := buildResolver(t)

	ans := r.Resolve("Why is a dog a thing?")
	want := "because a dog is an animal, and an animal is a thing"
	if !ans.IsWord() || ans.Word != want {
		t.Errorf("Why is a dog a thing? = %+v, want Word(%q)", ans, want)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := buildResolver(t)

	a := r.Resolve("Is a dog an animal?")
	b := r.Resolve("Is a dog an animal?")
	if a.Kind != b.Kind || a.Word != b.Word || a.Distance != b.Distance {
		t.Errorf("Resolve not deterministic: %+v vs %+v", a, b)
	}
}

func TestResolveUnknownSubjectIsIDK(t *testing.T) {
	r := buildResolver(t)

	ans := r.Resolve("Is a goose an animal?")
	if !ans.IsIDK() {
		t.Errorf("Is a goose an animal? = %+v, want IDK (goose is not in the dictionary)", ans)
	}
}

func TestCombineBooleanLaws(t *testing.T) {
	cases := []struct {
		op    string
		left  Answer
		right Answer
		want  string
	}{
		{"and", Yes, Yes, "yes"},
		{"and", Yes, No, "no"},
		{"and", Yes, IDK, "idk"},
		{"or", No, No, "no"},
		{"or", Yes, No, "yes"},
		{"or", IDK, IDK, "idk"},
	}
	for _, c := range cases {
		got := combine(c.op, c.left, c.right)
		if got.Kind != c.want {
			t.Errorf("combine(%q, %v, %v) = %v, want %v", c.op, c.left.Kind, c.right.Kind, got.Kind, c.want)
		}
	}
}

func TestParseQuestionSubjectObjectConnector(t *testing.T) {
	// dog/animal must stay content (zero doc-frequency) while is/not cross
	// the structural threshold by appearing inside these definitions,
	// including their own — otherwise at n=4 any non-zero doc-frequency
	// already exceeds the 0.20*n structural cutoff.
	entrySet := map[string]struct{}{"dog": {}, "animal": {}, "is": {}, "not": {}}
	d := dictionary.New([]dictionary.Entry{
		{Word: "dog", Definition: "a furry creature."},
		{Word: "animal", Definition: "a living creature."},
		{Word: "is", Definition: "this is a word."},
		{Word: "not", Definition: "this is not it."},
	})
	cls := classifier.Classify(d)

	pq := parseQuestion("Is a dog not an animal?", entrySet, cls)
	if pq.subject != "dog" || pq.object != "animal" {
		t.Fatalf("subject/object = %q/%q, want dog/animal", pq.subject, pq.object)
	}
	if !pq.negated {
		t.Errorf("expected negated=true for a leading \"not\" connector")
	}
	if len(pq.connector) != 1 || pq.connector[0] != "not" {
		t.Errorf("connector = %v, want [not] (a sole not is kept as the axis)", pq.connector)
	}
}

func TestSplitCompoundAnd(t *testing.T) {
	prefix, left, right, op, ok := splitCompound("Is a dog an animal and a cat an animal?")
	if !ok {
		t.Fatalf("expected splitCompound to detect the conjunction")
	}
	if prefix != "is" || op != "and" {
		t.Errorf("prefix/op = %q/%q, want is/and", prefix, op)
	}
	if left == "" || right == "" {
		t.Errorf("left/right predicates must not be empty: %q / %q", left, right)
	}
}

func TestChainCheckCycleGuardTerminates(t *testing.T) {
	// "loop" defines itself, directly creating a self-reference the
	// visited-set cycle guard must catch rather than recursing forever.
	// Queried via chainCheck directly: chainGate's dictionary-membership
	// fallback would otherwise mask the inconclusive traversal result.
	d := dictionary.New([]dictionary.Entry{
		{Word: "loop", Definition: "a loop."},
		{Word: "target", Definition: "a thing."},
	})
	cls := classifier.Classify(d)
	p := params.Default()
	strat := params.DefaultStrategy()
	space := forcefield.Build(d, cls, nil, nil, p, strat)
	r := New(d, cls, space, p, strat, nil)

	if outcome := r.chainCheck("loop", "target"); outcome != chainInconclusive {
		t.Errorf("chainCheck on a self-referential definition = %v, want inconclusive", outcome)
	}
}

func TestChainCheckRespectsMaxHops(t *testing.T) {
	// w1 -> w2 -> w3 -> w4 -> target: four hops away, beyond MaxChainHops.
	d := dictionary.New([]dictionary.Entry{
		{Word: "w1", Definition: "a w2."},
		{Word: "w2", Definition: "a w3."},
		{Word: "w3", Definition: "a w4."},
		{Word: "w4", Definition: "a target."},
		{Word: "target", Definition: "a thing."},
	})
	cls := classifier.Classify(d)
	p := params.Default()
	p.MaxChainHops = 2
	strat := params.DefaultStrategy()
	space := forcefield.Build(d, cls, nil, nil, p, strat)
	r := New(d, cls, space, p, strat, nil)

	if outcome := r.chainCheck("w1", "target"); outcome != chainInconclusive {
		t.Errorf("chainCheck with MaxChainHops=2 over a 4-hop chain = %v, want inconclusive", outcome)
	}
}

func TestChainCheckMonotoneInMaxHops(t *testing.T) {
	d := dictionary.New([]dictionary.Entry{
		{Word: "w1", Definition: "a w2."},
		{Word: "w2", Definition: "a w3."},
		{Word: "w3", Definition: "a w4."},
		{Word: "w4", Definition: "a target."},
		{Word: "target", Definition: "a thing."},
	})
	cls := classifier.Classify(d)
	strat := params.DefaultStrategy()

	// A Yes at depth k must stay a Yes at every depth >= k.
	for _, hops := range []int{4, 5, 8} {
		p := params.Default()
		p.MaxChainHops = hops
		space := forcefield.Build(d, cls, nil, nil, p, strat)
		r := New(d, cls, space, p, strat, nil)
		if outcome := r.chainCheck("w1", "target"); outcome != chainYes {
			t.Errorf("chainCheck with MaxChainHops=%d = %v, want yes", hops, outcome)
		}
	}
}
