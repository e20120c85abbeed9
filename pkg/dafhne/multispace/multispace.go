// Package multispace implements the orchestrator that holds N named
// geometric spaces, routes a query to the spaces it activates, composes
// per-space answers, and runs cross-space bridge chains.
package multispace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/resolver"
)

// metaWords is the fixed set of English meta-words unioned into the
// structural set regardless of per-space classification.
var metaWords = map[string]struct{}{
	"what": {}, "who": {}, "where": {}, "when": {}, "why": {}, "how": {},
	"which": {}, "yes": {}, "no": {}, "you": {}, "your": {}, "are": {},
	"be": {}, "do": {}, "does": {},
}

// namedDomain holds one trained space and the pieces needed to resolve
// and route against it.
type namedDomain struct {
	name     string
	dict     *dictionary.Dictionary
	cls      *classifier.Classification
	space    *geometry.Space
	resolver *resolver.Resolver
}

// MultiSpace holds N named spaces, a stable ordering, bridge terms
// between every pair, a cached structural word set, and self-space
// trigger words.
type MultiSpace struct {
	order      []string
	domains    map[string]*namedDomain
	bridges    map[[2]string][]string
	structural map[string]struct{}
	selfWords  map[string]struct{}
}

// Domain is the input to New: one named space and its supporting data.
type Domain struct {
	Name  string
	Dict  *dictionary.Dictionary
	Cls   *classifier.Classification
	Space *geometry.Space
	Rels  []relation.SentenceRelation
	P     params.EngineParams
	Strat params.StrategyConfig
}

// New builds a MultiSpace from the given domains, computing bridges and
// the structural union once at construction; nothing mutates after.
func New(domains []Domain) *MultiSpace {
	ms := &MultiSpace{
		domains:    make(map[string]*namedDomain, len(domains)),
		bridges:    make(map[[2]string][]string),
		structural: make(map[string]struct{}),
		selfWords:  make(map[string]struct{}),
	}
	for k := range metaWords {
		ms.structural[k] = struct{}{}
	}

	for _, d := range domains {
		ms.order = append(ms.order, d.Name)
		ms.domains[d.Name] = &namedDomain{
			name:     d.Name,
			dict:     d.Dict,
			cls:      d.Cls,
			space:    d.Space,
			resolver: resolver.New(d.Dict, d.Cls, d.Space, d.P, d.Strat, d.Rels),
		}
		for w := range d.Cls.Structural {
			ms.structural[w] = struct{}{}
		}
	}

	for i := 0; i < len(ms.order); i++ {
		for j := i + 1; j < len(ms.order); j++ {
			a, b := ms.order[i], ms.order[j]
			ms.bridges[[2]string{a, b}] = intersectWords(ms.domains[a].dict, ms.domains[b].dict)
		}
	}

	if self, ok := ms.domains["self"]; ok {
		for _, w := range self.dict.Words() {
			unique := true
			for name, d := range ms.domains {
				if name == "self" {
					continue
				}
				if d.dict.Contains(w) {
					unique = false
					break
				}
			}
			if unique {
				ms.selfWords[w] = struct{}{}
			}
		}
	}

	return ms
}

func intersectWords(a, b *dictionary.Dictionary) []string {
	var out []string
	for _, w := range a.Words() {
		if b.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// Resolve answers query, trying special patterns, arithmetic, and
// multi-instruction dispatch before falling through to routed per-space
// resolution.
func (ms *MultiSpace) Resolve(query string) resolver.Answer {
	if ans, ok := ms.resolveMultiInstruction(query); ok {
		return ans
	}
	if ans, ok := ms.resolveArithmetic(query); ok {
		return ans
	}
	if ans, ok := ms.resolveSpecialPattern(query); ok {
		return ans
	}
	return ms.resolveRouted(query)
}

// activeDomains returns the names of domains a query's content tokens
// exclusively activate, falling back to task-space scoring, most-hits,
// and finally "all domain spaces" per the routing rule.
func (ms *MultiSpace) activeDomains(query string) []string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSuffix(strings.TrimSpace(query), "?")))

	exclusive := make(map[string]int)
	hits := make(map[string]int)
	for _, tok := range tokens {
		if ms.isStructural(tok) {
			continue
		}
		var owners []string
		for _, name := range ms.order {
			if ms.domains[name].dict.Contains(tok) {
				owners = append(owners, name)
			}
		}
		if len(owners) == 1 {
			exclusive[owners[0]]++
		}
		for _, o := range owners {
			hits[o]++
		}
	}

	if len(exclusive) == 1 {
		for name := range exclusive {
			return []string{name}
		}
	}

	if task, ok := ms.domains["task"]; ok {
		scores := ms.scoreTaskDomains(tokens, task)
		if best, ok := topTwo(scores); ok {
			return best
		}
	}

	if len(hits) > 0 {
		best := ""
		bestHits := -1
		for _, name := range ms.order {
			if hits[name] > bestHits {
				bestHits = hits[name]
				best = name
			}
		}
		if best != "" {
			return []string{best}
		}
	}

	var all []string
	for _, name := range ms.order {
		if name == "task" {
			continue
		}
		all = append(all, name)
	}
	return all
}

var taskAnchors = map[string]string{
	"math":    "number",
	"grammar": "word",
	"content": "content",
	"self":    "self",
}

func (ms *MultiSpace) scoreTaskDomains(tokens []string, task *namedDomain) map[string]float64 {
	scores := make(map[string]float64)
	for domainName, anchor := range taskAnchors {
		anchorPos, ok := task.space.Position(anchor)
		if !ok {
			continue
		}
		var sum float64
		for _, tok := range tokens {
			if ms.isStructural(tok) {
				continue
			}
			tokPos, ok := task.space.Position(tok)
			if !ok {
				continue
			}
			sum += 1 / (1 + geometry.Distance(tokPos, anchorPos))
		}
		scores[domainName] = sum
	}
	return scores
}

func topTwo(scores map[string]float64) ([]string, bool) {
	type kv struct {
		name  string
		score float64
	}
	var list []kv
	for k, v := range scores {
		if v > 0 {
			list = append(list, kv{k, v})
		}
	}
	if len(list) == 0 {
		return nil, false
	}
	// stable selection sort for determinism instead of sort.Slice, since
	// scores can tie and we want lexicographic tie-break.
	for i := 0; i < len(list); i++ {
		best := i
		for j := i + 1; j < len(list); j++ {
			if list[j].score > list[best].score || (list[j].score == list[best].score && list[j].name < list[best].name) {
				best = j
			}
		}
		list[i], list[best] = list[best], list[i]
	}
	if len(list) == 1 {
		return []string{list[0].name}, true
	}
	if list[0].score > list[1].score*1.2 {
		return []string{list[0].name}, true
	}
	return []string{list[0].name, list[1].name}, true
}

func (ms *MultiSpace) isStructural(tok string) bool {
	if _, ok := ms.structural[tok]; ok {
		return true
	}
	return false
}

// resolveRouted runs per-space resolution on the activated domains,
// falling back to example-based lookup and the cross-space bridge chain
// when every activated space answers IDK, then composes the results.
func (ms *MultiSpace) resolveRouted(query string) resolver.Answer {
	active := ms.activeDomains(query)
	if len(active) == 0 {
		return resolver.IDK
	}

	var answers []resolver.Answer
	for _, name := range active {
		d := ms.domains[name]
		answers = append(answers, d.resolver.Resolve(query))
	}

	allIDK := true
	for _, a := range answers {
		if !a.IsIDK() {
			allIDK = false
			break
		}
	}
	if allIDK {
		if ans, ok := ms.exampleLookup(query, active); ok {
			return ans
		}
		if ans, ok := ms.bridgeChain(query, active); ok {
			return ans
		}
	}

	return compose(answers)
}

// compose combines per-space answers: agreement averages distance, a single
// Word answer wins, otherwise prefer non-IDK, Yes dominates IDK, and a
// Yes-vs-No tie picks the Yes with smallest distance.
func compose(answers []resolver.Answer) resolver.Answer {
	if len(answers) == 0 {
		return resolver.IDK
	}
	if len(answers) == 1 {
		return answers[0]
	}

	var words []resolver.Answer
	for _, a := range answers {
		if a.IsWord() {
			words = append(words, a)
		}
	}
	if len(words) == 1 {
		return words[0]
	}
	if len(words) > 1 {
		return words[0]
	}

	kinds := map[string][]resolver.Answer{}
	for _, a := range answers {
		kinds[a.Kind] = append(kinds[a.Kind], a)
	}

	if len(kinds["yes"]) > 0 && len(kinds["no"]) == 0 {
		return averageKind(kinds["yes"], "yes")
	}
	if len(kinds["no"]) > 0 && len(kinds["yes"]) == 0 {
		return averageKind(kinds["no"], "no")
	}
	if len(kinds["yes"]) > 0 && len(kinds["no"]) > 0 {
		return smallestDistance(kinds["yes"])
	}
	if len(kinds["yes"]) > 0 {
		return averageKind(kinds["yes"], "yes")
	}
	return resolver.IDK
}

func averageKind(answers []resolver.Answer, kind string) resolver.Answer {
	sum := 0.0
	for _, a := range answers {
		sum += a.Distance
	}
	avg := sum / float64(len(answers))
	if kind == "yes" {
		return resolver.YesD(avg)
	}
	return resolver.NoD(avg)
}

func smallestDistance(answers []resolver.Answer) resolver.Answer {
	best := answers[0]
	for _, a := range answers[1:] {
		if a.Distance < best.Distance {
			best = a
		}
	}
	return best
}

// exampleLookup scans every entry in the activated domains for a literal
// declarative sentence linking the query's subject and object when
// geometric and chain resolution are inconclusive everywhere.
func (ms *MultiSpace) exampleLookup(query string, active []string) (resolver.Answer, bool) {
	subject, object := extractSubjectObject(ms, query)
	if subject == "" || object == "" {
		return resolver.IDK, false
	}
	needles := []string{
		fmt.Sprintf("%s is a %s", subject, object),
		fmt.Sprintf("%s is an %s", subject, object),
		fmt.Sprintf("%s is %s", subject, object),
		fmt.Sprintf("%s can %s", subject, object),
	}
	for _, name := range active {
		d := ms.domains[name]
		for _, e := range d.dict.Entries {
			texts := append([]string{e.Definition}, e.Examples...)
			for _, text := range texts {
				lowerText := strings.ToLower(text)
				for _, n := range needles {
					if strings.Contains(lowerText, n) {
						return resolver.Yes, true
					}
				}
			}
		}
	}
	return resolver.IDK, false
}

// bridgeChain implements the cross-space bridge chain: for each ordered
// pair of (source containing subject, target containing object) and each
// shared bridge term, check reachability via both the two-hop
// definition-reachability variant and the formal chain-check variant.
func (ms *MultiSpace) bridgeChain(query string, active []string) (resolver.Answer, bool) {
	subject, object := extractSubjectObject(ms, query)
	if subject == "" || object == "" {
		return resolver.IDK, false
	}

	for _, srcName := range ms.order {
		src := ms.domains[srcName]
		if !src.dict.Contains(subject) {
			continue
		}
		for _, tgtName := range ms.order {
			if tgtName == srcName {
				continue
			}
			tgt := ms.domains[tgtName]
			if !tgt.dict.Contains(object) {
				continue
			}
			bridges := ms.bridgeTerms(srcName, tgtName)
			for _, b := range bridges {
				if ms.bridgeReaches(src, tgt, subject, object, b) {
					return resolver.Yes, true
				}
			}
		}
	}
	return resolver.IDK, false
}

func (ms *MultiSpace) bridgeTerms(a, b string) []string {
	if terms, ok := ms.bridges[[2]string{a, b}]; ok {
		return terms
	}
	if terms, ok := ms.bridges[[2]string{b, a}]; ok {
		return terms
	}
	return nil
}

// bridgeReaches tries the definition-reachability variant (bridge within
// two hops of both subject in src and object in tgt) first, then the
// formal chain-check variant.
func (ms *MultiSpace) bridgeReaches(src, tgt *namedDomain, subject, object, bridge string) bool {
	subjReach := reachableTwoHops(src.dict, subject)
	if _, ok := subjReach[bridge]; ok {
		objReach := reachableTwoHops(tgt.dict, object)
		if _, ok := objReach[bridge]; ok {
			return true
		}
	}

	if src.resolver.ChainCheckPublic(subject, bridge) == resolver.OutcomeYes {
		if tgt.resolver.ChainCheckPublic(bridge, object) == resolver.OutcomeYes ||
			tgt.resolver.ChainCheckPublic(object, bridge) == resolver.OutcomeYes {
			return true
		}
	}
	return false
}

// reachableTwoHops collects every head-word reachable within two hops of
// word: the head-words of its definition and examples, plus the
// head-words of each of their definitions.
func reachableTwoHops(d *dictionary.Dictionary, word string) map[string]struct{} {
	out := make(map[string]struct{})
	first := definitionHeadWords(d, word)
	for _, w := range first {
		out[w] = struct{}{}
		for _, w2 := range definitionHeadWords(d, w) {
			out[w2] = struct{}{}
		}
	}
	return out
}

func definitionHeadWords(d *dictionary.Dictionary, word string) []string {
	e, ok := d.Get(word)
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	texts := append([]string{e.Definition}, e.Examples...)
	for _, text := range texts {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			w := strings.TrimRight(tok, ".,!?")
			if w == word || !d.Contains(w) {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

func extractSubjectObject(ms *MultiSpace, query string) (string, string) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSuffix(strings.TrimSpace(query), "?")))
	var content []string
	for _, t := range tokens {
		if !ms.isStructural(t) {
			content = append(content, t)
		}
	}
	if len(content) == 0 {
		return "", ""
	}
	if len(content) == 1 {
		return content[0], ""
	}
	return content[0], content[len(content)-1]
}

// resolveArithmetic handles "<a> plus|minus <b>" where
// both are head-words of the math space.
func (ms *MultiSpace) resolveArithmetic(query string) (resolver.Answer, bool) {
	math, ok := ms.domains["math"]
	if !ok {
		return resolver.IDK, false
	}
	tokens := strings.Fields(strings.ToLower(strings.TrimSuffix(strings.TrimSpace(query), "?")))
	for i, t := range tokens {
		if t != "plus" && t != "minus" {
			continue
		}
		if i == 0 || i+1 >= len(tokens) {
			continue
		}
		a, b, op := tokens[i-1], tokens[i+1], t
		if !math.dict.Contains(a) || !math.dict.Contains(b) {
			continue
		}
		needle := fmt.Sprintf("%s %s %s is ", a, op, b)
		for _, e := range math.dict.Entries {
			all := append([]string{e.Definition}, e.Examples...)
			for _, text := range all {
				lower := strings.ToLower(text)
				if idx := strings.Index(lower, needle); idx >= 0 {
					rest := strings.Fields(text[idx+len(needle):])
					if len(rest) > 0 {
						return resolver.WordAnswer(strings.TrimRight(rest[0], ".,!?")), true
					}
				}
			}
		}
	}
	return resolver.IDK, false
}

// resolveMultiInstruction handles multi-instruction queries: a
// period-or-?-separated sequence whose first segment is resolved
// (arithmetic or Yes/No) and whose last segment either asks to render
// the result as a sentence, or refers back to it ("the result", "the
// answer", bare "it") and is re-resolved with the value substituted in.
func (ms *MultiSpace) resolveMultiInstruction(query string) (resolver.Answer, bool) {
	segments := splitSegments(query)
	if len(segments) < 2 {
		return resolver.IDK, false
	}
	first := segments[0]
	lastSeg := segments[len(segments)-1]
	last := strings.ToLower(lastSeg)
	wantsSentence := strings.Contains(last, "write") || strings.Contains(last, "sentence")

	if ans, ok := ms.resolveArithmetic(first); ok && ans.IsWord() {
		if wantsSentence {
			expr := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(first), "?"))
			return resolver.WordAnswer(fmt.Sprintf("%s is %s", expr, ans.Word)), true
		}
		if rewritten, ok := substituteResult(lastSeg, ans.Word); ok {
			return ms.Resolve(rewritten + "?"), true
		}
		return resolver.IDK, false
	}

	if !wantsSentence {
		return resolver.IDK, false
	}
	firstAns := ms.resolveRouted(first)
	if firstAns.IsYes() || firstAns.IsNo() {
		return resolver.WordAnswer(declarativeFrom(first, firstAns)), true
	}
	return resolver.IDK, false
}

// substituteResult replaces "the result", "the answer", or a bare "it"
// in question with the computed value.
func substituteResult(question, value string) (string, bool) {
	lower := strings.ToLower(question)
	for _, phrase := range []string{"the result", "the answer"} {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			return question[:idx] + value + question[idx+len(phrase):], true
		}
	}
	padded := " " + lower + " "
	if idx := strings.Index(padded, " it "); idx >= 0 {
		return strings.TrimSpace(padded[:idx+1] + value + padded[idx+3:]), true
	}
	return "", false
}

func splitSegments(query string) []string {
	replaced := strings.ReplaceAll(query, "?", ".")
	parts := strings.Split(replaced, ".")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func declarativeFrom(question string, ans resolver.Answer) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(question), "?")
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return trimmed
	}
	// "Is X Y" -> "X Y is true" / "X Y is not true"; X and Y are not
	// split apart.
	rest := strings.Join(fields[1:], " ")
	if ans.IsNo() {
		return rest + " is not true"
	}
	return rest + " is true"
}

// resolveSpecialPattern covers the first-match literal-substring special
// patterns: quoted-string word count, quoted-string subject
// extraction, "comes after X" math scanning, ordinal comparison, choice
// questions ("is X a Y or Z"), "same as" negation, task-kind
// classification, and self-space identity/capability patterns.
func (ms *MultiSpace) resolveSpecialPattern(query string) (resolver.Answer, bool) {
	lower := strings.ToLower(query)

	if strings.Contains(lower, "how many words") {
		if quoted, ok := extractQuoted(query); ok {
			count := len(strings.Fields(quoted))
			return resolver.WordAnswer(numberWord(count)), true
		}
	}

	if strings.Contains(lower, "subject") {
		if quoted, ok := extractQuoted(query); ok {
			for _, tok := range strings.Fields(strings.ToLower(quoted)) {
				if !ms.isStructural(tok) {
					return resolver.WordAnswer(tok), true
				}
			}
		}
	}

	if strings.Contains(lower, "comes after") {
		if ans, ok := ms.resolveComesAfter(lower); ok {
			return ans, true
		}
	}

	if strings.Contains(lower, "same as") {
		if ans, ok := ms.resolveSameAs(lower); ok {
			return ans, true
		}
	}

	if strings.Contains(lower, " than ") {
		if ans, ok := ms.resolveOrdinal(lower); ok {
			return ans, true
		}
	}

	if strings.Contains(lower, " or ") && strings.Contains(lower, " a ") {
		if ans, ok := ms.resolveChoice(lower); ok {
			return ans, true
		}
	}

	if strings.Contains(lower, "kind of task") || strings.Contains(lower, "a task") {
		if ans, ok := ms.resolveTaskKind(lower); ok {
			return ans, true
		}
	}

	if ans, ok := ms.resolveSelfPattern(lower); ok {
		return ans, true
	}

	return resolver.IDK, false
}

// resolveComesAfter implements the "comes after X" special pattern: scan
// the math space's entries for a definition containing "after X" and
// return the entry whose definition mentions it.
func (ms *MultiSpace) resolveComesAfter(lower string) (resolver.Answer, bool) {
	math, ok := ms.domains["math"]
	if !ok {
		return resolver.IDK, false
	}
	idx := strings.Index(lower, "comes after")
	if idx < 0 {
		return resolver.IDK, false
	}
	rest := strings.Fields(lower[idx+len("comes after"):])
	if len(rest) == 0 {
		return resolver.IDK, false
	}
	x := strings.TrimRight(rest[0], ".,!?")
	needle := "after " + x
	for _, e := range math.dict.Entries {
		if strings.Contains(strings.ToLower(e.Definition), needle) {
			return resolver.WordAnswer(e.Word), true
		}
	}
	return resolver.IDK, false
}

// ordinalPhrases maps a comparison phrase to whether it asks for
// "greater" (later in the successor chain).
var ordinalPhrases = []struct {
	phrase  string
	greater bool
}{
	{"more than", true},
	{"bigger than", true},
	{"greater than", true},
	{"less than", false},
	{"smaller than", false},
}

// resolveOrdinal compares two number words by their position in the math
// space's successor chain, derived from "after X" mentions in number
// definitions.
func (ms *MultiSpace) resolveOrdinal(lower string) (resolver.Answer, bool) {
	math, ok := ms.domains["math"]
	if !ok {
		return resolver.IDK, false
	}
	phrase := ""
	greater := false
	for _, p := range ordinalPhrases {
		if strings.Contains(lower, p.phrase) {
			phrase, greater = p.phrase, p.greater
			break
		}
	}
	if phrase == "" {
		return resolver.IDK, false
	}
	idx := strings.Index(lower, phrase)
	before := strings.Fields(strings.TrimSpace(lower[:idx]))
	after := strings.Fields(strings.TrimSuffix(strings.TrimSpace(lower[idx+len(phrase):]), "?"))

	var a, b string
	for i := len(before) - 1; i >= 0; i-- {
		w := strings.TrimRight(before[i], ".,!?")
		if math.dict.Contains(w) {
			a = w
			break
		}
	}
	for _, tok := range after {
		w := strings.TrimRight(tok, ".,!?")
		if math.dict.Contains(w) {
			b = w
			break
		}
	}
	if a == "" || b == "" {
		return resolver.IDK, false
	}
	if a == b {
		return resolver.No, true
	}

	ranks := numberRanks(math.dict)
	ra, okA := ranks[a]
	rb, okB := ranks[b]
	if !okA || !okB {
		return resolver.IDK, false
	}
	if (ra > rb) == greater {
		return resolver.Yes, true
	}
	return resolver.No, true
}

// numberRanks derives an ordinal rank per number word by chaining "after
// X" successor mentions, walking each chain from its root in sorted
// order for determinism.
func numberRanks(d *dictionary.Dictionary) map[string]int {
	succ := make(map[string]string)
	isSucc := make(map[string]struct{})
	for _, e := range d.Entries {
		lowerDef := strings.ToLower(e.Definition)
		idx := strings.Index(lowerDef, "after ")
		if idx < 0 {
			continue
		}
		rest := strings.Fields(lowerDef[idx+len("after "):])
		if len(rest) == 0 {
			continue
		}
		pred := strings.TrimRight(rest[0], ".,!?")
		if !d.Contains(pred) {
			continue
		}
		succ[pred] = e.Word
		isSucc[e.Word] = struct{}{}
	}

	var roots []string
	for pred := range succ {
		if _, ok := isSucc[pred]; !ok {
			roots = append(roots, pred)
		}
	}
	sort.Strings(roots)

	ranks := make(map[string]int)
	for _, root := range roots {
		rank := 0
		w := root
		for {
			if _, done := ranks[w]; done {
				break
			}
			ranks[w] = rank
			next, ok := succ[w]
			if !ok {
				break
			}
			rank++
			w = next
		}
	}
	return ranks
}

// resolveSameAs implements "same as" negation: "Is X the same as Y?"
// answers Yes when the two content words are identical, No when both are
// head-words of some domain but distinct (without claiming knowledge
// beyond that), else IDK.
func (ms *MultiSpace) resolveSameAs(lower string) (resolver.Answer, bool) {
	idx := strings.Index(lower, "same as")
	if idx < 0 {
		return resolver.IDK, false
	}
	before := strings.Fields(strings.TrimSuffix(strings.TrimSpace(lower[:idx]), "the"))
	after := strings.Fields(strings.TrimSuffix(strings.TrimSpace(lower[idx+len("same as"):]), "?"))
	if len(before) == 0 || len(after) == 0 {
		return resolver.IDK, false
	}
	a := strings.TrimRight(before[len(before)-1], ".,!?")
	b := strings.TrimRight(after[len(after)-1], ".,!?")
	if a == "" || b == "" {
		return resolver.IDK, false
	}
	if a == b {
		return resolver.Yes, true
	}
	for _, name := range ms.order {
		d := ms.domains[name]
		if d.dict.Contains(a) && d.dict.Contains(b) {
			return resolver.No, true
		}
	}
	return resolver.IDK, false
}

// resolveChoice implements "is X a Y or Z?" choice questions by running
// the routed Yes/No path for each branch and reporting whichever answers
// Yes as the Word answer.
func (ms *MultiSpace) resolveChoice(lower string) (resolver.Answer, bool) {
	if !strings.HasPrefix(lower, "is ") {
		return resolver.IDK, false
	}
	orIdx := strings.Index(lower, " or ")
	if orIdx < 0 {
		return resolver.IDK, false
	}
	before := lower[:orIdx]
	aIdx := strings.LastIndex(before, " a ")
	if aIdx < 0 {
		return resolver.IDK, false
	}
	left := strings.TrimSpace(before[aIdx+3:])
	subjectClause := strings.TrimSpace(before[:aIdx])
	right := strings.TrimSpace(strings.TrimSuffix(lower[orIdx+4:], "?"))

	leftQ := fmt.Sprintf("%s a %s?", subjectClause, left)
	rightQ := fmt.Sprintf("%s a %s?", subjectClause, right)
	leftAns := ms.resolveRouted(leftQ)
	rightAns := ms.resolveRouted(rightQ)
	switch {
	case leftAns.IsYes() && !rightAns.IsYes():
		return resolver.WordAnswer(left), true
	case rightAns.IsYes() && !leftAns.IsYes():
		return resolver.WordAnswer(right), true
	}
	return resolver.IDK, false
}

// taskIndicatorLabels lists the domains whose vocabularies serve as
// task-kind indicators in resolveTaskKind's counting, in tie-break order.
var taskIndicatorLabels = []string{"math", "grammar", "content"}

// resolveTaskKind implements 'is "..." a <type> task?' / "what kind of
// task is ..." by counting, inside the quoted segment, how many tokens
// belong to each domain's vocabulary and picking the plurality domain.
func (ms *MultiSpace) resolveTaskKind(lower string) (resolver.Answer, bool) {
	quoted, ok := extractQuoted(lower)
	if !ok {
		return resolver.IDK, false
	}
	tokens := strings.Fields(strings.ToLower(quoted))
	counts := make(map[string]int)
	for _, tok := range tokens {
		for _, name := range taskIndicatorLabels {
			d, ok := ms.domains[name]
			if ok && d.dict.Contains(tok) {
				counts[name]++
			}
		}
	}
	best, bestCount := "", 0
	for _, name := range taskIndicatorLabels {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	if best == "" {
		return resolver.IDK, false
	}
	if strings.Contains(lower, "kind of task") {
		return resolver.WordAnswer(best), true
	}
	// "is ... a <type> task?" form: Yes iff the asked type is the plurality.
	for _, name := range taskIndicatorLabels {
		if strings.Contains(lower, name+" task") {
			if name == best {
				return resolver.Yes, true
			}
			return resolver.No, true
		}
	}
	return resolver.IDK, false
}

// selfBigrams are the three hard-coded self-space trigger bigrams.
// They cannot be discovered from text since they're
// second-person question forms, not dictionary content.
var selfBigrams = []string{"are you", "can you", "do you"}

// resolveSelfPattern implements the self-space identity/capability
// pattern family: "are/can/do you X" is rewritten against the self
// space's entity subject and resolved there.
func (ms *MultiSpace) resolveSelfPattern(lower string) (resolver.Answer, bool) {
	self, ok := ms.domains["self"]
	if !ok {
		return resolver.IDK, false
	}
	subject := selfSubject(self.dict)
	if subject == "" {
		return resolver.IDK, false
	}
	for _, bg := range selfBigrams {
		idx := strings.Index(lower, bg)
		if idx < 0 {
			continue
		}
		verb := strings.TrimSpace(strings.TrimSuffix(lower[idx+len(bg):], "?"))
		if verb == "" {
			continue
		}
		lead := strings.Fields(bg)[0]
		if lead == "are" {
			lead = "is"
		}
		rewritten := fmt.Sprintf("%s %s %s?", lead, subject, verb)
		return self.resolver.Resolve(rewritten), true
	}
	return resolver.IDK, false
}

// selfSubject returns the self space's entity head-word — the subject
// "you" refers to in self-directed questions — preferring a hand-crafted
// entity entry, falling back to the first entry.
func selfSubject(d *dictionary.Dictionary) string {
	for _, e := range d.Entries {
		if e.IsEntity {
			return e.Word
		}
	}
	if len(d.Entries) > 0 {
		return d.Entries[0].Word
	}
	return ""
}

func extractQuoted(s string) (string, bool) {
	start := strings.Index(s, "\"")
	if start < 0 {
		return "", false
	}
	end := strings.Index(s[start+1:], "\"")
	if end < 0 {
		return "", false
	}
	return s[start+1 : start+1+end], true
}

var numberWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func numberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return fmt.Sprintf("%d", n)
}
