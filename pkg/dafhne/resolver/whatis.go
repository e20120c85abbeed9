package resolver

import (
	"fmt"
	"math"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
)

var articles = map[string]struct{}{"a": {}, "an": {}, "the": {}}
var quantifiers = map[string]struct{}{"some": {}, "many": {}, "several": {}}

func isArticle(w string) bool {
	_, ok := articles[w]
	return ok
}

func isArticleOrQuantifier(w string) bool {
	if isArticle(w) {
		return true
	}
	_, ok := quantifiers[w]
	return ok
}

// resolveWhatIs answers "what is X" questions: definition-category
// extraction first, nearest-neighbor search second.
func (r *Resolver) resolveWhatIs(pq parsedQuestion) Answer {
	if pq.subject == "" {
		return IDK
	}
	if pq.extraContent >= 1 || pq.unknown >= 1 {
		// e.g. "What color is a cat?" — the space encodes no attribute
		// values beyond category, and an unstemmable token means the
		// question asks about something the dictionary cannot see.
		return IDK
	}

	if cat, ok := r.definitionCategory(pq.subject); ok {
		return WordAnswer(withArticle(cat))
	}

	return r.nearestWhatIs(pq.subject)
}

// definitionCategory implements the category-extraction pass: walk the
// subject's first-sentence tokens and return the first stemmed head-word
// passing every filter. Entity entries bypass all filters except
// article-skipping.
func (r *Resolver) definitionCategory(subject string) (string, bool) {
	e, ok := r.Dict.Get(subject)
	if !ok {
		return "", false
	}
	sentence := dictionary.FirstSentence(e.Definition)
	tokens := strings.Fields(strings.ToLower(sentence))
	words := stemWords(tokens, r.entrySet)

	for _, w := range words {
		if isArticle(w) {
			continue
		}
		if e.IsEntity {
			return w, true
		}
		if w == subject {
			continue
		}
		// structural nouns ("thing") still qualify as categories; only
		// structural non-nouns are glue to skip over.
		if r.Cls.IsStructural(w) && !r.nounLike(w) {
			continue
		}
		if r.IsConnectorWord(w) && !r.Dict.Contains(w) {
			continue
		}
		if r.IsPropertyWord(w) {
			continue
		}
		if !r.nounLike(w) {
			continue
		}
		return w, true
	}
	return "", false
}

// nounLike reports whether w's own definition starts with an article or
// quantifier, the working test for nounhood in ELI5-style definitions.
func (r *Resolver) nounLike(w string) bool {
	e, ok := r.Dict.Get(w)
	if !ok {
		return false
	}
	return isArticleOrQuantifier(firstWord(e.Definition))
}

func firstWord(def string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(def)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// nearestWhatIs searches the space for the nearest content, non-connector
// word using weighted distance (or the axis-projected / axis-excluded
// variants when the corresponding strategy applies).
func (r *Resolver) nearestWhatIs(subject string) Answer {
	subjPos, ok := r.Space.Position(subject)
	if !ok {
		return IDK
	}

	direction, haveDirection := r.whatIsDirection()

	// the axis-projected and axis-excluded branches normalise by a mean
	// measured the same way as their per-candidate distance below; the
	// weighted and plain-distance branches both use the space's Euclidean
	// mean.
	var mean float64
	switch {
	case r.Strat.UseConnectorAxis && haveDirection:
		mean = geometry.MeanAxisProjectedDistance(r.Space, direction)
	case r.Strat.NegationModel == params.Repulsion && haveDirection:
		mean = geometry.MeanAxisExcludedDistance(r.Space, direction)
	default:
		mean = r.Space.DistanceStats.Mean
	}

	best := ""
	bestDist := math.Inf(1)
	for _, w := range r.Space.WordOrder {
		if w == subject {
			continue
		}
		if !r.Cls.IsContent(w) {
			continue
		}
		if r.IsConnectorWord(w) {
			continue
		}
		pos, ok := r.Space.Position(w)
		if !ok {
			continue
		}

		var d float64
		switch {
		case r.Strat.UseConnectorAxis && haveDirection:
			d = geometry.AxisProjectedDistance(subjPos, pos, direction)
		case r.Strat.NegationModel == params.Repulsion && haveDirection:
			d = geometry.AxisExcludedDistance(subjPos, pos, direction)
		case haveDirection:
			d = geometry.WeightedDistance(subjPos, pos, direction, r.Params.WeightedDistanceAlpha)
		default:
			d = geometry.Distance(subjPos, pos)
		}
		d = geometry.SafeDistance(d)
		if d < bestDist {
			bestDist = d
			best = w
		}
	}

	if best == "" {
		return IDK
	}
	if mean <= 0 {
		mean = 1
	}
	if bestDist/mean < r.Params.NoThreshold {
		return WordAnswer(withArticle(best))
	}
	return IDK
}

// whatIsDirection returns the ["is"]/["is","a"] connector's force
// direction, preferring the two-token pattern.
func (r *Resolver) whatIsDirection() ([]float64, bool) {
	if c, ok := r.Space.FindConnector([]string{"is", "a"}); ok {
		return c.ForceDirection, true
	}
	if c, ok := r.Space.FindConnector([]string{"is"}); ok {
		return c.ForceDirection, true
	}
	return nil, false
}

// withArticle prefixes w with "a" or "an" depending on whether it starts
// with a vowel sound (approximated by a leading vowel letter).
func withArticle(w string) string {
	if w == "" {
		return w
	}
	switch w[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return fmt.Sprintf("an %s", w)
	default:
		return fmt.Sprintf("a %s", w)
	}
}
