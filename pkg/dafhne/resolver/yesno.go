package resolver

import (
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
)

// resolveYesNo answers Yes/No questions: a geometric answer
// first, then a definition-chain gate that can override it when not
// negated.
func (r *Resolver) resolveYesNo(pq parsedQuestion) Answer {
	if pq.subject == "" {
		return IDK
	}
	if pq.object == "" {
		// no object extracted: there is nothing to check the subject
		// against, so the answer is IDK and no chain check runs.
		return IDK
	}

	geomAnswer := r.geometricYesNo(pq)

	if pq.negated {
		return invert(geomAnswer)
	}

	chain := r.chainGate(pq.subject, pq.object, pq.connector)
	switch chain {
	case chainYes:
		return Yes
	case chainNo:
		return No
	default:
		return geomAnswer
	}
}

func invert(a Answer) Answer {
	switch a.Kind {
	case "yes":
		return NoD(a.Distance)
	case "no":
		return YesD(a.Distance)
	default:
		return a
	}
}

// geometricYesNo computes the pre-chain geometric verdict via the
// four-way distance-selection rule.
func (r *Resolver) geometricYesNo(pq parsedQuestion) Answer {
	subjPos, ok1 := r.Space.Position(pq.subject)
	objPos, ok2 := r.Space.Position(pq.object)
	if !ok1 || !ok2 {
		return IDK
	}

	var dist, mean float64

	if r.Strat.UseConnectorAxis {
		if c, found := r.Space.FindConnector(pq.connector); found {
			dist = geometry.SafeDistance(geometry.AxisProjectedDistance(subjPos, objPos, c.ForceDirection))
			mean = geometry.MeanAxisProjectedDistance(r.Space, c.ForceDirection)
			return classify(dist, mean, r.Params)
		}
	}

	switch r.Strat.NegationModel {
	case params.SeparateDimension:
		// each sub-distance normalises by its own pairwise mean, never
		// the full-space Euclidean mean.
		if pq.negated {
			dist = geometry.SafeDistance(abs(subjPos[0] - objPos[0]))
			mean = geometry.MeanDim0Distance(r.Space)
		} else {
			e0 := make([]float64, r.Space.Dimensions)
			e0[0] = 1
			dist = geometry.SafeDistance(geometry.Distance(subjPos[1:], objPos[1:]))
			mean = geometry.MeanAxisExcludedDistance(r.Space, e0)
		}
		return classify(dist, mean, r.Params)
	case params.Repulsion:
		if c, found := r.Space.FindConnector([]string{"not"}); found {
			if pq.negated {
				dist = geometry.SafeDistance(geometry.AxisProjectedDistance(subjPos, objPos, c.ForceDirection))
				mean = geometry.MeanAxisProjectedDistance(r.Space, c.ForceDirection)
			} else {
				dist = geometry.SafeDistance(geometry.AxisExcludedDistance(subjPos, objPos, c.ForceDirection))
				mean = geometry.MeanAxisExcludedDistance(r.Space, c.ForceDirection)
			}
			return classify(dist, mean, r.Params)
		}
	}

	dist = geometry.SafeDistance(geometry.Distance(subjPos, objPos))
	mean = r.Space.DistanceStats.Mean
	return classify(dist, mean, r.Params)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// classify applies the non-negated threshold rule: normalised distance
// below yes_threshold is Yes, above no_threshold is No, else IDK.
func classify(dist, mean float64, p params.EngineParams) Answer {
	if mean <= 0 {
		mean = 1
	}
	normalised := dist / mean
	switch {
	case normalised < p.YesThreshold:
		return YesD(normalised)
	case normalised > p.NoThreshold:
		return NoD(normalised)
	default:
		return IDKD(normalised)
	}
}

// preceded_by_not predicate: the word's immediate predecessor in the
// given token sequence is "not", or the predecessor is structural and
// the token before that is "not".
func (r *Resolver) precededByNot(tokens []string, idx int) bool {
	if idx <= 0 {
		return false
	}
	if tokens[idx-1] == "not" {
		return true
	}
	if idx >= 2 && r.Cls.IsStructural(tokens[idx-1]) && tokens[idx-2] == "not" {
		return true
	}
	return false
}

// isVerbWord reports whether w's definition begins with "to", the
// property-filter's verb test reused for the chain fallback rule.
func (r *Resolver) isVerbWord(w string) bool {
	e, ok := r.Dict.Get(w)
	if !ok {
		return false
	}
	fields := strings.Fields(strings.TrimSpace(e.Definition))
	return len(fields) > 0 && strings.ToLower(fields[0]) == "to"
}

// beginsWithArticle reports whether def starts with "a", "an", or "the".
func beginsWithArticle(def string) bool {
	fields := strings.Fields(strings.TrimSpace(def))
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "a", "an", "the":
		return true
	}
	return false
}
