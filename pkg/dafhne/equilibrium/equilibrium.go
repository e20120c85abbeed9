// Package equilibrium implements the sequential-equilibrium builder: an
// alternative to forcefield that places words one at a time at the
// centroid of already-placed definition-words, relaxing locally after
// each insertion.
package equilibrium

import (
	"math"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/rng"
	"github.com/dafhne/engine/pkg/dafhne/tokenizer"
)

// Build runs the sequential-equilibrium algorithm over d's head-words,
// grouping rels by left-word for per-entry force application and
// treating connectors (already discovered batch-wise) the same way
// forcefield.Build does for direction lookups.
func Build(d *dictionary.Dictionary, cls *classifier.Classification, rels []relation.SentenceRelation, connectors []geometry.Connector, p params.EngineParams, strat params.StrategyConfig) *geometry.Space {
	space := geometry.NewSpace(p.Dimensions)
	source := rng.New(p.RNGSeed)

	connectorByKey := make(map[string]geometry.Connector, len(connectors))
	for _, c := range connectors {
		connectorByKey[patternKey(c.Pattern)] = c
	}

	byLeft := make(map[string][]relation.SentenceRelation)
	byEndpoint := make(map[string][]relation.SentenceRelation)
	var dictRels, grammarRels []relation.SentenceRelation
	for _, r := range rels {
		byLeft[r.LeftWord] = append(byLeft[r.LeftWord], r)
		byEndpoint[r.LeftWord] = append(byEndpoint[r.LeftWord], r)
		if r.RightWord != r.LeftWord {
			byEndpoint[r.RightWord] = append(byEndpoint[r.RightWord], r)
		}
		if r.Weight >= relation.DictionaryWeight {
			dictRels = append(dictRels, r)
		} else {
			grammarRels = append(grammarRels, r)
		}
	}

	neighborsOf := neighborWords(d)

	order := append([]string{}, d.Words()...)
	placed := make(map[string]struct{})

	for pass := 0; pass < p.LearningPasses; pass++ {
		lr := p.LearningRate / (1 + 0.5*float64(pass))
		if pass > 0 {
			shuffle(order, source)
		}
		for _, w := range order {
			if _, ok := placed[w]; !ok {
				placeEntry(space, w, neighborsOf, placed, p, source)
				placed[w] = struct{}{}
			}
			applyLeftRelations(space, byLeft[w], connectorByKey, lr, p, strat)
			relax(space, w, byEndpoint, connectorByKey, lr, p, strat)
		}
	}

	// grammar relations applied as a batch regulariser after entries.
	applyBatch(space, grammarRels, connectorByKey, p.LearningRate, p, strat)

	space.Connectors = append([]geometry.Connector{}, connectors...)
	space.SortConnectors()
	space.DistanceStats = geometry.ComputeDistanceStats(space)
	return space
}

// neighborWords maps each head-word to every other head-word mentioned
// in its definition and examples, deduplicated in first-mention order.
// Placement centroids on the entry's own text, not the relation graph:
// a head-word can appear in a definition without ever becoming a
// topic-pair endpoint.
func neighborWords(d *dictionary.Dictionary) map[string][]string {
	entrySet := make(map[string]struct{}, d.Len())
	for _, w := range d.Words() {
		entrySet[w] = struct{}{}
	}
	out := make(map[string][]string, d.Len())
	for _, e := range d.Entries {
		seen := make(map[string]struct{})
		var words []string
		texts := append([]string{e.Definition}, e.Examples...)
		for _, text := range texts {
			ws, _ := tokenizer.StemSequence(tokenizer.Tokenize(text), entrySet)
			for _, w := range ws {
				if w == e.Word {
					continue
				}
				if _, dup := seen[w]; dup {
					continue
				}
				seen[w] = struct{}{}
				words = append(words, w)
			}
		}
		out[e.Word] = words
	}
	return out
}

func shuffle(order []string, source *rng.Source) {
	for i := len(order) - 1; i > 0; i-- {
		j := source.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
}

func placeEntry(space *geometry.Space, w string, neighborsOf map[string][]string, placed map[string]struct{}, p params.EngineParams, source *rng.Source) {
	var sum []float64
	count := 0
	for _, n := range neighborsOf[w] {
		if _, ok := placed[n]; !ok {
			continue
		}
		pos, ok := space.Position(n)
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float64, p.Dimensions)
		}
		sum = geometry.Add(sum, pos)
		count++
	}

	var pos []float64
	if count > 0 {
		pos = geometry.Scale(1/float64(count), sum)
		pos = geometry.Add(pos, noiseVector(source, p.Dimensions, p.PerturbationStrength))
	} else {
		pos = noiseVector(source, p.Dimensions, 0.1)
	}
	space.Place(w, pos)
}

func noiseVector(source *rng.Source, dimensions int, magnitude float64) []float64 {
	v := make([]float64, dimensions)
	for i := range v {
		v[i] = (source.Float64()*2 - 1) * magnitude
	}
	return v
}

// applyLeftRelations applies every relation whose left-word is w using
// the current pass learning rate, treating lr as the force magnitude fed
// into the same force-function machinery forcefield uses.
func applyLeftRelations(space *geometry.Space, rels []relation.SentenceRelation, connectorByKey map[string]geometry.Connector, lr float64, p params.EngineParams, strat params.StrategyConfig) {
	for _, r := range rels {
		c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
		if !ok {
			continue
		}
		applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, lr, r.Negated, p, strat)
	}
}

func applyBatch(space *geometry.Space, rels []relation.SentenceRelation, connectorByKey map[string]geometry.Connector, lr float64, p params.EngineParams, strat params.StrategyConfig) {
	for _, r := range rels {
		c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
		if !ok {
			continue
		}
		applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, lr, r.Negated, p, strat)
	}
}

// relax runs up to max_relax_steps local-relaxation iterations for every
// relation touching w at either endpoint, applying lr * damping^(k+1)
// each step and stopping early once total squared displacement energy
// (w's own position, before vs. after the step) drops below
// energy_threshold.
func relax(space *geometry.Space, w string, byEndpoint map[string][]relation.SentenceRelation, connectorByKey map[string]geometry.Connector, lr float64, p params.EngineParams, strat params.StrategyConfig) {
	touching := byEndpoint[w]
	if len(touching) == 0 {
		return
	}
	for k := 0; k < p.MaxRelaxSteps; k++ {
		stepLR := lr * math.Pow(p.DampingFactor, float64(k+1))
		energy := 0.0
		for _, r := range touching {
			c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
			if !ok {
				continue
			}
			before, _ := space.Position(w)
			applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, stepLR, r.Negated, p, strat)
			after, _ := space.Position(w)
			energy += squaredDisplacement(before, after)
		}
		if energy < p.EnergyThreshold {
			return
		}
	}
}

func squaredDisplacement(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// applyForce mirrors forcefield.applyForce; duplicated rather than
// imported to keep the two builders independent — equilibrium is an
// alternative builder, not a wrapper around forcefield.
func applyForce(space *geometry.Space, left, right string, direction []float64, mag float64, negated bool, p params.EngineParams, strat params.StrategyConfig) {
	leftPos, ok1 := space.Position(left)
	rightPos, ok2 := space.Position(right)
	if !ok1 || !ok2 {
		return
	}

	delta := geometry.Sub(rightPos, leftPos)
	proj := geometry.Dot(delta, direction)

	effectiveDirection := direction
	sign := 1.0
	effectiveMag := mag

	switch strat.NegationModel {
	case params.Inversion:
		if negated {
			sign = p.NegationInversion
		}
	case params.Repulsion:
		if negated {
			sign = -1
			effectiveMag = mag * 2
		}
	case params.AxisShift:
		if negated {
			effectiveDirection = rotateLargestTwo(direction)
			proj = geometry.Dot(delta, effectiveDirection)
		}
	case params.SeparateDimension:
		if negated {
			e0 := make([]float64, len(direction))
			e0[0] = 1
			effectiveDirection = e0
			sign = -1
		} else {
			zeroed := append([]float64{}, direction...)
			zeroed[0] = 0
			effectiveDirection = geometry.Normalize(zeroed)
		}
		proj = geometry.Dot(delta, effectiveDirection)
	}

	force := forceVector(strat.ForceFunction, effectiveDirection, delta, proj, effectiveMag, sign)

	newLeft := geometry.Add(leftPos, force)
	newRight := geometry.Sub(rightPos, geometry.Scale(p.BidirectionalForce, force))
	space.Place(left, newLeft)
	space.Place(right, newRight)
}

func forceVector(fn params.ForceFunction, direction, delta []float64, proj, mag, sign float64) []float64 {
	switch fn {
	case params.InverseDistance:
		scale := proj * mag * sign / (1 + math.Abs(proj))
		return geometry.Scale(scale, direction)
	case params.Gravitational:
		normSq := geometry.Dot(delta, delta)
		if normSq < 0.01 {
			normSq = 0.01
		}
		scale := mag * sign / normSq
		return geometry.Scale(scale, direction)
	case params.Spring:
		scale := (proj - 0.5) * mag * sign
		return geometry.Scale(scale, direction)
	default:
		scale := proj * mag * sign
		return geometry.Scale(scale, direction)
	}
}

func rotateLargestTwo(direction []float64) []float64 {
	if len(direction) < 2 {
		return append([]float64{}, direction...)
	}
	i, j := 0, 1
	if math.Abs(direction[j]) > math.Abs(direction[i]) {
		i, j = j, i
	}
	for k := 2; k < len(direction); k++ {
		v := math.Abs(direction[k])
		if v > math.Abs(direction[i]) {
			j = i
			i = k
		} else if v > math.Abs(direction[j]) {
			j = k
		}
	}
	out := append([]float64{}, direction...)
	a, b := out[i], out[j]
	out[i] = -b
	out[j] = a
	return geometry.Normalize(out)
}

func patternKey(pattern []string) string {
	key := ""
	for i, p := range pattern {
		if i > 0 {
			key += " "
		}
		key += p
	}
	return key
}
