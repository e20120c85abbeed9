// Package forcefield implements the iterative learning-passes builder:
// per-relation forces are applied onto per-word positions according to a
// chosen force function, multi-connector policy, and negation model.
package forcefield

import (
	"math"
	"sort"

	"github.com/dafhne/engine/pkg/dafhne/classifier"
	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/rng"
)

// Build initialises one WordPoint per head-word, runs learning_passes
// passes applying forces per relation, and caches distance stats.
func Build(d *dictionary.Dictionary, cls *classifier.Classification, rels []relation.SentenceRelation, connectors []geometry.Connector, p params.EngineParams, strat params.StrategyConfig) *geometry.Space {
	space := geometry.NewSpace(p.Dimensions)
	source := rng.New(p.RNGSeed)
	initPositions(space, d, connectors, p, strat, source)

	connectorByKey := make(map[string]geometry.Connector, len(connectors))
	for _, c := range connectors {
		connectorByKey[patternKey(c.Pattern)] = c
	}
	maxFreq := 0
	for _, c := range connectors {
		if c.Frequency > maxFreq {
			maxFreq = c.Frequency
		}
	}

	for pass := 0; pass < p.LearningPasses; pass++ {
		mag := p.ForceMagnitude * math.Pow(p.ForceDecay, float64(pass))
		applyPass(space, rels, connectorByKey, maxFreq, mag, p, strat)
	}

	space.Connectors = append([]geometry.Connector{}, connectors...)
	space.SortConnectors()
	space.DistanceStats = geometry.ComputeDistanceStats(space)
	return space
}

func initPositions(space *geometry.Space, d *dictionary.Dictionary, connectors []geometry.Connector, p params.EngineParams, strat params.StrategyConfig, source *rng.Source) {
	wordConnectorSum := make(map[string][]float64)
	if strat.SpaceInit == params.FromConnectors {
		for _, c := range connectors {
			for _, tok := range c.Pattern {
				wordConnectorSum[tok] = geometry.Add(zeros(p.Dimensions, wordConnectorSum[tok]), geometry.Scale(0.3, c.ForceDirection))
			}
		}
	}

	for _, w := range d.Words() {
		var pos []float64
		switch strat.SpaceInit {
		case params.Random:
			pos = randomVector(source, p.Dimensions, 1)
		case params.Spherical:
			pos = geometry.Normalize(randomVector(source, p.Dimensions, 1))
		case params.FromConnectors:
			pos = randomVector(source, p.Dimensions, 0.1)
			if bonus, ok := wordConnectorSum[w]; ok {
				pos = geometry.Add(pos, bonus)
			}
		default:
			pos = randomVector(source, p.Dimensions, 1)
		}
		space.Place(w, pos)
	}
}

func zeros(n int, existing []float64) []float64 {
	if existing != nil {
		return existing
	}
	return make([]float64, n)
}

func randomVector(source *rng.Source, dimensions int, scale float64) []float64 {
	v := make([]float64, dimensions)
	for i := range v {
		v[i] = (source.Float64()*2 - 1) * scale
	}
	return v
}

// applyPass runs one learning pass over all relations according to the
// multi-connector policy.
func applyPass(space *geometry.Space, rels []relation.SentenceRelation, connectorByKey map[string]geometry.Connector, maxFreq int, mag float64, p params.EngineParams, strat params.StrategyConfig) {
	switch strat.MultiConnector {
	case params.FirstOnly:
		applyFirstOnly(space, rels, connectorByKey, mag, p, strat)
	case params.Weighted:
		for _, r := range rels {
			c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
			if !ok {
				continue
			}
			scale := 1.0
			if maxFreq > 0 {
				scale = float64(c.Frequency) / float64(maxFreq)
			}
			applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, mag*scale, r.Negated, p, strat)
		}
	case params.Compositional:
		applyCompositional(space, rels, connectorByKey, mag, p, strat)
	default: // Sequential
		for _, r := range rels {
			c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
			if !ok {
				continue
			}
			applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, mag, r.Negated, p, strat)
		}
	}
}

func applyFirstOnly(space *geometry.Space, rels []relation.SentenceRelation, connectorByKey map[string]geometry.Connector, mag float64, p params.EngineParams, strat params.StrategyConfig) {
	type pairKey struct{ left, right string }
	best := make(map[pairKey]relation.SentenceRelation)
	bestFreq := make(map[pairKey]int)
	var order []pairKey
	for _, r := range rels {
		c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
		if !ok {
			continue
		}
		key := pairKey{r.LeftWord, r.RightWord}
		if _, exists := best[key]; !exists {
			order = append(order, key)
		}
		if c.Frequency > bestFreq[key] {
			best[key] = r
			bestFreq[key] = c.Frequency
		}
	}
	for _, key := range order {
		r := best[key]
		c := connectorByKey[patternKey(r.ConnectorPattern)]
		applyForce(space, r.LeftWord, r.RightWord, c.ForceDirection, mag, r.Negated, p, strat)
	}
}

func applyCompositional(space *geometry.Space, rels []relation.SentenceRelation, connectorByKey map[string]geometry.Connector, mag float64, p params.EngineParams, strat params.StrategyConfig) {
	type pairKey struct{ left, right string }
	type agg struct {
		sum     []float64
		weight  float64
		negated bool
		order   int
	}
	groups := make(map[pairKey]*agg)
	var order []pairKey
	for i, r := range rels {
		c, ok := connectorByKey[patternKey(r.ConnectorPattern)]
		if !ok {
			continue
		}
		key := pairKey{r.LeftWord, r.RightWord}
		g, exists := groups[key]
		if !exists {
			g = &agg{sum: make([]float64, p.Dimensions), order: i}
			groups[key] = g
			order = append(order, key)
		}
		g.sum = geometry.Add(g.sum, geometry.Scale(r.Weight, c.ForceDirection))
		g.weight += r.Weight
		if r.Negated {
			g.negated = true
		}
	}
	sort.Slice(order, func(i, j int) bool { return groups[order[i]].order < groups[order[j]].order })
	for _, key := range order {
		g := groups[key]
		if g.weight == 0 {
			continue
		}
		direction := geometry.Normalize(g.sum)
		applyForce(space, key.left, key.right, direction, mag, g.negated, p, strat)
	}
}

// applyForce implements apply_force(left, right, direction, mag, negated).
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
	}

	if strat.NegationModel == params.AxisShift || strat.NegationModel == params.SeparateDimension {
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
	default: // Linear
		scale := proj * mag * sign
		return geometry.Scale(scale, direction)
	}
}

// rotateLargestTwo swaps the two largest-magnitude components of
// direction with sign (-b, a), a 90 degree rotation in that plane, then
// renormalises.
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
