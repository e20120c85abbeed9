// Package connector discovers which token patterns behave as stable
// semantic connectors — frequency/positional/mutual-information
// selection, an alphabetical-bucket uniformity filter, and seeded-RNG
// direction assignment.
package connector

import (
	"math"
	"sort"
	"strings"

	"github.com/dafhne/engine/pkg/dafhne/dictionary"
	"github.com/dafhne/engine/pkg/dafhne/geometry"
	"github.com/dafhne/engine/pkg/dafhne/params"
	"github.com/dafhne/engine/pkg/dafhne/relation"
	"github.com/dafhne/engine/pkg/dafhne/rng"
)

// candidate tracks the counts needed by every selection strategy for one
// pattern, keyed by its joined pattern string.
type candidate struct {
	pattern      []string
	frequency    int
	positionBonus float64
	miSum        float64
	miCount      int
}

// Discover runs the full connector-discovery pipeline: count, select,
// uniformity-filter, then assign directions in frequency-descending
// (then lexicographic) order from the seeded RNG.
func Discover(rels []relation.SentenceRelation, d *dictionary.Dictionary, p params.EngineParams, strat params.StrategyConfig) []geometry.Connector {
	candidates := count(rels)
	survivors := selectCandidates(candidates, rels, strat.ConnectorDetection, p.ConnectorMinFrequency)
	survivors = uniformityFilter(survivors, d, p.UniformityNumBuckets, p.UniformityThreshold)

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].frequency != survivors[j].frequency {
			return survivors[i].frequency > survivors[j].frequency
		}
		return patternKey(survivors[i].pattern) < patternKey(survivors[j].pattern)
	})

	source := rng.New(p.RNGSeed)
	out := make([]geometry.Connector, 0, len(survivors))
	for _, c := range survivors {
		direction := randomUnitVector(source, p.Dimensions)
		uniformity := uniformityOf(c.pattern, d, p.UniformityNumBuckets)
		out = append(out, geometry.Connector{
			Pattern:        c.pattern,
			ForceDirection: direction,
			Magnitude:      1.0,
			Frequency:      c.frequency,
			Uniformity:     uniformity,
		})
	}
	return out
}

func count(rels []relation.SentenceRelation) map[string]*candidate {
	out := make(map[string]*candidate)
	for _, r := range rels {
		key := patternKey(r.ConnectorPattern)
		c, ok := out[key]
		if !ok {
			c = &candidate{pattern: append([]string{}, r.ConnectorPattern...)}
			out[key] = c
		}
		c.frequency++
	}
	return out
}

func selectCandidates(candidates map[string]*candidate, rels []relation.SentenceRelation, mode params.ConnectorDetection, minFreq int) []*candidate {
	var out []*candidate
	switch mode {
	case params.PositionalBias:
		applyPositionalBonus(candidates, rels)
		for _, c := range candidates {
			if float64(c.frequency)+c.positionBonus >= float64(minFreq) {
				out = append(out, c)
			}
		}
	case params.MutualInformation:
		applyMutualInformation(candidates, rels)
		for _, c := range candidates {
			if c.miCount > 0 && c.miSum/float64(c.miCount) > 0 {
				out = append(out, c)
			}
		}
	default: // FrequencyOnly
		for _, c := range candidates {
			if c.frequency >= minFreq {
				out = append(out, c)
			}
		}
	}
	return out
}

// applyPositionalBonus adds half the count of definitions in which the
// pattern appears within the first 5 token positions of a sentence,
// crediting each definition at most once per pattern. Reported frequency
// stays raw; only the selection threshold sees the bonus.
func applyPositionalBonus(candidates map[string]*candidate, rels []relation.SentenceRelation) {
	seen := make(map[string]map[string]struct{})
	for _, r := range rels {
		if !r.FromDefinition || r.PatternPos >= 5 {
			continue
		}
		key := patternKey(r.ConnectorPattern)
		c, ok := candidates[key]
		if !ok {
			continue
		}
		entries := seen[key]
		if entries == nil {
			entries = make(map[string]struct{})
			seen[key] = entries
		}
		if _, dup := entries[r.Entry]; dup {
			continue
		}
		entries[r.Entry] = struct{}{}
		c.positionBonus += 0.5
	}
}

func applyMutualInformation(candidates map[string]*candidate, rels []relation.SentenceRelation) {
	leftCount := make(map[string]int)
	rightCount := make(map[string]int)
	pairCount := make(map[string]int)
	total := len(rels)
	for _, r := range rels {
		leftCount[r.LeftWord]++
		rightCount[r.RightWord]++
		pairCount[r.LeftWord+"\x00"+r.RightWord]++
	}
	for _, r := range rels {
		key := patternKey(r.ConnectorPattern)
		c, ok := candidates[key]
		if !ok {
			continue
		}
		pc := pairCount[r.LeftWord+"\x00"+r.RightWord]
		lc := leftCount[r.LeftWord]
		rc := rightCount[r.RightWord]
		if lc == 0 || rc == 0 || total == 0 {
			continue
		}
		score := math.Log(float64(pc) * float64(total) / (float64(lc) * float64(rc)))
		c.miSum += score
		c.miCount++
	}
}

// uniformityFilter partitions entries alphabetically into numBuckets
// equal-sized buckets and keeps only patterns whose per-bucket hit ratio
// is sufficiently uniform. Skipped entirely below 100 entries, where
// bucket ratios are too noisy to be meaningful.
func uniformityFilter(candidates []*candidate, d *dictionary.Dictionary, numBuckets int, threshold float64) []*candidate {
	if d.Len() < 100 {
		return candidates
	}
	var out []*candidate
	for _, c := range candidates {
		if uniformityOf(c.pattern, d, numBuckets) > threshold {
			out = append(out, c)
		}
	}
	return out
}

func uniformityOf(pattern []string, d *dictionary.Dictionary, numBuckets int) float64 {
	if numBuckets <= 0 {
		numBuckets = 1
	}
	buckets := bucketize(d, numBuckets)
	ratios := make([]float64, 0, len(buckets))
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			ratios = append(ratios, 0)
			continue
		}
		hits := 0
		for _, idx := range bucket {
			e := d.Entries[idx]
			text := e.Definition + " " + strings.Join(e.Examples, " ")
			if containsWindow(text, pattern) {
				hits++
			}
		}
		ratios = append(ratios, float64(hits)/float64(len(bucket)))
	}
	mean := meanOf(ratios)
	variance := varianceOf(ratios, mean)
	const epsilon = 1e-9
	return 1 - variance/(mean*mean+epsilon)
}

// bucketize partitions entry indices into numBuckets equal-sized groups
// ordered alphabetically by head-word.
func bucketize(d *dictionary.Dictionary, numBuckets int) [][]int {
	indices := make([]int, d.Len())
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return d.Entries[indices[i]].Word < d.Entries[indices[j]].Word
	})

	buckets := make([][]int, numBuckets)
	n := len(indices)
	for b := 0; b < numBuckets; b++ {
		start := n * b / numBuckets
		end := n * (b + 1) / numBuckets
		buckets[b] = indices[start:end]
	}
	return buckets
}

func containsWindow(text string, pattern []string) bool {
	if len(pattern) == 0 {
		return false
	}
	words := strings.Fields(strings.ToLower(text))
	for i := 0; i+len(pattern) <= len(words); i++ {
		match := true
		for j, p := range pattern {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func varianceOf(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

func randomUnitVector(source *rng.Source, dimensions int) []float64 {
	v := make([]float64, dimensions)
	for i := range v {
		v[i] = source.Float64()*2 - 1
	}
	return geometry.Normalize(v)
}

func patternKey(pattern []string) string {
	return strings.Join(pattern, " ")
}
