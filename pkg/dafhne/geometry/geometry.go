// Package geometry implements the WordPoint/GeometricSpace data model and
// the vector arithmetic the force-field, equilibrium, and resolver
// packages build on, using gonum for the underlying numerics instead of
// hand-rolled loops.
package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WordPoint is a single head-word's position in a d-dimensional space.
type WordPoint struct {
	Word     string    `json:"word"`
	Position []float64 `json:"position"`
}

// Connector is a discovered token pattern with a unit force direction.
type Connector struct {
	Pattern        []string  `json:"pattern"`
	ForceDirection []float64 `json:"force_direction"`
	Magnitude      float64   `json:"magnitude"`
	Frequency      int       `json:"frequency"`
	Uniformity     float64   `json:"uniformity"`
}

// DistanceStats caches the pairwise Euclidean mean and standard deviation
// over every pair of placed words, computed once after training.
type DistanceStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Space is a trained GeometricSpace: a fixed dimensionality, a
// word->position map, a frequency-sorted connector list, and cached
// distance statistics. The word_order array, not the map, carries
// iteration order through serialisation.
type Space struct {
	Dimensions    int                   `json:"dimensions"`
	Words         map[string]*WordPoint `json:"words"`
	WordOrder     []string              `json:"word_order"` // insertion order, for deterministic iteration
	Connectors    []Connector           `json:"connectors"`
	DistanceStats DistanceStats         `json:"distance_stats"`
}

// NewSpace returns an empty space of the given dimensionality.
func NewSpace(dimensions int) *Space {
	return &Space{
		Dimensions: dimensions,
		Words:      make(map[string]*WordPoint),
	}
}

// Place inserts or overwrites the position of word, recording insertion
// order the first time the word is seen.
func (s *Space) Place(word string, position []float64) {
	if _, exists := s.Words[word]; !exists {
		s.WordOrder = append(s.WordOrder, word)
	}
	s.Words[word] = &WordPoint{Word: word, Position: position}
}

// Position returns the position vector for word and whether it exists.
func (s *Space) Position(word string) ([]float64, bool) {
	p, ok := s.Words[word]
	if !ok {
		return nil, false
	}
	return p.Position, true
}

// SortConnectors orders Connectors by frequency descending, with a
// lexicographic tie-break on the joined pattern — the ordering required
// of every GeometricSpace invariant.
func (s *Space) SortConnectors() {
	sort.SliceStable(s.Connectors, func(i, j int) bool {
		if s.Connectors[i].Frequency != s.Connectors[j].Frequency {
			return s.Connectors[i].Frequency > s.Connectors[j].Frequency
		}
		return patternKey(s.Connectors[i].Pattern) < patternKey(s.Connectors[j].Pattern)
	})
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

// FindConnector returns the first connector whose pattern matches exactly.
func (s *Space) FindConnector(pattern []string) (Connector, bool) {
	key := patternKey(pattern)
	for _, c := range s.Connectors {
		if patternKey(c.Pattern) == key {
			return c, true
		}
	}
	return Connector{}, false
}

// Add returns a + b.
func Add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	floats.Add(out, b)
	return out
}

// Sub returns a - b.
func Sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	floats.SubTo(out, a, b)
	return out
}

// Scale returns s * v.
func Scale(s float64, v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	floats.Scale(s, out)
	return out
}

// Dot returns a . b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Norm returns the Euclidean (L2) norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Normalize returns v scaled to unit L2 norm, or a zero-safe copy of v if
// its norm is (near) zero.
func Normalize(v []float64) []float64 {
	n := Norm(v)
	if n < 1e-12 {
		return append([]float64{}, v...)
	}
	return Scale(1/n, v)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64) float64 {
	return Norm(Sub(a, b))
}

// WeightedDistance computes sqrt(sum_i (alpha + (1-alpha)*|d_i|) * (a_i-b_i)^2)
// per the resolver's What-Is weighted-distance rule, where d is a
// connector direction and alpha in (0,1].
func WeightedDistance(a, b, direction []float64, alpha float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		w := alpha + (1-alpha)*math.Abs(direction[i])
		sum += w * diff * diff
	}
	return math.Sqrt(sum)
}

// AxisExcludedDistance computes the Euclidean distance between a and b
// with the component along direction (assumed unit-norm) projected out.
func AxisExcludedDistance(a, b, direction []float64) float64 {
	delta := Sub(a, b)
	proj := Dot(delta, direction)
	residual := Sub(delta, Scale(proj, direction))
	return Norm(residual)
}

// AxisProjectedDistance computes the absolute scalar projection of
// (a - b) onto direction (assumed unit-norm).
func AxisProjectedDistance(a, b, direction []float64) float64 {
	return math.Abs(Dot(Sub(a, b), direction))
}

// SafeDistance masks non-finite distances to +Inf, per the engine's
// numerical error-handling rule: NaN or infinite distances are treated
// as maximum (and therefore IDontKnow) rather than propagated.
func SafeDistance(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return math.Inf(1)
	}
	return d
}

// ComputeDistanceStats computes the mean and standard deviation of
// pairwise Euclidean distance across every placed word, using gonum/stat
// rather than a hand-rolled accumulator.
func ComputeDistanceStats(s *Space) DistanceStats {
	var samples []float64
	words := s.WordOrder
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			pi, _ := s.Position(words[i])
			pj, _ := s.Position(words[j])
			samples = append(samples, Distance(pi, pj))
		}
	}
	if len(samples) == 0 {
		return DistanceStats{}
	}
	mean := stat.Mean(samples, nil)
	std := stat.StdDev(samples, nil)
	return DistanceStats{Mean: mean, Std: std}
}

// MeanAxisProjectedDistance computes the mean absolute axis-projected
// distance over all placed word pairs, used to normalise axis-projected
// Yes/No resolution.
func MeanAxisProjectedDistance(s *Space, direction []float64) float64 {
	words := s.WordOrder
	var sum float64
	var n int
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			pi, _ := s.Position(words[i])
			pj, _ := s.Position(words[j])
			sum += AxisProjectedDistance(pi, pj, direction)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanAxisExcludedDistance computes the mean axis-excluded distance over
// all placed word pairs, the normaliser matching distances measured with
// one axis projected out.
func MeanAxisExcludedDistance(s *Space, direction []float64) float64 {
	words := s.WordOrder
	var sum float64
	var n int
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			pi, _ := s.Position(words[i])
			pj, _ := s.Position(words[j])
			sum += AxisExcludedDistance(pi, pj, direction)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanDim0Distance computes the mean absolute coordinate-0 distance over
// all placed word pairs, the normaliser matching distances measured on
// the negation dimension alone.
func MeanDim0Distance(s *Space) float64 {
	words := s.WordOrder
	var sum float64
	var n int
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			pi, _ := s.Position(words[i])
			pj, _ := s.Position(words[j])
			sum += math.Abs(pi[0] - pj[0])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
