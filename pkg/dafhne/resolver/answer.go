// Package resolver decodes questions against a trained GeometricSpace
// using both geometric distance and definition-chain verification.
package resolver

// Answer is the sum type the resolver always yields: Yes, No, IDontKnow,
// or a literal Word phrase.
type Answer struct {
	Kind string // "yes", "no", "idk", "word"
	Word string // populated when Kind == "word"
	// Distance is the normalised geometric distance the answer was
	// derived from, used by composition and the evaluator's confidence
	// calculation. Zero for Word answers.
	Distance float64
}

var (
	Yes = Answer{Kind: "yes"}
	No  = Answer{Kind: "no"}
	IDK = Answer{Kind: "idk"}
)

// WordAnswer constructs a Word answer.
func WordAnswer(w string) Answer { return Answer{Kind: "word", Word: w} }

// YesD/NoD/IDKD attach a distance to the corresponding answer kind.
func YesD(dist float64) Answer { return Answer{Kind: "yes", Distance: dist} }
func NoD(dist float64) Answer  { return Answer{Kind: "no", Distance: dist} }
func IDKD(dist float64) Answer { return Answer{Kind: "idk", Distance: dist} }

// IsYes, IsNo, IsIDK, IsWord report the answer's kind.
func (a Answer) IsYes() bool  { return a.Kind == "yes" }
func (a Answer) IsNo() bool   { return a.Kind == "no" }
func (a Answer) IsIDK() bool  { return a.Kind == "idk" }
func (a Answer) IsWord() bool { return a.Kind == "word" }
