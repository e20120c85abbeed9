// Package params defines EngineParams and StrategyConfig, the tunable and
// discrete-choice knobs every builder and the resolver must honour, plus
// their YAML/JSON persistence.
package params

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
	"gopkg.in/yaml.v3"
)

// EngineParams are the tuning knobs every builder and the resolver must
// honour. Field names follow snake_case in serialised form to match the
// persisted-artifact contract.
type EngineParams struct {
	Dimensions            int     `json:"dimensions" yaml:"dimensions"`
	LearningPasses        int     `json:"learning_passes" yaml:"learning_passes"`
	ForceMagnitude        float64 `json:"force_magnitude" yaml:"force_magnitude"`
	ForceDecay            float64 `json:"force_decay" yaml:"force_decay"`
	ConnectorMinFrequency int     `json:"connector_min_frequency" yaml:"connector_min_frequency"`
	ConnectorMaxLength    int     `json:"connector_max_length" yaml:"connector_max_length"`
	YesThreshold          float64 `json:"yes_threshold" yaml:"yes_threshold"`
	NoThreshold           float64 `json:"no_threshold" yaml:"no_threshold"`
	NegationInversion     float64 `json:"negation_inversion" yaml:"negation_inversion"`
	BidirectionalForce    float64 `json:"bidirectional_force" yaml:"bidirectional_force"`
	GrammarWeight         float64 `json:"grammar_weight" yaml:"grammar_weight"`
	MaxFollowPerHop       int     `json:"max_follow_per_hop" yaml:"max_follow_per_hop"`
	MaxChainHops          int     `json:"max_chain_hops" yaml:"max_chain_hops"`
	WeightedDistanceAlpha float64 `json:"weighted_distance_alpha" yaml:"weighted_distance_alpha"`
	UniformityNumBuckets  int     `json:"uniformity_num_buckets" yaml:"uniformity_num_buckets"`
	UniformityThreshold   float64 `json:"uniformity_threshold" yaml:"uniformity_threshold"`
	RNGSeed               uint64  `json:"rng_seed" yaml:"rng_seed"`

	// Sequential-equilibrium-only knobs, carried in EngineParams
	// rather than a second params struct since both builders consume the
	// same genome file.
	PerturbationStrength float64 `json:"perturbation_strength" yaml:"perturbation_strength"`
	MaxRelaxSteps        int     `json:"max_relax_steps" yaml:"max_relax_steps"`
	EnergyThreshold      float64 `json:"energy_threshold" yaml:"energy_threshold"`
	LearningRate         float64 `json:"learning_rate" yaml:"learning_rate"`
	DampingFactor        float64 `json:"damping_factor" yaml:"damping_factor"`
}

// Default returns a reasonable baseline EngineParams, used by the CLIs
// when no genome file is supplied.
func Default() EngineParams {
	return EngineParams{
		Dimensions:            8,
		LearningPasses:        40,
		ForceMagnitude:        0.05,
		ForceDecay:            0.98,
		ConnectorMinFrequency: 2,
		ConnectorMaxLength:    3,
		YesThreshold:          0.6,
		NoThreshold:           1.4,
		NegationInversion:     -1.0,
		BidirectionalForce:    0.5,
		GrammarWeight:         0.5,
		MaxFollowPerHop:       3,
		MaxChainHops:          4,
		WeightedDistanceAlpha: 0.5,
		UniformityNumBuckets:  5,
		UniformityThreshold:   0.5,
		RNGSeed:               42,
		PerturbationStrength:  0.05,
		MaxRelaxSteps:         3,
		EnergyThreshold:       1e-4,
		LearningRate:          0.1,
		DampingFactor:         0.5,
	}
}

// Validate checks the invariants a config must satisfy before training
// starts.
func (p EngineParams) Validate() error {
	if p.Dimensions < 4 {
		return fmt.Errorf("%w: dimensions must be >= 4, got %d", internalerr.ErrInvalidConfig, p.Dimensions)
	}
	if p.YesThreshold >= p.NoThreshold {
		return fmt.Errorf("%w: yes_threshold must be < no_threshold", internalerr.ErrInvalidConfig)
	}
	if p.NegationInversion < -1 || p.NegationInversion > 1 {
		return fmt.Errorf("%w: negation_inversion must be in [-1,1]", internalerr.ErrInvalidConfig)
	}
	if p.BidirectionalForce < 0 || p.BidirectionalForce > 1 {
		return fmt.Errorf("%w: bidirectional_force must be in [0,1]", internalerr.ErrInvalidConfig)
	}
	if p.WeightedDistanceAlpha <= 0 || p.WeightedDistanceAlpha > 1 {
		return fmt.Errorf("%w: weighted_distance_alpha must be in (0,1]", internalerr.ErrInvalidConfig)
	}
	return nil
}

// ForceFunction selects the force-magnitude curve applied per relation.
type ForceFunction string

const (
	Linear          ForceFunction = "linear"
	InverseDistance ForceFunction = "inverse_distance"
	Gravitational   ForceFunction = "gravitational"
	Spring          ForceFunction = "spring"
)

// ConnectorDetection selects the connector-discovery selection strategy.
type ConnectorDetection string

const (
	FrequencyOnly     ConnectorDetection = "frequency_only"
	PositionalBias    ConnectorDetection = "positional_bias"
	MutualInformation ConnectorDetection = "mutual_information"
)

// SpaceInit selects how word positions are initialised before training.
type SpaceInit string

const (
	Random         SpaceInit = "random"
	Spherical      SpaceInit = "spherical"
	FromConnectors SpaceInit = "from_connectors"
)

// MultiConnector selects how multiple connectors between the same pair
// are combined within a force-field pass.
type MultiConnector string

const (
	Sequential    MultiConnector = "sequential"
	FirstOnly     MultiConnector = "first_only"
	Weighted      MultiConnector = "weighted"
	Compositional MultiConnector = "compositional"
)

// NegationModel selects how negated relations affect force application
// and Yes/No resolution.
type NegationModel string

const (
	Inversion        NegationModel = "inversion"
	Repulsion        NegationModel = "repulsion"
	AxisShift        NegationModel = "axis_shift"
	SeparateDimension NegationModel = "separate_dimension"
)

// StrategyConfig is the engine's discrete-choice configuration.
type StrategyConfig struct {
	ForceFunction      ForceFunction      `json:"force_function" yaml:"force_function"`
	ConnectorDetection ConnectorDetection `json:"connector_detection" yaml:"connector_detection"`
	SpaceInit          SpaceInit          `json:"space_init" yaml:"space_init"`
	MultiConnector     MultiConnector     `json:"multi_connector" yaml:"multi_connector"`
	NegationModel      NegationModel      `json:"negation_model" yaml:"negation_model"`
	UseConnectorAxis   bool               `json:"use_connector_axis" yaml:"use_connector_axis"`
}

// DefaultStrategy returns the baseline discrete-choice configuration.
func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		ForceFunction:      Linear,
		ConnectorDetection: FrequencyOnly,
		SpaceInit:          Spherical,
		MultiConnector:     Sequential,
		NegationModel:      Inversion,
		UseConnectorAxis:   true,
	}
}

// Genome bundles EngineParams and StrategyConfig as the single unit the
// evolutionary driver (out of scope here) would mutate, and the unit the
// demo/eval CLIs load from a JSON file.
type Genome struct {
	Params   EngineParams   `json:"params" yaml:"params"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
}

// DefaultGenome returns Default params paired with DefaultStrategy.
func DefaultGenome() Genome {
	return Genome{Params: Default(), Strategy: DefaultStrategy()}
}

// LoadGenomeJSON reads a Genome from its persisted JSON form.
func LoadGenomeJSON(r io.Reader) (Genome, error) {
	var g Genome
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Genome{}, fmt.Errorf("%w: decoding genome json: %v", internalerr.ErrMalformedInput, err)
	}
	return g, nil
}

// LoadGenomeFile reads a Genome from a JSON file on disk.
func LoadGenomeFile(path string) (Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return Genome{}, fmt.Errorf("dafhne: opening genome file: %w", err)
	}
	defer f.Close()
	return LoadGenomeJSON(f)
}

// SaveGenomeJSON writes g as indented JSON.
func SaveGenomeJSON(w io.Writer, g Genome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

// LoadGenomeYAML reads a Genome from YAML, the format preferred for
// hand-edited configs.
func LoadGenomeYAML(r io.Reader) (Genome, error) {
	var g Genome
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return Genome{}, fmt.Errorf("%w: decoding genome yaml: %v", internalerr.ErrMalformedInput, err)
	}
	return g, nil
}
