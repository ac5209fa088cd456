package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/erqsim/erqsim/sim"
)

// CurrentVersion is the workload file format this package writes and reads.
const CurrentVersion = "1"

// DefaultClassName names the single class used when a workload lists none.
const DefaultClassName = "default"

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version string  `yaml:"version"`
	Seed    int64   `yaml:"seed"`
	Servers int     `yaml:"servers"`
	Horizon float64 `yaml:"horizon"`

	Arrival ArrivalSpec `yaml:"arrival"`
	Service DistSpec    `yaml:"service"`

	Classes []sim.PriorityClass `yaml:"classes,omitempty"`
	// PriorityWeights is shorthand for Classes: category → weight, with
	// priorities assigned in sorted name order.
	PriorityWeights map[string]float64    `yaml:"priority_weights,omitempty"`
	Arrivals        []sim.ScriptedArrival `yaml:"arrivals,omitempty"` // replaces the generator when non-empty
	Trace           bool                  `yaml:"trace,omitempty"`
}

// DistSpec parameterizes a sampled duration.
type DistSpec struct {
	Distribution string  `yaml:"distribution,omitempty"` // "exponential" (default) or "constant"
	Mean         float64 `yaml:"mean"`
}

// ArrivalSpec parameterizes the arrival generator.
type ArrivalSpec struct {
	DistSpec    `yaml:",inline"`
	MaxArrivals int `yaml:"max_arrivals,omitempty"` // 0 = unlimited
}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// ParseWorkloadSpec parses a YAML workload specification.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if spec.Version == "" {
		spec.Version = CurrentVersion
	}
	return &spec, nil
}

// Validate checks that the spec converts into a runnable configuration.
// Errors from the engine's own validation wrap sim.ErrInvalidParameter.
func (s *WorkloadSpec) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported workload version %q; valid: %s", s.Version, CurrentVersion)
	}
	if len(s.Classes) > 0 && len(s.PriorityWeights) > 0 {
		return fmt.Errorf("classes and priority_weights are mutually exclusive")
	}
	cfg := s.ToRunConfig()
	return cfg.Validate()
}

// ToRunConfig converts the spec into engine configuration.
// A workload without classes gets a single DefaultClassName class.
func (s *WorkloadSpec) ToRunConfig() sim.RunConfig {
	classes := append([]sim.PriorityClass(nil), s.Classes...)
	if len(classes) == 0 && len(s.PriorityWeights) > 0 {
		classes = sim.ClassesFromWeights(s.PriorityWeights)
	}
	if len(classes) == 0 {
		classes = []sim.PriorityClass{{Name: DefaultClassName, Priority: 0, Weight: 1}}
	}
	return sim.RunConfig{
		NumServers:          s.Servers,
		MeanArrivalInterval: s.Arrival.Mean,
		MeanServiceTime:     s.Service.Mean,
		Horizon:             s.Horizon,
		Classes:             classes,
		Seed:                s.Seed,
		ArrivalDistribution: s.Arrival.Distribution,
		ServiceDistribution: s.Service.Distribution,
		MaxArrivals:         s.Arrival.MaxArrivals,
		Arrivals:            append([]sim.ScriptedArrival(nil), s.Arrivals...),
		Trace:               s.Trace,
	}
}

// Save writes the spec as YAML to path.
func (s *WorkloadSpec) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling workload spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workload spec: %w", err)
	}
	return nil
}
