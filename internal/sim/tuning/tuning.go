package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var schemaJSON []byte

const schemaURL = "tuning.schema.json"

type Tuning struct {
	TickRateHz  int     `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	Seed        int64   `yaml:"seed" json:"seed"`
	Agents      int     `yaml:"agents" json:"agents"`
	Role        string  `yaml:"role" json:"role"`
	SpawnSpread float64 `yaml:"spawn_spread" json:"spawn_spread"`

	Grid       GridTuning   `yaml:"grid" json:"grid"`
	Movement   MoveTuning   `yaml:"movement" json:"movement"`
	HomeBuild  BuildTuning  `yaml:"home_build" json:"home_build"`
	FieldBuild BuildTuning  `yaml:"field_build" json:"field_build"`
	Farmer     FarmerTuning `yaml:"farmer" json:"farmer"`

	FieldGrowSeconds float64 `yaml:"field_grow_seconds" json:"field_grow_seconds"`
}

type GridTuning struct {
	CellWidth    float64 `yaml:"cell_width" json:"cell_width"`
	CellHeight   float64 `yaml:"cell_height" json:"cell_height"`
	DistanceStep int     `yaml:"distance_step" json:"distance_step"`
}

type MoveTuning struct {
	Speed         float64 `yaml:"speed" json:"speed"`
	MaxStepHeight float64 `yaml:"max_step_height" json:"max_step_height"`
	StepPeriod    float64 `yaml:"step_period" json:"step_period"`
}

type BuildTuning struct {
	Radius   float64    `yaml:"radius" json:"radius"`
	Offset   [2]float64 `yaml:"offset" json:"offset"`
	Duration float64    `yaml:"duration" json:"duration"`
}

type FarmerTuning struct {
	MaxFieldCount int    `yaml:"max_field_count" json:"max_field_count"`
	Resource      string `yaml:"resource" json:"resource"`
}

const RoleFarmer = "FARMER"

func Defaults() Tuning {
	return Tuning{
		TickRateHz:  10,
		Seed:        1337,
		Agents:      4,
		Role:        RoleFarmer,
		SpawnSpread: 800,
		Grid:        GridTuning{CellWidth: 200, CellHeight: 200, DistanceStep: 3},
		Movement:    MoveTuning{Speed: 100, MaxStepHeight: 20, StepPeriod: 0.1},
		HomeBuild:   BuildTuning{Radius: 600, Offset: [2]float64{0, 100}, Duration: 2},
		FieldBuild:  BuildTuning{Radius: 100, Offset: [2]float64{0, 100}, Duration: 1},
		Farmer:      FarmerTuning{MaxFieldCount: 3, Resource: "WHEAT"},

		FieldGrowSeconds: 10,
	}
}

// Load reads tuning.yaml, validates it against the embedded schema and
// overlays it on Defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := Validate(raw); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Validate checks a YAML document against the tuning schema.
func Validate(raw []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	// The validator expects JSON-decoded values (float64, map[string]any).
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("tuning schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("tuning schema: %w", err)
	}
	return s, nil
}
