package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const TuningFile = "tuning.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// TuningSpec is the runtime configuration of a session.
type TuningSpec struct {
	Log        LogSpec        `yaml:"log"`
	Level      LevelSpec      `yaml:"level"`
	Navigation NavigationSpec `yaml:"navigation"`
	Combat     CombatSpec     `yaml:"combat"`
	Pursuit    PursuitSpec    `yaml:"pursuit"`
	Viewer     ViewerSpec     `yaml:"viewer"`
}

type LogSpec struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type LevelSpec struct {
	Seed       uint64  `yaml:"seed"`
	CrateCount int     `yaml:"crate_count"`
	RingRadius float64 `yaml:"ring_radius"`
	Jitter     float64 `yaml:"jitter"`
}

type NavigationSpec struct {
	CellSize       float64 `yaml:"cell_size"`
	WalkableRadius float64 `yaml:"walkable_radius"`
	QueryExtent    float64 `yaml:"query_extent"`
}

type CombatSpec struct {
	Guidance    string  `yaml:"guidance"`
	FireRange   float64 `yaml:"fire_range"`
	HitEffectMs float64 `yaml:"hit_effect_ms"`
	DebrisTTLMs float64 `yaml:"debris_ttl_ms"`
	DebrisCount int     `yaml:"debris_count"`
	DebrisSpeed float64 `yaml:"debris_speed"`
	SpawnScript string  `yaml:"spawn_script"`
}

type PursuitSpec struct {
	CrowdSize      int     `yaml:"crowd_size"`
	RetargetMs     float64 `yaml:"retarget_ms"`
	RestThreshold  float64 `yaml:"rest_threshold"`
	PickRadius     float64 `yaml:"pick_radius"`
	MissionScatter bool    `yaml:"mission_scatter"`
}

type ViewerSpec struct {
	Scale      float64   `yaml:"scale"`
	Background YAMLColor `yaml:"background"`
	ShowNav    bool      `yaml:"show_nav"`
}

// DefaultTuning mirrors the embedded tuning.yaml.
func DefaultTuning() TuningSpec {
	return TuningSpec{
		Log:        LogSpec{Level: "info", Format: "console"},
		Level:      LevelSpec{Seed: 42, CrateCount: 6, RingRadius: 15, Jitter: 2},
		Navigation: NavigationSpec{CellSize: 0.5, WalkableRadius: 1, QueryExtent: 5},
		Combat: CombatSpec{
			Guidance:    "homing",
			FireRange:   50,
			HitEffectMs: 3000,
			DebrisTTLMs: 5000,
			DebrisCount: 10,
			DebrisSpeed: 0.5,
		},
		Pursuit: PursuitSpec{CrowdSize: 1, RetargetMs: 3000, RestThreshold: 0.5, PickRadius: 1},
		Viewer:  ViewerSpec{Scale: 12, Background: YAMLColor{Color: color.NRGBA{R: 0x1b, G: 0x1e, B: 0x24, A: 0xff}}},
	}
}

// LoadTuning reads, validates and decodes a tuning file. Missing fields keep
// their defaults.
func LoadTuning(filename string) (TuningSpec, error) {
	if filename == "" {
		filename = TuningFile
	}
	data, err := Load(filename)
	if err != nil {
		return TuningSpec{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseTuning(data)
}

func ParseTuning(data []byte) (TuningSpec, error) {
	if err := ValidateTuning(data); err != nil {
		return TuningSpec{}, err
	}
	spec := DefaultTuning()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return TuningSpec{}, fmt.Errorf("prefabs: unmarshal tuning: %w", err)
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
