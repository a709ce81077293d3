package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw is in radians about world up.
	Yaw float64 `yaml:"yaw"`
}

type ColliderComponentSpec struct {
	Half Vec3Spec `yaml:"half"`
}

type PlayerComponentSpec struct {
	MoveStep      float64 `yaml:"move_step"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	GravityRate   float64 `yaml:"gravity_rate"`
	ProbeLength   float64 `yaml:"probe_length"`
	StartDashTime float64 `yaml:"start_dash_time"`
	DashLift      float64 `yaml:"dash_lift"`
	DashSideSpeed float64 `yaml:"dash_side_speed"`
	TurnRate      float64 `yaml:"turn_rate"`
}

type ProjectileComponentSpec struct {
	Speed       float64  `yaml:"speed"`
	Range       float64  `yaml:"range"`
	TurnRate    float64  `yaml:"turn_rate"`
	Guidance    string   `yaml:"guidance"`
	LocalOffset Vec3Spec `yaml:"local_offset"`
}

type KeyframeSpec struct {
	Frame int     `yaml:"frame"`
	Value float64 `yaml:"value"`
}

type SlideAnimationComponentSpec struct {
	FPS  float64        `yaml:"fps"`
	Loop bool           `yaml:"loop"`
	Keys []KeyframeSpec `yaml:"keys"`
}

type AgentComponentSpec struct {
	TurnRate float64 `yaml:"turn_rate"`
}

type TTLComponentSpec struct {
	Millis float64 `yaml:"millis"`
}
