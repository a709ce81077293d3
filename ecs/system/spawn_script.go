package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/prefabs"
)

// SpawnScript picks target spawn points with a tengo script. The script sees
// respawns, base_x, base_y and base_z and must define a spawn map with x, y
// and z.
type SpawnScript struct {
	path     string
	compiled *tengo.Compiled
}

// LoadSpawnScript compiles the named script from prefabs.
func LoadSpawnScript(path string) (*SpawnScript, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("system: load spawn script: %w", err)
	}
	s, err := NewSpawnScript(src)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

func NewSpawnScript(src []byte) (*SpawnScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("respawns", 0)
	_ = script.Add("base_x", 0.0)
	_ = script.Add("base_y", 0.0)
	_ = script.Add("base_z", 0.0)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile spawn script: %w", err)
	}
	return &SpawnScript{compiled: compiled}, nil
}

func (s *SpawnScript) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Point runs the script for the given respawn count.
func (s *SpawnScript) Point(respawns int, base common.Vec3) (common.Vec3, error) {
	if s == nil || s.compiled == nil {
		return base, nil
	}
	c := s.compiled.Clone()
	for name, v := range map[string]any{
		"respawns": respawns,
		"base_x":   base.X,
		"base_y":   base.Y,
		"base_z":   base.Z,
	} {
		if err := c.Set(name, v); err != nil {
			return base, fmt.Errorf("system: spawn script set %s: %w", name, err)
		}
	}
	if err := c.Run(); err != nil {
		return base, fmt.Errorf("system: run spawn script: %w", err)
	}
	if !c.IsDefined("spawn") {
		return base, fmt.Errorf("system: spawn script: spawn is not defined")
	}
	m := c.Get("spawn").Map()
	if m == nil {
		return base, fmt.Errorf("system: spawn script: spawn is not a map")
	}
	out := base
	for key, dst := range map[string]*float64{"x": &out.X, "y": &out.Y, "z": &out.Z} {
		v, ok := m[key]
		if !ok {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return base, fmt.Errorf("system: spawn script: %s is %T, want a number", key, v)
		}
		*dst = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
