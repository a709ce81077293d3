package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"target_tag":      addTargetTag,
	"projectile_tag":  addProjectileTag,
	"agent_tag":       addAgentTag,
	"static_tag":      addStaticTag,
	"transform":       addTransform,
	"collider":        addCollider,
	"input":           addInput,
	"motion":          addMotion,
	"player":          addPlayer,
	"projectile":      addProjectile,
	"target":          addTarget,
	"slide_animation": addSlideAnimation,
	"agent":           addAgent,
	"ttl":             addTTL,
}

// slide_animation reads the transform for its base X, so it builds after it.
var componentBuildOrder = []string{
	"player_tag",
	"target_tag",
	"projectile_tag",
	"agent_tag",
	"static_tag",
	"transform",
	"collider",
	"input",
	"motion",
	"player",
	"projectile",
	"target",
	"slide_animation",
	"agent",
	"ttl",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

// SetEntityPosition moves an entity, creating its transform when missing.
func SetEntityPosition(w *ecs.World, e ecs.Entity, pos common.Vec3) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{Rotation: common.IdentityQuat()}
	}
	t.Position = pos
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func vec(s prefabs.Vec3Spec) common.Vec3 {
	return common.V3(s.X, s.Y, s.Z)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addTargetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
}

func addProjectileTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{})
}

func addAgentTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{})
}

func addStaticTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.StaticTagComponent.Kind(), &component.StaticTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: vec(spec.Position),
		Rotation: common.QuatFromYaw(spec.Yaw),
	})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	half := vec(spec.Half)
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		return fmt.Errorf("collider half extents must be positive, got %v", half)
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Half: half})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addMotion(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{State: component.Falling{}})
}

type playerSpec = prefabs.PlayerComponentSpec

// DefaultPlayer is the player tuning used for fields a prefab leaves out.
func DefaultPlayer() component.Player {
	return component.Player{
		MoveStep:      0.1,
		JumpSpeed:     0.20,
		GravityRate:   1.0 / 3000,
		ProbeLength:   0.6,
		StartDashTime: 0.1,
		DashLift:      0.3,
		DashSideSpeed: 0.5,
		TurnRate:      0.3,
	}
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	p := DefaultPlayer()
	orDefault(&p.MoveStep, spec.MoveStep)
	orDefault(&p.JumpSpeed, spec.JumpSpeed)
	orDefault(&p.GravityRate, spec.GravityRate)
	orDefault(&p.ProbeLength, spec.ProbeLength)
	orDefault(&p.StartDashTime, spec.StartDashTime)
	orDefault(&p.DashLift, spec.DashLift)
	orDefault(&p.DashSideSpeed, spec.DashSideSpeed)
	orDefault(&p.TurnRate, spec.TurnRate)
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &p)
}

func orDefault(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

type projectileSpec = prefabs.ProjectileComponentSpec

func addProjectile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[projectileSpec](raw)
	if err != nil {
		return fmt.Errorf("decode projectile spec: %w", err)
	}
	guidance := component.GuidanceKind(spec.Guidance)
	switch guidance {
	case "":
		guidance = component.GuidanceHoming
	case component.GuidanceHoming, component.GuidanceStraight:
	default:
		return fmt.Errorf("unknown guidance %q", spec.Guidance)
	}
	p := &component.Projectile{
		Phase:       component.ProjectileParked,
		LocalOffset: vec(spec.LocalOffset),
		Speed:       0.1,
		Range:       50,
		TurnRate:    0.05,
		Guidance:    guidance,
	}
	orDefault(&p.Speed, spec.Speed)
	orDefault(&p.Range, spec.Range)
	orDefault(&p.TurnRate, spec.TurnRate)
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), p)
}

func addTarget(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetComponent.Kind(), &component.Target{})
}

type slideAnimationSpec = prefabs.SlideAnimationComponentSpec

func addSlideAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[slideAnimationSpec](raw)
	if err != nil {
		return fmt.Errorf("decode slide_animation spec: %w", err)
	}
	if spec.FPS <= 0 {
		return fmt.Errorf("slide_animation fps must be positive")
	}
	keys := make([]component.Keyframe, 0, len(spec.Keys))
	for i, k := range spec.Keys {
		if i > 0 && k.Frame < spec.Keys[i-1].Frame {
			return fmt.Errorf("slide_animation keys out of order at %d", i)
		}
		keys = append(keys, component.Keyframe{Frame: k.Frame, Value: k.Value})
	}
	anim := &component.SlideAnimation{Keys: keys, FPS: spec.FPS, Loop: spec.Loop}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		anim.BaseX = t.Position.X
	}
	return ecs.Add(w, e, component.SlideAnimationComponent.Kind(), anim)
}

type agentSpec = prefabs.AgentComponentSpec

func addAgent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[agentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode agent spec: %w", err)
	}
	a := &component.Agent{Index: -1, TurnRate: 0.05}
	orDefault(&a.TurnRate, spec.TurnRate)
	return ecs.Add(w, e, component.AgentComponent.Kind(), a)
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Millis <= 0 {
		return fmt.Errorf("ttl millis must be positive")
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Millis: spec.Millis})
}
