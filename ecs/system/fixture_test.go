package system

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const frameMs = 50.0

var testGround = common.BoxAt(common.V3(0, -0.5, 0), common.V3(25, 0.5, 25))

type fixture struct {
	w          *ecs.World
	pw         *ecs.PhysicsWorld
	player     ecs.Entity
	projectile ecs.Entity
}

func defaultPlayer() *component.Player {
	return &component.Player{
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

func newFixture(t *testing.T, obstacles ...common.AABB) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(append([]common.AABB{testGround}, obstacles...)...)
	w.SetPhysicsWorld(pw)

	p := w.CreateEntity()
	mustAdd(t, ecs.Add(w, p, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	mustAdd(t, ecs.Add(w, p, component.TransformComponent.Kind(), &component.Transform{
		Position: common.V3(0, 0.5, 0),
		Rotation: common.QuatFromYaw(-math.Pi / 2),
	}))
	mustAdd(t, ecs.Add(w, p, component.ColliderComponent.Kind(), &component.Collider{Half: common.V3(0.5, 0.5, 0.5)}))
	mustAdd(t, ecs.Add(w, p, component.PlayerComponent.Kind(), defaultPlayer()))
	mustAdd(t, ecs.Add(w, p, component.MotionComponent.Kind(), &component.Motion{State: component.Grounded{}}))
	mustAdd(t, ecs.Add(w, p, component.InputComponent.Kind(), &component.Input{}))

	return &fixture{w: w, pw: pw, player: p}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func (f *fixture) addProjectile(t *testing.T, guidance component.GuidanceKind, rng float64) {
	t.Helper()
	e := f.w.CreateEntity()
	mustAdd(t, ecs.Add(f.w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{}))
	mustAdd(t, ecs.Add(f.w, e, component.TransformComponent.Kind(), &component.Transform{Rotation: common.IdentityQuat()}))
	mustAdd(t, ecs.Add(f.w, e, component.ColliderComponent.Kind(), &component.Collider{Half: common.V3(0.15, 0.15, 0.15)}))
	mustAdd(t, ecs.Add(f.w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		LocalOffset: common.V3(0, 0.7, 0),
		Speed:       0.1,
		Range:       rng,
		TurnRate:    0.05,
		Guidance:    guidance,
	}))
	f.projectile = e
}

func (f *fixture) addSpawner(t *testing.T) *component.TargetSpawner {
	t.Helper()
	e := f.w.CreateEntity()
	sp := &component.TargetSpawner{Prefab: "target.yaml", SpawnPoint: common.V3(0, 4, 20)}
	mustAdd(t, ecs.Add(f.w, e, component.TargetSpawnerComponent.Kind(), sp))
	return sp
}

func (f *fixture) addTarget(t *testing.T, at common.Vec3) ecs.Entity {
	t.Helper()
	e := f.w.CreateEntity()
	mustAdd(t, ecs.Add(f.w, e, component.TargetTagComponent.Kind(), &component.TargetTag{}))
	mustAdd(t, ecs.Add(f.w, e, component.TargetComponent.Kind(), &component.Target{}))
	mustAdd(t, ecs.Add(f.w, e, component.TransformComponent.Kind(), &component.Transform{Position: at, Rotation: common.IdentityQuat()}))
	mustAdd(t, ecs.Add(f.w, e, component.ColliderComponent.Kind(), &component.Collider{Half: common.OneVec}))
	return e
}

// frame advances the clock, sets the player's input and runs systems in order.
func (f *fixture) frame(in component.Input, systems ...ecs.System) {
	f.w.Advance(frameMs)
	if cur, ok := ecs.Get(f.w, f.player, component.InputComponent.Kind()); ok {
		*cur = in
	}
	for _, s := range systems {
		s.Update(f.w)
	}
}

func (f *fixture) pose(e ecs.Entity) component.Transform {
	t, _ := ecs.Get(f.w, e, component.TransformComponent.Kind())
	return *t
}

func (f *fixture) motion() *component.Motion {
	m, _ := ecs.Get(f.w, f.player, component.MotionComponent.Kind())
	return m
}

func (f *fixture) playerState() *component.Player {
	p, _ := ecs.Get(f.w, f.player, component.PlayerComponent.Kind())
	return p
}

func held(acts ...component.Action) component.Input {
	var in component.Input
	for _, a := range acts {
		in.Held = in.Held.With(a)
	}
	return in
}

func pressed(acts ...component.Action) component.Input {
	in := held(acts...)
	in.Pressed = in.Held
	return in
}
