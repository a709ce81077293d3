package entity

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/nav"
	"github.com/milk9111/pursuit/prefabs"
)

func TestNewPlayerFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.Position != common.V3(-4, 0.5, 0) {
		t.Fatalf("player transform %+v", tr)
	}
	if math.Abs(tr.Rotation.Yaw()-(-math.Pi/2)) > 1e-9 {
		t.Fatalf("player yaw %v", tr.Rotation.Yaw())
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	if p.GravityRate != 1.0/3000 || p.JumpSpeed != 0.20 {
		t.Fatalf("player tuning %+v", p)
	}
	for _, has := range []bool{
		ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		ecs.Has(w, e, component.InputComponent.Kind()),
		ecs.Has(w, e, component.MotionComponent.Kind()),
		ecs.Has(w, e, component.ColliderComponent.Kind()),
	} {
		if !has {
			t.Fatalf("player missing a component")
		}
	}
}

func TestNewProjectileOverrides(t *testing.T) {
	w := ecs.NewWorld()
	owner, _ := NewPlayer(w)
	e, err := NewProjectile(w, owner, component.GuidanceStraight, 20)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if p.Guidance != component.GuidanceStraight || p.Range != 20 || p.AttachedTo != uint64(owner) {
		t.Fatalf("projectile %+v", p)
	}
	if p.LocalOffset != common.V3(0, 0.7, 0) || p.Phase != component.ProjectileParked {
		t.Fatalf("projectile %+v", p)
	}
}

func TestNewTargetAtMovesAnimationBase(t *testing.T) {
	w := ecs.NewWorld()
	at := common.V3(-6, 4, 20)
	e, err := NewTargetAt(w, at)
	if err != nil {
		t.Fatal(err)
	}
	anim, ok := ecs.Get(w, e, component.SlideAnimationComponent.Kind())
	if !ok || anim.BaseX != -6 || len(anim.Keys) != 5 {
		t.Fatalf("animation %+v", anim)
	}
	spawn, err := TargetSpawnPoint()
	if err != nil || spawn != common.V3(0, 4, 20) {
		t.Fatalf("spawn point %v %v", spawn, err)
	}
}

func TestBuildEntityErrors(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(nil, "player.yaml"); err == nil {
		t.Fatalf("nil world accepted")
	}
	if _, err := BuildEntity(w, "missing.yaml"); err == nil {
		t.Fatalf("missing prefab accepted")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed builds leaked %d entities", n)
	}
}

func TestLayoutLevelIsSeeded(t *testing.T) {
	spec := prefabs.DefaultTuning().Level
	a, b := LayoutLevel(spec), LayoutLevel(spec)
	if len(a.NavObstacles) != spec.CrateCount {
		t.Fatalf("%d crates", len(a.NavObstacles))
	}
	for i := range a.NavObstacles {
		if a.NavObstacles[i] != b.NavObstacles[i] {
			t.Fatalf("crate %d differs between layouts", i)
		}
		d := a.NavObstacles[i].Center.Flat().Length()
		if d < spec.RingRadius-spec.Jitter-1e-9 || d > spec.RingRadius+spec.Jitter+1e-9 {
			t.Fatalf("crate %d at radius %v", i, d)
		}
	}
}

func TestLevelAndAgents(t *testing.T) {
	w := ecs.NewWorld()
	lvl := LayoutLevel(prefabs.DefaultTuning().Level)
	pw, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		t.Fatal(err)
	}
	if len(pw.Obstacles()) != len(lvl.Colliders) || w.PhysicsWorld() != pw {
		t.Fatalf("physics world not installed")
	}
	mesh, err := nav.Bake(lvl.Surfaces, lvl.NavObstacles, nav.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	crowd := nav.NewCrowd(mesh)
	for i := 0; i < 3; i++ {
		e, err := NewAgent(w, crowd, common.V3(-2, 0.1, -1.8), nav.DefaultAgentParams())
		if err != nil {
			t.Fatal(err)
		}
		a, _ := ecs.Get(w, e, component.AgentComponent.Kind())
		if a.Index != i {
			t.Fatalf("agent %d got crowd index %d", i, a.Index)
		}
	}
	if crowd.AgentCount() != 3 {
		t.Fatalf("crowd has %d agents", crowd.AgentCount())
	}
	if _, err := NewMission(w, false); err != nil {
		t.Fatal(err)
	}
}
