package system

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func TestTargetLifecycle(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 50)
	sp := f.addSpawner(t)

	var spawnedAt []common.Vec3
	spawn := func(w *ecs.World, at common.Vec3) (ecs.Entity, error) {
		spawnedAt = append(spawnedAt, at)
		return f.addTarget(t, at), nil
	}
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())
	respawn := NewRespawnSystem(spawn, nil)

	// Arming the projectile makes the spawner ready for the first target.
	f.frame(component.Input{}, combat, respawn)
	te, ok := f.w.First(component.TargetComponent.Kind())
	if !ok || len(spawnedAt) != 1 || spawnedAt[0] != sp.SpawnPoint {
		t.Fatalf("first target not spawned at the spawn point: %v", spawnedAt)
	}
	if !sp.Guarded || sp.Ready || sp.Respawns != 1 {
		t.Fatalf("spawner after spawn: %+v", sp)
	}

	f.frame(component.Input{}, combat, respawn)
	if len(spawnedAt) != 1 {
		t.Fatalf("spawned a second live target")
	}

	combat.hit(f.w, te)
	f.w.Advance(3000)
	f.frame(component.Input{}, combat, respawn)
	if len(spawnedAt) != 1 {
		t.Fatalf("respawned before the debris was disposed")
	}

	f.w.Advance(5000)
	f.frame(component.Input{}, combat, respawn)
	if len(spawnedAt) != 2 || sp.Respawns != 2 {
		t.Fatalf("no respawn after cooldown: %v %+v", spawnedAt, sp)
	}
}

func TestRespawnSpawnFailureClearsReady(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	sp := &component.TargetSpawner{Ready: true}
	_ = ecs.Add(w, e, component.TargetSpawnerComponent.Kind(), sp)
	calls := 0
	sys := NewRespawnSystem(func(*ecs.World, common.Vec3) (ecs.Entity, error) {
		calls++
		return 0, errors.New("no prefab")
	}, nil)
	sys.Update(w)
	sys.Update(w)
	if calls != 1 || sp.Ready || sp.Guarded {
		t.Fatalf("calls=%d spawner=%+v", calls, sp)
	}
}

func TestSpawnScriptPoints(t *testing.T) {
	script, err := LoadSpawnScript("scripts/target_spawn.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	base := common.V3(0, 4, 20)
	tests := []struct {
		respawns int
		wantX    float64
	}{
		{0, 0},
		{1, -6},
		{2, 6},
		{4, 3},
		{5, 0},
	}
	for _, tc := range tests {
		got, err := script.Point(tc.respawns, base)
		if err != nil {
			t.Fatalf("respawns=%d: %v", tc.respawns, err)
		}
		if got != common.V3(tc.wantX, 4, 20) {
			t.Fatalf("respawns=%d: got %v", tc.respawns, got)
		}
	}
}

func TestSpawnScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		compile bool
		wantErr string
	}{
		{"syntax", "spawn := {", false, "compile"},
		{"missing_spawn", "x := 1", true, "not defined"},
		{"not_a_map", "spawn := 3", true, "not a map"},
		{"bad_field", `spawn := {x: "left"}`, true, "want a number"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSpawnScript([]byte(tc.src))
			if !tc.compile {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected compile error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if _, err := s.Point(0, common.Vec3{}); err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSampleSlide(t *testing.T) {
	keys := []component.Keyframe{{Frame: 0, Value: 0}, {Frame: 50, Value: -3}, {Frame: 100, Value: 0}, {Frame: 150, Value: 3}, {Frame: 200, Value: 0}}
	tests := []struct {
		frame float64
		loop  bool
		want  float64
	}{
		{0, true, 0},
		{25, true, -1.5},
		{50, true, -3},
		{175, true, 1.5},
		{250, true, -3},
		{250, false, 0},
	}
	for _, tc := range tests {
		if got := SampleSlide(keys, tc.frame, tc.loop); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("frame %v loop %v: got %v want %v", tc.frame, tc.loop, got, tc.want)
		}
	}
}

func TestSlideAnimationMovesFromBase(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: common.V3(5, 4, 20)})
	_ = ecs.Add(w, e, component.SlideAnimationComponent.Kind(), &component.SlideAnimation{
		Keys:  []component.Keyframe{{Frame: 0, Value: 0}, {Frame: 50, Value: -3}, {Frame: 100, Value: 0}, {Frame: 150, Value: 3}, {Frame: 200, Value: 0}},
		FPS:   50,
		Loop:  true,
		BaseX: 5,
	})
	sys := NewSlideAnimationSystem()
	for i := 0; i < 20; i++ {
		w.Advance(50)
		sys.Update(w)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if math.Abs(tr.Position.X-2) > 1e-9 {
		t.Fatalf("after 1s x=%v, want 2", tr.Position.X)
	}
}
