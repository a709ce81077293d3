package system

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func projectileOf(f *fixture) *component.Projectile {
	p, _ := ecs.Get(f.w, f.projectile, component.ProjectileComponent.Kind())
	return p
}

func TestParkedProjectileFollowsPlayer(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 50)
	loco := NewLocomotionSystem(f.pw)
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())

	for i := 0; i < 5; i++ {
		f.frame(held(component.ActionRight), loco, combat)
	}
	player := f.pose(f.player)
	proj := f.pose(f.projectile)
	want := player.Position.Add(common.V3(0, 0.7, 0))
	if proj.Position.Sub(want).Length() > 1e-9 {
		t.Fatalf("parked at %v, want %v", proj.Position, want)
	}
	if projectileOf(f).AttachedTo != uint64(f.player) {
		t.Fatalf("projectile not attached to the player")
	}
}

func TestFireIsIdempotentWhileLaunched(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 50)
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())

	f.frame(pressed(component.ActionFire), combat)
	p := projectileOf(f)
	if p.Phase != component.ProjectileLaunched {
		t.Fatalf("fire did not launch")
	}
	origin := p.Origin
	// The launched projectile faces the player heading, world +Z here.
	if fwd := f.pose(f.projectile).Rotation.Forward(); fwd.Sub(common.UnitZ).Length() > 1e-9 {
		t.Fatalf("launch forward %v", fwd)
	}

	for i := 0; i < 5; i++ {
		f.frame(pressed(component.ActionFire), combat)
		if p.Phase != component.ProjectileLaunched || p.Origin != origin {
			t.Fatalf("second fire changed the flight: %+v", p)
		}
	}
	if math.Abs(p.Distance-0.5) > 1e-9 {
		t.Fatalf("distance %v after five steps", p.Distance)
	}
}

func TestFireIgnoredWhileDashing(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 50)
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())
	f.motion().State = component.Dashing{Remaining: 0.1, Direction: component.DashForward}

	f.frame(pressed(component.ActionFire), combat)
	if projectileOf(f).Phase != component.ProjectileParked {
		t.Fatalf("fired while dashing")
	}
}

func TestProjectileDistanceMonotonicThenReset(t *testing.T) {
	for _, guidance := range []component.GuidanceKind{component.GuidanceStraight, component.GuidanceHoming} {
		t.Run(string(guidance), func(t *testing.T) {
			f := newFixture(t)
			f.addProjectile(t, guidance, 2)
			combat := NewCombatSystem(f.pw, DefaultCombatConfig())

			f.frame(pressed(component.ActionFire), combat)
			p := projectileOf(f)
			last := -1.0
			for i := 0; p.Phase == component.ProjectileLaunched; i++ {
				if p.Distance <= last {
					t.Fatalf("distance went %v -> %v", last, p.Distance)
				}
				last = p.Distance
				f.frame(component.Input{}, combat)
				if i > 100 {
					t.Fatalf("projectile never left flight")
				}
			}
			if combat.LastOutcome() != OutcomeRangeExceeded {
				t.Fatalf("outcome %v", combat.LastOutcome())
			}
			if p.Distance != 0 || p.AttachedTo != uint64(f.player) {
				t.Fatalf("not re-parked: %+v", p)
			}
			if last < 2-1e-9 {
				t.Fatalf("flight ended early at %v", last)
			}
		})
	}
}

func TestProjectileBlockedByCrate(t *testing.T) {
	crate := common.BoxAt(common.V3(0, 1, 2), common.V3(1, 1, 1))
	f := newFixture(t, crate)
	f.addProjectile(t, component.GuidanceStraight, 50)
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())

	f.frame(pressed(component.ActionFire), combat)
	for i := 0; i < 20 && projectileOf(f).Phase == component.ProjectileLaunched; i++ {
		f.frame(component.Input{}, combat)
	}
	if combat.LastOutcome() != OutcomeBlocked {
		t.Fatalf("outcome %v, want blocked", combat.LastOutcome())
	}
	if projectileOf(f).Phase != component.ProjectileParked {
		t.Fatalf("blocked projectile must re-park")
	}
}

func countEvents(events []ecs.Event, typ string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestHitLightsTargetThenExplodes(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 50)
	sp := f.addSpawner(t)
	target := f.addTarget(t, common.V3(0, 1.2, 4))
	sp.Guarded = true
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())
	systems := []ecs.System{combat, NewEmitterSystem(), NewDebrisSystem()}

	f.frame(pressed(component.ActionFire), systems...)
	sp.Ready = false
	for i := 0; i < 60 && combat.LastOutcome() == OutcomeNone; i++ {
		f.frame(component.Input{}, systems...)
	}
	if combat.LastOutcome() != OutcomeHit {
		t.Fatalf("outcome %v, want hit", combat.LastOutcome())
	}
	tg, _ := ecs.Get(f.w, target, component.TargetComponent.Kind())
	if !tg.Lit {
		t.Fatalf("target not lit")
	}
	if n := countEvents(f.w.Events().Drain(), ecs.EventEffectStarted); n != 1 {
		t.Fatalf("effect_started emitted %d times", n)
	}
	if _, ok := f.w.First(component.EmitterComponent.Kind()); !ok {
		t.Fatalf("no hit emitter")
	}

	// A second hit while lit must not schedule another explosion.
	pending := f.w.PendingTimers()
	combat.hit(f.w, target)
	if f.w.PendingTimers() != pending {
		t.Fatalf("relit target scheduled again")
	}

	f.w.Advance(3000)
	if f.w.IsAlive(target) {
		t.Fatalf("target survived the explosion")
	}
	if !sp.Ready || !sp.Guarded {
		t.Fatalf("after explosion want ready and guarded, got %+v", sp)
	}
	if _, ok := f.w.First(component.EmitterComponent.Kind()); ok {
		t.Fatalf("emitter outlived the effect")
	}
	debrisEntity, ok := f.w.First(component.DebrisComponent.Kind())
	if !ok {
		t.Fatalf("no debris")
	}
	d, _ := ecs.Get(f.w, debrisEntity, component.DebrisComponent.Kind())
	if len(d.Particles) != 10 {
		t.Fatalf("debris has %d particles", len(d.Particles))
	}
	for i, p := range d.Particles {
		want := debrisSpin.Scale(spinSign(i))
		if p.Spin != want {
			t.Fatalf("particle %d spin %v, want %v", i, p.Spin, want)
		}
		if i > 0 && p.Spin.X != -d.Particles[i-1].Spin.X {
			t.Fatalf("particles %d and %d spin the same way", i-1, i)
		}
		if p.Velocity.Y < 0.0005 || p.Velocity.Y > 0.5 || math.Abs(p.Velocity.X) > 0.15 {
			t.Fatalf("particle velocity out of range: %v", p.Velocity)
		}
	}
	events := f.w.Events().Drain()
	if countEvents(events, ecs.EventParticleBurst) != 1 || countEvents(events, ecs.EventEffectStopped) != 1 {
		t.Fatalf("unexpected events %+v", events)
	}

	f.w.Advance(5000)
	if f.w.IsAlive(debrisEntity) || sp.Guarded {
		t.Fatalf("debris disposal did not release the guard")
	}
}

func TestOverlapAtRangeStillHits(t *testing.T) {
	f := newFixture(t)
	f.addProjectile(t, component.GuidanceStraight, 2)
	sp := f.addSpawner(t)
	target := f.addTarget(t, common.V3(0, 1.2, 4))
	sp.Guarded = true
	combat := NewCombatSystem(f.pw, DefaultCombatConfig())

	f.frame(pressed(component.ActionFire), combat)
	p := projectileOf(f)
	if p.Phase != component.ProjectileLaunched {
		t.Fatalf("projectile did not launch")
	}
	pt, _ := ecs.Get(f.w, f.projectile, component.TransformComponent.Kind())
	pt.Position = common.V3(0, 1.2, 3.5)
	p.Distance = p.Range

	f.frame(component.Input{}, combat)
	if combat.LastOutcome() != OutcomeHit {
		t.Fatalf("outcome %v, want hit", combat.LastOutcome())
	}
	tg, _ := ecs.Get(f.w, target, component.TargetComponent.Kind())
	if !tg.Lit {
		t.Fatalf("target not lit")
	}
}

func TestDebrisFreezesBelowFloor(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	d := &component.Debris{
		Origin:    common.V3(0, 4, 0),
		Gravity:   debrisGravity,
		FloorY:    -3.5,
		Particles: []component.Particle{{Velocity: common.V3(0.1, 0.2, 0)}},
	}
	_ = ecs.Add(w, e, component.DebrisComponent.Kind(), d)
	sys := NewDebrisSystem()
	for i := 0; i < 200; i++ {
		sys.Update(w)
	}
	p := d.Particles[0]
	if !p.Frozen || p.Offset.Y != -3.5 || !p.Velocity.IsZero() {
		t.Fatalf("particle not frozen on the floor: %+v", p)
	}
}

func TestHomingAngleStrictlyDecreases(t *testing.T) {
	target := common.V3(30, 0, 10)
	p := &component.Projectile{Speed: 0.1, TurnRate: 0.05}
	pose := component.Transform{Rotation: common.IdentityQuat()}

	prev := pose.Rotation.Angle(homingGoal(pose.Position, target))
	for i := 0; i < 80; i++ {
		delta, rot := HomingGuidance{}.Step(p, pose, &target)
		pose.Position = pose.Position.Add(delta)
		pose.Rotation = rot
		cur := pose.Rotation.Angle(homingGoal(pose.Position, target))
		if cur >= prev {
			t.Fatalf("step %d: angle %v did not shrink from %v", i, cur, prev)
		}
		prev = cur
	}
}

func TestHomingGoalFacesTargetAboutUp(t *testing.T) {
	tests := []struct {
		name     string
		from, to common.Vec3
	}{
		{"ahead", common.V3(0, 0, 0), common.V3(0, 0, 5)},
		{"right", common.V3(1, 2, 1), common.V3(6, 2, 1)},
		{"above_behind", common.V3(0, 0, 0), common.V3(-3, 8, -4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			goal := homingGoal(tc.from, tc.to)
			want := tc.to.Sub(tc.from).Flat().Normalize()
			if got := goal.Forward(); got.Sub(want).Length() > 1e-9 {
				t.Fatalf("forward %v, want %v", got, want)
			}
			if up := goal.Rotate(common.UnitY); up.Sub(common.UnitY).Length() > 1e-9 {
				t.Fatalf("goal tilts up axis to %v", up)
			}
		})
	}
	if homingGoal(common.V3(1, 0, 1), common.V3(1, 5, 1)) != common.IdentityQuat() {
		t.Fatalf("directly overhead target must keep identity")
	}
}

func TestStraightGuidanceIgnoresTarget(t *testing.T) {
	target := common.V3(30, 0, 10)
	p := &component.Projectile{Speed: 0.1, Direction: common.V3(0, 3, 1)}
	pose := component.Transform{Rotation: common.IdentityQuat()}
	delta, rot := StraightGuidance{}.Step(p, pose, &target)
	if delta.Sub(common.V3(0, 0, 0.1)).Length() > 1e-12 || rot != pose.Rotation {
		t.Fatalf("straight step %v %v", delta, rot)
	}
}
