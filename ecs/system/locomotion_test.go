package system

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func TestLocomotionMovesAlongHeading(t *testing.T) {
	tests := []struct {
		name   string
		action component.Action
		want   common.Vec3
	}{
		// Yaw -pi/2 puts the heading (+X local) on world +Z and local +Z on world -X.
		{"forward", component.ActionForward, common.V3(0, 0, 0.1)},
		{"back", component.ActionBack, common.V3(0, 0, -0.1)},
		{"left", component.ActionLeft, common.V3(-0.1, 0, 0)},
		{"right", component.ActionRight, common.V3(0.1, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			loco := NewLocomotionSystem(f.pw)
			start := f.pose(f.player).Position
			f.frame(held(tc.action), loco)
			got := f.pose(f.player).Position.Sub(start)
			if got.Sub(tc.want).Length() > 1e-9 {
				t.Fatalf("moved %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocomotionStopsAtWall(t *testing.T) {
	crate := common.BoxAt(common.V3(0, 1, 2), common.V3(1, 1, 1))
	f := newFixture(t, crate)
	loco := NewLocomotionSystem(f.pw)
	for i := 0; i < 30; i++ {
		f.frame(held(component.ActionForward), loco)
	}
	if z := f.pose(f.player).Position.Z; math.Abs(z-0.5) > 1e-9 {
		t.Fatalf("player should rest flush at z=0.5, got %v", z)
	}
}

func TestDashCountdown(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		f := newFixture(t)
		loco := NewLocomotionSystem(f.pw)
		f.frame(held(component.ActionLeft, component.ActionDash), loco)

		d, ok := f.motion().State.(component.Dashing)
		if !ok || d.Remaining != 0.1 || d.Direction != component.DashLeft {
			t.Fatalf("trigger frame: state %#v", f.motion().State)
		}
		for i := 0; i < n; i++ {
			f.frame(component.Input{}, loco)
		}
		d, ok = f.motion().State.(component.Dashing)
		if !ok {
			t.Fatalf("n=%d: dash ended early", n)
		}
		want := 0.1 - float64(n)*frameMs/3000
		if math.Abs(d.Remaining-want) > 1e-12 {
			t.Fatalf("n=%d: remaining %v, want %v", n, d.Remaining, want)
		}
	}
}

func TestDashEndsAndClearsIntent(t *testing.T) {
	f := newFixture(t)
	loco := NewLocomotionSystem(f.pw)
	f.frame(held(component.ActionRight, component.ActionDash), loco)
	start := f.pose(f.player).Position

	frames := 0
	for f.motion().IsDashing() {
		f.frame(held(component.ActionForward), loco)
		frames++
		if frames > 20 {
			t.Fatalf("dash never ended")
		}
	}
	if f.motion().Intent != component.DashNone {
		t.Fatalf("intent %v after dash", f.motion().Intent)
	}
	if !f.playerState().DashVelocity.IsZero() {
		t.Fatalf("dash velocity not cleared: %v", f.playerState().DashVelocity)
	}
	// Right dashes along world +X; directional input is ignored while dashing.
	moved := f.pose(f.player).Position.Sub(start)
	if moved.X < 2 || math.Abs(moved.Z) > 1e-9 {
		t.Fatalf("unexpected dash displacement %v", moved)
	}
}

func TestMoveBackNeverLatchesDash(t *testing.T) {
	f := newFixture(t)
	loco := NewLocomotionSystem(f.pw)
	f.frame(held(component.ActionBack, component.ActionDash), loco)
	if f.motion().IsDashing() || f.motion().Intent != component.DashNone {
		t.Fatalf("back must not dash: %#v", f.motion())
	}
}

func TestNoDashWhileFalling(t *testing.T) {
	f := newFixture(t)
	pt, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	pt.Position.Y = 3
	f.motion().State = component.Falling{}
	loco := NewLocomotionSystem(f.pw)

	f.frame(held(component.ActionLeft, component.ActionDash), loco)
	if f.motion().IsDashing() || f.motion().Intent != component.DashNone {
		t.Fatalf("airborne dash started: %#v", f.motion())
	}
	if _, ok := f.motion().State.(component.Falling); !ok {
		t.Fatalf("state %#v, want falling", f.motion().State)
	}
}

func TestJumpFrame(t *testing.T) {
	f := newFixture(t)
	loco := NewLocomotionSystem(f.pw)
	f.frame(component.Input{}, loco)
	if !f.playerState().Grounded {
		t.Fatalf("player should start on the ground")
	}

	f.frame(held(component.ActionJump), loco)
	pose := f.pose(f.player)
	if pose.Velocity.Y != 0.20 {
		t.Fatalf("jump frame vy = %v, want 0.20", pose.Velocity.Y)
	}
	if f.playerState().Grounded {
		t.Fatalf("ground contact must be false on the jump frame")
	}
	if _, ok := f.motion().State.(component.Falling); !ok {
		t.Fatalf("state %v after jump", f.motion().State.Name())
	}

	for i := 0; i < 100 && !f.playerState().Grounded; i++ {
		f.frame(component.Input{}, loco)
	}
	if !f.playerState().Grounded {
		t.Fatalf("player never landed")
	}
	// Ground contact is a short downward cast, so the player may settle anywhere within its reach.
	if y := f.pose(f.player).Position.Y; y < 0.5-1e-9 || y > 0.6+1e-9 {
		t.Fatalf("landed at y=%v", y)
	}
}

func TestMotionStateExclusive(t *testing.T) {
	f := newFixture(t)
	loco := NewLocomotionSystem(f.pw)
	plan := []component.Input{
		held(component.ActionForward),
		held(component.ActionForward, component.ActionDash),
		held(component.ActionJump),
		held(component.ActionLeft, component.ActionDash, component.ActionJump),
		{},
		held(component.ActionRight),
	}
	for i := 0; i < 300; i++ {
		f.frame(plan[(i/7)%len(plan)], loco)
		m := f.motion()
		if m.State == nil {
			t.Fatalf("frame %d: no motion state", i)
		}
		switch s := m.State.(type) {
		case component.Dashing:
			if s.Direction == component.DashNone || m.Intent == component.DashNone {
				t.Fatalf("frame %d: dashing without direction", i)
			}
		case component.Grounded:
			if !f.playerState().Grounded {
				t.Fatalf("frame %d: grounded state without contact", i)
			}
		case component.Falling:
			if f.playerState().Grounded {
				t.Fatalf("frame %d: falling state with contact", i)
			}
		}
	}
}

func TestDragSlerpsTowardTarget(t *testing.T) {
	f := newFixture(t)
	loco := NewLocomotionSystem(f.pw)
	goal := common.QuatFromYaw(0)
	before := f.pose(f.player).Rotation.Angle(goal)
	f.frame(component.Input{Dragging: true, DragTarget: goal}, loco)
	after := f.pose(f.player).Rotation.Angle(goal)
	if math.Abs(after-0.7*before) > 1e-6 {
		t.Fatalf("angle %v -> %v, want 30%% closer", before, after)
	}
}
