package ecs

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/common"
)

func testLevel() *PhysicsWorld {
	return NewPhysicsWorld(
		common.BoxAt(common.V3(0, -0.5, 0), common.V3(25, 0.5, 25)), // ground, top at y=0
		common.BoxAt(common.V3(5, 2, 0), common.V3(2, 2, 2)),        // crate
	)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestMoveWithCollisions(t *testing.T) {
	half := common.V3(0.5, 0.5, 0.5)
	tests := []struct {
		name  string
		pos   common.Vec3
		delta common.Vec3
		want  common.Vec3
	}{
		{"free_move", common.V3(-4, 0.5, 0), common.V3(0.1, 0, 0.1), common.V3(0.1, 0, 0.1)},
		{"lands_on_ground", common.V3(-4, 0.6, 0), common.V3(0, -0.3, 0), common.V3(0, -0.1, 0)},
		{"resting_cannot_sink", common.V3(-4, 0.5, 0), common.V3(0, -0.05, 0), common.V3(0, 0, 0)},
		{"stops_at_crate_face", common.V3(2.4, 0.5, 0), common.V3(0.3, 0, 0), common.V3(0.1, 0, 0)},
		{"slides_along_crate", common.V3(2.5, 0.5, 0), common.V3(0.2, 0, 0.2), common.V3(0, 0, 0.2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := testLevel().MoveWithCollisions(tc.pos, half, tc.delta)
			if !near(got.X, tc.want.X) || !near(got.Y, tc.want.Y) || !near(got.Z, tc.want.Z) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestGroundContact(t *testing.T) {
	pw := testLevel()
	tests := []struct {
		name   string
		origin common.Vec3
		length float64
		want   bool
	}{
		{"standing", common.V3(-4, 0.5, 0), 0.6, true},
		{"airborne", common.V3(-4, 2, 0), 0.6, false},
		{"off_the_edge", common.V3(30, 0.5, 0), 0.6, false},
		{"on_crate", common.V3(5, 4.5, 0), 0.6, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pw.Probe(tc.origin, common.Down3, tc.length); got != tc.want {
				t.Fatalf("Probe = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRaycastDistance(t *testing.T) {
	d, ok := testLevel().Raycast(common.V3(0, 1, 0), common.UnitX, 10)
	if !ok || !near(d, 3) {
		t.Fatalf("expected hit at 3, got %v %v", d, ok)
	}
}

func TestAddObstacleJoinsBroadphase(t *testing.T) {
	pw := NewPhysicsWorld()
	half := common.V3(0.5, 0.5, 0.5)
	if got := pw.MoveWithCollisions(common.V3(0, 0.5, 0), half, common.V3(1, 0, 0)); !near(got.X, 1) {
		t.Fatalf("empty world blocked move: %+v", got)
	}

	pw.AddObstacle(common.BoxAt(common.V3(2, 1, 0), common.V3(0.5, 1, 0.5)))
	if ids := pw.candidates(1, -1, 3, 1); len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("candidates = %v, want [0]", ids)
	}
	if got := pw.MoveWithCollisions(common.V3(0, 0.5, 0), half, common.V3(2, 0, 0)); !near(got.X, 1) {
		t.Fatalf("expected stop at crate face, got %+v", got)
	}
	if d, ok := pw.Raycast(common.V3(0, 1, 0), common.UnitX, 10); !ok || !near(d, 1.5) {
		t.Fatalf("raycast = %v %v, want 1.5", d, ok)
	}
	if ids := pw.candidates(10, 10, 12, 12); len(ids) != 0 {
		t.Fatalf("far query returned %v", ids)
	}
}
