package system

import (
	"math"
	"testing"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func TestUnprojectCentresOnPlayer(t *testing.T) {
	f := newFixture(t)
	r := NewRenderSystem(nil)
	r.Scale = 10

	p := r.Unproject(f.w, 640+30, 360-20, 1280, 720)
	if math.Abs(p.X-3) > 1e-9 || math.Abs(p.Z-2) > 1e-9 || p.Y != 0 {
		t.Fatalf("unexpected ground point %v", p)
	}

	pose, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	pose.Position.X, pose.Position.Z = 5, -4
	if p := r.Unproject(f.w, 640, 360, 1280, 720); p.X != 5 || p.Z != -4 {
		t.Fatalf("screen centre should map to the player, got %v", p)
	}
}
