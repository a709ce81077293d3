package sim

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// Pose is an actor pose as streamed to observers.
type Pose struct {
	Entity   string     `json:"entity"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	State    string     `json:"state,omitempty"`
}

// Frame is one simulated frame as seen from outside the loop.
type Frame struct {
	Frame   uint64   `json:"frame"`
	TimeMs  float64  `json:"time_ms"`
	Poses   []Pose   `json:"poses"`
	Mission string   `json:"mission,omitempty"`
	Rest    float64  `json:"rest_distance"`
	Events  []string `json:"events,omitempty"`
}

func pose(e ecs.Entity, kind string, t *component.Transform) Pose {
	return Pose{
		Entity:   e.String(),
		Kind:     kind,
		Position: [3]float64{t.Position.X, t.Position.Y, t.Position.Z},
		Yaw:      t.Rotation.Yaw(),
	}
}

// Snapshot captures the dynamic actors and drains pending events into the
// frame.
func (s *Sim) Snapshot() Frame {
	w := s.world
	f := Frame{Frame: w.Clock().Frame(), TimeMs: w.Clock().Now()}

	if t, ok := ecs.Get(w, s.player, component.TransformComponent.Kind()); ok {
		p := pose(s.player, "player", t)
		if m, ok := ecs.Get(w, s.player, component.MotionComponent.Kind()); ok && m.State != nil {
			p.State = m.State.Name()
		}
		f.Poses = append(f.Poses, p)
	}
	if t, ok := ecs.Get(w, s.projectile, component.TransformComponent.Kind()); ok {
		p := pose(s.projectile, "projectile", t)
		if pr, ok := ecs.Get(w, s.projectile, component.ProjectileComponent.Kind()); ok {
			p.State = pr.Phase.String()
		}
		f.Poses = append(f.Poses, p)
	}
	ecs.ForEach2(w, component.TargetComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tg *component.Target, t *component.Transform) {
		p := pose(e, "target", t)
		if tg.Lit {
			p.State = "lit"
		}
		f.Poses = append(f.Poses, p)
	})
	ecs.ForEach2(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Agent, t *component.Transform) {
		f.Poses = append(f.Poses, pose(e, "agent", t))
	})
	ecs.ForEach2(w, component.DebrisComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Debris, t *component.Transform) {
		f.Poses = append(f.Poses, pose(e, "debris", t))
	})

	if _, m, ok := ecs.Single(w, component.MissionComponent.Kind()); ok {
		f.Mission = m.State.String()
		f.Rest = m.RestDistance
	}
	for _, ev := range w.Events().Drain() {
		f.Events = append(f.Events, ev.Type)
	}
	return f
}

// PlayerPosition is a convenience for drivers and tests.
func (s *Sim) PlayerPosition() common.Vec3 {
	if t, ok := ecs.Get(s.world, s.player, component.TransformComponent.Kind()); ok {
		return t.Position
	}
	return common.Vec3{}
}
