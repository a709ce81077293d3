package system

import (
	"math"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

const debrisGravity = -0.05

// debrisSpin is the per-frame rotation of a debris particle; odd particles
// turn one way and even ones the other.
var debrisSpin = common.V3(0.005, 0.008, 0.01)

func spinSign(i int) float64 {
	if i%2 == 1 {
		return 1
	}
	return -1
}

// explode stops the hit effect, bursts debris at the target and destroys it.
// Debris disposal releases the spawn guard.
func (s *CombatSystem) explode(w *ecs.World, te, emitter ecs.Entity) {
	tt, ok := ecs.Get(w, te, component.TransformComponent.Kind())
	if !ok {
		return
	}
	origin := tt.Position

	if w.IsAlive(emitter) {
		w.DestroyEntity(emitter)
	}
	w.Events().Emit(ecs.EventEffectStopped, ecs.EntityEvent{Entity: te, Kind: "hit"})

	debris := s.spawnDebris(w, origin)

	w.DestroyEntity(te)
	w.Events().Emit(ecs.EventActorDestroyed, ecs.EntityEvent{Entity: te, Kind: "target"})
	if sp := spawnerOf(w); sp != nil {
		sp.Ready = true
	}

	w.After(debris, s.cfg.DebrisTTLMs, func(w *ecs.World) {
		w.DestroyEntity(debris)
		w.Events().Emit(ecs.EventActorDestroyed, ecs.EntityEvent{Entity: debris, Kind: "debris"})
		if sp := spawnerOf(w); sp != nil {
			sp.Guarded = false
		}
	})
	logger.L().Debug("target exploded", "target", te.String(), "debris", debris.String())
}

func (s *CombatSystem) spawnDebris(w *ecs.World, origin common.Vec3) ecs.Entity {
	speed := s.cfg.DebrisSpeed
	particles := make([]component.Particle, s.cfg.DebrisCount)
	for i := range particles {
		particles[i] = component.Particle{
			Velocity: common.V3(
				s.between(-0.3*speed, 0.3*speed),
				s.between(0.001*speed, speed),
				s.between(-0.3*speed, 0.3*speed),
			),
			Rotation: common.V3(s.between(-math.Pi, math.Pi), s.between(-math.Pi, math.Pi), s.between(-math.Pi, math.Pi)),
			Spin:     debrisSpin.Scale(spinSign(i)),
		}
	}

	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: origin, Rotation: common.IdentityQuat()})
	_ = ecs.Add(w, e, component.DebrisComponent.Kind(), &component.Debris{
		Origin:    origin,
		Particles: particles,
		Gravity:   debrisGravity,
		FloorY:    -origin.Y + 0.5,
	})
	w.Events().Emit(ecs.EventParticleBurst, ecs.EntityEvent{Entity: e, Kind: "debris"})
	return e
}

func (s *CombatSystem) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// DebrisSystem integrates debris particles once per frame.
type DebrisSystem struct{}

func NewDebrisSystem() *DebrisSystem { return &DebrisSystem{} }

func (s *DebrisSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.DebrisComponent.Kind(), func(_ ecs.Entity, d *component.Debris) {
		for i := range d.Particles {
			p := &d.Particles[i]
			if p.Frozen {
				continue
			}
			p.Velocity.Y += d.Gravity
			p.Offset = p.Offset.Add(p.Velocity)
			p.Rotation = p.Rotation.Add(p.Spin)
			if p.Offset.Y < d.FloorY {
				p.Offset.Y = d.FloorY
				p.Velocity = common.Vec3{}
				p.Frozen = true
			}
		}
	})
}

// EmitterSystem keeps active emitters on the entity they follow and drops
// emitters whose owner is gone.
type EmitterSystem struct{}

func NewEmitterSystem() *EmitterSystem { return &EmitterSystem{} }

func (s *EmitterSystem) Update(w *ecs.World) {
	var orphans []ecs.Entity
	ecs.ForEach2(w, component.EmitterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, em *component.Emitter, t *component.Transform) {
		owner := ecs.Entity(em.Follow)
		if !w.IsAlive(owner) {
			orphans = append(orphans, e)
			return
		}
		if !em.Active {
			return
		}
		if ot, ok := ecs.Get(w, owner, component.TransformComponent.Kind()); ok {
			t.Position = ot.Position
		}
	})
	for _, e := range orphans {
		w.DestroyEntity(e)
	}
}
