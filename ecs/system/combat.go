package system

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

// ProjectileOutcome is how a launched projectile's flight ended.
type ProjectileOutcome uint8

const (
	OutcomeNone ProjectileOutcome = iota
	OutcomeHit
	OutcomeRangeExceeded
	OutcomeBlocked
)

func (o ProjectileOutcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeRangeExceeded:
		return "range_exceeded"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "none"
	}
}

// CombatConfig holds the hit and explosion timings.
type CombatConfig struct {
	HitEffectMs float64
	DebrisTTLMs float64
	DebrisCount int
	DebrisSpeed float64
	Seed        uint64
}

func DefaultCombatConfig() CombatConfig {
	return CombatConfig{
		HitEffectMs: 3000,
		DebrisTTLMs: 5000,
		DebrisCount: 10,
		DebrisSpeed: 0.5,
		Seed:        1,
	}
}

// CombatSystem owns the projectile, the target hit sequence and the debris.
type CombatSystem struct {
	collider Collider
	cfg      CombatConfig
	rng      *rand.Rand
	armed    bool
	last     ProjectileOutcome
}

func NewCombatSystem(collider Collider, cfg CombatConfig) *CombatSystem {
	return &CombatSystem{
		collider: collider,
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
	}
}

// SetConfig swaps timings for hits that start after the call.
func (s *CombatSystem) SetConfig(cfg CombatConfig) {
	if s == nil {
		return
	}
	s.cfg = cfg
}

// LastOutcome is the most recent flight outcome.
func (s *CombatSystem) LastOutcome() ProjectileOutcome {
	if s == nil {
		return OutcomeNone
	}
	return s.last
}

func (s *CombatSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	pe, proj, ok := ecs.Single(w, component.ProjectileComponent.Kind())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, pe, component.TransformComponent.Kind())
	if !ok {
		return
	}

	if !s.armed && proj.Phase == component.ProjectileParked {
		s.armed = true
		if sp := spawnerOf(w); sp != nil {
			sp.Ready = true
		}
	}

	switch proj.Phase {
	case component.ProjectileParked:
		owner, ok := s.parkedOwner(w, proj)
		if !ok {
			return
		}
		park(proj, pt, owner)
		s.tryFire(w, owner, proj, pt)
	case component.ProjectileLaunched:
		s.stepLaunched(w, pe, proj, pt)
	}
}

func (s *CombatSystem) parkedOwner(w *ecs.World, proj *component.Projectile) (*component.Transform, bool) {
	if proj.AttachedTo == 0 {
		pe, _, ok := ecs.Single(w, component.PlayerComponent.Kind())
		if !ok {
			return nil, false
		}
		proj.AttachedTo = uint64(pe)
	}
	owner := ecs.Entity(proj.AttachedTo)
	if !w.IsAlive(owner) {
		return nil, false
	}
	return ecs.Get(w, owner, component.TransformComponent.Kind())
}

// park seats the projectile at its local offset on the owner.
func park(proj *component.Projectile, pt, owner *component.Transform) {
	pt.Position = owner.Position.Add(owner.Rotation.Rotate(proj.LocalOffset))
	pt.Rotation = owner.Rotation
	pt.Velocity = common.Vec3{}
}

func (s *CombatSystem) tryFire(w *ecs.World, owner *component.Transform, proj *component.Projectile, pt *component.Transform) {
	ownerEntity := ecs.Entity(proj.AttachedTo)
	input, ok := ecs.Get(w, ownerEntity, component.InputComponent.Kind())
	if !ok || !input.Pressed.Has(component.ActionFire) {
		return
	}
	if m, ok := ecs.Get(w, ownerEntity, component.MotionComponent.Kind()); ok && m.IsDashing() {
		return
	}

	proj.Direction = owner.Rotation.Right().Flat().Normalize()
	proj.Origin = pt.Position
	proj.Distance = 0
	proj.AttachedTo = 0
	proj.Phase = component.ProjectileLaunched
	pt.Rotation = owner.Rotation.Mul(common.QuatFromYaw(math.Pi / 2))
	s.last = OutcomeNone

	logger.L().Debug("projectile launched", "guidance", string(proj.Guidance), "origin", pt.Position)
}

// stepLaunched advances a launched projectile and re-parks it on any outcome.
func (s *CombatSystem) stepLaunched(w *ecs.World, pe ecs.Entity, proj *component.Projectile, pt *component.Transform) {
	half := common.V3(0.15, 0.15, 0.15)
	if c, ok := ecs.Get(w, pe, component.ColliderComponent.Kind()); ok {
		half = c.Half
	}

	outcome := OutcomeNone
	te, targetPose, targetBox, hasTarget := liveTarget(w)
	switch {
	case hasTarget && s.collider != nil && s.collider.Intersects(common.BoxAt(pt.Position, half), targetBox):
		outcome = OutcomeHit
		s.hit(w, te)
	case proj.Distance >= proj.Range:
		outcome = OutcomeRangeExceeded
	default:
		var aim *common.Vec3
		if hasTarget {
			p := targetPose.Position
			aim = &p
		}
		delta, rot := guidanceFor(proj.Guidance).Step(proj, *pt, aim)
		applied := delta
		if s.collider != nil {
			applied = s.collider.MoveWithCollisions(pt.Position, half, delta)
		}
		pt.Rotation = rot
		if !delta.IsZero() && applied.Length() < 1e-9 {
			outcome = OutcomeBlocked
			break
		}
		pt.Position = pt.Position.Add(applied)
		proj.Distance = pt.Position.Sub(proj.Origin).Length()
	}

	if outcome == OutcomeNone {
		return
	}
	s.last = outcome
	logger.L().Debug("projectile outcome", "outcome", outcome.String(), "distance", proj.Distance)
	s.repark(w, proj, pt)
}

func (s *CombatSystem) repark(w *ecs.World, proj *component.Projectile, pt *component.Transform) {
	proj.Phase = component.ProjectileParked
	proj.Distance = 0
	proj.Direction = common.Vec3{}
	proj.AttachedTo = 0
	if owner, ok := s.parkedOwner(w, proj); ok {
		park(proj, pt, owner)
	}
}

func liveTarget(w *ecs.World) (ecs.Entity, *component.Transform, common.AABB, bool) {
	te, _, ok := ecs.Single(w, component.TargetComponent.Kind())
	if !ok {
		return 0, nil, common.AABB{}, false
	}
	tt, ok := ecs.Get(w, te, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, common.AABB{}, false
	}
	half := common.OneVec
	if c, ok := ecs.Get(w, te, component.ColliderComponent.Kind()); ok {
		half = c.Half
	}
	return te, tt, common.BoxAt(tt.Position, half), true
}

func spawnerOf(w *ecs.World) *component.TargetSpawner {
	_, sp, ok := ecs.Single(w, component.TargetSpawnerComponent.Kind())
	if !ok {
		return nil
	}
	return sp
}

// hit lights the target once and schedules its explosion.
func (s *CombatSystem) hit(w *ecs.World, te ecs.Entity) {
	tgt, ok := ecs.Get(w, te, component.TargetComponent.Kind())
	if !ok || tgt.Lit {
		return
	}
	tgt.Lit = true

	em := w.CreateEntity()
	pose := component.Transform{Rotation: common.IdentityQuat()}
	if tt, ok := ecs.Get(w, te, component.TransformComponent.Kind()); ok {
		pose.Position = tt.Position
	}
	_ = ecs.Add(w, em, component.TransformComponent.Kind(), &pose)
	_ = ecs.Add(w, em, component.EmitterComponent.Kind(), &component.Emitter{Follow: uint64(te), Active: true})
	w.Events().Emit(ecs.EventEffectStarted, ecs.EntityEvent{Entity: te, Kind: "hit"})

	w.After(te, s.cfg.HitEffectMs, func(w *ecs.World) {
		s.explode(w, te, em)
	})
	logger.L().Debug("target hit", "target", te.String())
}
