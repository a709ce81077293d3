package component

import "github.com/milk9111/pursuit/common"

type ProjectilePhase uint8

const (
	ProjectileParked ProjectilePhase = iota
	ProjectileLaunched
)

func (p ProjectilePhase) String() string {
	if p == ProjectileLaunched {
		return "launched"
	}
	return "parked"
}

// GuidanceKind selects how a launched projectile steers.
type GuidanceKind string

const (
	GuidanceStraight GuidanceKind = "straight"
	GuidanceHoming   GuidanceKind = "homing"
)

// Projectile is the single reusable shot. While parked it rides the entity in
// AttachedTo at LocalOffset.
type Projectile struct {
	Phase       ProjectilePhase
	AttachedTo  uint64
	LocalOffset common.Vec3
	Direction   common.Vec3
	Origin      common.Vec3
	Distance    float64

	Speed    float64
	Range    float64
	TurnRate float64
	Guidance GuidanceKind
}

var ProjectileComponent = NewComponent[Projectile]()
