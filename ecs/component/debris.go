package component

import "github.com/milk9111/pursuit/common"

type Particle struct {
	Offset   common.Vec3
	Velocity common.Vec3
	Rotation common.Vec3
	Spin     common.Vec3
	Frozen   bool
}

// Debris is an explosion burst anchored at Origin.
type Debris struct {
	Origin    common.Vec3
	Particles []Particle
	Gravity   float64
	// FloorY is the local y under which particles stop moving.
	FloorY float64
}

var DebrisComponent = NewComponent[Debris]()

// Emitter is a continuous effect following an entity while Active.
type Emitter struct {
	Follow uint64
	Active bool
}

var EmitterComponent = NewComponent[Emitter]()
