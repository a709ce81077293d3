package system

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/nav"
)

// Collider answers collision queries against static geometry.
type Collider interface {
	MoveWithCollisions(pos, half, delta common.Vec3) common.Vec3
	Probe(origin, dir common.Vec3, maxDist float64) bool
	Intersects(a, b common.AABB) bool
}

// Navigator answers navmesh queries.
type Navigator interface {
	ClosestPoint(p common.Vec3) (common.Vec3, bool)
	RandomPointAround(center common.Vec3, radius float64) (common.Vec3, bool)
	ComputePath(from, to common.Vec3) ([]common.Vec3, bool)
}

// Crowd steers navmesh agents. Agent poses only change in Update.
type Crowd interface {
	AddAgent(pos common.Vec3, params nav.AgentParams) (int, error)
	AgentGoto(idx int, dest common.Vec3) bool
	AgentPosition(idx int) (common.Vec3, bool)
	AgentVelocity(idx int) (common.Vec3, bool)
	AgentCount() int
	Update(dtSeconds float64)
}

// RawEventKind is the kind of a raw device event.
type RawEventKind uint8

const (
	KeyDown RawEventKind = iota
	KeyUp
	DragStart
	DragMove
	DragEnd
	PointerPick
)

// RawEvent is a device event before it is mapped to actions.
type RawEvent struct {
	Kind RawEventKind
	// Key is a lower-case key name such as "w", "arrowup" or "shift".
	Key string
	// DX is the horizontal pointer motion of a DragMove, in pixels.
	DX float64
	// Point is the picked ground point of a PointerPick.
	Point common.Vec3
}

// InputSource yields the raw events gathered since the last call.
type InputSource interface {
	Poll() []RawEvent
}
