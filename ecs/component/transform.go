package component

import "github.com/milk9111/pursuit/common"

// Transform is the world pose of an actor. Rotation only changes by slerp
// outside of spawn.
type Transform struct {
	Position common.Vec3
	Rotation common.Quat
	Velocity common.Vec3
}

var TransformComponent = NewComponent[Transform]()

// Collider is the actor's axis-aligned bounding box, centered on its position.
type Collider struct {
	Half common.Vec3
}

func (c Collider) Bounds(pos common.Vec3) common.AABB {
	return common.BoxAt(pos, c.Half)
}

var ColliderComponent = NewComponent[Collider]()
