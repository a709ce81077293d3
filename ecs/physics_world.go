package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
)

// PhysicsWorld owns the static collision geometry. Obstacle footprints live in
// a Chipmunk space (world X,Z mapped to space X,Y) used as the broadphase; the
// narrow phase works on full 3D boxes.
type PhysicsWorld struct {
	space     *cp.Space
	obstacles []common.AABB
}

// NewPhysicsWorld creates a physics world over static obstacles.
func NewPhysicsWorld(obstacles ...common.AABB) *PhysicsWorld {
	pw := &PhysicsWorld{space: cp.NewSpace()}
	for _, o := range obstacles {
		pw.AddObstacle(o)
	}
	return pw
}

// AddObstacle registers a static box.
func (pw *PhysicsWorld) AddObstacle(box common.AABB) {
	if pw == nil {
		return
	}
	idx := len(pw.obstacles)
	pw.obstacles = append(pw.obstacles, box)

	min, max := box.Min(), box.Max()
	shape := cp.NewBox2(pw.space.StaticBody, cp.BB{L: min.X, B: min.Z, R: max.X, T: max.Z}, 0)
	shape.UserData = idx
	pw.space.AddShape(shape)
}

// Obstacles returns the registered static boxes.
func (pw *PhysicsWorld) Obstacles() []common.AABB {
	if pw == nil {
		return nil
	}
	out := make([]common.AABB, len(pw.obstacles))
	copy(out, pw.obstacles)
	return out
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) candidates(minX, minZ, maxX, maxZ float64) []int {
	var out []int
	pw.space.BBQuery(cp.BB{L: minX, B: minZ, R: maxX, T: maxZ}, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if idx, ok := shape.UserData.(int); ok {
			out = append(out, idx)
		}
	}, nil)
	return out
}

// MoveWithCollisions moves a box of half extents half from pos by delta and
// returns the displacement actually applied. Axes resolve in Y, X, Z order;
// a blocked axis stops flush against the obstacle face.
func (pw *PhysicsWorld) MoveWithCollisions(pos, half, delta common.Vec3) common.Vec3 {
	if pw == nil {
		return delta
	}
	end := pos.Add(delta)
	ids := pw.candidates(
		min(pos.X, end.X)-half.X, min(pos.Z, end.Z)-half.Z,
		max(pos.X, end.X)+half.X, max(pos.Z, end.Z)+half.Z,
	)

	cur := pos
	cur.Y = pw.resolveAxis(ids, cur, half, 1, delta.Y)
	cur.X = pw.resolveAxis(ids, cur, half, 0, delta.X)
	cur.Z = pw.resolveAxis(ids, cur, half, 2, delta.Z)
	return cur.Sub(pos)
}

func axisOf(v common.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func withAxis(v common.Vec3, axis int, value float64) common.Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

func (pw *PhysicsWorld) resolveAxis(ids []int, cur, half common.Vec3, axis int, d float64) float64 {
	start := axisOf(cur, axis)
	if d == 0 {
		return start
	}
	target := start + d
	for _, idx := range ids {
		obs := pw.obstacles[idx]
		moved := common.BoxAt(withAxis(cur, axis, target), half)
		if !moved.Overlaps(obs) {
			continue
		}
		// Already inside at the start position: let it move out.
		if common.BoxAt(cur, half).Overlaps(obs) {
			continue
		}
		if d > 0 {
			target = min(target, axisOf(obs.Min(), axis)-axisOf(half, axis))
		} else {
			target = max(target, axisOf(obs.Max(), axis)+axisOf(half, axis))
		}
	}
	if (d > 0 && target < start) || (d < 0 && target > start) {
		return start
	}
	return target
}

// Raycast returns the distance to the nearest obstacle along dir.
func (pw *PhysicsWorld) Raycast(origin, dir common.Vec3, maxDist float64) (float64, bool) {
	if pw == nil || maxDist <= 0 {
		return 0, false
	}
	dir = dir.Normalize()
	if dir.IsZero() {
		return 0, false
	}
	end := origin.Add(dir.Scale(maxDist))
	best, hit := maxDist, false
	for _, idx := range pw.candidates(min(origin.X, end.X), min(origin.Z, end.Z), max(origin.X, end.X), max(origin.Z, end.Z)) {
		if t, ok := pw.obstacles[idx].RayHit(origin, dir, maxDist); ok && t <= best {
			best, hit = t, true
		}
	}
	return best, hit
}

// Probe reports whether any obstacle lies within maxDist along dir.
func (pw *PhysicsWorld) Probe(origin, dir common.Vec3, maxDist float64) bool {
	_, hit := pw.Raycast(origin, dir, maxDist)
	return hit
}

// Intersects reports whether two boxes overlap.
func (pw *PhysicsWorld) Intersects(a, b common.AABB) bool {
	return a.Overlaps(b)
}
