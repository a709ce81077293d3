package entity

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/prefabs"
)

// Level is the static geometry of the arena.
type Level struct {
	// Surfaces are walkable tops used to bake the navmesh.
	Surfaces []common.AABB
	// NavObstacles block the navmesh.
	NavObstacles []common.AABB
	// Colliders are every static box in the physics world.
	Colliders []common.AABB
}

var (
	groundBox      = common.BoxAt(common.V3(0, -0.5, 0), common.V3(25, 0.5, 25))
	lowerGroundBox = common.BoxAt(common.V3(0, -16.5, 0), common.V3(75, 0.5, 75))
	platformBox    = common.BoxAt(common.V3(4, 5, 0), common.V3(1, 0.25, 1))
)

const crateHalf = 2.0

// LayoutLevel places the ground, the lower ground, a platform and a seeded,
// jittered ring of crates.
func LayoutLevel(spec prefabs.LevelSpec) Level {
	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x5bd1e995))
	lvl := Level{
		Surfaces:  []common.AABB{groundBox},
		Colliders: []common.AABB{groundBox, lowerGroundBox, platformBox},
	}
	for i := 0; i < spec.CrateCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(spec.CrateCount)
		r := spec.RingRadius + (rng.Float64()*2-1)*spec.Jitter
		center := common.V3(math.Cos(angle)*r, crateHalf, math.Sin(angle)*r)
		crate := common.BoxAt(center, common.V3(crateHalf, crateHalf, crateHalf))
		lvl.NavObstacles = append(lvl.NavObstacles, crate)
		lvl.Colliders = append(lvl.Colliders, crate)
	}
	return lvl
}

// LoadLevelToWorld creates static entities for every collider and installs
// the physics world.
func LoadLevelToWorld(w *ecs.World, lvl Level) (*ecs.PhysicsWorld, error) {
	if w == nil {
		return nil, fmt.Errorf("load level: world is nil")
	}
	pw := ecs.NewPhysicsWorld()
	for _, box := range lvl.Colliders {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.StaticTagComponent.Kind(), &component.StaticTag{}); err != nil {
			return nil, fmt.Errorf("load level: %w", err)
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: box.Center, Rotation: common.IdentityQuat()}); err != nil {
			return nil, fmt.Errorf("load level: %w", err)
		}
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Half: box.Half}); err != nil {
			return nil, fmt.Errorf("load level: %w", err)
		}
		pw.AddObstacle(box)
	}
	w.SetPhysicsWorld(pw)
	return pw, nil
}
