package component

import "github.com/milk9111/pursuit/common"

// Target is a destructible actor hit by the projectile.
type Target struct {
	Lit bool
}

var TargetComponent = NewComponent[Target]()

// TargetSpawner keeps at most one live target in the world.
type TargetSpawner struct {
	Prefab     string
	SpawnPoint common.Vec3
	Script     string

	// Guarded is set while a target (or its debris) exists.
	Guarded bool
	// Ready flips once the projectile is first armed and after each explosion.
	Ready    bool
	Respawns int
}

var TargetSpawnerComponent = NewComponent[TargetSpawner]()
