package entity

import (
	"fmt"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const TargetPrefab = "target.yaml"

// NewTargetAt clones the target prefab at a point. Its slide animation plays
// relative to the new x.
func NewTargetAt(w *ecs.World, at common.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, TargetPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityPosition(w, e, at); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("target: override transform: %w", err)
	}
	if anim, ok := ecs.Get(w, e, component.SlideAnimationComponent.Kind()); ok {
		anim.BaseX = at.X
		anim.Elapsed = 0
	}
	return e, nil
}

// TargetSpawnPoint reads the spawn point baked into the target prefab.
func TargetSpawnPoint() (common.Vec3, error) {
	probe := ecs.NewWorld()
	e, err := BuildEntity(probe, TargetPrefab)
	if err != nil {
		return common.Vec3{}, err
	}
	t, ok := ecs.Get(probe, e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, fmt.Errorf("target: prefab has no transform")
	}
	return t.Position, nil
}

// NewTargetSpawner creates the spawner that keeps one target alive.
func NewTargetSpawner(w *ecs.World, at common.Vec3, script string) (ecs.Entity, error) {
	e := w.CreateEntity()
	err := ecs.Add(w, e, component.TargetSpawnerComponent.Kind(), &component.TargetSpawner{
		Prefab:     TargetPrefab,
		SpawnPoint: at,
		Script:     script,
	})
	if err != nil {
		return 0, fmt.Errorf("target spawner: %w", err)
	}
	return e, nil
}
