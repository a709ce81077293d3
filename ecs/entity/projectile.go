package entity

import (
	"fmt"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// NewProjectile builds the single projectile parked on owner. A non-empty
// guidance or positive fireRange overrides the prefab.
func NewProjectile(w *ecs.World, owner ecs.Entity, guidance component.GuidanceKind, fireRange float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, "projectile.yaml")
	if err != nil {
		return 0, err
	}
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("projectile: prefab has no projectile component")
	}
	p.AttachedTo = uint64(owner)
	if guidance != "" {
		p.Guidance = guidance
	}
	if fireRange > 0 {
		p.Range = fireRange
	}
	return e, nil
}
