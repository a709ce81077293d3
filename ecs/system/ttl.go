package system

import (
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// TTLSystem counts TTL components down by the frame delta and destroys
// entities when the TTL reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Clock().Delta()
	var expired []ecs.Entity
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Millis -= dt
		if ttl.Millis <= 0 {
			expired = append(expired, e)
		}
	})

	for _, e := range expired {
		w.DestroyEntity(e)
		w.Events().Emit(ecs.EventActorDestroyed, ecs.EntityEvent{Entity: e, Kind: "ttl"})
	}
}
