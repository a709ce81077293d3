package ecs

import "github.com/milk9111/pursuit/ecs/component"

// World owns entities, component stores, deferred timers and the frame clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue
	clock    Clock
	timers   timerWheel

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]componentStore),
		timers: newTimerWheel(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Query returns the live entities that carry every listed component kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := 0
	for i, s := range sets {
		if len(s.ids()) < len(sets[smallest].ids()) {
			smallest = i
		}
	}
	var out []Entity
	for _, id := range sets[smallest].ids() {
		matched := true
		for i, s := range sets {
			if i != smallest && !s.has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any live entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return 0, false
	}
	for _, id := range s.ids() {
		if e, ok := w.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// handle rebuilds the current generation handle for a live slot.
func (w *World) handle(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(w.entities.gen) || !w.entities.alive[id-1] {
		return 0, false
	}
	return makeEntity(id, w.entities.gen[id-1]), true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Clock returns the simulation clock.
func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

// Advance moves simulated time forward by dtMs and fires every due timer.
func (w *World) Advance(dtMs float64) {
	if w == nil {
		return
	}
	w.clock.advance(dtMs)
	w.timers.advance(w, w.clock.Now())
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}
