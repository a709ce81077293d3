package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventActorSpawned   = "actor_spawned"
	EventActorDestroyed = "actor_destroyed"
	EventParticleBurst  = "particle_burst"
	EventEffectStarted  = "effect_started"
	EventEffectStopped  = "effect_stopped"
	EventPathComputed   = "path_computed"
)

// EntityEvent carries the entity an event refers to.
type EntityEvent struct {
	Entity Entity
	Kind   string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit pushes an event with the given type and payload.
func (q *EventQueue) Emit(typ string, data any) {
	q.Push(Event{Type: typ, Data: data})
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
