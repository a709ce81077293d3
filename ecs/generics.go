package ecs

import "github.com/milk9111/pursuit/ecs/component"

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *SparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*SparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]componentStore)
	}
	s := &SparseSet[T]{}
	w.stores[kind.ID()] = s
	return s
}

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	storeFor(w, kind, true).set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return storeFor(w, kind, false).remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return storeFor(w, kind, false).has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	v := storeFor(w, kind, false).get(e.id())
	return v, v != nil
}

// Single returns the first live entity with kind and its component.
func Single[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	e, ok := w.First(kind)
	if !ok {
		return 0, nil, false
	}
	v, ok := Get(w, e, kind)
	return e, v, ok
}

func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil {
		return
	}
	for _, e := range w.Query(kind) {
		if !w.IsAlive(e) {
			continue
		}
		if v := s.get(e.id()); v != nil {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := storeFor(w, ka, false), storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		if !w.IsAlive(e) {
			continue
		}
		a, b := sa.get(e.id()), sb.get(e.id())
		if a == nil || b == nil {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeFor(w, ka, false), storeFor(w, kb, false), storeFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, e := range w.Query(ka, kb, kc) {
		if !w.IsAlive(e) {
			continue
		}
		a, b, c := sa.get(e.id()), sb.get(e.id()), sc.get(e.id())
		if a == nil || b == nil || c == nil {
			continue
		}
		fn(e, a, b, c)
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, sb, sc, sd := storeFor(w, ka, false), storeFor(w, kb, false), storeFor(w, kc, false), storeFor(w, kd, false)
	if sa == nil || sb == nil || sc == nil || sd == nil {
		return
	}
	for _, e := range w.Query(ka, kb, kc, kd) {
		if !w.IsAlive(e) {
			continue
		}
		a, b, c, d := sa.get(e.id()), sb.get(e.id()), sc.get(e.id()), sd.get(e.id())
		if a == nil || b == nil || c == nil || d == nil {
			continue
		}
		fn(e, a, b, c, d)
	}
}
