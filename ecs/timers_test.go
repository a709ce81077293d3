package ecs

import "testing"

func advanceFrames(w *World, frames int, dtMs float64) {
	for i := 0; i < frames; i++ {
		w.Advance(dtMs)
	}
}

func TestAfterFiresOnceAtDueTime(t *testing.T) {
	tests := []struct {
		name   string
		delay  float64
		dt     float64
		frames int
		want   int
	}{
		{"before_due", 3000, 100, 29, 0},
		{"exactly_due", 3000, 100, 30, 1},
		{"well_past_due", 3000, 100, 80, 1},
		{"large_jump", 5000, 20000, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			fired := 0
			w.After(0, tc.delay, func(*World) { fired++ })
			advanceFrames(w, tc.frames, tc.dt)
			if fired != tc.want {
				t.Fatalf("fired %d times, want %d", fired, tc.want)
			}
		})
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	w := NewWorld()
	fired := 0
	id := w.Every(0, 3000, func(*World) { fired++ })
	advanceFrames(w, 100, 100) // 10 s
	if fired != 3 {
		t.Fatalf("expected 3 firings in 10s, got %d", fired)
	}
	if !w.CancelTimer(id) {
		t.Fatalf("cancel should succeed for live timer")
	}
	advanceFrames(w, 100, 100)
	if fired != 3 {
		t.Fatalf("cancelled timer fired again")
	}
	if w.CancelTimer(id) {
		t.Fatalf("second cancel should report false")
	}
}

func TestTimerSkippedWhenOwnerDies(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	fired := false
	w.After(owner, 500, func(*World) { fired = true })

	w.DestroyEntity(owner)
	recycled := w.CreateEntity()
	if recycled.id() != owner.id() {
		t.Fatalf("expected slot reuse")
	}
	advanceFrames(w, 10, 100)
	if fired {
		t.Fatalf("timer keyed on a dead generation must not fire")
	}
	if w.PendingTimers() != 0 {
		t.Fatalf("expected no pending timers, got %d", w.PendingTimers())
	}
}

func TestTimersFireInDueOrder(t *testing.T) {
	w := NewWorld()
	var order []int
	w.After(0, 900, func(*World) { order = append(order, 3) })
	w.After(0, 100, func(*World) { order = append(order, 1) })
	w.After(0, 500, func(*World) { order = append(order, 2) })
	w.After(0, 500, func(*World) { order = append(order, 22) })
	w.Advance(1000)

	want := []int{1, 2, 22, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestTimerScheduledFromCallbackWaitsForNextAdvance(t *testing.T) {
	w := NewWorld()
	var hits []float64
	w.After(0, 100, func(w *World) {
		hits = append(hits, w.Clock().Now())
		w.After(0, 0, func(w *World) { hits = append(hits, w.Clock().Now()) })
	})
	w.Advance(100)
	if len(hits) != 1 {
		t.Fatalf("nested timer fired in the same advance: %v", hits)
	}
	w.Advance(16)
	if len(hits) != 2 || hits[1] != 116 {
		t.Fatalf("expected nested timer on next advance, got %v", hits)
	}
}
