package ecs

import (
	"math"
	"sort"
)

// TimerID identifies a scheduled callback.
type TimerID uint64

const (
	wheelSlots  = 512
	wheelTickMs = 1.0
)

type timer struct {
	id       TimerID
	seq      uint64
	owner    Entity
	due      float64
	interval float64
	tick     int64
	fn       func(*World)
	dead     bool
}

// timerWheel is a hashed timing wheel with millisecond ticks. Entries whose
// tick is more than one revolution away stay in their slot until reached.
type timerWheel struct {
	slots  [][]*timer
	cursor int64
	nextID TimerID
	seq    uint64
	live   map[TimerID]*timer
}

func newTimerWheel() timerWheel {
	return timerWheel{
		slots: make([][]*timer, wheelSlots),
		live:  make(map[TimerID]*timer),
	}
}

func (tw *timerWheel) schedule(t *timer) {
	if tw.slots == nil {
		*tw = newTimerWheel()
	}
	tick := int64(math.Ceil(t.due / wheelTickMs))
	if tick <= tw.cursor {
		tick = tw.cursor + 1
	}
	t.tick = tick
	tw.seq++
	t.seq = tw.seq
	slot := tick % wheelSlots
	tw.slots[slot] = append(tw.slots[slot], t)
	tw.live[t.id] = t
}

func (tw *timerWheel) add(owner Entity, due, interval float64, fn func(*World)) TimerID {
	tw.nextID++
	t := &timer{id: tw.nextID, owner: owner, due: due, interval: interval, fn: fn}
	tw.schedule(t)
	return t.id
}

func (tw *timerWheel) cancel(id TimerID) bool {
	t, ok := tw.live[id]
	if !ok {
		return false
	}
	t.dead = true
	delete(tw.live, id)
	return true
}

func (tw *timerWheel) pending() int {
	return len(tw.live)
}

// advance fires every entry due at or before now, in due order. Callbacks
// scheduled while firing run on a later advance at the earliest.
func (tw *timerWheel) advance(w *World, now float64) {
	if tw.slots == nil {
		return
	}
	target := int64(math.Floor(now / wheelTickMs))
	if target <= tw.cursor {
		return
	}
	span := target - tw.cursor
	if span > wheelSlots {
		span = wheelSlots
	}

	var due []*timer
	for i := int64(1); i <= span; i++ {
		slot := (tw.cursor + i) % wheelSlots
		kept := tw.slots[slot][:0]
		for _, t := range tw.slots[slot] {
			switch {
			case t.dead:
			case t.tick <= target:
				due = append(due, t)
			default:
				kept = append(kept, t)
			}
		}
		for j := len(kept); j < len(tw.slots[slot]); j++ {
			tw.slots[slot][j] = nil
		}
		tw.slots[slot] = kept
	}
	tw.cursor = target

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	for _, t := range due {
		if t.dead {
			continue
		}
		if t.owner != 0 && !w.IsAlive(t.owner) {
			t.dead = true
			delete(tw.live, t.id)
			continue
		}
		if t.interval <= 0 {
			t.dead = true
			delete(tw.live, t.id)
		}
		t.fn(w)
		if t.interval > 0 && !t.dead {
			t.due += t.interval
			tw.schedule(t)
		}
	}
}

// After runs fn once, delayMs of simulated time from now. The callback is
// skipped if owner is non-zero and no longer alive when it comes due.
func (w *World) After(owner Entity, delayMs float64, fn func(*World)) TimerID {
	if w == nil || fn == nil {
		return 0
	}
	return w.timers.add(owner, w.clock.Now()+delayMs, 0, fn)
}

// Every runs fn each intervalMs of simulated time until cancelled or the owner
// dies.
func (w *World) Every(owner Entity, intervalMs float64, fn func(*World)) TimerID {
	if w == nil || fn == nil || intervalMs <= 0 {
		return 0
	}
	return w.timers.add(owner, w.clock.Now()+intervalMs, intervalMs, fn)
}

func (w *World) CancelTimer(id TimerID) bool {
	if w == nil {
		return false
	}
	return w.timers.cancel(id)
}

// PendingTimers counts scheduled callbacks that have not fired or been cancelled.
func (w *World) PendingTimers() int {
	if w == nil {
		return 0
	}
	return w.timers.pending()
}
