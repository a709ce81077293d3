package system

import (
	"math"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

// DefaultKeyMap binds key names to logical actions.
var DefaultKeyMap = map[string]component.Action{
	"w":          component.ActionForward,
	"arrowup":    component.ActionForward,
	"s":          component.ActionBack,
	"arrowdown":  component.ActionBack,
	"a":          component.ActionLeft,
	"arrowleft":  component.ActionLeft,
	"d":          component.ActionRight,
	"arrowright": component.ActionRight,
	"shift":      component.ActionDash,
	"c":          component.ActionJump,
	"space":      component.ActionJump,
	"f":          component.ActionFire,
	"z":          component.ActionMission,
}

const (
	dragSensitivity = 0.01
	initialAlpha    = -math.Pi / 2
)

// InputSystem turns raw device events into the per-frame Input snapshot.
// Repeated key-down events for a held key are ignored, as are key-ups for
// keys that are not held.
type InputSystem struct {
	source InputSource
	keys   map[string]component.Action

	held     map[string]bool
	dragging bool
	alpha    float64
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{
		source: source,
		keys:   DefaultKeyMap,
		held:   make(map[string]bool),
		alpha:  initialAlpha,
	}
}

// Alpha is the orbit angle accumulated from pointer drags.
func (s *InputSystem) Alpha() float64 {
	return s.alpha
}

func (s *InputSystem) actions() component.Actions {
	var out component.Actions
	for key, down := range s.held {
		if act, ok := s.keys[key]; ok && down {
			out = out.With(act)
		}
	}
	return out
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var events []RawEvent
	if s.source != nil {
		events = s.source.Poll()
	}

	// Pressed collects every accepted key-down, so a tap that goes down and up
	// within one poll still registers for this frame.
	var pressed component.Actions
	var pick common.Vec3
	hasPick := false
	for _, ev := range events {
		switch ev.Kind {
		case KeyDown:
			if s.held[ev.Key] {
				continue
			}
			if act, ok := s.keys[ev.Key]; ok && !s.actions().Has(act) {
				pressed = pressed.With(act)
			}
			s.held[ev.Key] = true
		case KeyUp:
			if !s.held[ev.Key] {
				continue
			}
			delete(s.held, ev.Key)
		case DragStart:
			s.dragging = true
		case DragMove:
			if s.dragging {
				s.alpha += ev.DX * dragSensitivity
			}
		case DragEnd:
			s.dragging = false
		case PointerPick:
			// A pick only becomes a destination while the mission modifier is
			// down at the moment of the pick, or was tapped earlier this frame.
			if s.actions().Has(component.ActionMission) || pressed.Has(component.ActionMission) {
				pick, hasPick = ev.Point, true
			}
		}
	}

	snapshot := component.Input{
		Held:       s.actions(),
		Pressed:    pressed,
		Dragging:   s.dragging,
		DragTarget: common.QuatFromYaw(math.Pi - s.alpha),
	}
	if hasPick {
		snapshot.HasPick = true
		snapshot.Pick = pick
		logger.L().Debug("destination picked", "point", pick)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = snapshot
	})
}
