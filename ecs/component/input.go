package component

import "github.com/milk9111/pursuit/common"

// Action is a logical input bit.
type Action uint16

const (
	ActionForward Action = 1 << iota
	ActionBack
	ActionLeft
	ActionRight
	ActionDash
	ActionJump
	ActionFire
	ActionMission
)

// Actions is the set of held logical actions.
type Actions uint16

func (a Actions) Has(act Action) bool { return a&Actions(act) != 0 }

func (a Actions) With(act Action) Actions { return a | Actions(act) }

func (a Actions) Without(act Action) Actions { return a &^ Actions(act) }

// Input is the per-frame, read-only input snapshot. It is copied by value.
type Input struct {
	Held Actions
	// Pressed holds the actions that went down this frame.
	Pressed Actions

	// Dragging is set while the orbit pointer button is down.
	Dragging   bool
	DragTarget common.Quat

	// Pick is a ground point chosen this frame, valid when HasPick is set.
	HasPick bool
	Pick    common.Vec3
}

var InputComponent = NewComponent[Input]()
