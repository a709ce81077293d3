package component

// DashIntent is the direction latched for the next dash.
type DashIntent uint8

const (
	DashNone DashIntent = iota
	DashForward
	DashLeft
	DashRight
)

func (d DashIntent) String() string {
	switch d {
	case DashForward:
		return "forward"
	case DashLeft:
		return "left"
	case DashRight:
		return "right"
	default:
		return "none"
	}
}

// MotionState is exactly one of Grounded, Falling or Dashing.
type MotionState interface {
	Name() string
	motionState()
}

type Grounded struct{}

func (Grounded) Name() string { return "grounded" }
func (Grounded) motionState() {}

type Falling struct{}

func (Falling) Name() string { return "falling" }
func (Falling) motionState() {}

// Dashing counts Remaining down to zero before the dash ends.
type Dashing struct {
	Remaining float64
	Direction DashIntent
}

func (Dashing) Name() string { return "dashing" }
func (Dashing) motionState() {}

// Motion is the player's motion state machine.
type Motion struct {
	State  MotionState
	Intent DashIntent
}

func (m Motion) IsDashing() bool {
	_, ok := m.State.(Dashing)
	return ok
}

var MotionComponent = NewComponent[Motion]()
