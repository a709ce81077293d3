package component

import "github.com/milk9111/pursuit/common"

// Player holds locomotion tuning and the runtime ground/dash state.
type Player struct {
	MoveStep      float64
	JumpSpeed     float64
	GravityRate   float64
	ProbeLength   float64
	StartDashTime float64
	DashLift      float64
	DashSideSpeed float64
	TurnRate      float64

	Grounded     bool
	DashVelocity common.Vec3
}

var PlayerComponent = NewComponent[Player]()
