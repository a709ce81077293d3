package system

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs/component"
)

// dashCountdownDivisor converts frame milliseconds into dash timer units.
const dashCountdownDivisor = 3000.0

// motionContext gives a motion state access to the frame's input and to a
// mover that accumulates displacement on a local copy of the pose.
type motionContext struct {
	Input  component.Input
	Player *component.Player
	Motion *component.Motion
	Pose   *component.Transform
	DtMs   float64
	Move   func(delta common.Vec3)
}

// Directional actions in latch order. MoveBack never latches a dash intent.
var directionalActions = []struct {
	action component.Action
	intent component.DashIntent
}{
	{component.ActionForward, component.DashForward},
	{component.ActionBack, component.DashNone},
	{component.ActionLeft, component.DashLeft},
	{component.ActionRight, component.DashRight},
}

func directionFor(rot common.Quat, act component.Action) common.Vec3 {
	heading := rot.Right()
	side := rot.Forward()
	var d common.Vec3
	switch act {
	case component.ActionForward:
		d = heading
	case component.ActionBack:
		d = heading.Scale(-1)
	case component.ActionLeft:
		d = side
	case component.ActionRight:
		d = side.Scale(-1)
	}
	d.Y = 0
	return d
}

// stepFree handles a non-dashing frame: directional moves, intent latching
// and the dash trigger. Only a grounded player can start a dash.
func stepFree(ctx *motionContext) {
	intent := component.DashNone
	for _, da := range directionalActions {
		if !ctx.Input.Held.Has(da.action) {
			continue
		}
		ctx.Move(directionFor(ctx.Pose.Rotation, da.action).Scale(ctx.Player.MoveStep))
		if da.intent != component.DashNone {
			intent = da.intent
		}
	}

	_, grounded := ctx.Motion.State.(component.Grounded)
	if grounded && ctx.Input.Held.Has(component.ActionDash) && intent != component.DashNone {
		ctx.Motion.Intent = intent
		ctx.Motion.State = component.Dashing{Remaining: ctx.Player.StartDashTime, Direction: intent}
		return
	}
	ctx.Motion.Intent = component.DashNone
}

// stepDashing counts the dash down and applies the dash velocity. It reports
// whether the dash is still running after this frame.
func stepDashing(ctx *motionContext, d component.Dashing) bool {
	if d.Remaining <= 0 {
		ctx.Player.DashVelocity = common.Vec3{}
		ctx.Motion.Intent = component.DashNone
		return false
	}
	d.Remaining -= ctx.DtMs / dashCountdownDivisor

	side := ctx.Pose.Rotation.Forward()
	switch d.Direction {
	case component.DashForward:
		ctx.Player.DashVelocity = common.V3(0, ctx.Player.DashLift, 0)
	case component.DashLeft:
		ctx.Player.DashVelocity = side.Scale(ctx.Player.DashSideSpeed)
	case component.DashRight:
		ctx.Player.DashVelocity = side.Scale(-ctx.Player.DashSideSpeed)
	}
	ctx.Move(ctx.Player.DashVelocity)
	ctx.Motion.State = d
	return true
}

// stepVertical runs gravity, ground contact and jump every frame.
func stepVertical(ctx *motionContext, probe func(origin common.Vec3) bool) {
	vy := ctx.Pose.Velocity.Y
	if vy <= 0 {
		ctx.Player.Grounded = probe(ctx.Pose.Position)
	}
	vy -= ctx.Player.GravityRate * ctx.DtMs
	if ctx.Player.Grounded {
		vy = max(0, vy)
	}
	if ctx.Input.Held.Has(component.ActionJump) && ctx.Player.Grounded {
		vy = ctx.Player.JumpSpeed
		ctx.Player.Grounded = false
	}
	ctx.Pose.Velocity.Y = vy
	ctx.Move(common.V3(0, vy, 0))
}

func settledState(p *component.Player) component.MotionState {
	if p.Grounded {
		return component.Grounded{}
	}
	return component.Falling{}
}
