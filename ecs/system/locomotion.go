package system

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

// LocomotionSystem is the only writer of the player Transform. All moves of a
// frame go through the collider on a local pose that is committed once.
type LocomotionSystem struct {
	collider Collider
}

func NewLocomotionSystem(collider Collider) *LocomotionSystem {
	return &LocomotionSystem{collider: collider}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.collider == nil {
		return
	}
	e, player, ok := ecs.Single(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	if !ok {
		return
	}
	var input component.Input
	if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
		input = *in
	}
	half := common.V3(0.5, 0.5, 0.5)
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		half = c.Half
	}

	pose := *t
	ctx := &motionContext{
		Input:  input,
		Player: player,
		Motion: motion,
		Pose:   &pose,
		DtMs:   w.Clock().Delta(),
		Move: func(delta common.Vec3) {
			pose.Position = pose.Position.Add(s.collider.MoveWithCollisions(pose.Position, half, delta))
		},
	}

	prev := motion.State
	dashing := false
	if d, ok := motion.State.(component.Dashing); ok {
		dashing = stepDashing(ctx, d)
	} else {
		stepFree(ctx)
		_, dashing = motion.State.(component.Dashing)
	}

	stepVertical(ctx, func(origin common.Vec3) bool {
		return s.collider.Probe(origin, common.Down3, player.ProbeLength)
	})

	if input.Dragging {
		pose.Rotation = common.Slerp(pose.Rotation, input.DragTarget, player.TurnRate)
	}

	if !dashing {
		motion.State = settledState(player)
	}
	if prev == nil || prev.Name() != motion.State.Name() {
		logger.L().Debug("motion state", "from", stateName(prev), "to", motion.State.Name(), "intent", motion.Intent.String())
	}

	*t = pose
}

func stateName(s component.MotionState) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}
