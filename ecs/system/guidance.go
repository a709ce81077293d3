package system

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs/component"
)

// Guidance steers a launched projectile for one frame. It returns the
// requested displacement and the projectile's new rotation.
type Guidance interface {
	Step(p *component.Projectile, pose component.Transform, target *common.Vec3) (common.Vec3, common.Quat)
}

// StraightGuidance flies along the heading captured at launch.
type StraightGuidance struct{}

func (StraightGuidance) Step(p *component.Projectile, pose component.Transform, _ *common.Vec3) (common.Vec3, common.Quat) {
	dir := p.Direction.Flat().Normalize()
	return dir.Scale(p.Speed), pose.Rotation
}

// HomingGuidance flies along its own forward axis and turns toward the target
// about world up.
type HomingGuidance struct{}

func (HomingGuidance) Step(p *component.Projectile, pose component.Transform, target *common.Vec3) (common.Vec3, common.Quat) {
	dir := pose.Rotation.Forward().Flat().Normalize()
	delta := dir.Scale(p.Speed)
	rot := pose.Rotation
	if target != nil {
		rot = common.Slerp(rot, homingGoal(pose.Position.Add(delta), *target), p.TurnRate)
	}
	return delta, rot
}

// homingGoal is the yaw-only rotation facing from toward to.
func homingGoal(from, to common.Vec3) common.Quat {
	return common.LookAt(from.Flat(), to.Flat())
}

func guidanceFor(kind component.GuidanceKind) Guidance {
	if kind == component.GuidanceHoming {
		return HomingGuidance{}
	}
	return StraightGuidance{}
}
