package nav

import (
	"fmt"
	"math"

	"github.com/milk9111/pursuit/common"
)

// AgentParams are per-agent steering limits.
type AgentParams struct {
	Radius              float64
	Height              float64
	MaxAcceleration     float64
	MaxSpeed            float64
	CollisionQueryRange float64
	SeparationWeight    float64
}

func DefaultAgentParams() AgentParams {
	return AgentParams{
		Radius:              0.1,
		Height:              0.2,
		MaxAcceleration:     4,
		MaxSpeed:            2,
		CollisionQueryRange: 0.5,
		SeparationWeight:    1,
	}
}

type crowdAgent struct {
	params  AgentParams
	pos     common.Vec3
	vel     common.Vec3
	corners []common.Vec3
	target  common.Vec3
	moving  bool
}

// Crowd steers agents along navmesh paths with separation and arrival
// slowdown. Positions only change inside Update.
type Crowd struct {
	mesh   *NavMesh
	agents []*crowdAgent
}

func NewCrowd(mesh *NavMesh) *Crowd {
	return &Crowd{mesh: mesh}
}

// AddAgent snaps pos onto the mesh and returns the new agent index.
func (c *Crowd) AddAgent(pos common.Vec3, params AgentParams) (int, error) {
	if c == nil || c.mesh == nil {
		return -1, fmt.Errorf("nav: add agent: %w", ErrNoWalkableSurface)
	}
	snapped, ok := c.mesh.ClosestPoint(pos)
	if !ok {
		return -1, fmt.Errorf("nav: add agent at %v: %w", pos, ErrOffMesh)
	}
	c.agents = append(c.agents, &crowdAgent{params: params, pos: snapped})
	return len(c.agents) - 1, nil
}

func (c *Crowd) AgentCount() int {
	if c == nil {
		return 0
	}
	return len(c.agents)
}

func (c *Crowd) agent(idx int) *crowdAgent {
	if c == nil || idx < 0 || idx >= len(c.agents) {
		return nil
	}
	return c.agents[idx]
}

// AgentGoto plans a path for the agent toward dest.
func (c *Crowd) AgentGoto(idx int, dest common.Vec3) bool {
	a := c.agent(idx)
	if a == nil {
		return false
	}
	path, ok := c.mesh.ComputePath(a.pos, dest)
	if !ok || len(path) == 0 {
		return false
	}
	a.corners = path[1:]
	a.target = path[len(path)-1]
	a.moving = len(a.corners) > 0
	return true
}

func (c *Crowd) AgentPosition(idx int) (common.Vec3, bool) {
	a := c.agent(idx)
	if a == nil {
		return common.Vec3{}, false
	}
	return a.pos, true
}

func (c *Crowd) AgentVelocity(idx int) (common.Vec3, bool) {
	a := c.agent(idx)
	if a == nil {
		return common.Vec3{}, false
	}
	return a.vel, true
}

// AgentTarget returns the final corner the agent is steering toward.
func (c *Crowd) AgentTarget(idx int) (common.Vec3, bool) {
	a := c.agent(idx)
	if a == nil || !a.moving {
		return common.Vec3{}, false
	}
	return a.target, true
}

// Update advances every agent by dt seconds.
func (c *Crowd) Update(dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	desired := make([]common.Vec3, len(c.agents))
	for i, a := range c.agents {
		desired[i] = c.desiredVelocity(a)
		desired[i] = desired[i].Add(c.separation(i))
		if l := desired[i].Length(); l > a.params.MaxSpeed {
			desired[i] = desired[i].Scale(a.params.MaxSpeed / l)
		}
	}
	for i, a := range c.agents {
		dv := desired[i].Sub(a.vel)
		maxDv := a.params.MaxAcceleration * dt
		if l := dv.Length(); l > maxDv {
			dv = dv.Scale(maxDv / l)
		}
		a.vel = a.vel.Add(dv)
		c.integrate(a, dt)
	}
}

func (c *Crowd) desiredVelocity(a *crowdAgent) common.Vec3 {
	if !a.moving {
		return common.Vec3{}
	}
	const cornerReach = 0.05
	reach := math.Max(cornerReach, a.params.Radius*4)
	for len(a.corners) > 1 {
		if a.pos.PlanarDistance(a.corners[0]) >= reach && !c.mesh.lineOfSight(a.pos, a.corners[1]) {
			break
		}
		a.corners = a.corners[1:]
	}
	remaining := a.pos.PlanarDistance(a.target)
	if remaining < cornerReach {
		a.moving = false
		a.corners = nil
		return common.Vec3{}
	}
	dir := a.corners[0].Sub(a.pos).Flat().Normalize()
	// Brake so the agent can stop at the target with its acceleration limit.
	speed := math.Min(a.params.MaxSpeed, math.Sqrt(2*a.params.MaxAcceleration*remaining))
	return dir.Scale(speed)
}

func (c *Crowd) separation(i int) common.Vec3 {
	a := c.agents[i]
	if a.params.SeparationWeight <= 0 || a.params.CollisionQueryRange <= 0 {
		return common.Vec3{}
	}
	var push common.Vec3
	for j, o := range c.agents {
		if j == i {
			continue
		}
		diff := a.pos.Sub(o.pos).Flat()
		d := diff.Length()
		if d >= a.params.CollisionQueryRange {
			continue
		}
		dir := diff.Normalize()
		if d < 1e-6 {
			// Coincident agents split deterministically by index.
			angle := float64(i) * 2.399963
			dir, d = common.V3(math.Cos(angle), 0, math.Sin(angle)), 0
		}
		w := a.params.SeparationWeight * (1 - d/a.params.CollisionQueryRange)
		push = push.Add(dir.Scale(w))
	}
	return push
}

func (c *Crowd) integrate(a *crowdAgent, dt float64) {
	step := a.vel.Flat().Scale(dt)
	if step.IsZero() {
		return
	}
	next := a.pos.Add(step)
	switch {
	case c.mesh.Walkable(next):
	case c.mesh.Walkable(common.V3(next.X, a.pos.Y, a.pos.Z)):
		next.Z = a.pos.Z
		a.vel.Z = 0
	case c.mesh.Walkable(common.V3(a.pos.X, a.pos.Y, next.Z)):
		next.X = a.pos.X
		a.vel.X = 0
	default:
		a.vel = common.Vec3{}
		return
	}
	if snapped, ok := c.mesh.ClosestPoint(next); ok {
		next.Y = snapped.Y
	}
	a.pos = next
}
