package system

import (
	"math"
	"sort"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

// CrowdSystem steps the crowd simulation by the frame delta.
type CrowdSystem struct {
	crowd Crowd
}

func NewCrowdSystem(crowd Crowd) *CrowdSystem {
	return &CrowdSystem{crowd: crowd}
}

func (s *CrowdSystem) Update(w *ecs.World) {
	if s == nil || s.crowd == nil || w == nil {
		return
	}
	s.crowd.Update(w.Clock().Delta() / 1000)
}

// PursuitConfig holds the pursuit arbitration tuning.
type PursuitConfig struct {
	RetargetMs    float64
	RestThreshold float64
	PickRadius    float64
	// TurnSpeed is the speed above which agents turn toward their velocity.
	TurnSpeed    float64
	PickMarkerMs float64
}

func DefaultPursuitConfig() PursuitConfig {
	return PursuitConfig{
		RetargetMs:    3000,
		RestThreshold: 0.5,
		PickRadius:    1.0,
		TurnSpeed:     0.2,
		PickMarkerMs:  1500,
	}
}

// PathComputed is the payload of a path_computed event.
type PathComputed struct {
	Agent  ecs.Entity
	Points []common.Vec3
}

// PursuitSystem mirrors crowd poses onto agent actors and arbitrates between
// following the player and pursuing a picked destination. It only ever writes
// commanded destinations to the crowd.
type PursuitSystem struct {
	crowd Crowd
	nav   Navigator
	cfg   PursuitConfig
	timer ecs.TimerID
}

func NewPursuitSystem(crowd Crowd, nav Navigator, cfg PursuitConfig) *PursuitSystem {
	return &PursuitSystem{crowd: crowd, nav: nav, cfg: cfg}
}

// SetConfig applies new tuning; a changed retarget interval restarts the timer.
func (s *PursuitSystem) SetConfig(w *ecs.World, cfg PursuitConfig) {
	if s == nil {
		return
	}
	if cfg.RetargetMs != s.cfg.RetargetMs && s.timer != 0 {
		w.CancelTimer(s.timer)
		s.timer = 0
	}
	s.cfg = cfg
}

func (s *PursuitSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.crowd == nil || s.nav == nil {
		return
	}
	me, mission, ok := ecs.Single(w, component.MissionComponent.Kind())
	if !ok {
		return
	}
	if s.timer == 0 {
		s.timer = w.Every(me, s.cfg.RetargetMs, s.retarget)
		mission.RetargetTimer = uint64(s.timer)
	}

	s.syncAgents(w)

	if lead, ok := s.leadPosition(w); ok && mission.HasDestination {
		mission.RestDistance = mission.Destination.PlanarDistance(lead)
	}

	if _, in, ok := playerInput(w); ok && in.HasPick {
		s.OnDestinationPicked(w, in.Pick)
	}
}

func (s *PursuitSystem) syncAgents(w *ecs.World) {
	ecs.ForEach2(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, a *component.Agent, t *component.Transform) {
		pos, ok := s.crowd.AgentPosition(a.Index)
		if !ok {
			return
		}
		vel, _ := s.crowd.AgentVelocity(a.Index)
		t.Position = pos
		t.Velocity = vel
		if vel.Length() > s.cfg.TurnSpeed {
			goal := common.QuatFromYaw(math.Atan2(vel.X, vel.Z))
			t.Rotation = common.Slerp(t.Rotation, goal, a.TurnRate)
		}
	})
}

type agentRef struct {
	entity ecs.Entity
	index  int
}

// agents returns live agents ordered by crowd index; the first is the lead.
func agents(w *ecs.World) []agentRef {
	var out []agentRef
	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, a *component.Agent) {
		out = append(out, agentRef{entity: e, index: a.Index})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func (s *PursuitSystem) leadPosition(w *ecs.World) (common.Vec3, bool) {
	all := agents(w)
	if len(all) == 0 {
		return common.Vec3{}, false
	}
	return s.crowd.AgentPosition(all[0].index)
}

func playerPosition(w *ecs.World) (common.Vec3, bool) {
	pe, _, ok := ecs.Single(w, component.PlayerComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	t, ok := ecs.Get(w, pe, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	return t.Position, true
}

func playerInput(w *ecs.World) (ecs.Entity, *component.Input, bool) {
	pe, _, ok := ecs.Single(w, component.PlayerComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	in, ok := ecs.Get(w, pe, component.InputComponent.Kind())
	return pe, in, ok
}

// retarget runs on the retarget timer.
func (s *PursuitSystem) retarget(w *ecs.World) {
	_, mission, ok := ecs.Single(w, component.MissionComponent.Kind())
	if !ok {
		return
	}
	switch mission.State {
	case component.MissionIdle:
		s.followPlayer(w, mission)
	case component.MissionPursuing:
		if mission.RestDistance < s.cfg.RestThreshold {
			s.followPlayer(w, mission)
			mission.State = component.MissionIdle
			logger.L().Debug("mission complete", "rest", mission.RestDistance)
		}
	}
}

func (s *PursuitSystem) followPlayer(w *ecs.World, mission *component.Mission) {
	pos, ok := playerPosition(w)
	if !ok {
		return
	}
	dest, ok := s.nav.ClosestPoint(pos)
	if !ok {
		return
	}
	for _, a := range agents(w) {
		s.crowd.AgentGoto(a.index, dest)
	}
	mission.Destination = dest
	mission.HasDestination = true
}

// OnDestinationPicked sends every agent toward a picked point and switches the
// mission to pursuing.
func (s *PursuitSystem) OnDestinationPicked(w *ecs.World, pick common.Vec3) {
	if s == nil || w == nil || s.nav == nil || s.crowd == nil {
		return
	}
	_, mission, ok := ecs.Single(w, component.MissionComponent.Kind())
	if !ok {
		return
	}
	dest, ok := s.nav.ClosestPoint(pick)
	if !ok {
		logger.L().Debug("pick off mesh, dropped", "pick", pick)
		return
	}

	all := agents(w)
	for i, a := range all {
		goal := dest
		sample, sampled := s.nav.RandomPointAround(pick, s.cfg.PickRadius)
		if mission.Scatter && i > 0 && sampled {
			goal = sample
		}
		s.crowd.AgentGoto(a.index, goal)
	}
	mission.Destination = dest
	mission.HasDestination = true
	mission.State = component.MissionPursuing
	mission.Path = nil

	if len(all) > 0 {
		if lead, ok := s.crowd.AgentPosition(all[0].index); ok {
			mission.RestDistance = dest.PlanarDistance(lead)
			if path, ok := s.nav.ComputePath(lead, dest); ok {
				mission.Path = path
				w.Events().Emit(ecs.EventPathComputed, PathComputed{Agent: all[0].entity, Points: path})
			}
		}
	}

	marker := w.CreateEntity()
	_ = ecs.Add(w, marker, component.TransformComponent.Kind(), &component.Transform{Position: dest, Rotation: common.IdentityQuat()})
	_ = ecs.Add(w, marker, component.PickMarkerComponent.Kind(), &component.PickMarker{Radius: s.cfg.PickRadius})
	_ = ecs.Add(w, marker, component.TTLComponent.Kind(), &component.TTL{Millis: s.cfg.PickMarkerMs})

	logger.L().Debug("mission started", "destination", dest, "agents", len(all))
}
