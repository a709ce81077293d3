package entity

import (
	"fmt"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/nav"
)

// AgentAdder registers a crowd agent and returns its index.
type AgentAdder interface {
	AddAgent(pos common.Vec3, params nav.AgentParams) (int, error)
	AgentPosition(idx int) (common.Vec3, bool)
}

// NewAgent builds an agent actor and its crowd slot at pos.
func NewAgent(w *ecs.World, crowd AgentAdder, pos common.Vec3, params nav.AgentParams) (ecs.Entity, error) {
	if crowd == nil {
		return 0, fmt.Errorf("agent: no crowd")
	}
	idx, err := crowd.AddAgent(pos, params)
	if err != nil {
		return 0, fmt.Errorf("agent: %w", err)
	}
	e, err := BuildEntity(w, "agent.yaml")
	if err != nil {
		return 0, err
	}
	a, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("agent: prefab has no agent component")
	}
	a.Index = idx
	snapped, _ := crowd.AgentPosition(idx)
	if err := SetEntityPosition(w, e, snapped); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("agent: %w", err)
	}
	return e, nil
}

// NewMission creates the shared mission state.
func NewMission(w *ecs.World, scatter bool) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.MissionComponent.Kind(), &component.Mission{Scatter: scatter}); err != nil {
		return 0, fmt.Errorf("mission: %w", err)
	}
	return e, nil
}
