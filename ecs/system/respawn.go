package system

import (
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/logger"
)

// SpawnFunc builds a target at a point and returns it.
type SpawnFunc func(w *ecs.World, at common.Vec3) (ecs.Entity, error)

// RespawnSystem keeps at most one target alive. A new target appears once the
// spawner is ready and the previous target's debris has been disposed.
type RespawnSystem struct {
	spawn  SpawnFunc
	script *SpawnScript
}

func NewRespawnSystem(spawn SpawnFunc, script *SpawnScript) *RespawnSystem {
	return &RespawnSystem{spawn: spawn, script: script}
}

// SetScript replaces the spawn point script. A nil script uses the spawner's
// fixed point.
func (s *RespawnSystem) SetScript(script *SpawnScript) {
	if s == nil {
		return
	}
	s.script = script
}

func (s *RespawnSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.spawn == nil {
		return
	}
	sp := spawnerOf(w)
	if sp == nil || !sp.Ready || sp.Guarded {
		return
	}
	if _, ok := w.First(component.TargetComponent.Kind()); ok {
		return
	}

	at := sp.SpawnPoint
	if s.script != nil {
		p, err := s.script.Point(sp.Respawns, sp.SpawnPoint)
		if err != nil {
			logger.L().Warn("spawn script failed, using fixed point", "script", s.script.Path(), "err", err)
		} else {
			at = p
		}
	}

	e, err := s.spawn(w, at)
	sp.Ready = false
	if err != nil {
		logger.L().Warn("target spawn failed", "prefab", sp.Prefab, "err", err)
		return
	}
	sp.Guarded = true
	sp.Respawns++
	w.Events().Emit(ecs.EventActorSpawned, ecs.EntityEvent{Entity: e, Kind: "target"})
	logger.L().Debug("target spawned", "target", e.String(), "at", at, "respawns", sp.Respawns)
}
