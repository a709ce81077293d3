// Package sim wires the world, level, navigation and systems into one
// fixed-order frame loop.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/ecs/entity"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/logger"
	"github.com/milk9111/pursuit/nav"
	"github.com/milk9111/pursuit/prefabs"
)

var agentSpawn = common.V3(-2, 0.1, -1.8)

const agentSpawnRadius = 0.5

// Sim owns one world and runs its systems in a fixed order.
type Sim struct {
	tuning prefabs.TuningSpec

	world   *ecs.World
	physics *ecs.PhysicsWorld
	mesh    *nav.NavMesh
	crowd   *nav.Crowd

	player     ecs.Entity
	projectile ecs.Entity

	input      *system.InputSystem
	combat     *system.CombatSystem
	pursuit    *system.PursuitSystem
	respawn    *system.RespawnSystem
	scheduler  *ecs.Scheduler
	navEnabled bool
}

// New builds the level and actors described by tuning. source may be nil
// for a world that only advances time.
func New(tuning prefabs.TuningSpec, source system.InputSource) (*Sim, error) {
	s := &Sim{tuning: tuning, world: ecs.NewWorld()}
	w := s.world

	lvl := entity.LayoutLevel(tuning.Level)
	pw, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.physics = pw

	if s.player, err = entity.NewPlayer(w); err != nil {
		return nil, fmt.Errorf("sim: player: %w", err)
	}
	if s.projectile, err = entity.NewProjectile(w, s.player, component.GuidanceKind(tuning.Combat.Guidance), tuning.Combat.FireRange); err != nil {
		return nil, fmt.Errorf("sim: projectile: %w", err)
	}
	spawnAt, err := entity.TargetSpawnPoint()
	if err != nil {
		return nil, fmt.Errorf("sim: target: %w", err)
	}
	if _, err := entity.NewTargetSpawner(w, spawnAt, tuning.Combat.SpawnScript); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if _, err := entity.NewMission(w, tuning.Pursuit.MissionScatter); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s.setupNavigation(lvl)

	var script *system.SpawnScript
	if tuning.Combat.SpawnScript != "" {
		script, err = system.LoadSpawnScript(tuning.Combat.SpawnScript)
		if err != nil {
			logger.L().Warn("spawn script disabled", "script", tuning.Combat.SpawnScript, "err", err)
			script = nil
		}
	}

	s.input = system.NewInputSystem(source)
	s.combat = system.NewCombatSystem(pw, combatConfig(tuning))
	s.respawn = system.NewRespawnSystem(entity.NewTargetAt, script)

	systems := []ecs.System{
		s.input,
		system.NewLocomotionSystem(pw),
		s.combat,
		system.NewEmitterSystem(),
		system.NewDebrisSystem(),
		s.respawn,
		system.NewSlideAnimationSystem(),
	}
	if s.navEnabled {
		s.pursuit = system.NewPursuitSystem(s.crowd, s.mesh, pursuitConfig(tuning))
		systems = append(systems, system.NewCrowdSystem(s.crowd), s.pursuit)
	}
	systems = append(systems, system.NewTTLSystem())
	s.scheduler = ecs.NewScheduler(systems...)

	logger.L().Info("simulation ready",
		"crates", len(lvl.NavObstacles),
		"agents", s.crowdSize(),
		"guidance", tuning.Combat.Guidance,
		"navigation", s.navEnabled,
	)
	return s, nil
}

// setupNavigation bakes the navmesh and spawns the crowd. A failure disables
// pursuit for the session.
func (s *Sim) setupNavigation(lvl entity.Level) {
	cfg := nav.DefaultConfig()
	cfg.CellSize = s.tuning.Navigation.CellSize
	cfg.WalkableRadius = s.tuning.Navigation.WalkableRadius
	cfg.QueryExtent = s.tuning.Navigation.QueryExtent
	cfg.Seed = s.tuning.Level.Seed

	mesh, err := nav.Bake(lvl.Surfaces, lvl.NavObstacles, cfg)
	if err != nil {
		logger.L().Warn("navigation disabled", "err", err)
		return
	}
	s.mesh = mesh
	s.crowd = nav.NewCrowd(mesh)

	rng := rand.New(rand.NewPCG(s.tuning.Level.Seed, 7))
	var errs []error
	for i := 0; i < s.tuning.Pursuit.CrowdSize; i++ {
		a := rng.Float64() * 2 * math.Pi
		d := math.Sqrt(rng.Float64()) * agentSpawnRadius
		at := agentSpawn.Add(common.V3(math.Cos(a)*d, 0, math.Sin(a)*d))
		if p, ok := mesh.RandomPointAround(at, agentSpawnRadius); ok {
			at = p
		}
		if _, err := entity.NewAgent(s.world, s.crowd, at, nav.DefaultAgentParams()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.L().Warn("some agents failed to spawn", "err", err)
	}
	s.navEnabled = s.crowd.AgentCount() > 0
}

func combatConfig(t prefabs.TuningSpec) system.CombatConfig {
	cfg := system.DefaultCombatConfig()
	cfg.HitEffectMs = t.Combat.HitEffectMs
	cfg.DebrisTTLMs = t.Combat.DebrisTTLMs
	cfg.DebrisCount = t.Combat.DebrisCount
	cfg.DebrisSpeed = t.Combat.DebrisSpeed
	cfg.Seed = t.Level.Seed
	return cfg
}

func pursuitConfig(t prefabs.TuningSpec) system.PursuitConfig {
	cfg := system.DefaultPursuitConfig()
	cfg.RetargetMs = t.Pursuit.RetargetMs
	cfg.RestThreshold = t.Pursuit.RestThreshold
	cfg.PickRadius = t.Pursuit.PickRadius
	return cfg
}

// Step advances simulated time by dtMs and runs every system once.
func (s *Sim) Step(dtMs float64) {
	if s == nil || dtMs < 0 {
		return
	}
	s.world.Advance(dtMs)
	s.scheduler.Update(s.world)
}

// ApplyTuning applies the parts of tuning that can change at runtime. Level
// layout and crowd size only take effect on a new Sim.
func (s *Sim) ApplyTuning(t prefabs.TuningSpec) {
	if s == nil {
		return
	}
	logger.SetLevel(t.Log.Level)
	s.combat.SetConfig(combatConfig(t))
	if s.pursuit != nil {
		s.pursuit.SetConfig(s.world, pursuitConfig(t))
	}
	if _, m, ok := ecs.Single(s.world, component.MissionComponent.Kind()); ok {
		m.Scatter = t.Pursuit.MissionScatter
	}
	if p, ok := ecs.Get(s.world, s.projectile, component.ProjectileComponent.Kind()); ok {
		if t.Combat.Guidance != "" {
			p.Guidance = component.GuidanceKind(t.Combat.Guidance)
		}
		if t.Combat.FireRange > 0 {
			p.Range = t.Combat.FireRange
		}
	}
	if t.Combat.SpawnScript != s.tuning.Combat.SpawnScript {
		s.ReloadSpawnScript(t.Combat.SpawnScript)
	}
	s.tuning = t
	logger.L().Info("tuning applied", "guidance", t.Combat.Guidance, "fire_range", t.Combat.FireRange)
}

// ReloadSpawnScript recompiles the target spawn script. An empty path or a
// compile failure falls back to the fixed spawn point.
func (s *Sim) ReloadSpawnScript(path string) {
	if path == "" {
		s.respawn.SetScript(nil)
		return
	}
	script, err := system.LoadSpawnScript(path)
	if err != nil {
		logger.L().Warn("spawn script reload failed", "script", path, "err", err)
		s.respawn.SetScript(nil)
		return
	}
	s.respawn.SetScript(script)
}

func (s *Sim) crowdSize() int {
	if s.crowd == nil {
		return 0
	}
	return s.crowd.AgentCount()
}

func (s *Sim) World() *ecs.World              { return s.world }
func (s *Sim) NavMesh() *nav.NavMesh          { return s.mesh }
func (s *Sim) Tuning() prefabs.TuningSpec     { return s.tuning }
func (s *Sim) Player() ecs.Entity             { return s.player }
func (s *Sim) Projectile() ecs.Entity         { return s.projectile }
func (s *Sim) Combat() *system.CombatSystem   { return s.combat }
func (s *Sim) Pursuit() *system.PursuitSystem { return s.pursuit }
func (s *Sim) NavigationEnabled() bool        { return s.navEnabled }
