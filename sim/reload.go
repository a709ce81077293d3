package sim

import (
	"github.com/milk9111/pursuit/logger"
	"github.com/milk9111/pursuit/prefabs"
)

// HandleChange reloads whatever an edited file affects. Entity prefabs are
// read on every build, so the next spawn picks them up without help.
func (s *Sim) HandleChange(path string) {
	switch prefabs.Classify(path) {
	case prefabs.ChangeTuning:
		t, err := prefabs.LoadTuning("")
		if err != nil {
			logger.L().Warn("tuning reload rejected", "path", path, "err", err)
			return
		}
		s.ApplyTuning(t)
	case prefabs.ChangeScript:
		s.ReloadSpawnScript(s.tuning.Combat.SpawnScript)
		logger.L().Info("spawn script reloaded", "path", path)
	case prefabs.ChangePrefab:
		logger.L().Info("prefab changed", "path", path)
	}
}
