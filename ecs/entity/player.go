package entity

import (
	"fmt"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewPlayerAt(w *ecs.World, pos common.Vec3) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityPosition(w, entity, pos); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}
