package services

import (
	"context"
	"errors"
	"strings"

	"mission-bridge/models"
)

// MissionProvider produces a mission descriptor for a mood hint. Implementations
// may fail; callers substitute models.FallbackDescriptor.
type MissionProvider interface {
	Provide(ctx context.Context, mood string) (models.MissionDescriptor, error)
}

var ErrEmptyDescriptor = errors.New("mission descriptor has no title")

// normalizeDescriptor makes a provider result safe to turn into a mission.
func normalizeDescriptor(d models.MissionDescriptor) (models.MissionDescriptor, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return d, ErrEmptyDescriptor
	}
	if !d.Difficulty.Valid() {
		d.Difficulty = models.DifficultyEasy
	}
	if d.RewardPoints < 0 {
		d.RewardPoints = 0
	}
	return d, nil
}
