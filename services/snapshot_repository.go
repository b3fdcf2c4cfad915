package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mission-bridge/models"
	"mission-bridge/utils"
)

// SnapshotRepository serializes the user state and the current mission into a
// SnapshotStore. Loading never fails: missing or corrupt snapshots turn into
// defaults (user) or absence (mission).
type SnapshotRepository struct {
	Store SnapshotStore
}

func NewSnapshotRepository(store SnapshotStore) *SnapshotRepository {
	return &SnapshotRepository{Store: store}
}

func (r *SnapshotRepository) SaveUser(ctx context.Context, state models.UserState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}
	if err := r.Store.Put(ctx, models.SnapshotKeyUser, string(b)); err != nil {
		return fmt.Errorf("failed to write user snapshot: %w", err)
	}
	return nil
}

// SaveMission writes the current mission, or removes the entry when m is nil.
func (r *SnapshotRepository) SaveMission(ctx context.Context, m *models.Mission) error {
	if m == nil {
		if err := r.Store.Delete(ctx, models.SnapshotKeyCurrentMission); err != nil {
			return fmt.Errorf("failed to delete mission snapshot: %w", err)
		}
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mission snapshot: %w", err)
	}
	if err := r.Store.Put(ctx, models.SnapshotKeyCurrentMission, string(b)); err != nil {
		return fmt.Errorf("failed to write mission snapshot: %w", err)
	}
	return nil
}

// LoadUser rehydrates the user state, substituting a fresh state on any problem.
func (r *SnapshotRepository) LoadUser(ctx context.Context) models.UserState {
	payload, err := r.Store.Get(ctx, models.SnapshotKeyUser)
	if errors.Is(err, ErrSnapshotNotFound) {
		return models.NewUserState()
	}
	if err != nil {
		utils.Log.Warn().Err(err).Msg("could not read user snapshot, starting fresh")
		return models.NewUserState()
	}

	state, err := DecodeUserState(payload)
	if err != nil {
		utils.Log.Warn().Err(err).Msg("discarding corrupt user snapshot")
		return models.NewUserState()
	}
	return state
}

// DecodeUserState parses a user snapshot and checks its invariants. A missing
// default theme is repaired rather than rejected.
func DecodeUserState(payload string) (models.UserState, error) {
	var state models.UserState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return models.UserState{}, err
	}
	if !state.Owns(models.DefaultThemeID) {
		state.Inventory = append([]string{models.DefaultThemeID}, state.Inventory...)
	}
	if state.History == nil {
		state.History = []models.Mission{}
	}
	if err := state.Validate(); err != nil {
		return models.UserState{}, err
	}
	return state, nil
}

// LoadMission rehydrates the current mission; nil means none is active.
func (r *SnapshotRepository) LoadMission(ctx context.Context) *models.Mission {
	payload, err := r.Store.Get(ctx, models.SnapshotKeyCurrentMission)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		utils.Log.Warn().Err(err).Msg("could not read mission snapshot")
		return nil
	}

	var m models.Mission
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		utils.Log.Warn().Err(err).Msg("discarding corrupt mission snapshot")
		return nil
	}
	if m.ID == "" || (m.Status != models.MissionStatusPending && m.Status != models.MissionStatusCompleted) {
		utils.Log.Warn().Str("id", m.ID).Msg("discarding invalid mission snapshot")
		return nil
	}
	return &m
}
