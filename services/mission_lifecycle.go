package services

import (
	"context"
	"errors"
	"time"

	"mission-bridge/models"
	"mission-bridge/utils"

	"github.com/google/uuid"
)

var (
	ErrNoPendingMission       = errors.New("no pending mission")
	ErrVerificationInProgress = errors.New("verification already in progress")
	ErrMissionSuperseded      = errors.New("mission was replaced during verification")
)

// DefaultVerificationDelay stands in for a real proof check.
const DefaultVerificationDelay = 1500 * time.Millisecond

// MissionPhase is the externally visible lifecycle state.
type MissionPhase string

const (
	PhaseAbsent    MissionPhase = "absent"
	PhasePending   MissionPhase = "pending"
	PhaseCompleted MissionPhase = "completed"
)

// PhaseOf reports the lifecycle phase for the current mission.
func PhaseOf(m *models.Mission) MissionPhase {
	switch {
	case m == nil:
		return PhaseAbsent
	case m.Status == models.MissionStatusCompleted:
		return PhaseCompleted
	default:
		return PhasePending
	}
}

// MissionLifecycle builds new missions from a provider and runs the synthetic
// verification step. It holds no mission itself; the Session owns the current one.
type MissionLifecycle struct {
	Provider          MissionProvider
	VerificationDelay time.Duration

	Now   func() time.Time
	NewID func() string
	After func(time.Duration) <-chan time.Time
}

func NewMissionLifecycle(provider MissionProvider, verificationDelay time.Duration) *MissionLifecycle {
	return &MissionLifecycle{
		Provider:          provider,
		VerificationDelay: verificationDelay,
		Now:               time.Now,
		NewID:             uuid.NewString,
		After:             time.After,
	}
}

// NewMission asks the provider for a descriptor and turns it into a pending
// mission. Provider failures are logged and replaced with the fallback
// descriptor, so this always returns a valid mission.
func (l *MissionLifecycle) NewMission(ctx context.Context, mood string) models.Mission {
	mood = models.NormalizeMood(mood)

	d, err := l.Provider.Provide(ctx, mood)
	if err == nil {
		d, err = normalizeDescriptor(d)
	}
	if err != nil {
		utils.Log.Warn().Err(err).Str("mood", mood).Msg("mission provider failed, using fallback mission")
		d = models.FallbackDescriptor
	}

	return models.Mission{
		ID:           l.NewID(),
		Title:        d.Title,
		Description:  d.Description,
		Difficulty:   d.Difficulty,
		RewardPoints: d.RewardPoints,
		Status:       models.MissionStatusPending,
		CreatedAt:    l.Now().UTC().Truncate(time.Millisecond),
	}
}

// Verify waits out the verification delay for a pending mission. Any evidence
// is accepted; the only failure modes are a non-pending mission and ctx.
func (l *MissionLifecycle) Verify(ctx context.Context, m *models.Mission) error {
	if !m.IsPending() {
		return ErrNoPendingMission
	}
	if l.VerificationDelay <= 0 {
		return ctx.Err()
	}

	select {
	case <-l.After(l.VerificationDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
