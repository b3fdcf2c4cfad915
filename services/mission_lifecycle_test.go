package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mission-bridge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	descriptor models.MissionDescriptor
	err        error
	moods      []string
}

func (p *stubProvider) Provide(_ context.Context, mood string) (models.MissionDescriptor, error) {
	p.moods = append(p.moods, mood)
	return p.descriptor, p.err
}

func fixedLifecycle(p MissionProvider) *MissionLifecycle {
	l := NewMissionLifecycle(p, 0)
	l.Now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 890123456, time.UTC) }
	l.NewID = func() string { return "mission-id" }
	return l
}

func TestNewMissionFromProvider(t *testing.T) {
	p := &stubProvider{descriptor: models.MissionDescriptor{
		Title:        "Read two pages",
		Description:  "Any book will do.",
		Difficulty:   models.DifficultyMedium,
		RewardPoints: 40,
	}}
	m := fixedLifecycle(p).NewMission(context.Background(), "bored")

	assert.Equal(t, "mission-id", m.ID)
	assert.Equal(t, "Read two pages", m.Title)
	assert.Equal(t, models.DifficultyMedium, m.Difficulty)
	assert.Equal(t, 40, m.RewardPoints)
	assert.Equal(t, models.MissionStatusPending, m.Status)
	assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC), m.CreatedAt)
	assert.Equal(t, []string{"bored"}, p.moods)
}

func TestNewMissionUsesFallbackOnProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("network down")}
	m := fixedLifecycle(p).NewMission(context.Background(), "anxious")

	assert.Equal(t, models.MissionStatusPending, m.Status)
	assert.Equal(t, models.FallbackDescriptor.Title, m.Title)
	assert.Equal(t, models.FallbackDescriptor.Description, m.Description)
	assert.Equal(t, models.FallbackDescriptor.Difficulty, m.Difficulty)
	assert.Equal(t, models.FallbackDescriptor.RewardPoints, m.RewardPoints)
	assert.NotEmpty(t, m.ID)
}

func TestNewMissionNormalizesDescriptor(t *testing.T) {
	p := &stubProvider{descriptor: models.MissionDescriptor{
		Title:        "  Stretch  ",
		Difficulty:   "Legendary",
		RewardPoints: -5,
	}}
	m := fixedLifecycle(p).NewMission(context.Background(), "")

	assert.Equal(t, "Stretch", m.Title)
	assert.Equal(t, models.DifficultyEasy, m.Difficulty)
	assert.Equal(t, 0, m.RewardPoints)
	assert.Equal(t, []string{models.DefaultMood}, p.moods)
}

func TestNewMissionRejectsEmptyTitle(t *testing.T) {
	p := &stubProvider{descriptor: models.MissionDescriptor{Title: "   ", RewardPoints: 999}}
	m := fixedLifecycle(p).NewMission(context.Background(), "lonely")

	assert.Equal(t, models.FallbackDescriptor.Title, m.Title)
	assert.Equal(t, models.FallbackDescriptor.RewardPoints, m.RewardPoints)
}

func TestVerify(t *testing.T) {
	l := NewMissionLifecycle(&stubProvider{}, 10*time.Millisecond)

	assert.NoError(t, l.Verify(context.Background(), pendingMission(10)))
	assert.ErrorIs(t, l.Verify(context.Background(), nil), ErrNoPendingMission)

	done := pendingMission(10)
	done.Status = models.MissionStatusCompleted
	assert.ErrorIs(t, l.Verify(context.Background(), done), ErrNoPendingMission)
}

func TestVerifyWaitsConfiguredDelay(t *testing.T) {
	l := NewMissionLifecycle(&stubProvider{}, DefaultVerificationDelay)
	var waited time.Duration
	fired := make(chan time.Time, 1)
	fired <- time.Time{}
	l.After = func(d time.Duration) <-chan time.Time {
		waited = d
		return fired
	}

	require.NoError(t, l.Verify(context.Background(), pendingMission(10)))
	assert.Equal(t, 1500*time.Millisecond, waited)
}

func TestVerifyHonoursCancellation(t *testing.T) {
	l := NewMissionLifecycle(&stubProvider{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Verify(ctx, pendingMission(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPhaseOf(t *testing.T) {
	assert.Equal(t, PhaseAbsent, PhaseOf(nil))
	m := pendingMission(1)
	assert.Equal(t, PhasePending, PhaseOf(m))
	m.Status = models.MissionStatusCompleted
	assert.Equal(t, PhaseCompleted, PhaseOf(m))
}
