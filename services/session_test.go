package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mission-bridge/models"
	"mission-bridge/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, store SnapshotStore, provider MissionProvider, delay time.Duration) *Session {
	t.Helper()
	uploads, err := utils.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewSession(context.Background(),
		NewEconomy(models.ThemeCatalog),
		NewMissionLifecycle(provider, delay),
		NewSnapshotRepository(store),
		uploads,
	)
}

func rewardProvider(reward int) *stubProvider {
	return &stubProvider{descriptor: models.MissionDescriptor{
		Title:        "Five minute walk",
		Description:  "Walk around the block.",
		Difficulty:   models.DifficultyMedium,
		RewardPoints: reward,
	}}
}

func multipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSessionCompletesMission(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()
	s := newTestSession(t, store, rewardProvider(50), 0)

	assert.Equal(t, PhaseAbsent, s.Mission().Phase)

	m := s.GenerateMission(ctx, "bored")
	assert.Equal(t, models.MissionStatusPending, m.Status)
	assert.Equal(t, PhasePending, s.Mission().Phase)

	done, err := s.SubmitForVerification(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.ID, done.ID)
	assert.Equal(t, models.MissionStatusCompleted, done.Status)

	user := s.User()
	assert.Equal(t, 100, user.Credits)
	assert.Equal(t, 1, user.Streak)
	require.Len(t, user.History, 1)
	assert.Equal(t, done, user.History[0])
	assert.Equal(t, PhaseCompleted, s.Mission().Phase)

	// a completed mission cannot be submitted again
	_, err = s.SubmitForVerification(ctx)
	assert.ErrorIs(t, err, ErrNoPendingMission)
	assert.Equal(t, 100, s.User().Credits)

	// both snapshots were written and rehydrate into an equal session
	restored := newTestSession(t, store, rewardProvider(50), 0)
	assert.Equal(t, user, restored.User())
	assert.Equal(t, &done, restored.Mission().Mission)
}

func TestSessionSubmitWithoutMission(t *testing.T) {
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(50), 0)

	_, err := s.SubmitForVerification(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingMission)
	assert.Equal(t, models.NewUserState(), s.User())
}

func TestSessionProviderFailureStillYieldsPendingMission(t *testing.T) {
	s := newTestSession(t, NewMemorySnapshotStore(), &stubProvider{err: context.DeadlineExceeded}, 0)

	m := s.GenerateMission(context.Background(), "anxious")
	assert.Equal(t, models.MissionStatusPending, m.Status)
	assert.Equal(t, models.FallbackDescriptor.Title, m.Title)
	assert.Equal(t, models.FallbackDescriptor.RewardPoints, m.RewardPoints)
}

func TestSessionNewMissionReplacesCompletedOne(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(10), 0)

	first := s.GenerateMission(ctx, "bored")
	_, err := s.SubmitForVerification(ctx)
	require.NoError(t, err)

	second := s.GenerateMission(ctx, "bored")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, PhasePending, s.Mission().Phase)
	assert.Len(t, s.User().History, 1)
}

// gateVerification makes Verify block until the returned release func runs.
// entered is closed once the verification delay starts.
func gateVerification(s *Session) (entered <-chan struct{}, release func()) {
	gate := make(chan time.Time)
	started := make(chan struct{})
	var once sync.Once
	s.Lifecycle.VerificationDelay = time.Hour
	s.Lifecycle.After = func(time.Duration) <-chan time.Time {
		once.Do(func() { close(started) })
		return gate
	}
	return started, func() { close(gate) }
}

func TestSessionVerificationGuards(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(50), 0)
	entered, release := gateVerification(s)
	s.GenerateMission(ctx, "bored")

	errs := make(chan error, 1)
	go func() {
		_, err := s.SubmitForVerification(ctx)
		errs <- err
	}()
	<-entered
	assert.True(t, s.Mission().Verifying)

	_, err := s.SubmitForVerification(ctx)
	assert.ErrorIs(t, err, ErrVerificationInProgress)

	// replacing the mission mid-verification drops the reward
	s.GenerateMission(ctx, "lonely")
	release()
	assert.ErrorIs(t, <-errs, ErrMissionSuperseded)

	user := s.User()
	assert.Equal(t, models.InitialCredits, user.Credits)
	assert.Equal(t, 0, user.Streak)
	assert.Equal(t, PhasePending, s.Mission().Phase)
	assert.False(t, s.Mission().Verifying)
}

func TestSessionVerificationCompletesAfterDelay(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(50), 0)
	entered, release := gateVerification(s)
	m := s.GenerateMission(ctx, "bored")

	done := make(chan models.Mission, 1)
	go func() {
		got, err := s.SubmitForVerification(ctx)
		assert.NoError(t, err)
		done <- got
	}()
	<-entered
	assert.Equal(t, models.InitialCredits, s.User().Credits)

	release()
	assert.Equal(t, m.ID, (<-done).ID)
	assert.Equal(t, models.InitialCredits+50, s.User().Credits)
	assert.False(t, s.Mission().Verifying)
}

func TestSessionShopPersistsOnlyAcceptedTransitions(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()
	s := newTestSession(t, store, rewardProvider(100), 0)

	assert.False(t, s.PurchaseTheme(ctx, "forest"))
	_, err := store.Get(ctx, models.SnapshotKeyUser)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	s.GenerateMission(ctx, "energetic")
	_, err = s.SubmitForVerification(ctx)
	require.NoError(t, err)

	require.True(t, s.PurchaseTheme(ctx, "forest"))
	require.True(t, s.EquipTheme(ctx, "forest"))
	assert.False(t, s.EquipTheme(ctx, "midnight"))

	restored := newTestSession(t, store, rewardProvider(100), 0)
	user := restored.User()
	assert.Equal(t, 0, user.Credits)
	assert.Equal(t, []string{"default", "forest"}, user.Inventory)
	assert.Equal(t, "forest", user.ActiveThemeID)
	assert.Equal(t, "forest", restored.ActiveTheme().ID)
}

func TestSessionUserWithThemeIsConsistent(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(100), 0)
	s.GenerateMission(ctx, "energetic")
	_, err := s.SubmitForVerification(ctx)
	require.NoError(t, err)
	require.True(t, s.PurchaseTheme(ctx, "forest"))

	stop := make(chan struct{})
	equipped := make(chan struct{})
	go func() {
		defer close(equipped)
		ids := []string{"default", "forest"}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.EquipTheme(ctx, ids[i%2])
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		user, theme := s.UserWithTheme()
		require.Equal(t, user.ActiveThemeID, theme.ID)
	}
	close(stop)
	<-equipped
}

func TestSessionProofLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, NewMemorySnapshotStore(), rewardProvider(20), 0)
	dir := s.Proofs.(*utils.LocalStorage).Dir

	_, err := s.AttachProof(ctx, multipartFile(t, "proof", "desk.png", []byte("png")))
	assert.ErrorIs(t, err, ErrNoPendingMission)

	m := s.GenerateMission(ctx, "bored")
	proof, err := s.AttachProof(ctx, multipartFile(t, "proof", "My Desk.PNG", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "proofs/"+m.ID+"/my-desk.png", proof.Key)
	assert.Equal(t, "/uploads/proofs/"+m.ID+"/my-desk.png", proof.URL)
	assert.FileExists(t, filepath.Join(dir, "proofs", m.ID, "my-desk.png"))
	assert.Equal(t, proof.URL, s.Mission().ProofURL)

	// proofs never touch the economy
	assert.Equal(t, models.NewUserState(), s.User())

	s.DetachProof(ctx)
	assert.Empty(t, s.Mission().ProofURL)
	_, err = os.Stat(filepath.Join(dir, "proofs", m.ID, "my-desk.png"))
	assert.True(t, os.IsNotExist(err))

	_, err = s.AttachProof(ctx, multipartFile(t, "proof", "walk.jpg", []byte("jpg")))
	require.NoError(t, err)
	s.GenerateMission(ctx, "bored")
	assert.Empty(t, s.Mission().ProofURL)
}
