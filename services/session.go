package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"

	"mission-bridge/models"
	"mission-bridge/utils"
)

var ErrProofStorageDisabled = errors.New("proof storage is not configured")

// Session owns the user state and the current mission. Every mutation goes
// through Economy or MissionLifecycle and is persisted only when accepted.
type Session struct {
	Economy   *Economy
	Lifecycle *MissionLifecycle
	Repo      *SnapshotRepository
	Proofs    ProofStore

	mu         sync.Mutex
	user       models.UserState
	current    *models.Mission
	proof      *Proof
	generating int
	verifying  bool
}

// MissionView is a read-only picture of the mission side of the session.
type MissionView struct {
	Mission    *models.Mission `json:"mission"`
	Phase      MissionPhase    `json:"phase"`
	Generating bool            `json:"generating"`
	Verifying  bool            `json:"verifying"`
	ProofURL   string          `json:"proof_url"`
}

// NewSession rehydrates the session from the repository.
func NewSession(ctx context.Context, economy *Economy, lifecycle *MissionLifecycle, repo *SnapshotRepository, proofs ProofStore) *Session {
	s := &Session{
		Economy:   economy,
		Lifecycle: lifecycle,
		Repo:      repo,
		Proofs:    proofs,
		user:      repo.LoadUser(ctx),
		current:   repo.LoadMission(ctx),
	}
	utils.Log.Info().
		Int("credits", s.user.Credits).
		Int("streak", s.user.Streak).
		Bool("has_mission", s.current != nil).
		Msg("session restored")
	return s
}

// User returns a copy of the user state.
func (s *Session) User() models.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// UserWithTheme returns the user state and its active theme read under one lock.
func (s *Session) UserWithTheme() (models.UserState, models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone(), s.Economy.ActiveTheme(&s.user)
}

func (s *Session) ActiveTheme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Economy.ActiveTheme(&s.user)
}

func (s *Session) Mission() MissionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missionViewLocked()
}

func (s *Session) missionViewLocked() MissionView {
	v := MissionView{
		Phase:      PhaseOf(s.current),
		Generating: s.generating > 0,
		Verifying:  s.verifying,
	}
	if s.current != nil {
		m := *s.current
		v.Mission = &m
	}
	if s.proof != nil {
		v.ProofURL = s.proof.URL
	}
	return v
}

// GenerateMission discards whatever mission is current and installs a fresh
// pending one. Requests are not serialized against each other: the one that
// resolves last wins.
func (s *Session) GenerateMission(ctx context.Context, mood string) models.Mission {
	s.mu.Lock()
	s.generating++
	s.mu.Unlock()

	m := s.Lifecycle.NewMission(ctx, mood)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating--
	s.current = &m
	s.dropProofLocked(ctx)
	s.persistMissionLocked(ctx)

	utils.Log.Info().Str("mission_id", m.ID).Str("title", m.Title).Int("reward", m.RewardPoints).Msg("🎯 mission assigned")
	return m
}

// SubmitForVerification runs the verification delay for the pending mission and
// then credits its reward. Returns the completed mission.
func (s *Session) SubmitForVerification(ctx context.Context) (models.Mission, error) {
	s.mu.Lock()
	if !s.current.IsPending() {
		s.mu.Unlock()
		return models.Mission{}, ErrNoPendingMission
	}
	if s.verifying {
		s.mu.Unlock()
		return models.Mission{}, ErrVerificationInProgress
	}
	s.verifying = true
	submitted := *s.current
	s.mu.Unlock()

	err := s.Lifecycle.Verify(ctx, &submitted)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifying = false
	if err != nil {
		return models.Mission{}, fmt.Errorf("verification of %s: %w", submitted.ID, err)
	}
	if s.current == nil || s.current.ID != submitted.ID {
		return models.Mission{}, ErrMissionSuperseded
	}
	if !s.Economy.ApplyMissionReward(&s.user, s.current) {
		return models.Mission{}, ErrNoPendingMission
	}
	s.persistUserLocked(ctx)
	s.persistMissionLocked(ctx)

	utils.Log.Info().
		Str("mission_id", s.current.ID).
		Int("credits", s.user.Credits).
		Int("streak", s.user.Streak).
		Msg("✅ mission completed")
	return *s.current, nil
}

// PurchaseTheme reports whether the purchase went through. Rejections leave
// the state untouched and are not errors.
func (s *Session) PurchaseTheme(ctx context.Context, themeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Economy.PurchaseTheme(&s.user, themeID) {
		utils.Log.Debug().Str("theme", themeID).Int("credits", s.user.Credits).Msg("theme purchase rejected")
		return false
	}
	s.persistUserLocked(ctx)
	utils.Log.Info().Str("theme", themeID).Int("credits", s.user.Credits).Msg("🛍️ theme purchased")
	return true
}

func (s *Session) EquipTheme(ctx context.Context, themeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Economy.EquipTheme(&s.user, themeID) {
		utils.Log.Debug().Str("theme", themeID).Msg("theme equip rejected")
		return false
	}
	s.persistUserLocked(ctx)
	return true
}

// AttachProof stores an evidence file for the pending mission, replacing any
// earlier one.
func (s *Session) AttachProof(ctx context.Context, fileHeader *multipart.FileHeader) (Proof, error) {
	if s.Proofs == nil {
		return Proof{}, ErrProofStorageDisabled
	}
	s.mu.Lock()
	if !s.current.IsPending() {
		s.mu.Unlock()
		return Proof{}, ErrNoPendingMission
	}
	missionID := s.current.ID
	s.mu.Unlock()

	key := ProofKey(missionID, fileHeader.Filename)
	url, err := s.Proofs.Save(ctx, fileHeader, key)
	if err != nil {
		return Proof{}, fmt.Errorf("failed to store proof: %w", err)
	}
	p := Proof{Key: key, URL: url}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != missionID {
		s.removeProof(ctx, p)
		return Proof{}, ErrMissionSuperseded
	}
	if s.proof != nil && s.proof.Key != p.Key {
		s.removeProof(ctx, *s.proof)
	}
	s.proof = &p
	return p, nil
}

func (s *Session) DetachProof(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropProofLocked(ctx)
}

func (s *Session) dropProofLocked(ctx context.Context) {
	if s.proof == nil {
		return
	}
	s.removeProof(ctx, *s.proof)
	s.proof = nil
}

func (s *Session) removeProof(ctx context.Context, p Proof) {
	if s.Proofs == nil {
		return
	}
	if err := s.Proofs.Remove(ctx, p.Key); err != nil {
		utils.Log.Warn().Err(err).Str("key", p.Key).Msg("failed to remove proof")
	}
}

// Persistence failures are logged; the in-memory transition stands.
func (s *Session) persistUserLocked(ctx context.Context) {
	if err := s.Repo.SaveUser(ctx, s.user); err != nil {
		utils.Log.Error().Err(err).Msg("❌ user snapshot not saved")
	}
}

func (s *Session) persistMissionLocked(ctx context.Context) {
	if err := s.Repo.SaveMission(ctx, s.current); err != nil {
		utils.Log.Error().Err(err).Msg("❌ mission snapshot not saved")
	}
}
