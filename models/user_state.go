package models

import (
	"errors"
	"slices"
)

// UserState is the whole economy of one user: balance, streak, owned themes and
// completed missions (most recent first).
type UserState struct {
	Credits       int       `json:"credits"`
	Streak        int       `json:"streak"`
	Inventory     []string  `json:"inventory"`
	ActiveThemeID string    `json:"active_theme_id"`
	History       []Mission `json:"history"`
}

// NewUserState returns the state of a first-time user.
func NewUserState() UserState {
	return UserState{
		Credits:       InitialCredits,
		Streak:        0,
		Inventory:     []string{DefaultThemeID},
		ActiveThemeID: DefaultThemeID,
		History:       []Mission{},
	}
}

// Owns reports whether themeID is in the inventory.
func (u *UserState) Owns(themeID string) bool {
	return slices.Contains(u.Inventory, themeID)
}

// Clone returns a deep copy so callers can hand state out without sharing slices.
func (u UserState) Clone() UserState {
	out := u
	out.Inventory = slices.Clone(u.Inventory)
	out.History = slices.Clone(u.History)
	if out.Inventory == nil {
		out.Inventory = []string{}
	}
	if out.History == nil {
		out.History = []Mission{}
	}
	return out
}

var (
	ErrNegativeCredits     = errors.New("credits must not be negative")
	ErrNegativeStreak      = errors.New("streak must not be negative")
	ErrActiveThemeNotOwned = errors.New("active theme is not in inventory")
	ErrHistoryNotCompleted = errors.New("history contains a mission that is not completed")
	ErrDuplicateTheme      = errors.New("inventory lists a theme twice")
	ErrUnknownTheme        = errors.New("inventory lists a theme outside the catalog")
	ErrNegativeReward      = errors.New("history contains a negative reward")
)

// Validate checks the invariants a rehydrated snapshot must satisfy.
func (u *UserState) Validate() error {
	if u.Credits < 0 {
		return ErrNegativeCredits
	}
	if u.Streak < 0 {
		return ErrNegativeStreak
	}
	seen := make(map[string]struct{}, len(u.Inventory))
	for _, id := range u.Inventory {
		if _, ok := seen[id]; ok {
			return ErrDuplicateTheme
		}
		if !InCatalog(id) {
			return ErrUnknownTheme
		}
		seen[id] = struct{}{}
	}
	if !u.Owns(u.ActiveThemeID) {
		return ErrActiveThemeNotOwned
	}
	for _, m := range u.History {
		if m.Status != MissionStatusCompleted {
			return ErrHistoryNotCompleted
		}
		if m.RewardPoints < 0 {
			return ErrNegativeReward
		}
	}
	return nil
}
