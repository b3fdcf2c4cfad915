package services

import (
	"slices"

	"mission-bridge/models"
)

// Economy applies credit, streak and theme transitions to a UserState.
// It never touches storage; callers persist after an accepted transition.
// Streak and inventory only ever grow.
type Economy struct {
	Catalog []models.Theme
}

func NewEconomy(catalog []models.Theme) *Economy {
	return &Economy{Catalog: catalog}
}

// Theme looks a theme up in the catalog.
func (e *Economy) Theme(themeID string) (models.Theme, bool) {
	for _, t := range e.Catalog {
		if t.ID == themeID {
			return t, true
		}
	}
	return models.Theme{}, false
}

// ActiveTheme returns the catalog entry for the active theme, falling back to
// the first catalog entry if the id is unknown.
func (e *Economy) ActiveTheme(state *models.UserState) models.Theme {
	if t, ok := e.Theme(state.ActiveThemeID); ok {
		return t
	}
	if len(e.Catalog) == 0 {
		return models.Theme{}
	}
	return e.Catalog[0]
}

func (e *Economy) Owns(state *models.UserState, themeID string) bool {
	return state.Owns(themeID)
}

func (e *Economy) CanAfford(state *models.UserState, themeID string) bool {
	t, ok := e.Theme(themeID)
	return ok && state.Credits >= t.Price
}

// ApplyMissionReward completes a pending mission and credits its reward.
// Returns false, leaving everything untouched, if there is no pending mission.
func (e *Economy) ApplyMissionReward(state *models.UserState, mission *models.Mission) bool {
	if !mission.IsPending() {
		return false
	}
	mission.Status = models.MissionStatusCompleted

	state.Credits += mission.RewardPoints
	state.Streak++
	state.History = slices.Insert(state.History, 0, *mission)
	return true
}

// PurchaseTheme buys a theme. Unknown, already owned or unaffordable themes are
// rejected silently.
func (e *Economy) PurchaseTheme(state *models.UserState, themeID string) bool {
	t, ok := e.Theme(themeID)
	if !ok || state.Owns(themeID) || state.Credits < t.Price {
		return false
	}
	state.Credits -= t.Price
	state.Inventory = append(state.Inventory, themeID)
	return true
}

// EquipTheme activates an owned theme.
func (e *Economy) EquipTheme(state *models.UserState, themeID string) bool {
	if !state.Owns(themeID) {
		return false
	}
	state.ActiveThemeID = themeID
	return true
}
