package models

import "time"

// Difficulty is the tier a mission provider assigns to a mission.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MissionStatus indicates where a mission is in its lifecycle
type MissionStatus string

const (
	MissionStatusPending   MissionStatus = "pending"
	MissionStatusCompleted MissionStatus = "completed"
)

// MissionDescriptor is what a mission provider hands back for a mood hint.
type MissionDescriptor struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Difficulty   Difficulty `json:"difficulty"`
	RewardPoints int        `json:"reward_points"`
}

// Mission is a single task offered to the user. RewardPoints is fixed at creation.
type Mission struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Difficulty   Difficulty    `json:"difficulty"`
	RewardPoints int           `json:"reward_points"`
	Status       MissionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// IsPending reports whether the mission is still awaiting completion.
func (m *Mission) IsPending() bool {
	return m != nil && m.Status == MissionStatusPending
}

// FallbackDescriptor is substituted whenever a provider fails.
var FallbackDescriptor = MissionDescriptor{
	Title:        "Take a deep breath",
	Description:  "Close your eyes and slowly breathe in deeply five times to calm your mind.",
	Difficulty:   DifficultyEasy,
	RewardPoints: 30,
}

// Moods are the fixed hints a mission request may carry.
var Moods = []string{"anxious", "lethargic", "energetic", "bored", "lonely"}

// DefaultMood is used when a request carries no known mood.
const DefaultMood = "neutral"

// NormalizeMood maps free text onto the known mood set.
func NormalizeMood(mood string) string {
	for _, m := range Moods {
		if m == mood {
			return m
		}
	}
	return DefaultMood
}
