package services

import (
	"context"
	"math/rand/v2"
	"sync"

	"mission-bridge/models"
)

// LocalMissions is the static pool the local provider draws from.
var LocalMissions = []models.MissionDescriptor{
	{Title: "Tidy one corner of your desk", Description: "Pick a single corner of your desk and clear it completely.", Difficulty: models.DifficultyEasy, RewardPoints: 30},
	{Title: "Text a friend hello", Description: "Send one short message to a friend you have not talked to in a while.", Difficulty: models.DifficultyMedium, RewardPoints: 60},
	{Title: "Drink a glass of water by the window", Description: "Pour a glass of water and drink it slowly while looking outside.", Difficulty: models.DifficultyEasy, RewardPoints: 20},
	{Title: "Five minute walk", Description: "Step outside and walk around the block for five minutes.", Difficulty: models.DifficultyMedium, RewardPoints: 50},
	{Title: "Make your bed", Description: "Straighten the sheets and fold the blanket.", Difficulty: models.DifficultyEasy, RewardPoints: 25},
	{Title: "Read two pages", Description: "Open any book and read two pages without your phone nearby.", Difficulty: models.DifficultyEasy, RewardPoints: 30},
	{Title: "Water a plant", Description: "Give a plant some water and check its leaves.", Difficulty: models.DifficultyEasy, RewardPoints: 20},
	{Title: "Say thank you to a shop clerk", Description: "Buy something small and thank the clerk while making eye contact.", Difficulty: models.DifficultyHard, RewardPoints: 100},
}

// LocalProvider picks a random mission from a static list. The mood is ignored.
type LocalProvider struct {
	Missions []models.MissionDescriptor

	mu  sync.Mutex
	rng *rand.Rand
}

func NewLocalProvider(missions []models.MissionDescriptor, rng *rand.Rand) *LocalProvider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &LocalProvider{Missions: missions, rng: rng}
}

func (p *LocalProvider) Provide(ctx context.Context, mood string) (models.MissionDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return models.MissionDescriptor{}, err
	}
	if len(p.Missions) == 0 {
		return models.MissionDescriptor{}, ErrEmptyDescriptor
	}
	p.mu.Lock()
	i := p.rng.IntN(len(p.Missions))
	p.mu.Unlock()
	return p.Missions[i], nil
}
