package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mission-bridge/models"
	"mission-bridge/utils"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

var ErrNoCandidates = errors.New("gemini returned no candidates")

// GeminiConfig configures the Gemini client. An empty BaseURL keeps the SDK
// default endpoint.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiProvider asks the Gemini generateContent API for a micro-mission.
type GeminiProvider struct {
	Model  string
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, gc GeminiConfig) (*GeminiProvider, error) {
	if gc.Model == "" {
		gc.Model = DefaultGeminiModel
	}
	if gc.HTTPClient == nil {
		gc.HTTPClient = utils.HTTPClient
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      gc.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  gc.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: gc.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{Model: gc.Model, client: client}, nil
}

// geminiDescriptor mirrors missionSchema.
type geminiDescriptor struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
	RewardPoints int    `json:"rewardPoints"`
}

var missionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"difficulty": {
			Type: genai.TypeString,
			Enum: []string{string(models.DifficultyEasy), string(models.DifficultyMedium), string(models.DifficultyHard)},
		},
		"rewardPoints": {Type: genai.TypeInteger},
	},
	Required: []string{"title", "description", "difficulty", "rewardPoints"},
}

func missionPrompt(mood string) string {
	return fmt.Sprintf(`Create one "micro-mission" for a user who may feel socially anxious or lethargic.
Current mood of the user: %s.

Rules:
1. It must be very concrete and doable.
2. It must be finishable within 15 minutes.
3. Focus on self-care, a small social interaction, or tidying the surroundings.

Examples: "Tidy one corner of your desk", "Text a friend hello", "Drink a glass of water by the window".`, mood)
}

func (p *GeminiProvider) Provide(ctx context.Context, mood string) (models.MissionDescriptor, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.Model, genai.Text(missionPrompt(mood)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   missionSchema,
	})
	if err != nil {
		return models.MissionDescriptor{}, fmt.Errorf("failed to call gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return models.MissionDescriptor{}, ErrNoCandidates
	}
	text := resp.Text()
	if text == "" {
		return models.MissionDescriptor{}, ErrNoCandidates
	}

	var d geminiDescriptor
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return models.MissionDescriptor{}, fmt.Errorf("failed to parse mission JSON: %w", err)
	}

	return models.MissionDescriptor{
		Title:        d.Title,
		Description:  d.Description,
		Difficulty:   models.Difficulty(d.Difficulty),
		RewardPoints: d.RewardPoints,
	}, nil
}
