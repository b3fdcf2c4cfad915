// handlers/mission_routes.go
package handlers

import (
	"errors"
	"math/rand/v2"

	"mission-bridge/models"
	"mission-bridge/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, session *services.Session) {
	missions := app.Group("/missions")

	missions.Get("/current", func(c *fiber.Ctx) error {
		return c.JSON(session.Mission())
	})

	missions.Post("/generate", func(c *fiber.Ctx) error {
		var req struct {
			Mood string `json:"mood"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON",
					"cause": err.Error(),
				})
			}
		}
		// No mood from the client: pick one for variety.
		if req.Mood == "" {
			req.Mood = models.Moods[rand.IntN(len(models.Moods))]
		}

		m := session.GenerateMission(c.UserContext(), req.Mood)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"mission": m,
		})
	})

	missions.Post("/current/proof", func(c *fiber.Ctx) error {
		file, err := c.FormFile("proof")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "proof file is required",
				"cause": err.Error(),
			})
		}
		proof, err := session.AttachProof(c.UserContext(), file)
		if err != nil {
			return lifecycleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(proof)
	})

	missions.Delete("/current/proof", func(c *fiber.Ctx) error {
		session.DetachProof(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	missions.Post("/current/submit", func(c *fiber.Ctx) error {
		m, err := session.SubmitForVerification(c.UserContext())
		if err != nil {
			return lifecycleError(c, err)
		}
		return c.JSON(fiber.Map{
			"accepted": true,
			"mission":  m,
			"user":     session.User(),
		})
	})
}

func lifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoPendingMission),
		errors.Is(err, services.ErrVerificationInProgress),
		errors.Is(err, services.ErrMissionSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrProofStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "mission operation failed",
			"cause": err.Error(),
		})
	}
}
