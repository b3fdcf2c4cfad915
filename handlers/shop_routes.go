// handlers/shop_routes.go
package handlers

import (
	"mission-bridge/models"
	"mission-bridge/services"

	"github.com/gofiber/fiber/v2"
)

type shopTheme struct {
	models.Theme
	Owned     bool `json:"owned"`
	Equipped  bool `json:"equipped"`
	CanAfford bool `json:"can_afford"`
}

func SetupShopRoutes(app *fiber.App, session *services.Session) {
	app.Get("/user/state", func(c *fiber.Ctx) error {
		user, theme := session.UserWithTheme()
		return c.JSON(fiber.Map{
			"user":         user,
			"active_theme": theme,
		})
	})

	app.Get("/user/profile", func(c *fiber.Ctx) error {
		user := session.User()
		return c.JSON(fiber.Map{
			"credits":        user.Credits,
			"streak":         user.Streak,
			"total_missions": len(user.History),
			"history":        user.History,
		})
	})

	shop := app.Group("/shop")

	shop.Get("/themes", func(c *fiber.Ctx) error {
		user := session.User()
		themes := make([]shopTheme, 0, len(session.Economy.Catalog))
		for _, t := range session.Economy.Catalog {
			themes = append(themes, shopTheme{
				Theme:     t,
				Owned:     user.Owns(t.ID),
				Equipped:  user.ActiveThemeID == t.ID,
				CanAfford: user.Credits >= t.Price,
			})
		}
		return c.JSON(themes)
	})

	// Rejections are reported through "accepted", not as HTTP errors.
	shop.Post("/themes/:id/buy", func(c *fiber.Ctx) error {
		accepted := session.PurchaseTheme(c.UserContext(), c.Params("id"))
		return c.JSON(fiber.Map{
			"accepted": accepted,
			"user":     session.User(),
		})
	})

	shop.Post("/themes/:id/equip", func(c *fiber.Ctx) error {
		accepted := session.EquipTheme(c.UserContext(), c.Params("id"))
		user, theme := session.UserWithTheme()
		return c.JSON(fiber.Map{
			"accepted":     accepted,
			"user":         user,
			"active_theme": theme,
		})
	})
}
