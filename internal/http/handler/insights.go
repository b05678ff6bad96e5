package handler

import (
	"github.com/gofiber/fiber/v2"

	"streamadmin/internal/service"
)

// Notifications serves GET /notifications.
func Notifications(svc service.InsightsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.Notifications(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(list)
	}
}

// Analytics serves GET /analytics.
func Analytics(svc service.InsightsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.Analytics(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(a)
	}
}

// RecordViews serves PUT /titles/:id/views with body {"date": "YYYY-MM-DD", "views": n}.
func RecordViews(svc service.InsightsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		in, err := bind[service.ViewInput](c)
		if err != nil {
			return respond(c, err)
		}
		if err := svc.RecordViews(c.UserContext(), id, in); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RecordInteractions serves PUT /titles/:id/interactions with body
// {"date": "YYYY-MM-DD", "likes": n, "list_adds": n}.
func RecordInteractions(svc service.InsightsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		in, err := bind[service.InteractionInput](c)
		if err != nil {
			return respond(c, err)
		}
		if err := svc.RecordInteractions(c.UserContext(), id, in); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
