package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/middleware"
	"github.com/hassaanshah24/minute2.0/internal/models"
)

// parseIDParam extracts a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// actor returns the authenticated user for the request. The actor
// middleware guarantees it is present on all /api routes.
func actor(c *fiber.Ctx) *models.User {
	return middleware.Actor(c)
}
