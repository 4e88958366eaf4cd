package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/utils"
	"gorm.io/gorm"
)

// ActorKey is the Locals key holding the authenticated *models.User.
const ActorKey = "actor"

// ActorMiddleware resolves the acting user from the X-Actor-Id header set
// by the authenticating gateway in front of this service. Requests without
// a resolvable actor are rejected before reaching any handler.
func ActorMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseActorID(c.Get("X-Actor-Id"))
		if err != nil {
			return utils.ErrorResponse(c, "missing or invalid X-Actor-Id header", fiber.StatusUnauthorized, "auth")
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.ErrorResponse(c, "unknown actor", fiber.StatusUnauthorized, "auth")
			}
			return utils.ErrorResponse(c, "actor lookup failed", fiber.StatusInternalServerError, "internal")
		}

		c.Locals(ActorKey, &user)
		return c.Next()
	}
}

func parseActorID(raw string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty actor id")
	}
	return strconv.ParseUint(raw, 10, 64)
}

// Actor returns the authenticated user stored by ActorMiddleware.
func Actor(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(ActorKey).(*models.User)
	return user
}
