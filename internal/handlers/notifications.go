package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/utils"
)

// NotificationHandler handles in-app notification routes
type NotificationHandler struct {
	Notifications *services.NotificationService
}

// List handles GET /api/notifications
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.QueryBool("unread", false)
	notifications, err := h.Notifications.ListForUser(c.UserContext(), actor(c).UserID, unreadOnly)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, notifications, fiber.StatusOK)
}

// MarkRead handles POST /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 204
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "markRead")
	}
	if err := h.Notifications.MarkRead(c.UserContext(), actor(c).UserID, notificationID); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead handles POST /api/notifications/read-all
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Success 204
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.Notifications.MarkAllRead(c.UserContext(), actor(c).UserID); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
