package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/utils"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
)

// MinuteHandler handles minute document routes
type MinuteHandler struct {
	Minutes *services.MinuteService
	Engine  *workflow.Engine
}

// submitRequest is the body for submitting a minute.
type submitRequest struct {
	Remarks string `json:"remarks"`
}

// Create handles POST /api/minutes
// @Summary Create a minute
// @Description Create a new Draft minute with a generated reference id
// @Tags Minutes
// @Accept json
// @Produce json
// @Param body body services.CreateMinuteInput true "Minute fields"
// @Success 201 {object} models.Minute
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /minutes [post]
func (h *MinuteHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMinuteInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "createMinute")
	}

	minute, err := h.Minutes.Create(c.UserContext(), actor(c).UserID, input)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minute, fiber.StatusCreated)
}

// Get handles GET /api/minutes/:id
// @Summary Get a minute
// @Description Get one minute with its department, author, and chain
// @Tags Minutes
// @Produce json
// @Param id path int true "Minute ID"
// @Success 200 {object} models.Minute
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /minutes/{id} [get]
func (h *MinuteHandler) Get(c *fiber.Ctx) error {
	minuteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "getMinute")
	}
	minute, err := h.Minutes.Get(c.UserContext(), minuteID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minute, fiber.StatusOK)
}

// Update handles PUT /api/minutes/:id
// @Summary Update a draft minute
// @Description Edit a minute while it is still a Draft
// @Tags Minutes
// @Accept json
// @Produce json
// @Param id path int true "Minute ID"
// @Param body body services.CreateMinuteInput true "Fields to update"
// @Success 200 {object} models.Minute
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /minutes/{id} [put]
func (h *MinuteHandler) Update(c *fiber.Ctx) error {
	minuteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "updateMinute")
	}
	var input services.CreateMinuteInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "updateMinute")
	}

	minute, err := h.Minutes.Update(c.UserContext(), actor(c).UserID, minuteID, input)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minute, fiber.StatusOK)
}

// Delete handles DELETE /api/minutes/:id
// @Summary Delete a draft minute
// @Description Delete a minute that was never submitted
// @Tags Minutes
// @Produce json
// @Param id path int true "Minute ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /minutes/{id} [delete]
func (h *MinuteHandler) Delete(c *fiber.Ctx) error {
	minuteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "deleteMinute")
	}
	if err := h.Minutes.Delete(c.UserContext(), actor(c).UserID, minuteID); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit handles POST /api/minutes/:id/submit
// @Summary Submit a minute for approval
// @Description Activate the first approver of the minute's chain
// @Tags Minutes
// @Accept json
// @Produce json
// @Param id path int true "Minute ID"
// @Param body body submitRequest false "Optional remarks"
// @Success 200 {object} models.Minute
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /minutes/{id}/submit [post]
func (h *MinuteHandler) Submit(c *fiber.Ctx) error {
	minuteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "submitMinute")
	}
	var req submitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "submitMinute")
		}
	}

	minute, err := h.Engine.Submit(c.UserContext(), actor(c).UserID, minuteID, req.Remarks)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minute, fiber.StatusOK)
}

// Track handles GET /api/minutes/:id/track
// @Summary Track a minute
// @Description Get the full ledger and action trail of a minute
// @Tags Minutes
// @Produce json
// @Param id path int true "Minute ID"
// @Success 200 {object} services.MinuteTrack
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /minutes/{id}/track [get]
func (h *MinuteHandler) Track(c *fiber.Ctx) error {
	minuteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "trackMinute")
	}
	track, err := h.Minutes.Track(c.UserContext(), minuteID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, track, fiber.StatusOK)
}

// Pending handles GET /api/minutes/pending
// @Summary List minutes awaiting the caller
// @Description List ledger entries where the caller is the current approver
// @Tags Minutes
// @Produce json
// @Success 200 {array} models.MinuteApproval
// @Router /minutes/pending [get]
func (h *MinuteHandler) Pending(c *fiber.Ctx) error {
	entries, err := h.Minutes.PendingForUser(c.UserContext(), actor(c).UserID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, entries, fiber.StatusOK)
}

// Mine handles GET /api/minutes/mine
// @Summary List the caller's minutes
// @Description List minutes created by the caller, newest first
// @Tags Minutes
// @Produce json
// @Success 200 {array} models.Minute
// @Router /minutes/mine [get]
func (h *MinuteHandler) Mine(c *fiber.Ctx) error {
	minutes, err := h.Minutes.ListByCreator(c.UserContext(), actor(c).UserID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minutes, fiber.StatusOK)
}

// Archived handles GET /api/minutes/archived
// @Summary List archived minutes
// @Description List minutes that reached a terminal state
// @Tags Minutes
// @Produce json
// @Success 200 {array} models.Minute
// @Router /minutes/archived [get]
func (h *MinuteHandler) Archived(c *fiber.Ctx) error {
	minutes, err := h.Minutes.Archived(c.UserContext())
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, minutes, fiber.StatusOK)
}
