package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/types"
	"github.com/hassaanshah24/minute2.0/internal/utils"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
)

// ApprovalHandler handles approver action routes
type ApprovalHandler struct {
	Engine *workflow.Engine
}

// actionRequest is the body shared by approve and reject.
type actionRequest struct {
	Remarks string `json:"remarks"`
}

// markToRequest is the body for mark-to.
type markToRequest struct {
	TargetUserID types.FlexUint64  `json:"targetUserId"`
	Order        *types.FlexUint64 `json:"order"`
	Remarks      string            `json:"remarks"`
}

// returnToRequest is the body for return-to.
type returnToRequest struct {
	TargetUserID types.FlexUint64 `json:"targetUserId"`
	Remarks      string           `json:"remarks"`
}

// Approve handles POST /api/approvals/:id/approve
// @Summary Approve a minute
// @Description Record the current approver's approval and advance the chain
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Approval entry ID"
// @Param body body actionRequest false "Optional remarks"
// @Success 200 {object} models.MinuteApproval
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	approvalID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "approve")
	}
	var req actionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "approve")
		}
	}

	entry, err := h.Engine.Approve(c.UserContext(), actor(c).UserID, approvalID, req.Remarks)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}

// Reject handles POST /api/approvals/:id/reject
// @Summary Reject a minute
// @Description Record a rejection, terminating the whole approval chain
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Approval entry ID"
// @Param body body actionRequest false "Optional remarks"
// @Success 200 {object} models.MinuteApproval
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	approvalID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "reject")
	}
	var req actionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "reject")
		}
	}

	entry, err := h.Engine.Reject(c.UserContext(), actor(c).UserID, approvalID, req.Remarks)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}

// MarkTo handles POST /api/approvals/:id/mark-to
// @Summary Mark a minute to another user
// @Description Insert a new approver into the chain and hand them the flow
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Approval entry ID"
// @Param body body markToRequest true "Target user and optional position"
// @Success 200 {object} models.MinuteApproval
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /approvals/{id}/mark-to [post]
func (h *ApprovalHandler) MarkTo(c *fiber.Ctx) error {
	approvalID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "markTo")
	}
	var req markToRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "markTo")
	}
	if req.TargetUserID == 0 {
		return utils.ErrorResponse(c, "targetUserId is required", fiber.StatusBadRequest, "markTo")
	}

	var order *int
	if req.Order != nil {
		o := int(req.Order.Uint64())
		order = &o
	}

	entry, err := h.Engine.MarkTo(c.UserContext(), actor(c).UserID, approvalID, req.TargetUserID.Uint64(), order, req.Remarks)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}

// ReturnTo handles POST /api/approvals/:id/return-to
// @Summary Return a minute to an earlier approver
// @Description Rewind the flow to a strictly earlier approver in the chain
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Approval entry ID"
// @Param body body returnToRequest true "Target user"
// @Success 200 {object} models.MinuteApproval
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /approvals/{id}/return-to [post]
func (h *ApprovalHandler) ReturnTo(c *fiber.Ctx) error {
	approvalID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "returnTo")
	}
	var req returnToRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "returnTo")
	}
	if req.TargetUserID == 0 {
		return utils.ErrorResponse(c, "targetUserId is required", fiber.StatusBadRequest, "returnTo")
	}

	entry, err := h.Engine.ReturnTo(c.UserContext(), actor(c).UserID, approvalID, req.TargetUserID.Uint64(), req.Remarks)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}
