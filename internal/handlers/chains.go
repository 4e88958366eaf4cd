package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/types"
	"github.com/hassaanshah24/minute2.0/internal/utils"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
)

// ChainHandler handles approval chain routes
type ChainHandler struct {
	Chains *services.ChainService
	Engine *workflow.Engine
}

// createChainRequest is the body for chain creation. approverIds accepts a
// JSON array or a single value, each element a number or numeric string.
type createChainRequest struct {
	Name        string                          `json:"name"`
	MinuteID    *types.FlexUint64               `json:"minuteId"`
	ApproverIDs types.FlexList[types.FlexUint64] `json:"approverIds"`
}

// addApproverRequest is the body for inserting a chain member.
type addApproverRequest struct {
	UserID types.FlexUint64  `json:"userId"`
	Order  *types.FlexUint64 `json:"order"`
}

// attachRequest is the body for linking a chain to a minute.
type attachRequest struct {
	MinuteID types.FlexUint64 `json:"minuteId"`
}

// Create handles POST /api/chains
// @Summary Create an approval chain
// @Description Create a chain with an ordered approver list, optionally linked to a draft minute
// @Tags Chains
// @Accept json
// @Produce json
// @Param body body createChainRequest true "Chain definition"
// @Success 201 {object} models.ApprovalChain
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chains [post]
func (h *ChainHandler) Create(c *fiber.Ctx) error {
	var req createChainRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "createChain")
	}

	approverIDs := make([]uint64, 0, len(req.ApproverIDs))
	for _, id := range req.ApproverIDs.Slice() {
		approverIDs = append(approverIDs, id.Uint64())
	}
	var minuteID *uint64
	if req.MinuteID != nil {
		id := req.MinuteID.Uint64()
		minuteID = &id
	}

	chain, err := h.Chains.Create(c.UserContext(), actor(c).UserID, req.Name, minuteID, approverIDs)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, chain, fiber.StatusCreated)
}

// Get handles GET /api/chains/:id
// @Summary Get a chain
// @Description Get a chain with its members in position order
// @Tags Chains
// @Produce json
// @Param id path int true "Chain ID"
// @Success 200 {object} models.ApprovalChain
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chains/{id} [get]
func (h *ChainHandler) Get(c *fiber.Ctx) error {
	chainID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "getChain")
	}
	chain, err := h.Chains.Get(c.UserContext(), chainID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, chain, fiber.StatusOK)
}

// List handles GET /api/chains
// @Summary List chains
// @Description List all approval chains, newest first
// @Tags Chains
// @Produce json
// @Success 200 {array} models.ApprovalChain
// @Router /chains [get]
func (h *ChainHandler) List(c *fiber.Ctx) error {
	chains, err := h.Chains.List(c.UserContext())
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, chains, fiber.StatusOK)
}

// Delete handles DELETE /api/chains/:id
// @Summary Delete a chain
// @Description Delete a chain whose minute, if any, is still a Draft
// @Tags Chains
// @Produce json
// @Param id path int true "Chain ID"
// @Success 204
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chains/{id} [delete]
func (h *ChainHandler) Delete(c *fiber.Ctx) error {
	chainID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "deleteChain")
	}
	if err := h.Chains.Delete(c.UserContext(), chainID); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddApprover handles POST /api/chains/:id/approvers
// @Summary Add an approver to a chain
// @Description Insert a member at a position, shifting later members up
// @Tags Chains
// @Accept json
// @Produce json
// @Param id path int true "Chain ID"
// @Param body body addApproverRequest true "User and optional position"
// @Success 201 {object} models.Approver
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chains/{id}/approvers [post]
func (h *ChainHandler) AddApprover(c *fiber.Ctx) error {
	chainID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "addApprover")
	}
	var req addApproverRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "addApprover")
	}
	if req.UserID == 0 {
		return utils.ErrorResponse(c, "userId is required", fiber.StatusBadRequest, "addApprover")
	}

	var order *int
	if req.Order != nil {
		o := int(req.Order.Uint64())
		order = &o
	}

	member, err := h.Engine.AddApprover(c.UserContext(), chainID, req.UserID.Uint64(), order)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, member, fiber.StatusCreated)
}

// Renumber handles POST /api/chains/:id/renumber
// @Summary Renumber a chain
// @Description Close order gaps, reassigning positions 1..N
// @Tags Chains
// @Produce json
// @Param id path int true "Chain ID"
// @Success 200 {object} models.ApprovalChain
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chains/{id}/renumber [post]
func (h *ChainHandler) Renumber(c *fiber.Ctx) error {
	chainID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "renumberChain")
	}
	if err := h.Engine.Renumber(c.UserContext(), chainID); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	chain, err := h.Chains.Get(c.UserContext(), chainID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, chain, fiber.StatusOK)
}

// Attach handles POST /api/chains/:id/attach
// @Summary Attach a chain to a minute
// @Description Link an existing chain to a draft minute
// @Tags Chains
// @Accept json
// @Produce json
// @Param id path int true "Chain ID"
// @Param body body attachRequest true "Minute to link"
// @Success 200 {object} models.ApprovalChain
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chains/{id}/attach [post]
func (h *ChainHandler) Attach(c *fiber.Ctx) error {
	chainID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "attachChain")
	}
	var req attachRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid request body", fiber.StatusBadRequest, "attachChain")
	}
	if req.MinuteID == 0 {
		return utils.ErrorResponse(c, "minuteId is required", fiber.StatusBadRequest, "attachChain")
	}

	if err := h.Chains.AttachToMinute(c.UserContext(), chainID, req.MinuteID.Uint64()); err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	chain, err := h.Chains.Get(c.UserContext(), chainID)
	if err != nil {
		return utils.WorkflowErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, chain, fiber.StatusOK)
}
