package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/apperrors"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// WorkflowErrorResponse maps a typed workflow error onto its HTTP status.
// Untyped errors are treated as internal.
func WorkflowErrorResponse(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case apperrors.KindNotAuthorized, apperrors.KindNotCurrentApprover:
		status = fiber.StatusForbidden
	case apperrors.KindAlreadyActed, apperrors.KindTerminalState,
		apperrors.KindDuplicateMember, apperrors.KindDuplicateEntry:
		status = fiber.StatusConflict
	case apperrors.KindInvalidOrder, apperrors.KindNoPriorApproval,
		apperrors.KindInvalidReturnTarget, apperrors.KindReturnToRejected,
		apperrors.KindEmptyChain, apperrors.KindInvalidInput:
		status = fiber.StatusBadRequest
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	}
	errorType := string(kind)
	if errorType == "" {
		errorType = "internal"
	}
	return ErrorResponse(c, err.Error(), status, errorType)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
