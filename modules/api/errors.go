package api

import (
	"errors"

	"github.com/example/task-board/domain/apperror"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// statusForKind maps a domain error kind to its HTTP status.
func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindOwnership, apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindAlreadyExists:
		return fiber.StatusConflict
	case apperror.KindInvalidCredentials:
		return fiber.StatusUnauthorized
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every error that reaches Fiber. Domain errors keep
// their code. Anything else is logged and reported without internals.
func errorHandler(logger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return renderError(c, logger, err)
	}
}

func renderError(c *fiber.Ctx, logger types.Logger, err error) error {
	if appErr, ok := apperror.As(err); ok {
		return c.Status(statusForKind(appErr.Kind)).JSON(ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error:   "HttpError",
			Message: fe.Message,
		})
	}

	logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "InternalServerError",
		Message: "Internal Server Error",
	})
}
