package api

import (
	"errors"
	"log"

	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
)

// taskError maps task controller errors to HTTP responses.
func taskError(c *fiber.Ctx, err error) error {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
		})
	case errors.Is(err, task.ErrInvalidIdentifier):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid task id",
		})
	case errors.Is(err, task.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	default:
		return internalError(c, err)
	}
}

// authError maps auth errors to HTTP responses without exposing internals.
func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return unauthorized(c, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrNameRequired),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		return internalError(c, err)
	}
}

// catalogError maps catalog errors to HTTP responses.
func catalogError(c *fiber.Ctx, err error) error {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
		})
	case errors.Is(err, catalog.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid product id",
		})
	case errors.Is(err, catalog.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	case errors.Is(err, catalog.ErrDuplicateSlug):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "A product with this slug already exists",
		})
	default:
		return internalError(c, err)
	}
}

func internalError(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Server error",
	})
}

// customErrorHandler handles errors that escape the route handlers.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("[api] Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
