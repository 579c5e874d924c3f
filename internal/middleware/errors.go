package middleware

import (
	"errors"
	"log"

	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders domain errors returned by guards and handlers. Missing
// and foreign resources share one response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validation *models.ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrForbidden):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, models.ErrUnauthenticated):
		return c.Redirect("/signup", fiber.StatusSeeOther)
	case errors.Is(err, models.ErrAlreadyAuthenticated):
		return c.Redirect("/", fiber.StatusSeeOther)
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid username or password",
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validation.Fields,
		})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"errors":  fiber.Map{"username": "That username is already taken"},
		})
	case errors.Is(err, models.ErrInvalidImage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{"img": "Unrecognized image file"},
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
