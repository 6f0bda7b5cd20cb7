package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"foodgram/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// newValidator returns a validator that also knows the "username" tag.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// respondError writes err with the status matching its kind.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
			"reason":  "internal_error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
		"reason":  apperrors.Reason(err),
	})
}

// validate runs struct validation and writes a 400 with per-field errors.
// It returns false when the response has been written.
func validate(c *fiber.Ctx, v *validator.Validate, payload interface{}) (bool, error) {
	err := v.Struct(payload)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, respondError(c, err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"reason":  "validation_failed",
		"errors":  errorMessages,
	})
}

func badBody(c *fiber.Ctx, err error) error {
	log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"reason":  "invalid_body",
	})
}

// idParam parses a positive numeric path parameter. A malformed id cannot
// name an existing object, so it is reported as notFoundReason.
func idParam(c *fiber.Ctx, name, notFoundReason string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound(notFoundReason, "no object with id %q", raw)
	}
	return uint(id), nil
}

// ErrorHandler renders errors that escape handlers, such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
			"reason":  "http_error",
		})
	}
	return respondError(c, err)
}
