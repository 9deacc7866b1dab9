package controller

import (
	"errors"

	"enterprise-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// httpError maps service sentinels onto status codes. Anything else is left
// for the error handler, which hides its text behind a generic 500.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
