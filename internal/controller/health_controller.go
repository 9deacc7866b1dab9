package controller

import (
	"context"
	"time"

	"enterprise-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports whether one dependency answers.
type HealthCheck func(ctx context.Context) error

type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	checks map[string]HealthCheck
}

func NewHealthController(checks map[string]HealthCheck) IHealthController {
	return &healthController{checks: checks}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	res := HealthStatus{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	for name, check := range c.checks {
		if err := check(checkCtx); err != nil {
			res.Status = "degraded"
			res.Checks[name] = err.Error()
			continue
		}
		res.Checks[name] = "ok"
	}

	code := fiber.StatusOK
	if res.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return ctx.Status(code).JSON(serverutils.Response[HealthStatus]{
		Success: code == fiber.StatusOK,
		Code:    code,
		Message: res.Status,
		Data:    res,
	})
}
