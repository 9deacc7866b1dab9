package controller

import (
	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/serverutils"
	"enterprise-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type logController struct {
	service   service.ILogService
	jwtSecret string
}

func NewLogController(service service.ILogService, jwtSecret string) ILogController {
	return &logController{service: service, jwtSecret: jwtSecret}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/logs/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret, true))
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *logController) List(ctx *fiber.Ctx) error {
	var req dto.ListLogsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListLogs(ctx.UserContext(), &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *logController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetLog(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get log", res))
}
