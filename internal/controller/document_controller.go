package controller

import (
	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/serverutils"
	"enterprise-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type documentController struct {
	service   service.IDocumentService
	jwtSecret string
}

func NewDocumentController(service service.IDocumentService, jwtSecret string) IDocumentController {
	return &documentController{service: service, jwtSecret: jwtSecret}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret, false))
	h.Post("", c.Ingest)
	h.Get("stats", c.Stats)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.UserContext(), &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for indexing", res))
}

func (c *documentController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext(), ctx.Query("source_id"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document stats", res))
}
