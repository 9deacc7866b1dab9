package controller

import (
	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/serverutils"
	"enterprise-assistant-be/internal/service"
	ws "enterprise-assistant-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IRecordController interface {
	RegisterRoutes(r fiber.Router)
	ListTickets(ctx *fiber.Ctx) error
	GetTicket(ctx *fiber.Ctx) error
	UpdateTicketStatus(ctx *fiber.Ctx) error
	ListMeetings(ctx *fiber.Ctx) error
	GetMeeting(ctx *fiber.Ctx) error
	UpdateMeetingStatus(ctx *fiber.Ctx) error
}

type recordController struct {
	service   service.IRecordService
	hub       *ws.Hub
	jwtSecret string
}

func NewRecordController(service service.IRecordService, hub *ws.Hub, jwtSecret string) IRecordController {
	return &recordController{service: service, hub: hub, jwtSecret: jwtSecret}
}

func (c *recordController) RegisterRoutes(r fiber.Router) {
	t := r.Group("/tickets/v1")
	t.Use(serverutils.JwtMiddleware(c.jwtSecret, false))
	t.Get("", c.ListTickets)
	t.Get(":id", c.GetTicket)
	t.Patch(":id/status", c.UpdateTicketStatus)

	m := r.Group("/meetings/v1")
	m.Use(serverutils.JwtMiddleware(c.jwtSecret, false))
	m.Get("", c.ListMeetings)
	m.Get(":id", c.GetMeeting)
	m.Patch(":id/status", c.UpdateMeetingStatus)

	if c.hub != nil {
		r.Use("/records/v1/ws", func(ctx *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(ctx) {
				return ctx.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		r.Get("/records/v1/ws", websocket.New(func(conn *websocket.Conn) {
			ws.ServeDashboard(c.hub, conn, uuid.NewString())
		}))
	}
}

func (c *recordController) listRequest(ctx *fiber.Ctx) (*dto.ListRecordsRequest, error) {
	var req dto.ListRecordsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *recordController) ListTickets(ctx *fiber.Ctx) error {
	req, err := c.listRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListTickets(ctx.UserContext(), req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tickets", res))
}

func (c *recordController) GetTicket(ctx *fiber.Ctx) error {
	res, err := c.service.GetTicket(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get ticket", res))
}

func (c *recordController) UpdateTicketStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateTicketStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateTicketStatus(ctx.UserContext(), ctx.Params("id"), req.Status)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Ticket status updated", res))
}

func (c *recordController) ListMeetings(ctx *fiber.Ctx) error {
	req, err := c.listRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMeetings(ctx.UserContext(), req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get meetings", res))
}

func (c *recordController) GetMeeting(ctx *fiber.Ctx) error {
	res, err := c.service.GetMeeting(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get meeting", res))
}

func (c *recordController) UpdateMeetingStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateMeetingStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateMeetingStatus(ctx.UserContext(), ctx.Params("id"), req.Status)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Meeting status updated", res))
}
