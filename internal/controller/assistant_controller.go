package controller

import (
	"context"
	"errors"
	"time"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/pkg/serverutils"
	"enterprise-assistant-be/internal/service"
	ws "enterprise-assistant-be/internal/websocket"
	"enterprise-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	Invoke(ctx *fiber.Ctx) error
}

type assistantController struct {
	service     service.IAssistantService
	jwtSecret   string
	turnTimeout time.Duration
	logger      logger.ILogger
}

func NewAssistantController(service service.IAssistantService, jwtSecret string, turnTimeout time.Duration, log logger.ILogger) IAssistantController {
	if turnTimeout <= 0 {
		turnTimeout = 2 * time.Minute
	}
	return &assistantController{
		service:     service,
		jwtSecret:   jwtSecret,
		turnTimeout: turnTimeout,
		logger:      log,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret, false))
	h.Post("sessions", c.CreateSession)
	h.Get("sessions/:id", c.GetSession)
	h.Delete("sessions/:id", c.ResetSession)
	h.Post("invoke", c.Invoke)

	h.Use("ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("ws", websocket.New(c.chat))
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext(), serverutils.RequesterFrom(ctx))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *assistantController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	if err := c.service.ResetSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session reset", nil))
}

func (c *assistantController) Invoke(ctx *fiber.Ctx) error {
	var req dto.InvokeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Invoke(ctx.UserContext(), req.SessionId, *req.Message, serverutils.RequesterFrom(ctx))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// chat runs turns over a websocket, one text frame per turn.
func (c *assistantController) chat(conn *websocket.Conn) {
	sessionID := conn.Query("session_id")
	requester, ok := conn.Locals("requester").(store.Requester)
	if !ok {
		requester = store.Requester{}.Normalize()
	}

	ws.ServeChat(conn, func(ctx context.Context, text string) (interface{}, error) {
		res, err := c.service.Invoke(ctx, sessionID, text, requester)
		if err != nil {
			return nil, publicError(err)
		}
		sessionID = res.SessionId
		return res, nil
	}, c.turnTimeout, c.logger)
}

// publicError keeps internal error text off the wire.
func publicError(err error) error {
	var fe *fiber.Error
	if errors.As(httpError(err), &fe) {
		return errors.New(fe.Message)
	}
	return errors.New("Internal server error")
}
