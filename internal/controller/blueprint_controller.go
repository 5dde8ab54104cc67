package controller

import (
	"errors"

	"ai-blueprint-be/internal/dto"
	"ai-blueprint-be/internal/pkg/serverutils"
	"ai-blueprint-be/internal/service"
	"ai-blueprint-be/pkg/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBlueprintController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	GetSessionState(ctx *fiber.Ctx) error
	DownloadBlueprint(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type blueprintController struct {
	sessionService service.ISessionService
	gate           fiber.Handler
}

func NewBlueprintController(sessionService service.ISessionService, gate fiber.Handler) IBlueprintController {
	return &blueprintController{
		sessionService: sessionService,
		gate:           gate,
	}
}

func (c *blueprintController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/blueprint/v1")
	h.Use(c.gate) // ✅ PROTECTED: access token required when the gate is on
	h.Post("create-session", c.CreateSession)
	h.Post("send-chat", c.SendChat)
	h.Get(":id/history", c.GetChatHistory)
	h.Get(":id/state", c.GetSessionState)
	h.Get(":id/blueprint", c.DownloadBlueprint)
	h.Post(":id/reset", c.ResetSession)
	h.Delete(":id", c.DeleteSession)
}

func (c *blueprintController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.sessionService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *blueprintController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.sessionService.SendChat(ctx.Context(), &req)
	if err != nil {
		// 1. Unknown session (404)
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		// 2. Reset landed mid-turn, result discarded (409)
		if errors.Is(err, service.ErrSessionReset) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, "Session was reset, turn discarded"))
		}
		// 3. Provider failure: state preserved, client may retry (502)
		if errors.Is(err, gateway.ErrProvider) {
			return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(fiber.StatusBadGateway, "Model call failed. Conversation state preserved, please try again."))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *blueprintController) GetChatHistory(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.sessionService.GetChatHistory(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *blueprintController) GetSessionState(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.sessionService.GetSessionState(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session state", res))
}

func (c *blueprintController) DownloadBlueprint(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	markdown, err := c.sessionService.GetBlueprint(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		if errors.Is(err, service.ErrBlueprintNotReady) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Blueprint not ready"))
		}
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="blueprint.md"`)
	return ctx.SendString(markdown)
}

func (c *blueprintController) ResetSession(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.sessionService.ResetSession(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", res))
}

func (c *blueprintController) DeleteSession(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	err := c.sessionService.DeleteSession(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}
