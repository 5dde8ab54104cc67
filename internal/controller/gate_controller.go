package controller

import (
	"errors"

	"ai-blueprint-be/internal/dto"
	"ai-blueprint-be/internal/pkg/serverutils"
	"ai-blueprint-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGateController interface {
	RegisterRoutes(r fiber.Router)
	Unlock(ctx *fiber.Ctx) error
}

type gateController struct {
	gateService service.IGateService
}

func NewGateController(gateService service.IGateService) IGateController {
	return &gateController{
		gateService: gateService,
	}
}

func (c *gateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/gate/v1")
	h.Post("unlock", c.Unlock)
}

func (c *gateController) Unlock(ctx *fiber.Ctx) error {
	var req dto.UnlockRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.gateService.Unlock(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrGateDisabled) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Access gate is disabled"))
		}
		if errors.Is(err, service.ErrInvalidAccessCode) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid access code"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success unlock", res))
}
