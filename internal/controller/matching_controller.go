package controller

import (
	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/pkg/serverutils"
	"specialist-match-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMatchingController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	Converse(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type matchingController struct {
	matchingService service.IMatchingService
}

func NewMatchingController(matchingService service.IMatchingService) IMatchingController {
	return &matchingController{
		matchingService: matchingService,
	}
}

func (c *matchingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/match/v1")
	h.Post("session", c.CreateSession)
	h.Post("converse", c.Converse)
	h.Delete("session/:id", c.DeleteSession)
}

func (c *matchingController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateMatchSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.matchingService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create match session", res))
}

func (c *matchingController) Converse(ctx *fiber.Ctx) error {
	var req dto.ConverseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.matchingService.Converse(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success converse", res))
}

func (c *matchingController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := c.matchingService.DeleteSession(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete match session", nil))
}
