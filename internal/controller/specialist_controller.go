package controller

import (
	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/pkg/serverutils"
	"specialist-match-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISpecialistController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type specialistController struct {
	specialistService service.ISpecialistService
	embeddingService  service.IEmbeddingService
}

func NewSpecialistController(specialistService service.ISpecialistService, embeddingService service.IEmbeddingService) ISpecialistController {
	return &specialistController{
		specialistService: specialistService,
		embeddingService:  embeddingService,
	}
}

func (c *specialistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/specialist/v1")
	h.Post("reindex", c.Reindex)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *specialistController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSpecialistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.specialistService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create specialist", res))
}

func (c *specialistController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid specialist id")
	}

	res, err := c.specialistService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "specialist not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show specialist", res))
}

func (c *specialistController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid specialist id")
	}

	var req dto.UpdateSpecialistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.specialistService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "specialist not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update specialist", res))
}

func (c *specialistController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid specialist id")
	}

	if err := c.specialistService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete specialist", nil))
}

func (c *specialistController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.embeddingService.Reindex(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reindex specialists", res))
}
