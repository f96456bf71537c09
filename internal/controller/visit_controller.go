// FILE: internal/controller/visit_controller.go
package controller

import (
	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/pkg/serverutils"
	"ai-ordertaking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVisitController interface {
	RegisterRoutes(r fiber.Router)
	Validate(ctx *fiber.Ctx) error
}

type visitController struct {
	visitService service.IVisitService
}

func NewVisitController(visitService service.IVisitService) IVisitController {
	return &visitController{
		visitService: visitService,
	}
}

func (c *visitController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/visit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("validate", c.Validate)
}

func (c *visitController) Validate(ctx *fiber.Ctx) error {
	// 1. Tenant scope from the token
	companyIdStr := ctx.Locals("company_id").(string)
	companyId, _ := uuid.Parse(companyIdStr)

	var req dto.ValidateVisitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Check proximity against the registered store position
	res, err := c.visitService.ValidateVisit(ctx.Context(), companyId, &req)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Store not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success validate visit", res))
}
