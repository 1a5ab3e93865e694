package handlers

import (
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/pkg/plan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PlanHandler interface {
		GetAvailablePlans(c *fiber.Ctx) error
		GetAdminPlans(c *fiber.Ctx) error
		UpdatePlan(c *fiber.Ctx) error
	}

	planHandler struct {
		planService plan.PlanService
		validator   *validator.Validate
	}
)

func NewPlanHandler(planService plan.PlanService, validator *validator.Validate) PlanHandler {
	return &planHandler{
		planService: planService,
		validator:   validator,
	}
}

func (h *planHandler) GetAvailablePlans(c *fiber.Ctx) error {
	plans, err := h.planService.GetAvailablePlans(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetCreditPlans, err)
	}

	return presenters.SuccessResponse(c, plans, fiber.StatusOK, domain.MessageSuccessGetCreditPlans)
}

func (h *planHandler) GetAdminPlans(c *fiber.Ctx) error {
	plans, err := h.planService.GetAdminPlans(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetCreditPlans, err)
	}

	return presenters.SuccessResponse(c, plans, fiber.StatusOK, domain.MessageSuccessGetCreditPlans)
}

func (h *planHandler) UpdatePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCreditPlan, domain.ErrCreditPlanNotFound)
	}

	req := new(domain.UpdateCreditPlanRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCreditPlan, err)
	}

	updated, err := h.planService.UpdatePlan(c.Context(), uint(id), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateCreditPlan, err)
	}

	return presenters.SuccessResponse(c, updated, fiber.StatusOK, domain.MessageSuccessUpdateCreditPlan)
}
