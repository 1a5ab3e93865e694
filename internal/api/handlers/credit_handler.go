package handlers

import (
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/pkg/credit"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	CreditHandler interface {
		GetUserCredits(c *fiber.Ctx) error
		GetCreditTransactionHistory(c *fiber.Ctx) error
		SetUserCredits(c *fiber.Ctx) error
		AddUserCredits(c *fiber.Ctx) error
	}

	creditHandler struct {
		creditService credit.CreditService
		validator     *validator.Validate
	}
)

func NewCreditHandler(creditService credit.CreditService, validator *validator.Validate) CreditHandler {
	return &creditHandler{
		creditService: creditService,
		validator:     validator,
	}
}

func (h *creditHandler) GetUserCredits(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	credits, err := h.creditService.GetUserCredits(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedGetUserCredits, err)
	}

	return presenters.SuccessResponse(c, credits, fiber.StatusOK, domain.MessageSuccessGetUserCredits)
}

func (h *creditHandler) GetCreditTransactionHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pagination(c)

	transactions, count, err := h.creditService.GetCreditTransactionHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedGetCreditHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination":   domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetCreditHistory)
}

func targetUserID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrUserNotFound
	}
	return id, nil
}

func (h *creditHandler) SetUserCredits(c *fiber.Ctx) error {
	userID, err := targetUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCredit, err)
	}

	req := new(domain.SetCreditsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCredit, err)
	}

	balance, err := h.creditService.SetBalance(c.Context(), userID, *req.Credits)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateCredit, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"credits": balance}, fiber.StatusOK, domain.MessageSuccessSetCredits)
}

func (h *creditHandler) AddUserCredits(c *fiber.Ctx) error {
	userID, err := targetUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCredit, err)
	}

	req := new(domain.AddCreditsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCredit, err)
	}

	balance, err := h.creditService.Grant(c.Context(), userID, req.Amount, req.Reason)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateCredit, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"credits": balance}, fiber.StatusOK, domain.MessageSuccessAddCredits)
}
