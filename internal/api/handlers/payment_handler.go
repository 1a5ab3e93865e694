package handlers

import (
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	PaymentHandler interface {
		CreateUpiPayment(c *fiber.Ctx) error
		CreateCryptoPayment(c *fiber.Ctx) error
		VerifyPayment(c *fiber.Ctx) error
		GetUserPaymentRequests(c *fiber.Ctx) error
		GetUserCryptoTransactions(c *fiber.Ctx) error

		GetAllPaymentRequests(c *fiber.Ctx) error
		GetAllCryptoTransactions(c *fiber.Ctx) error
		ApprovePaymentRequest(c *fiber.Ctx) error
		RejectPaymentRequest(c *fiber.Ctx) error

		CashfreeWebhook(c *fiber.Ctx) error
		OxapayCallback(c *fiber.Ctx) error
	}

	paymentHandler struct {
		paymentService payment.PaymentService
		validator      *validator.Validate
	}
)

func NewPaymentHandler(paymentService payment.PaymentService, validator *validator.Validate) PaymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
		validator:      validator,
	}
}

func (h *paymentHandler) CreateUpiPayment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateUpiPaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePayment, err)
	}

	res, err := h.paymentService.CreateUpiPayment(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedCreatePayment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *paymentHandler) CreateCryptoPayment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateCryptoPaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePayment, err)
	}

	res, err := h.paymentService.CreateCryptoPayment(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedCreatePayment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *paymentHandler) VerifyPayment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.VerifyPaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyPayment, err)
	}

	res, err := h.paymentService.VerifyPayment(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedVerifyPayment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *paymentHandler) GetUserPaymentRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	requests, err := h.paymentService.GetUserPaymentRequests(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPayments, err)
	}

	return presenters.SuccessResponse(c, requests, fiber.StatusOK, domain.MessageSuccessGetPayments)
}

func (h *paymentHandler) GetUserCryptoTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	transactions, err := h.paymentService.GetUserCryptoTransactions(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPayments, err)
	}

	return presenters.SuccessResponse(c, transactions, fiber.StatusOK, domain.MessageSuccessGetCryptoPayments)
}

func (h *paymentHandler) GetAllPaymentRequests(c *fiber.Ctx) error {
	page, limit := pagination(c)

	requests, count, err := h.paymentService.GetAllPaymentRequests(c.Context(), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPayments, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests":   requests,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetPayments)
}

func (h *paymentHandler) GetAllCryptoTransactions(c *fiber.Ctx) error {
	page, limit := pagination(c)

	transactions, count, err := h.paymentService.GetAllCryptoTransactions(c.Context(), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPayments, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination":   domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetCryptoPayments)
}

func (h *paymentHandler) ApprovePaymentRequest(c *fiber.Ctx) error {
	res, err := h.paymentService.ApprovePaymentRequest(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedApprovePayment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *paymentHandler) RejectPaymentRequest(c *fiber.Ctx) error {
	if err := h.paymentService.RejectPaymentRequest(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedRejectPayment, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectPayment)
}

func (h *paymentHandler) CashfreeWebhook(c *fiber.Ctx) error {
	err := h.paymentService.HandleCashfreeWebhook(
		c.Context(),
		c.Get("x-webhook-timestamp"),
		c.Get("x-webhook-signature"),
		c.Body(),
	)
	if err != nil {
		log.Warnf("cashfree webhook rejected: %v", err)
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhook)
}

func (h *paymentHandler) OxapayCallback(c *fiber.Ctx) error {
	if err := h.paymentService.HandleOxapayCallback(c.Context(), c.Get("HMAC"), c.Body()); err != nil {
		log.Warnf("oxapay callback rejected: %v", err)
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedWebhook, err)
	}

	// OXAPAY expects a plain "ok" body to stop retrying.
	return c.Status(fiber.StatusOK).SendString("ok")
}
