package handlers

import (
	"errors"
	"strconv"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/pkg/generate"
	"veronikaextra-backend/pkg/payment"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors onto HTTP statuses. Anything unknown is fallback.
func statusFor(err error, fallback int) int {
	var providerErr *generate.ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.Status >= 400 {
			return providerErr.Status
		}
		return fiber.StatusBadGateway
	}

	var upstreamErr *generate.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Status
	}

	var gatewayErr *payment.GatewayError
	if errors.As(err, &gatewayErr) {
		if gatewayErr.Status >= 400 {
			return gatewayErr.Status
		}
		return fiber.StatusBadGateway
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCreditPlanNotFound),
		errors.Is(err, domain.ErrPaymentRequestNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPaymentOwnerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientCredits):
		return fiber.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidWebhookSignature):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrPaymentAlreadyProcessed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrProviderNotConfigured),
		errors.Is(err, domain.ErrGatewayNotConfigured),
		errors.Is(err, domain.ErrSettingStorageUnavailable):
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrMalformedProviderResponse),
		errors.Is(err, domain.ErrImageTooLarge):
		return fiber.StatusBadGateway
	}
	return fallback
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
