package handlers

import (
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/pkg/settings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SettingsHandler interface {
		GetGlobalNotice(c *fiber.Ctx) error
		SetGlobalNotice(c *fiber.Ctx) error
		GetCreditsPageNotice(c *fiber.Ctx) error
		SetCreditsPageNotice(c *fiber.Ctx) error
		GetExchangeRate(c *fiber.Ctx) error
		SetExchangeRate(c *fiber.Ctx) error
		GetContactInfo(c *fiber.Ctx) error
		SetContactInfo(c *fiber.Ctx) error
		GetSocialLinks(c *fiber.Ctx) error
		SetSocialLinks(c *fiber.Ctx) error
		GetLegalContent(c *fiber.Ctx) error
		SetLegalContent(c *fiber.Ctx) error
		GetPaymentInfo(c *fiber.Ctx) error
		UpdatePaymentInfo(c *fiber.Ctx) error
	}

	settingsHandler struct {
		settingsService settings.SettingsService
		validator       *validator.Validate
	}
)

func NewSettingsHandler(settingsService settings.SettingsService, validator *validator.Validate) SettingsHandler {
	return &settingsHandler{
		settingsService: settingsService,
		validator:       validator,
	}
}

func (h *settingsHandler) GetGlobalNotice(c *fiber.Ctx) error {
	value, err := h.settingsService.GetGlobalNotice(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"message": value}, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetGlobalNotice(c *fiber.Ctx) error {
	req := new(domain.NoticeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetGlobalNotice(c.Context(), req.Message); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"message": req.Message}, fiber.StatusOK, domain.MessageSuccessGlobalNotice)
}

func (h *settingsHandler) GetCreditsPageNotice(c *fiber.Ctx) error {
	value, err := h.settingsService.GetCreditsPageNotice(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"message": value}, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetCreditsPageNotice(c *fiber.Ctx) error {
	req := new(domain.NoticeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetCreditsPageNotice(c.Context(), req.Message); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"message": req.Message}, fiber.StatusOK, domain.MessageSuccessCreditsNotice)
}

func (h *settingsHandler) GetExchangeRate(c *fiber.Ctx) error {
	value, err := h.settingsService.GetExchangeRate(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"rate": value}, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetExchangeRate(c *fiber.Ctx) error {
	req := new(domain.ExchangeRateRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetExchangeRate(c.Context(), req.Rate); err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"rate": req.Rate}, fiber.StatusOK, domain.MessageSuccessExchangeRate)
}

func (h *settingsHandler) GetContactInfo(c *fiber.Ctx) error {
	value, err := h.settingsService.GetContactInfo(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, value, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetContactInfo(c *fiber.Ctx) error {
	req := new(domain.ContactInfo)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetContactInfo(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, req, fiber.StatusOK, domain.MessageSuccessContactInfo)
}

func (h *settingsHandler) GetSocialLinks(c *fiber.Ctx) error {
	value, err := h.settingsService.GetSocialLinks(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, value, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetSocialLinks(c *fiber.Ctx) error {
	req := new(domain.SocialLinks)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetSocialLinks(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, req, fiber.StatusOK, domain.MessageSuccessSocialLinks)
}

func (h *settingsHandler) GetLegalContent(c *fiber.Ctx) error {
	value, err := h.settingsService.GetLegalContent(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, value, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

func (h *settingsHandler) SetLegalContent(c *fiber.Ctx) error {
	req := new(domain.LegalContent)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	if err := h.settingsService.SetLegalContent(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, req, fiber.StatusOK, domain.MessageSuccessLegalContent)
}

func (h *settingsHandler) GetPaymentInfo(c *fiber.Ctx) error {
	value, err := h.settingsService.GetPaymentInfo(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSetting, err)
	}

	return presenters.SuccessResponse(c, value, fiber.StatusOK, domain.MessageSuccessGetSetting)
}

// UpdatePaymentInfo accepts multipart form data so admins can upload a new QR image.
func (h *settingsHandler) UpdatePaymentInfo(c *fiber.Ctx) error {
	req := new(domain.UpdatePaymentInfoRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if file, err := c.FormFile("qr_code"); err == nil {
		req.QRCode = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSetting, err)
	}

	info, err := h.settingsService.UpdatePaymentInfo(c.Context(), req.UpiID, req.QRCode)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateSetting, err)
	}

	return presenters.SuccessResponse(c, info, fiber.StatusOK, domain.MessageSuccessPaymentInfo)
}
