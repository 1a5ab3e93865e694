package handlers

import (
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/pkg/generate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	GenerateHandler interface {
		Generate(c *fiber.Ctx) error
		ProxyImage(c *fiber.Ctx) error
	}

	generateHandler struct {
		generateService generate.GenerateService
		validator       *validator.Validate
	}
)

func NewGenerateHandler(generateService generate.GenerateService, validator *validator.Validate) GenerateHandler {
	return &generateHandler{
		generateService: generateService,
		validator:       validator,
	}
}

func (h *generateHandler) Generate(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.GenerateRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerate, domain.ErrInvalidPrompt)
	}

	res, err := h.generateService.Generate(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGenerate, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerate)
}

// ProxyImage streams an allowlisted provider image back with permissive CORS.
func (h *generateHandler) ProxyImage(c *fiber.Ctx) error {
	img, err := h.generateService.ProxyImage(c.Context(), c.Query("url"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedProxyImage, err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Status(fiber.StatusOK).Send(img.Body)
}
