package middleware

import (
	"strings"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/presenters"
	"veronikaextra-backend/internal/utils"
	"veronikaextra-backend/pkg/jwt"
	"veronikaextra-backend/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminOnly() fiber.Handler
	}

	middleware struct {
		sessionStore session.Store
	}
)

func NewMiddleware(sessionStore session.Store) Middleware {
	return &middleware{
		sessionStore: sessionStore,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: utils.GetConfig("CORS_ALLOW_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware sets user_id, role and token locals for the rest of the chain.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, role, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		revoked, err := m.sessionStore.IsRevoked(c.Context(), token)
		if err == nil && !revoked {
			// deleted accounts lose every outstanding token
			revoked, err = m.sessionStore.IsUserRevoked(c.Context(), userID)
		}
		if err != nil {
			log.Errorf("session store lookup failed: %v", err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if revoked {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenRevoked)
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		c.Locals("token", token)
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func (m *middleware) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageAdminRequired, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}
