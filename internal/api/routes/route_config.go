package routes

import (
	"os"
	"path/filepath"
	"strings"
	"veronikaextra-backend/internal/api/handlers"
	"veronikaextra-backend/internal/middleware"
	"veronikaextra-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	CreditHandler   handlers.CreditHandler
	GenerateHandler handlers.GenerateHandler
	PaymentHandler  handlers.PaymentHandler
	PlanHandler     handlers.PlanHandler
	SettingsHandler handlers.SettingsHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
	StaticDir       string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Generate()
	c.Payment()
	c.Public()
	c.Admin()
	c.Webhook()
	c.Static()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
		user.Get("/credits", c.Middleware.AuthMiddleware(c.JWTService), c.CreditHandler.GetUserCredits)
		user.Get("/credits/history", c.Middleware.AuthMiddleware(c.JWTService), c.CreditHandler.GetCreditTransactionHistory)
		user.Get("/payments", c.Middleware.AuthMiddleware(c.JWTService), c.PaymentHandler.GetUserPaymentRequests)
		user.Get("/payments/crypto", c.Middleware.AuthMiddleware(c.JWTService), c.PaymentHandler.GetUserCryptoTransactions)
	}
}

func (c *Config) Generate() {
	c.App.Post("/api/v1/generate", c.Middleware.AuthMiddleware(c.JWTService), c.GenerateHandler.Generate)
	c.App.Get("/api/v1/proxy-image", c.GenerateHandler.ProxyImage)
}

func (c *Config) Payment() {
	payments := c.App.Group("/api/v1/payments", c.Middleware.AuthMiddleware(c.JWTService))
	payments.Post("/cashfree", c.PaymentHandler.CreateUpiPayment)
	payments.Post("/oxapay", c.PaymentHandler.CreateCryptoPayment)
	payments.Post("/verify", c.PaymentHandler.VerifyPayment)
}

func (c *Config) Public() {
	public := c.App.Group("/api/v1/public")
	public.Get("/notice", c.SettingsHandler.GetGlobalNotice)
	public.Get("/credits-notice", c.SettingsHandler.GetCreditsPageNotice)
	public.Get("/exchange-rate", c.SettingsHandler.GetExchangeRate)
	public.Get("/credit-plans", c.PlanHandler.GetAvailablePlans)
	public.Get("/contact", c.SettingsHandler.GetContactInfo)
	public.Get("/social", c.SettingsHandler.GetSocialLinks)
	public.Get("/legal", c.SettingsHandler.GetLegalContent)
	public.Get("/payment-info", c.SettingsHandler.GetPaymentInfo)
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminOnly())

	// users and balances
	admin.Get("/users", c.UserHandler.GetAllUsers)
	admin.Delete("/users/:id", c.UserHandler.DeleteUser)
	admin.Put("/users/:id/credits", c.CreditHandler.SetUserCredits)
	admin.Post("/users/:id/credits", c.CreditHandler.AddUserCredits)

	// payments
	admin.Get("/payments", c.PaymentHandler.GetAllPaymentRequests)
	admin.Get("/payments/crypto", c.PaymentHandler.GetAllCryptoTransactions)
	admin.Post("/payments/:id/approve", c.PaymentHandler.ApprovePaymentRequest)
	admin.Post("/payments/:id/reject", c.PaymentHandler.RejectPaymentRequest)

	// plans
	admin.Get("/plans", c.PlanHandler.GetAdminPlans)
	admin.Put("/plans/:id", c.PlanHandler.UpdatePlan)

	// settings
	admin.Put("/settings/notice", c.SettingsHandler.SetGlobalNotice)
	admin.Put("/settings/credits-notice", c.SettingsHandler.SetCreditsPageNotice)
	admin.Put("/settings/exchange-rate", c.SettingsHandler.SetExchangeRate)
	admin.Put("/settings/contact", c.SettingsHandler.SetContactInfo)
	admin.Put("/settings/social", c.SettingsHandler.SetSocialLinks)
	admin.Put("/settings/legal", c.SettingsHandler.SetLegalContent)
	admin.Put("/settings/payment-info", c.SettingsHandler.UpdatePaymentInfo)
}

func (c *Config) Webhook() {
	c.App.Post("/webhook/cashfree", c.PaymentHandler.CashfreeWebhook)
	c.App.Post("/webhook/oxapay", c.PaymentHandler.OxapayCallback)
}

// Static serves the built SPA and falls back to index.html for client routes.
func (c *Config) Static() {
	if c.StaticDir == "" {
		return
	}
	index := filepath.Join(c.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}

	c.App.Static("/", c.StaticDir)
	c.App.Get("/*", func(ctx *fiber.Ctx) error {
		if strings.HasPrefix(ctx.Path(), "/api/") || strings.HasPrefix(ctx.Path(), "/webhook/") {
			return fiber.ErrNotFound
		}
		return ctx.SendFile(index)
	})
}
