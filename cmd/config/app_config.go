package config

import (
	"context"
	"errors"
	"os"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/api/handlers"
	"veronikaextra-backend/internal/api/routes"
	"veronikaextra-backend/internal/middleware"
	"veronikaextra-backend/internal/utils"
	"veronikaextra-backend/internal/utils/mailing"
	"veronikaextra-backend/internal/utils/storage"
	"veronikaextra-backend/pkg/credit"
	"veronikaextra-backend/pkg/events"
	"veronikaextra-backend/pkg/generate"
	"veronikaextra-backend/pkg/jwt"
	"veronikaextra-backend/pkg/payment"
	"veronikaextra-backend/pkg/plan"
	"veronikaextra-backend/pkg/session"
	"veronikaextra-backend/pkg/settings"
	"veronikaextra-backend/pkg/user"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConnectRedis returns the Redis backed revocation store, or an in-memory one
// when Redis is not configured or unreachable.
func ConnectRedis() session.Store {
	addr := utils.GetConfig("REDIS_ADDRESS")
	if addr == "" {
		log.Warn("REDIS_ADDRESS not set, logout revocations are kept in memory")
		return session.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       utils.GetConfigInt("REDIS_DB"),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorf("redis unreachable at %s, falling back to memory store: %v", addr, err)
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(client)
}

// ConnectBroker returns the event publisher and a closer that stops the receipt
// consumer.
func ConnectBroker(mailer mailing.Mailer) (events.Publisher, func()) {
	url := utils.GetConfig("RABBITMQ_URL")
	if url == "" {
		log.Warn("RABBITMQ_URL not set, payment events are not published")
		return events.NewNoopPublisher(), func() {}
	}

	broker, err := events.NewRabbitMQ(url)
	if err != nil {
		return events.NewNoopPublisher(), func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		handler := mailing.ReceiptHandler(mailer, utils.GetConfig("APP_URL"))
		if err := broker.Consume(ctx, domain.EventPaymentSettled, handler); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("receipt consumer stopped: %v", err)
		}
	}()

	return broker, func() {
		cancel()
		if err := broker.Close(); err != nil {
			log.Errorf("failed to close rabbitmq: %v", err)
		}
	}
}

func seed(userService user.UserService, planService plan.PlanService, settingsService settings.SettingsService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if email := utils.GetConfig("ADMIN_EMAIL"); email != "" {
		if err := userService.EnsureAdmin(ctx, email, utils.GetConfig("ADMIN_PASSWORD")); err != nil {
			log.Errorf("failed to seed admin account: %v", err)
		}
	}
	if err := planService.EnsureDefaults(ctx); err != nil {
		log.Errorf("failed to seed credit plans: %v", err)
	}
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Errorf("failed to seed settings: %v", err)
	}
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	sessionStore := ConnectRedis()
	mailer := mailing.NewMailer(mailing.LoadMailConfig())
	publisher, closeBroker := ConnectBroker(mailer)
	app.Hooks().OnShutdown(func() error {
		closeBroker()
		return nil
	})
	middlewares := middleware.NewMiddleware(sessionStore)

	imageCost := utils.GetConfigInt("IMAGE_COST")
	initialCredits := utils.GetConfigInt("INITIAL_CREDITS")

	// Repository
	userRepository := user.NewUserRepository(db)
	creditRepository := credit.NewCreditRepository(db)
	planRepository := plan.NewPlanRepository(db)
	settingsRepository := settings.NewSettingsRepository(db)
	paymentRepository := payment.NewPaymentRepository(db)

	// Service
	jwtService, err := jwt.NewJWTService()
	if err != nil {
		return nil, err
	}
	creditService := credit.NewCreditService(creditRepository)
	userService := user.NewUserService(userRepository, creditService, jwtService, sessionStore, initialCredits)
	planService := plan.NewPlanService(planRepository)
	settingsService := settings.NewSettingsService(settingsRepository, s3, imageCost, initialCredits)
	generateService := generate.NewGenerateService(
		creditService,
		generate.NewA4FProvider(generate.A4FConfig{
			APIKey:  utils.GetConfig("A4F_API_KEY"),
			Model:   utils.GetConfig("A4F_MODEL"),
			BaseURL: utils.GetConfig("A4F_BASE_URL"),
			Size:    utils.GetConfig("A4F_IMAGE_SIZE"),
		}),
		generate.NewImageProxy(utils.GetConfigList("PROXY_IMAGE_HOSTS")),
		imageCost,
		utils.GetConfigBool("PAD_SHORT_BATCH"),
	)
	paymentService := payment.NewPaymentService(
		paymentRepository,
		userRepository,
		planService,
		creditService,
		payment.NewCashfreeClient(payment.CashfreeConfig{
			AppID:      utils.GetConfig("CASHFREE_APP_ID"),
			SecretKey:  utils.GetConfig("CASHFREE_SECRET_KEY"),
			APIVersion: utils.GetConfig("CASHFREE_API_VERSION"),
			BaseURL:    utils.GetConfig("CASHFREE_BASE_URL"),
		}),
		payment.NewOxapayClient(payment.OxapayConfig{
			MerchantKey: utils.GetConfig("OXAPAY_MERCHANT_ID"),
			BaseURL:     utils.GetConfig("OXAPAY_BASE_URL"),
			Lifetime:    utils.GetConfigInt("OXAPAY_LIFETIME"),
		}),
		publisher,
	)

	seed(userService, planService, settingsService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	creditHandler := handlers.NewCreditHandler(creditService, validator)
	generateHandler := handlers.NewGenerateHandler(generateService, validator)
	paymentHandler := handlers.NewPaymentHandler(paymentService, validator)
	planHandler := handlers.NewPlanHandler(planService, validator)
	settingsHandler := handlers.NewSettingsHandler(settingsService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		CreditHandler:   creditHandler,
		GenerateHandler: generateHandler,
		PaymentHandler:  paymentHandler,
		PlanHandler:     planHandler,
		SettingsHandler: settingsHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
		StaticDir:       utils.GetConfig("STATIC_DIR"),
	}
	routesConfig.Setup()
	return app, nil
}
