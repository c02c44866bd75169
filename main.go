package main

import (
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loja/internal/config"
	"loja/internal/handlers"
	"loja/internal/middleware"
	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"
	"loja/pkg/mailer"
	"loja/pkg/payment"
	"loja/pkg/rabbitmq"
)

// openDatabase connects to Postgres when a DSN is configured and falls
// back to a local SQLite file for development, then migrates the schema.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseDSN != "" {
		dialector = postgres.Open(cfg.DatabaseDSN)
	} else {
		log.Println("DATABASE_DSN not set, using local SQLite database loja.db")
		dialector = sqlite.Open("loja.db")
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.TransactionLog{},
		&models.Collection{},
		&models.Banner{},
		&models.AdSlot{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewApp wires every repository, service and handler explicitly and
// returns the configured Fiber app. events may be nil when no broker
// is configured.
func NewApp(cfg config.Config, db *gorm.DB, events services.EventPublisher) *fiber.App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	ledgerRepo := repositories.NewGORMTransactionLogRepository(db)
	collectionRepo := repositories.NewGORMCollectionRepository(db)
	bannerRepo := repositories.NewGORMBannerRepository(db)
	adSlotRepo := repositories.NewGORMAdSlotRepository(db)

	// --- Shared infrastructure ---
	mail := mailer.NewSMTPMailer(mailer.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.EmailUser,
		Pass: cfg.EmailPass,
	})

	var gateway payment.Gateway
	if cfg.StripeEnabled() {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	} else {
		log.Println("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, mail, cfg.FrontendURL)
	oauthService := services.NewOAuthService(userRepo, authService, services.OAuthConfig{
		Google:      services.OAuthProviderConfig{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret},
		Facebook:    services.OAuthProviderConfig{ClientID: cfg.FacebookAppID, ClientSecret: cfg.FacebookAppSecret},
		CallbackURL: cfg.FrontendURL + "/api/auth",
	})
	productService := services.NewProductService(productRepo, categoryRepo)
	checkoutService := services.NewCheckoutService(gateway, cfg.FrontendURL)
	fulfillmentService := services.NewFulfillmentService(gateway, productRepo, orderRepo, ledgerRepo, mail, events)
	orderService := services.NewOrderService(orderRepo, productRepo)
	accountService := services.NewAccountService(userRepo, productRepo)
	collectionService := services.NewCollectionService(collectionRepo, productRepo)
	bannerService := services.NewBannerService(bannerRepo)
	adSlotService := services.NewAdSlotService(adSlotRepo)
	ledgerService := services.NewLedgerService(ledgerRepo)

	// --- Middleware ---
	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		AppName: "loja",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
	}))

	// Uploaded assets are public but protected against hotlinking. The
	// frontend's own host is always allowed alongside local development.
	ownHosts := []string{"localhost", "127.0.0.1"}
	if front, err := url.Parse(cfg.FrontendURL); err == nil && front.Hostname() != "" {
		ownHosts = append(ownHosts, front.Hostname())
	}
	app.Use("/uploads", middleware.HotlinkProtection(ownHosts))
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, oauthService, authRequired, cfg.FrontendURL).RegisterRoutes(api)
	handlers.NewProductHandler(productService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewCheckoutHandler(checkoutService, fulfillmentService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, authRequired).RegisterRoutes(api)
	handlers.NewAccountHandler(accountService, orderService, authRequired).RegisterRoutes(api)
	handlers.NewCollectionHandler(collectionService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewBannerHandler(bannerService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewAdSlotHandler(adSlotService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewLedgerHandler(ledgerService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewUploadHandler(cfg.UploadDir, authRequired, adminRequired).RegisterRoutes(api)

	return app
}

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// The broker is optional: without it fulfillment events are simply
	// not published.
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		go func() {
			log.Println("Starting RabbitMQ consumer for fulfillment events...")
			consumerErr := mqClient.ConsumeFulfillmentEvents(func(msg amqp.Delivery) error {
				log.Printf("Fulfillment event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			})
			if consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set, event publishing is disabled")
	}

	app := NewApp(cfg, db, events)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
