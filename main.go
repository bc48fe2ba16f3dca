package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"akun/internal/config"
	"akun/internal/database"
	"akun/internal/handlers"
	"akun/internal/password"
	"akun/internal/repositories"
	"akun/internal/services"
	"akun/internal/token"
	"akun/internal/validation"
	"akun/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeAccountEvents(logAccountEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL is not set. Account events will not be published.")
	}

	app := newApp(cfg, db, publisher)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	accountRepo := repositories.NewGORMAccountRepository(db)

	authService := services.NewAuthService(
		accountRepo,
		token.NewCodec(cfg.TokenTTL),
		password.NewHasher(),
		validation.NewValidator(cfg.Rules),
		publisher,
		cfg.JWTSecret,
	)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// logAccountEvent is the consumer handler for account events.
func logAccountEvent(msg amqp.Delivery) error {
	event, err := rabbitmq.DecodeAccountRegistered(msg)
	if err != nil {
		// Redelivering an undecodable message would loop forever.
		log.Printf("Dropping account event %s: %v", msg.MessageId, err)
		return nil
	}
	log.Printf("Account registered: id=%d username=%s at %s", event.AccountID, event.Username, event.OccurredAt.Format(time.RFC3339))
	return nil
}
