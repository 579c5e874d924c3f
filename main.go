package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"blog/internal/config"
	"blog/internal/gate"
	"blog/internal/handlers"
	"blog/internal/imaging"
	"blog/internal/middleware"
	"blog/internal/repositories"
	"blog/internal/security"
	"blog/internal/services"
	"blog/internal/session"
	"blog/pkg/rabbitmq"
)

// purgeTimeout bounds one queued cascade delete.
const purgeTimeout = 30 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	var purges services.PurgeQueue
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		purges = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, failed post deletes are not retried")
	}

	app, postService := buildApp(cfg, db, purges)

	// --- Purge consumer ---
	if mqClient != nil {
		err := mqClient.ConsumePostPurges(func(postID string) error {
			ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
			defer cancel()
			return postService.PurgePost(ctx, postID)
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
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
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// buildApp wires repositories, services and handlers into a Fiber app.
func buildApp(cfg config.Config, db *gorm.DB, purges services.PurgeQueue) (*fiber.App, *services.PostService) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	photoRepo := repositories.NewGORMPhotoRepository(db)

	// --- Services ---
	resizer := imaging.NewJPEGResizer()
	userService := services.NewUserService(userRepo, security.NewHasher(cfg.PasswordIterations), resizer)
	postService := services.NewPostService(postRepo, commentRepo, photoRepo, userRepo, resizer, purges)

	// --- Session gate ---
	signer := session.NewSigner(cfg.SessionSecret, cfg.SessionTTL)
	sess := middleware.NewSession(gate.New(signer, userService, postService), signer, cfg.SessionCookie, cfg.SessionTTL)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    16 << 20,
	})
	app.Use(logger.New())

	handlers.NewAuthHandler(userService, sess).RegisterRoutes(app)
	handlers.NewUserHandler(userService, postService, sess).RegisterRoutes(app)
	handlers.NewPostHandler(postService, sess, cfg.RecentPostsLimit).RegisterRoutes(app)
	handlers.NewCommentHandler(postService, sess).RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"rabbitMQ": purges != nil,
		}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})

	return app, postService
}
