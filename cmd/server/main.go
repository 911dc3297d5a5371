package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	config "github.com/MathengeNewton/socialCommerce-sub000/configs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/api/handlers"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/api/middleware"
	job "github.com/MathengeNewton/socialCommerce-sub000/internal/jobs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/platform"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/queue"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/ratelimit"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Redis is unreachable: %v", err)
	}
	defer rdb.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	postDestinationRepo := repository.NewPostDestinationRepository(db)
	captionRepo := repository.NewCaptionRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	productRepo := repository.NewProductRepository(db)
	destinationRepo := repository.NewDestinationRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	usageRecordRepo := repository.NewUsageRecordRepository(db)

	mediaService := service.NewMediaService(*cfg)
	linksService := service.NewLinksService(*cfg)
	billingService := service.NewBillingService(usageRecordRepo)

	jobClient := queue.NewClient(client, cfg.Queue.MaxRetry)
	publishService := service.NewPublishService(db, postRepo, postDestinationRepo, captionRepo,
		postMediaRepo, productRepo, destinationRepo, integrationRepo, auditLogRepo,
		mediaService, linksService, jobClient)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(publishService)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/:id/publish", post.PublishPost)
	api.Post("/posts/:id/schedule", post.SchedulePost)
	api.Post("/posts/:id/cancel", post.CancelPost)

	// cron jobs
	scheduledPostsJob := job.NewScheduledPostsJob(postRepo, publishService)
	tokenRefreshJob := job.NewTokenRefreshJob(*cfg, integrationRepo)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", scheduledPostsJob.PublishDuePosts)
	c.AddFunc("@every 00h10m00s", tokenRefreshJob.RefreshTokens)
	c.Start()

	// queue worker
	httpClient := resty.New().SetTimeout(30 * time.Second)
	registry := platform.NewRegistry(httpClient)
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounter(rdb), cfg.RateLimits)
	worker := queue.NewWorker(postRepo, postDestinationRepo, limiter, registry, billingService, []byte(cfg.SecretKey))

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				if errors.Is(e, ratelimit.ErrRateLimitExceeded) {
					// A saturated window stays saturated; reattempt in the next one.
					return cfg.RateLimits.Window
				}
				// 2s, 4s, 8s, ...
				return cfg.Queue.BackoffBase << n
			},
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, worker.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
