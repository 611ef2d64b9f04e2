package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/campflowhq/campflow/configs"
	"github.com/campflowhq/campflow/internal/api/handlers"
	"github.com/campflowhq/campflow/internal/api/middleware"
	job "github.com/campflowhq/campflow/internal/jobs"
	"github.com/campflowhq/campflow/internal/queue"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/service"
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
	asynqClient := asynq.NewClient(redisConn)
	defer asynqClient.Close()

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
			return origin == cfg.FrontendURL
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	contentRepo := repository.NewContentRepository(db)
	jobRepo := repository.NewGenerationJobRepository(db)
	publicationRepo := repository.NewPublicationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	taskClient := queue.NewClient(asynqClient)

	textProvider := service.NewOpenAIService(*cfg)
	workflowService := service.NewWorkflowService(*cfg)
	mediaService := service.NewMediaService(*cfg)
	campaignService := service.NewCampaignService(campaignRepo)
	contentService := service.NewContentService(contentRepo, campaignRepo)
	generationService := service.NewGenerationService(contentRepo, campaignRepo, jobRepo, textProvider, workflowService, mediaService, taskClient)
	publicationService := service.NewPublicationService(publicationRepo, contentRepo, campaignRepo, socialAccountRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	publisher := service.NewStubPublisher()

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	webhook := handlers.NewWebhookHandler(*cfg, generationService)
	app.Post("/webhooks/generation", webhook.GenerationCallback)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	campaign := handlers.NewCampaignHandler(campaignService)
	api.Post("/campaigns", campaign.CreateCampaign)
	api.Get("/campaigns", campaign.ListCampaigns)

	content := handlers.NewContentHandler(contentService)
	api.Post("/content", content.CreateContent)
	api.Get("/content", content.ListContent)
	api.Post("/content/transition", content.TransitionContent)
	api.Post("/content/transition/bulk", content.TransitionContentBulk)

	generation := handlers.NewGenerationHandler(generationService)
	api.Post("/content/generate", generation.GenerateContent)
	api.Get("/jobs", generation.ListJobs)

	publication := handlers.NewPublicationHandler(publicationService)
	api.Post("/publications", publication.CreatePublication)
	api.Post("/publications/schedule", publication.SchedulePublication)
	api.Get("/publications", publication.ListPublications)

	notification := handlers.NewNotificationHandler(notificationService)
	api.Get("/notifications", notification.ListNotifications)
	api.Post("/notifications/read", notification.MarkRead)

	account := handlers.NewAccountHandler(socialAccountRepo)
	api.Get("/accounts", account.ListSocialAccounts)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveApiKey)

	sweep := job.NewPublicationSweep(publicationRepo, contentRepo, campaignRepo, socialAccountRepo, publisher, taskClient)
	worker := queue.NewWorker(generationService, notificationService, sweep)

	c := cron.New()
	c.AddFunc("@every 1m", func() {
		if err := taskClient.EnqueueSweep(context.Background(), time.Now()); err != nil {
			log.Printf("Failed to enqueue publication sweep: %v", err)
		}
	})
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeGenerateContent, worker.HandleGenerateContentTask)
		mux.HandleFunc(queue.TaskTypeSendNotification, worker.HandleSendNotificationTask)
		mux.HandleFunc(queue.TaskTypePublicationSweep, worker.HandlePublicationSweepTask)

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
