package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-maker/internal/config"
	"alfredoptarigan/interview-maker/internal/handlers"
	"alfredoptarigan/interview-maker/internal/repositories"
	"alfredoptarigan/interview-maker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	submissionRepo := repositories.NewSubmissionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize Gemini AI
	textGen, err := services.NewGeminiGenerator(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize services
	generator := services.NewGeneratorService(textGen)
	submitter := services.NewSubmitterService(
		cfg.Submission.PersistenceURL,
		cfg.Submission.TokenDebitURL,
		cfg.Submission.Timeout,
		submissionRepo,
	)
	workflows := services.NewWorkflowManager(generator, submitter)
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	worker := services.NewWorker(workflows, cfg.Worker.Concurrency)
	workflows.SetQueue(worker)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize Handlers
	sessionHandler := handlers.NewSessionHandler(workflows)
	draftHandler := handlers.NewDraftHandler(workflows)
	submitHandler := handlers.NewSubmitHandler(workflows, submissionRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Maker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Session lifecycle
	api.Post("/sessions", sessionHandler.HandleCreate)
	api.Get("/sessions/:id", sessionHandler.HandleGet)
	api.Post("/sessions/:id/type", sessionHandler.HandleChooseKind)
	api.Post("/sessions/:id/cancel", sessionHandler.HandleCancel)
	api.Post("/sessions/:id/edit", sessionHandler.HandleEdit)
	api.Delete("/sessions/:id", sessionHandler.HandleDelete)

	// Draft mutations
	api.Patch("/sessions/:id/draft", draftHandler.HandleSetField)
	api.Post("/sessions/:id/draft/marks", draftHandler.HandleAddMark)
	api.Put("/sessions/:id/draft/marks/:index", draftHandler.HandleSetMark)
	api.Delete("/sessions/:id/draft/marks/:index", draftHandler.HandleRemoveMark)
	api.Post("/sessions/:id/draft/questions", draftHandler.HandleAddQuestion)
	api.Put("/sessions/:id/draft/questions/:index", draftHandler.HandleSetQuestion)
	api.Delete("/sessions/:id/draft/questions/:index", draftHandler.HandleRemoveQuestion)

	// Generation, preview, submission
	api.Post("/sessions/:id/generate", submitHandler.HandleGenerate)
	api.Post("/sessions/:id/preview", submitHandler.HandlePreview)
	api.Post("/sessions/:id/submit", submitHandler.HandleSubmit)

	// Reconciliation
	api.Get("/submissions/debit-failures", submitHandler.HandleDebitFailures)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Maker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/generate",
				"POST /api/v1/sessions/:id/preview",
				"POST /api/v1/sessions/:id/submit",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
