package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"solace/internal/config"
	"solace/internal/database"
	"solace/internal/handlers"
	"solace/internal/jobs"
	"solace/internal/logging"
	"solace/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Solace Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Open the SQLite store and run migrations before accepting requests
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize services
	factService := services.NewFactService(db)
	historyService := services.NewHistoryService(db)
	personaService := services.NewPersonaService(cfg.PersonaFile)
	generator := services.NewGenerationService(cfg)

	if generator.LiveMode() {
		log.Printf("🤖 Provider configured (model: %s) — live generation enabled", cfg.OpenAIModel)
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set — running in offline (simulated) mode")
	}

	// Initialize Prometheus metrics
	services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Watch the persona file for hot reload
	go personaService.Watch()

	// Background jobs
	jobScheduler := jobs.NewJobScheduler()
	jobScheduler.Register("store_stats", jobs.NewStoreStatsJob(factService, historyService, 15*time.Minute))
	if err := jobScheduler.Start(); err != nil {
		log.Printf("⚠️  Failed to start job scheduler: %v", err)
	} else {
		log.Println("✅ Background job scheduler started")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Solace v1.0",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // chat payloads are small
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("solace")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	chatHandler := handlers.NewChatHandler(factService, historyService, personaService, generator)
	memoryHandler := handlers.NewMemoryHandler(factService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Routes
	app.Get("/health", healthHandler.Handle)
	app.Post("/chat", chatHandler.Handle)
	app.Get("/memory/:user_id", memoryHandler.GetFacts)
	app.Get("/history/:user_id", historyHandler.Recent)

	// Serve the bundled chat UI
	if cfg.ServeFrontend {
		if _, err := os.Stat(cfg.FrontendDir); err == nil {
			app.Static("/", cfg.FrontendDir, fiber.Static{
				Compress:      true,
				CacheDuration: 24 * time.Hour,
			})
			// SPA fallback: serve index.html for frontend routes only.
			app.Get("/*", func(c *fiber.Ctx) error {
				path := c.Path()
				if strings.HasPrefix(path, "/chat") ||
					strings.HasPrefix(path, "/memory/") ||
					strings.HasPrefix(path, "/history/") ||
					path == "/health" ||
					path == "/metrics" {
					return c.Next()
				}
				return c.SendFile(filepath.Join(cfg.FrontendDir, "index.html"))
			})
			log.Printf("🌐 Frontend serving from %s", cfg.FrontendDir)
		} else {
			log.Printf("⚠️  SERVE_FRONTEND enabled but directory %s not found", cfg.FrontendDir)
		}
	}

	// Start server
	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("💬 Chat endpoint: http://localhost:%s/chat", cfg.Port)
	log.Printf("🧠 Memory endpoint: http://localhost:%s/memory/:user_id", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
