// main.go - The entry point and router setup.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tabsyhq/tabsy-api/configs"
	"github.com/tabsyhq/tabsy-api/internal/advisor"
	"github.com/tabsyhq/tabsy-api/internal/api"
	"github.com/tabsyhq/tabsy-api/internal/ledger"
	"github.com/tabsyhq/tabsy-api/internal/ocr"
	"github.com/tabsyhq/tabsy-api/internal/storage"
)

func main() {
	// Step 0: Load configuration from environment variables
	configs.LoadConfig()

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 1: Initialize MongoDB connection (box and preview stores)
	if err := storage.InitMongoDB(); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer storage.CloseMongoDB()

	// Step 2: Create the OCR provider with optional vendor fallback
	provider, fallback, err := ocr.CreateProviderWithFallback()
	if err != nil {
		log.Fatalf("Failed to create OCR provider: %v", err)
	}

	// Step 3: Wire the advisory usage ledger and budget gate
	usageStore, err := ledger.CreateUsageStore(storage.GetMongoDB())
	if err != nil {
		log.Fatalf("Failed to create usage store: %v", err)
	}
	defer usageStore.Close()

	usageLedger := ledger.NewLedger(usageStore, configs.ADVISOR_INPUT_PRICE_PER_MILLION, configs.ADVISOR_OUTPUT_PRICE_PER_MILLION)
	gate := ledger.NewBudgetGate(usageStore, configs.DAILY_BUDGET_USD, configs.BUDGET_FAIL_OPEN)
	rankModel := advisor.NewGeminiRankModel(configs.GEMINI_API_KEY, configs.ADVISOR_MODEL_NAME)
	ranker := advisor.NewRanker(gate, usageLedger, rankModel)

	server := api.NewServer(
		provider,
		fallback,
		ranker,
		storage.NewMongoBoxStore(storage.GetMongoDB()),
		storage.NewMongoPreviewStore(storage.GetMongoDB()),
	)

	// Step 4: Initialize the Gin router
	router := gin.Default()

	// CORS middleware - configure allowed origins for production
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Root endpoint for SSL verification
	router.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "tabsy-api",
			"version": "1.0.0",
		})
	})

	// Step 5: Define the API routes
	server.RegisterRoutes(router)

	// Step 6: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   2 * time.Minute, // OCR and ranking calls can take a while
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on :%s", configs.PORT)
		log.Println("API Endpoints:")
		log.Println("  POST /api/v1/flare/preview")
		log.Println("  POST /api/v1/flare/finalize")
		log.Println("  POST /api/v1/advisor/ask")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
