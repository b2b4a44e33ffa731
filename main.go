package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/client"
	"github.com/Aashish23092/payslip-verification/config"
	"github.com/Aashish23092/payslip-verification/handler"
	"github.com/Aashish23092/payslip-verification/service"
	"github.com/Aashish23092/payslip-verification/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server.exit", "err", err)
		os.Exit(1)
	}
}

// run wires the application and serves until the server stops.
func run() error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Initialize the structured extraction client
	var aiClient client.StructuredExtractionClient
	switch cfg.AIProvider {
	case config.ProviderAnthropic:
		aiClient = client.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AIModel, logger)
	case config.ProviderHTTP:
		aiClient = client.NewExtractionHTTPClient(cfg.ExtractionServiceURL, &http.Client{Timeout: cfg.AITimeout}, logger)
	default:
		logger.Warn("extract.ai.disabled", "provider", cfg.AIProvider)
	}

	// Open session storage
	sessionStore, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open session store %s: %w", cfg.DBPath, err)
	}
	defer sessionStore.Close()

	// Initialize service layer
	extractor := service.NewStructuredExtractor(aiClient, cfg.AITimeout, logger)
	extractionService := service.NewExtractionService(service.NewPDFProcessor(), extractor, logger)
	comparisonService := service.NewComparisonService(logger)
	taxValidator := service.NewTaxValidator(logger)
	exportService := service.NewExportService(logger)
	sessionService := service.NewSessionService(sessionStore, comparisonService, cfg.SessionTTL, logger)

	purgeJob, err := sessionService.StartPurgeJob(cfg.SessionPurgeSchedule)
	if err != nil {
		return err
	}
	defer purgeJob.Stop()

	// Setup Gin router
	router := gin.Default()
	router.Use(handler.RequestID(logger))
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"service":     "Payslip Verification",
			"ai_provider": cfg.AIProvider,
		})
	})

	// API routes
	api := router.Group("/api/v1")
	handler.NewPayslipHandler(extractionService, sessionService, cfg.MaxFileSize, logger).Register(api)
	handler.NewContractHandler(logger).Register(api)
	handler.NewComparisonHandler(comparisonService, logger).Register(api)
	handler.NewTaxHandler(taxValidator, logger).Register(api)
	handler.NewSessionHandler(sessionService, exportService, logger).Register(api)

	// Start server
	logger.Info("server.start", "port", cfg.ServerPort, "ai_provider", cfg.AIProvider, "db", cfg.DBPath)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		return fmt.Errorf("serve on port %s: %w", cfg.ServerPort, err)
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
