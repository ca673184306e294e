package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subgen/internal/api/middleware"
	"subgen/internal/api/v1/handlers"
	v1routes "subgen/internal/api/v1/routes"
	"subgen/internal/app/fetch"
	"subgen/internal/app/media"
	"subgen/internal/app/pipeline"
	"subgen/internal/app/subtitle"
	"subgen/internal/app/translate"
	"subgen/internal/app/util/files"
	"subgen/internal/config"
)

// Config represents API server configuration.
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// DefaultConfig builds a server Config from the application settings.
func DefaultConfig(settings *config.Settings) Config {
	return Config{
		Host:         settings.Host,
		Port:         settings.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  2 * time.Minute,
		Environment:  settings.Environment,
	}
}

// Server represents the API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires the pipelines into a gin router and returns a server
// ready to Start.
func NewServer(cfg Config, settings *config.Settings, logger *slog.Logger) (*Server, error) {
	workspace, err := files.NewWorkspace(settings.UploadsDir, settings.OutputsDir, settings.TempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare workspace: %w", err)
	}

	transcoder := &media.Transcoder{OutputDir: workspace.OutputsDir}
	fetcher := &fetch.Downloader{TempDir: workspace.TempDir}

	transcriber := pipeline.NewTranscriber(settings, workspace, transcoder, fetcher)
	exporter := pipeline.NewExporter(workspace, transcoder, fetcher)
	translator := translate.NewService(settings.DeepLKey)

	styleDefaults, err := config.LoadStyleDefaults("styles.yaml")
	if err != nil {
		logger.Warn("ignoring malformed style config", "error", err)
	}
	baseStyle := subtitle.Style{
		Quality:   subtitle.Quality(styleDefaults.Quality),
		FontSize:  subtitle.FontSize(styleDefaults.FontSize),
		FontColor: styleDefaults.FontColor,
		Position:  subtitle.Position(styleDefaults.Position),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"providers": settings.ConfiguredProviders(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	exportHandler := handlers.NewExportHandler(exporter, workspace.OutputsDir, baseStyle)
	router.GET("/download/:filename", exportHandler.Download)

	container := &v1routes.HandlerContainer{
		Transcription: handlers.NewTranscriptionHandler(transcriber),
		Translation:   handlers.NewTranslationHandler(translator),
		Export:        exportHandler,
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, container)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		"host", s.config.Host,
		"port", s.config.Port,
		"environment", s.config.Environment,
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	s.logger.Info("API server started successfully",
		"address", s.httpServer.Addr,
	)

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
