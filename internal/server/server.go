package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guiyumin/animelink/internal/core/app"
	"github.com/guiyumin/animelink/internal/core/config"
)

const (
	serviceName     = "animelink"
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "X-API-Key"
)

// Server is the HTTP API over the scraping and extraction services
type Server struct {
	port     int
	apiKey   string
	services *app.Services
	logger   *log.Logger
	server   *http.Server
	engine   *gin.Engine
}

// NewServer creates a server. The hoster table is initialized by Start;
// tests initialize it themselves.
func NewServer(services *app.Services, port int, apiKey string) *Server {
	s := &Server{
		port:     port,
		apiKey:   apiKey,
		services: services,
		logger:   services.Logger,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the gin engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(s.requestIDMiddleware())
	engine.Use(s.loggingMiddleware())
	if s.apiKey != "" {
		engine.Use(s.authMiddleware())
	}

	api := engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/animes", s.handleAnimes)
	api.GET("/search", s.handleSearch)
	api.GET("/anime/details", s.handleAnimeDetails)
	api.GET("/genres", s.handleGenres)
	api.GET("/extract", s.handleExtract)
	api.GET("/extract/debug", s.handleExtractDebug)
	api.GET("/extract/hoster", s.handleExtractHoster)
	api.GET("/hosters", s.handleHosters)
	api.GET("/download/:id", s.handleDownload)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "not found",
		})
	})

	return engine
}

// Start initializes the hoster table and listens until Stop is called
func (s *Server) Start(ctx context.Context) error {
	if !config.Exists() {
		s.logger.Warn("no config file found, using defaults", "hint", "run 'animelink init' to create one")
	}

	st := s.services.InitHosters(ctx, s.services.Config.Hosters.SyncOnStart)
	if !st.Ready {
		s.logger.Warn("hoster rules unavailable, /api/extract/hoster will answer 503", "err", st.Error)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting server", "port", s.port, "site", s.services.Site.BaseURL(), "chain", s.services.Resolver.Selector().String())
	if s.apiKey != "" {
		s.logger.Info("API key authentication enabled")
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Middleware

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health endpoint doesn't require auth
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		if c.GetHeader(apiKeyHeader) != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", c.GetString("request_id"),
		}
		switch {
		case status >= 500:
			s.logger.Error("request", fields...)
		case status >= 400:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	}
}
