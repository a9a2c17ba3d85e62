package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/internal/api/auth"
	"github.com/shotflow/internal/billing"
	"github.com/shotflow/internal/projects"
)

// Server represents the API server
type Server struct {
	echo      *echo.Echo
	port      int
	jwtSecret string

	registry *ai.Registry
	store    *projects.Store
	billing  *billing.Service
	webhooks *billing.WebhookProcessor
}

// Options wires the server's collaborators.
type Options struct {
	Port          int
	JWTSecret     string
	Registry      *ai.Registry
	DB            *sql.DB
	Billing       *billing.Service
	WebhookSecret string
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:      e,
		port:      opts.Port,
		jwtSecret: opts.JWTSecret,
		registry:  opts.Registry,
		store:     projects.NewStore(opts.DB),
		billing:   opts.Billing,
		webhooks:  billing.NewWebhookProcessor(opts.Billing, opts.WebhookSecret),
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// Payment webhooks authenticate by signature, not by session
	s.echo.POST("/webhooks/payment", s.handlePaymentWebhook)

	// API v1 group
	v1 := s.echo.Group("/api/v1")
	v1.Use(auth.RequireAuth(s.jwtSecret))

	// Chat is the expensive route; one completion call per request
	chatLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(1),
			Burst:     5,
			ExpiresIn: 3 * time.Minute,
		}),
	})
	v1.POST("/chat", s.handleChat, chatLimiter)

	// Projects and documents
	v1.GET("/projects", s.listProjects)
	v1.POST("/projects", s.createProject)
	v1.GET("/projects/:id", s.getProject)
	v1.PUT("/projects/:id", s.renameProject)
	v1.DELETE("/projects/:id", s.deleteProject)
	v1.GET("/projects/:id/documents", s.listDocuments)
	v1.POST("/projects/:id/documents", s.createDocument)
	v1.GET("/projects/:id/documents/:docID", s.getDocument)
	v1.PUT("/projects/:id/documents/:docID", s.updateDocument)

	// Templates
	v1.GET("/templates", s.listTemplates)

	// Billing
	v1.GET("/billing/plans", s.listPlans)
	v1.POST("/billing/subscriptions", s.createSubscription)
	v1.GET("/billing/subscription", s.getSubscription)

	// Admin
	admin := v1.Group("/admin", auth.RequireAdmin())
	admin.GET("/providers", s.listProviders)
}

// Start begins the API server
func (s *Server) Start() error {
	// Start server in a goroutine
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) listProviders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"providers": s.registry.Names(),
	})
}
