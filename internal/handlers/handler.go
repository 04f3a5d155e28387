package handlers

import (
	"database/sql"

	"webauth/internal/logger"
	"webauth/internal/render"
	"webauth/internal/service"
	"webauth/internal/session"

	"github.com/gin-gonic/gin"
)

// View names handed to the renderer.
const (
	viewWelcome   = "welcome.html"
	viewRegister  = "register.html"
	viewLogin     = "login.html"
	viewDashboard = "dashboard.html"
)

// Handler wires HTTP layer to services, sessions, rendering and logging.
type Handler struct {
	services *service.Service
	sessions *session.Manager
	renderer render.Renderer
	db       *sql.DB
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, sessions *session.Manager, renderer render.Renderer, db *sql.DB, log *logger.Logger) *Handler {
	return &Handler{services: services, sessions: sessions, renderer: renderer, db: db, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", h.welcome)
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Protected pages
	router.GET("/dashboard", h.dashboard)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.GET("/register", h.showRegisterForm)
		auth.POST("/register", h.processRegisterForm)
		auth.GET("/login", h.showLoginForm)
		auth.POST("/login", h.processLoginForm)
		auth.POST("/logout", h.logout)
	}
}
