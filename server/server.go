package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"squarepicks/config"
	"squarepicks/service"
)

// Server is the admin HTTP surface: a manual reconcile trigger, winner
// summary reads, health and metrics.
type Server struct {
	reconciler service.ReconcilerService
	boards     service.BoardService
	users      service.UserService
	engine     *gin.Engine
}

// New creates the HTTP server and registers all routes
func New(reconciler service.ReconcilerService, boards service.BoardService, users service.UserService) *Server {
	cfg := config.Get()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	// Credentialed CORS is only valid with explicit origins; browsers
	// reject the combination with a wildcard.
	allowCredentials := !slices.Contains(cfg.CORSAllowOrigins, "*")
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		reconciler: reconciler,
		boards:     boards,
		users:      users,
		engine:     engine,
	}

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/reconcile", s.reconcile)
		v1.GET("/boards/:id/winners", s.boardWinners)
		v1.GET("/users/:id/balance", s.userBalance)
		v1.GET("/users/:id/ledger", s.userLedger)
	}

	return s
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
}
