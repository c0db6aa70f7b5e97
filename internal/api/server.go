// Package api wires the engine together and exposes it over HTTP.
package api

import (
	"context"
	"fmt"

	"marquee/internal/booking"
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/database"
	"marquee/internal/handlers"
	"marquee/internal/idempotency"
	"marquee/internal/inventory"
	"marquee/internal/ledger"
	"marquee/internal/logger"
	"marquee/internal/messaging"
	"marquee/internal/metrics"
	"marquee/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

type Server struct {
	router  *gin.Engine
	config  *config.Config
	db      *database.DB
	nats    *messaging.Client
	sweeper *inventory.Sweeper
	cancel  context.CancelFunc
}

// NewServer builds the full engine: catalog, inventory, ledger,
// idempotency store, messaging and the HTTP surface.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Get().Info("Catalog loaded",
		"theatres", len(cat.Theatres()),
		"shows", len(cat.Shows()))

	m := metrics.New(prometheus.DefaultRegisterer)

	inv := inventory.NewManager(cat.Shows(), cfg.Inventory.ClaimTTL, m)

	var db *database.DB
	var store ledger.Store
	if cfg.Database.Enabled {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		store = ledger.NewPostgresStore(db)
	} else {
		logger.Get().Info("Database disabled, using in-memory booking ledger")
		store = ledger.NewMemoryStore()
	}

	var idem idempotency.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := idempotency.NewRedisStore(cfg.Redis)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		idem = redisStore
	} else {
		logger.Get().Info("Redis disabled, using in-memory idempotency store")
		idem = idempotency.NewMemoryStore()
	}

	natsClient, err := messaging.Connect(cfg.NATS)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	coord := booking.NewCoordinator(cat, inv, store, idem, natsClient, m, cfg.IdempotencyTTL)
	inv.OnExpire(coord.HandleExpiredClaim)

	ctx, cancel := context.WithCancel(context.Background())
	sweeper := inventory.NewSweeper(inv, cfg.Inventory.SweepInterval)
	sweeper.Start(ctx)

	s := &Server{
		router:  gin.New(),
		config:  cfg,
		db:      db,
		nats:    natsClient,
		sweeper: sweeper,
		cancel:  cancel,
	}
	s.setupRoutes(handlers.New(cat, inv, coord), m)

	return s, nil
}

func (s *Server) setupRoutes(h *handlers.Handler, m *metrics.Metrics) {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Metrics(m))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "marquee",
			"version": version,
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/theatres", h.GetTheatres)
		api.GET("/movies", h.GetMovies)
		api.GET("/availability", h.GetAvailability)
		api.POST("/quote", h.Quote)

		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings", h.ListBookings)
		api.GET("/bookings/:id", h.GetBooking)
		api.PATCH("/bookings/cancel", h.CancelBooking)
	}
}

// Run starts the HTTP server. Blocks until the server exits.
func (s *Server) Run() error {
	logger.Get().Info("Starting server", "port", s.config.Port, "version", version)
	return s.router.Run(":" + s.config.Port)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Cleanup stops background work and closes external connections.
func (s *Server) Cleanup() {
	s.cancel()
	s.sweeper.Stop()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Failed to close NATS connection", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Failed to close database connection", "error", err)
		}
	}
}
