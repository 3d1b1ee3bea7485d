package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	httpadp "github.com/Notes591/complaints/internal/adapter/http"
	"github.com/Notes591/complaints/internal/adapter/middleware"
	"github.com/Notes591/complaints/internal/adapter/sheetdb"
	"github.com/Notes591/complaints/internal/adapter/storecache"
	"github.com/Notes591/complaints/internal/adapter/storeretry"
	"github.com/Notes591/complaints/internal/config"
	"github.com/Notes591/complaints/internal/domain/record"
	"github.com/Notes591/complaints/internal/enrich"
	"github.com/Notes591/complaints/internal/infrastructure/cache"
	"github.com/Notes591/complaints/internal/infrastructure/db"
	"github.com/Notes591/complaints/internal/shipment"
	"github.com/Notes591/complaints/internal/usecase/approval"
	"github.com/Notes591/complaints/internal/usecase/aramex"
	"github.com/Notes591/complaints/internal/usecase/lifecycle"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var gdb *gorm.DB
	var err error
	switch cfg.DBDriver {
	case "mysql":
		gdb, err = db.OpenMySQL(cfg.MySQLDSN())
	default:
		gdb, err = db.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connection failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connected")

	base, err := sheetdb.New(gdb)
	if err != nil {
		log.Fatal().Err(err).Msg("row store setup failed")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connection failed")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	}

	// Retry wraps the raw store; the snapshot cache sits on top so
	// cached reads skip the retry path and writes still invalidate.
	var store record.Store = storeretry.New(base, cfg.RetryAttempts, cfg.RetryDelay, log)
	if rdb != nil && cfg.CacheTTLSecs > 0 {
		store = storecache.New(store, rdb, time.Duration(cfg.CacheTTLSecs)*time.Second, log)
	}

	var tracker shipment.Tracker = shipment.Disabled{}
	if !cfg.TrackerDisabled && cfg.TrackerBaseURL != "" {
		tracker = shipment.NewClient(cfg.TrackerBaseURL)
		if rdb != nil {
			tracker = shipment.NewCached(tracker, rdb, shipment.DefaultTTL)
		}
	}

	lc := lifecycle.NewUsecase(store, log)
	ap := approval.NewUsecase(lc, store, cfg.AdminSecret, log)
	ar := aramex.NewUsecase(store, log)
	en := enrich.NewService(store)

	h := httpadp.NewHandler(lc, ap, ar, en, tracker)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	complaints := e.Group("/complaints")
	if rdb != nil {
		complaints.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	}
	complaints.POST("", h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/:id", h.SearchComplaint)
	complaints.PATCH("/:id", h.EditComplaint)
	complaints.DELETE("/:id", h.DeleteComplaint)
	complaints.POST("/:id/respond", h.RespondComplaint)
	complaints.POST("/:id/reactivate", h.ReactivateComplaint)
	complaints.POST("/:id/archive", h.ArchiveComplaint)
	complaints.POST("/:id/submit-approval", h.SubmitForApproval)
	complaints.POST("/:id/approve", h.ApproveComplaint)
	complaints.POST("/:id/reject", h.RejectComplaint)

	e.GET("/approvals/requests", h.PendingSignatureRequests)
	e.GET("/types", h.ListTypes)

	e.POST("/aramex/orders", h.CreateAramexOrder)
	e.GET("/aramex/orders", h.ListAramexPending)
	e.PATCH("/aramex/orders/:id", h.EditAramexOrder)
	e.POST("/aramex/orders/:id/archive", h.ArchiveAramexOrder)
	e.GET("/aramex/archive", h.ListAramexArchived)

	e.GET("/shipments/:awb", h.ShipmentStatus)
	e.GET("/orders/:id/status", h.OrderStatus)
	e.GET("/warehouse-returns/:id", h.WarehouseReturn)

	addr := ":" + cfg.AppPort
	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
