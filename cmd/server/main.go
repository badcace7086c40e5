package main // entry point of the parking API server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/config"
	"github.com/iliyamo/vehicle-parking/internal/database"
	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/queue"
	"github.com/iliyamo/vehicle-parking/internal/repository"
	"github.com/iliyamo/vehicle-parking/internal/router"
)

func main() {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Repositories share the single pooled handle.
	cityRepo := repository.NewCityRepo(db)
	lotRepo := repository.NewLotRepo(db)
	spotRepo := repository.NewSpotRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	store := repository.NewSQLStore(db, lotRepo, spotRepo, reservationRepo)
	eng := engine.New(store)

	driverHandler := handler.NewDriverHandler(eng, reservationRepo)
	adminHandler := handler.NewAdminHandler(cityRepo, lotRepo, spotRepo, reservationRepo, eng)
	publicHandler := handler.NewPublicHandler(cityRepo, lotRepo, spotRepo)

	e := echo.New()
	e.HideBanner = true

	// Redis backs rate limiting and the public response cache.  A nil
	// client disables both and the API runs unprotected but functional.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, cacheMW)
	router.RegisterDriver(e, driverHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// Background consumer mirrors closed reservations into
	// logs/parking.log.  It reconnects forever on its own.
	go func() {
		if err := queue.StartClosedConsumer(); err != nil {
			log.Printf("parking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
