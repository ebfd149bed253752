package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional. Without it the catalog cache and the booking
	// rate limit are disabled; bookings stay correct because the
	// atomic seat flip lives in MySQL, not the cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limit disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	movies := repository.NewMovieRepo(db)
	theaters := repository.NewTheaterRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	bookingSvc := service.NewBookingService(
		bookings, showtimes, movies, theaters,
		queue.PublishBookingConfirmed, cfg.SeatPriceCents,
	)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(movies, theaters, showtimes, seats)
	bookingH := handler.NewBookingHandler(bookingSvc)
	adminH := handler.NewAdminHandler(movies, theaters, showtimes, seats)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, cacheMW)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret, limitMW)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Confirmation consumer runs in-process; it reconnects on broker
	// loss and never blocks request handling.
	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
