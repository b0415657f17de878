package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avelarde/taller-agenda/internal/config"
	"github.com/avelarde/taller-agenda/internal/database"
	"github.com/avelarde/taller-agenda/internal/handler"
	"github.com/avelarde/taller-agenda/internal/middleware"
	"github.com/avelarde/taller-agenda/internal/queue"
	"github.com/avelarde/taller-agenda/internal/repository"
	"github.com/avelarde/taller-agenda/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter; nil means both
	// degrade to disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	catalog := repository.NewCatalogRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	requests := repository.NewRequestRepo(db)
	slots := repository.NewSlotRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	assignments := repository.NewAssignmentRepo(db)
	progress := repository.NewProgressRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(catalog)
	clienteH := handler.NewClienteHandler(vehicles, requests, slots, appointments, assignments, progress)
	asistenteH := handler.NewAsistenteHandler(users, vehicles, requests, slots, appointments, assignments, catalog)
	tallerH := handler.NewTallerHandler(assignments, progress, appointments)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret)
	router.RegisterCliente(e, clienteH, cfg.JWTSecret)
	router.RegisterAsistente(e, asistenteH, cfg.JWTSecret)
	router.RegisterTaller(e, tallerH, cfg.JWTSecret)

	// Confirmation events land in logs/appointment.log; the consumer keeps
	// its own reconnect loop so a broker outage never takes the API down.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
