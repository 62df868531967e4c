package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/roombook_backend/internal/config"
	"github.com/opencampus/roombook_backend/internal/database"
	"github.com/opencampus/roombook_backend/internal/logger"
	"github.com/opencampus/roombook_backend/internal/repository"
	"github.com/opencampus/roombook_backend/internal/routes"
	"github.com/opencampus/roombook_backend/internal/scheduler"
	"github.com/opencampus/roombook_backend/internal/service"
	"github.com/opencampus/roombook_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()
	zlog := logger.New(cfg.Env)
	defer zlog.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	hub := ws.NewRoomStatusHub()
	go hub.Run()

	repo := repository.NewRepository(db)
	roomSvc := service.NewRoomService(repo, zlog, hub)
	reservationSvc := service.NewReservationService(repo, zlog, hub)

	sched := scheduler.New(reservationSvc, zlog, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)
	sched.Start(context.Background())
	defer sched.Stop()

	r := gin.Default()
	routes.Register(r, db, cfg, roomSvc, reservationSvc, hub)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
