package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frotamoto/patiogo/internal/config"
	"github.com/frotamoto/patiogo/internal/database"
	"github.com/frotamoto/patiogo/internal/handlers"
	"github.com/frotamoto/patiogo/internal/live"
	"github.com/frotamoto/patiogo/internal/models"
	"github.com/frotamoto/patiogo/internal/services/parking"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Synchronize schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Yard{},
		&models.Zone{},
		&models.Box{},
		&models.Vehicle{},
		&models.OccupancySession{},
		&models.MovementLogEntry{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// Partial unique indexes make the session ledger enforce
	// one-active-session per vehicle and per box at the database level;
	// the service's repair pass then only ever handles pre-existing drift
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_session_vehicle ON occupancy_sessions (vehicle_id) WHERE active AND deleted_at IS NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_session_box ON occupancy_sessions (box_id) WHERE active AND deleted_at IS NULL",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("⚠️ Index creation warning: %v", err)
		}
	}

	// 4. Live occupancy push: poll the ledger and fan out to SSE/ws clients
	hub := live.NewHub()
	parkingSvc := parking.NewService(db.DB)
	stopHub := make(chan struct{})
	go hub.Run(time.Duration(cfg.Live.PollIntervalSeconds)*time.Second, func() (interface{}, error) {
		snapshots, err := parkingSvc.ListActive(nil, 500, 0)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"at":       time.Now().UTC(),
			"sessions": snapshots,
		}, nil
	}, stopHub)

	// 5. Set up HTTP router
	router := handlers.NewRouter(db, cfg, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	close(stopHub)

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
