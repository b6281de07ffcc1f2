package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcollins/storyshare/internal/api"
	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/repository/postgres"
	"github.com/dcollins/storyshare/internal/service"
	"github.com/joho/godotenv"
)

const sweepInterval = time.Hour

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories and services
	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	// Periodically purge expired sessions; resolve also purges lazily, the
	// sweep just keeps the table from accumulating dead rows.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runSessionSweeper(sweepCtx, services.Sessions)

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting in %s mode on port %s", cfg.Environment, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func runSessionSweeper(ctx context.Context, sessions *service.SessionManager) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.Sweep(ctx)
			if err != nil {
				log.Printf("ERROR [main.runSessionSweeper] %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Session sweep removed %d expired sessions", removed)
			}
		}
	}
}
