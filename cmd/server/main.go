package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/fxdeals/internal/config"
	"github.com/rpattn/fxdeals/internal/db"
	"github.com/rpattn/fxdeals/internal/ingestion"
	"github.com/rpattn/fxdeals/internal/middleware"
	"github.com/rpattn/fxdeals/internal/repository"
	"github.com/rpattn/fxdeals/internal/summary"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	dbConfig, srvConfig, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Run migrations
	if err := db.RunMigrations(dbConfig, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Create repositories
	dealRepo := repository.NewDealRepository(conn.Pool)
	runRepo := repository.NewIngestionRunRepository(conn.Pool)

	// Create services
	ingestService := ingestion.NewService(dealRepo, runRepo)
	summaryService := summary.NewService(dealRepo, runRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   srvConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/upload", ingestion.NewHTTPHandler(ingestService))
	mux.Handle("/summary", summary.NewHTTPHandler(summaryService))
	mux.Handle("/summary/counters", summary.NewHTTPHandler(summaryService))

	handler := corsHandler.Handler(middleware.LoggingMiddleware(mux))

	// Create HTTP server
	server := &http.Server{
		Addr:         srvConfig.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting deal ingestion server on %s", srvConfig.Addr)
		log.Printf("Upload endpoint available at http://localhost%s/upload", srvConfig.Addr)
		log.Printf("Summary endpoint available at http://localhost%s/summary", srvConfig.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
