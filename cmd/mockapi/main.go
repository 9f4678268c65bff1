package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"circlepos/internal/config"
	"circlepos/internal/mockserver"
)

func main() {
	cfg := config.MustLoad()

	log.Printf("Starting %s mock API in %s mode", cfg.App.Name, cfg.App.Environment)

	handler := mockserver.NewHandler(mockserver.DefaultCatalog())
	router := mockserver.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Mock.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Mock.ReadTimeout,
		WriteTimeout: cfg.Mock.WriteTimeout,
	}

	go func() {
		log.Printf("Mock bookstore API listening on %s", cfg.Mock.Address())
		log.Println("Available endpoints:")
		log.Println("  GET  /api/books")
		log.Println("  GET  /api/books/{id}")
		log.Println("  POST /api/books/{id}/purchase")
		log.Println("  GET  /health")
		log.Println("  GET  /metrics")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mock.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

// init sets up logging format
func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}
