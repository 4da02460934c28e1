package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/events"
	"github.com/Sajan6491/nextgen-ecommerce/internal/handlers"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

func main() {
	log.Println("Starting Travel Service...")

	// Initialize Redis connection
	cache, err := database.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()

	// Event publishing is best effort: without a broker, events are dropped
	var bookingPublisher services.BookingPublisher = events.NoopPublisher{}
	if conn, err := events.Dial(); err == nil {
		defer conn.Close()
		publisher, err := events.NewPublisher(conn)
		if err != nil {
			log.Fatalf("Failed to set up event publisher: %v", err)
		}
		defer publisher.Close()
		bookingPublisher = publisher
	} else {
		log.Printf("RabbitMQ unavailable (%v), events disabled", err)
	}

	paymentServiceURL := os.Getenv("PAYMENT_SERVICE_URL")
	if paymentServiceURL == "" {
		paymentServiceURL = "http://localhost:8082"
	}
	gateway := services.NewPaymentClient(paymentServiceURL)

	flightService := services.NewFlightService()
	bookingService := services.NewBookingService(cache, flightService, gateway, bookingPublisher)

	// Initialize handlers
	flightHandlers := handlers.NewFlightHandlers(flightService)
	bookingHandlers := handlers.NewBookingHandlers(bookingService)

	// Create HTTP server with Go 1.22 ServeMux
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("GET /api/travel/flights/search", flightHandlers.HandleSearch)

	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/start", bookingHandlers.HandleStart)
	mux.HandleFunc("GET /api/travel/bookings/{sessionID}", bookingHandlers.HandleGetBooking)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/seats/toggle", bookingHandlers.HandleToggleSeat)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/seats/auto", bookingHandlers.HandleAutoAssign)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/pay", bookingHandlers.HandlePay)

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"travel-service"}`))
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":8081",
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Travel Service listening on port 8081")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Travel Service...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Travel Service exited")
}
