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
	log.Println("Starting Storefront Service...")

	// Initialize Redis connection
	cache, err := database.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()

	// Catalog source: Postgres when DATABASE_URL is set, upstream HTTP
	// catalog otherwise
	var source services.ProductSource
	if db, err := database.NewPostgresDB(); err == nil {
		defer db.Close()
		source = services.NewPostgresCatalogStore(db)
	} else {
		log.Printf("Postgres unavailable (%v), using HTTP catalog source", err)
		source = services.NewHTTPCatalogSource()
	}

	// Event publishing is best effort: without a broker, events are dropped
	var orderPublisher services.OrderPublisher = events.NoopPublisher{}
	if conn, err := events.Dial(); err == nil {
		defer conn.Close()
		publisher, err := events.NewPublisher(conn)
		if err != nil {
			log.Fatalf("Failed to set up event publisher: %v", err)
		}
		defer publisher.Close()
		orderPublisher = publisher
	} else {
		log.Printf("RabbitMQ unavailable (%v), events disabled", err)
	}

	paymentServiceURL := os.Getenv("PAYMENT_SERVICE_URL")
	if paymentServiceURL == "" {
		paymentServiceURL = "http://localhost:8082"
	}
	gateway := services.NewPaymentClient(paymentServiceURL)

	catalogService := services.NewCatalogService(source, cache)
	cartService := services.NewCartService(cache)
	checkoutService := services.NewCheckoutService(cache, cartService, gateway, orderPublisher)

	// Initialize handlers
	catalogHandlers := handlers.NewCatalogHandlers(catalogService)
	cartHandlers := handlers.NewCartHandlers(cartService, catalogService)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkoutService, catalogService)

	// Create HTTP server with Go 1.22 ServeMux
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("GET /api/products", catalogHandlers.HandleListProducts)
	mux.HandleFunc("GET /api/products/{id}", catalogHandlers.HandleGetProduct)

	mux.HandleFunc("GET /api/cart/{sessionID}", cartHandlers.HandleGetCart)
	mux.HandleFunc("POST /api/cart/{sessionID}/items", cartHandlers.HandleAddItem)
	mux.HandleFunc("DELETE /api/cart/{sessionID}/items/{productID}", cartHandlers.HandleRemoveItem)
	mux.HandleFunc("DELETE /api/cart/{sessionID}", cartHandlers.HandleClearCart)

	mux.HandleFunc("POST /api/checkout/{sessionID}/start", checkoutHandlers.HandleStart)
	mux.HandleFunc("GET /api/checkout/{sessionID}", checkoutHandlers.HandleGetSession)
	mux.HandleFunc("POST /api/checkout/{sessionID}/coupon", checkoutHandlers.HandleApplyCoupon)
	mux.HandleFunc("DELETE /api/checkout/{sessionID}/coupon", checkoutHandlers.HandleRemoveCoupon)
	mux.HandleFunc("POST /api/checkout/{sessionID}/next", checkoutHandlers.HandleNext)
	mux.HandleFunc("POST /api/checkout/{sessionID}/back", checkoutHandlers.HandleBack)
	mux.HandleFunc("POST /api/checkout/{sessionID}/shipping/country", checkoutHandlers.HandleSetCountry)
	mux.HandleFunc("POST /api/checkout/{sessionID}/shipping", checkoutHandlers.HandleSubmitShipping)
	mux.HandleFunc("POST /api/checkout/{sessionID}/pay", checkoutHandlers.HandlePay)

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"storefront-service"}`))
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Storefront Service listening on port 8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Storefront Service...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Storefront Service exited")
}
