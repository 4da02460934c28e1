package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/events"
	"github.com/Sajan6491/nextgen-ecommerce/internal/handlers"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory services.Store for handler tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) SetJSON(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memStore) GetJSON(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	data, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// staticSource serves a fixed product list.
type staticSource struct {
	products []models.Product
}

func (s staticSource) Load(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

// okGateway approves every charge.
type okGateway struct{}

func (okGateway) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	return &models.ChargeResult{
		TxnID:       "txn-test",
		Status:      models.ChargeStatusSuccess,
		Amount:      req.Amount,
		ProcessedAt: time.Now(),
	}, nil
}

var catalogProducts = []models.Product{
	{ID: 1, Title: "Shirt", Price: 500, Category: "clothing"},
	{ID: 2, Title: "Jacket", Price: 1200, Category: "clothing"},
}

// newStorefrontMux wires the storefront routes the way the service binary
// does, over in-memory collaborators.
func newStorefrontMux() *http.ServeMux {
	store := newMemStore()
	catalog := services.NewCatalogService(staticSource{products: catalogProducts}, store)
	carts := services.NewCartService(store)
	checkout := services.NewCheckoutService(store, carts, okGateway{}, events.NoopPublisher{})

	catalogHandlers := handlers.NewCatalogHandlers(catalog)
	cartHandlers := handlers.NewCartHandlers(carts, catalog)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkout, catalog)

	mux := http.NewServeMux()
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
	return mux
}

// newTravelMux wires the travel routes over in-memory collaborators.
func newTravelMux() *http.ServeMux {
	flights := services.NewFlightService()
	bookings := services.NewBookingService(newMemStore(), flights, okGateway{}, events.NoopPublisher{})

	flightHandlers := handlers.NewFlightHandlers(flights)
	bookingHandlers := handlers.NewBookingHandlers(bookings)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/travel/flights/search", flightHandlers.HandleSearch)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/start", bookingHandlers.HandleStart)
	mux.HandleFunc("GET /api/travel/bookings/{sessionID}", bookingHandlers.HandleGetBooking)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/seats/toggle", bookingHandlers.HandleToggleSeat)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/seats/auto", bookingHandlers.HandleAutoAssign)
	mux.HandleFunc("POST /api/travel/bookings/{sessionID}/pay", bookingHandlers.HandlePay)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}
