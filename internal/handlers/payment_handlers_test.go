package handlers_test

import (
	"net/http"
	"testing"

	"github.com/Sajan6491/nextgen-ecommerce/internal/handlers"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentMux() *http.ServeMux {
	payments := services.NewPaymentService()
	payments.SetProcessingTime(0)
	paymentHandlers := handlers.NewPaymentHandlers(payments)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/payments/process", paymentHandlers.HandleProcess)
	mux.HandleFunc("POST /api/payments/simulate/{outcome}", paymentHandlers.HandleSimulate)
	return mux
}

func TestSimulateOutcomes(t *testing.T) {
	mux := newPaymentMux()
	payload := map[string]interface{}{
		"amount": 1500, "currency": "INR", "method": "upi", "upi_id": "priya@upi",
	}

	for _, outcome := range []string{"success", "failed", "cancelled", "timeout"} {
		rec, body := doJSON(t, mux, http.MethodPost, "/api/payments/simulate/"+outcome, payload)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, outcome, body["status"])
	}
}

func TestSimulateUnknownOutcome(t *testing.T) {
	mux := newPaymentMux()

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/payments/simulate/explode",
		map[string]interface{}{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessRejectsBadMethod(t *testing.T) {
	mux := newPaymentMux()

	rec, body := doJSON(t, mux, http.MethodPost, "/api/payments/process",
		map[string]interface{}{"amount": 100, "method": "cash"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "Invalid payment method", body["message"])
}
