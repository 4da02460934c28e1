package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentClientCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/payments/process", r.URL.Path)

		var req models.ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.ChargeResult{
			TxnID:  "txn-remote",
			Status: models.ChargeStatusSuccess,
			Amount: req.Amount,
		})
	}))
	defer server.Close()

	client := NewPaymentClient(server.URL)
	result, err := client.Charge(context.Background(), &models.ChargeRequest{
		Amount:   750,
		Currency: "INR",
		Method:   models.PaymentMethodUPI,
		UPIID:    "priya@upi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChargeStatusSuccess, result.Status)
	assert.Equal(t, "txn-remote", result.TxnID)
	assert.Equal(t, 750.0, result.Amount)
}

func TestPaymentClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPaymentClient(server.URL)
	_, err := client.Charge(context.Background(), &models.ChargeRequest{
		Amount: 100, Method: models.PaymentMethodUPI,
	})
	assert.Error(t, err)
}
