package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// PaymentHandlers exposes the simulated gateway. The simulate endpoints force
// a specific outcome so the storefront flows can be exercised end to end.
type PaymentHandlers struct {
	payments *services.PaymentService
}

func NewPaymentHandlers(payments *services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{payments: payments}
}

// HandleProcess handles POST /api/payments/process
func (h *PaymentHandlers) HandleProcess(w http.ResponseWriter, r *http.Request) {
	h.charge(w, r, h.payments.Charge)
}

// HandleSimulate handles POST /api/payments/simulate/{outcome}
func (h *PaymentHandlers) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("outcome") {
	case models.ChargeStatusSuccess:
		h.charge(w, r, h.payments.SimulateSuccess)
	case models.ChargeStatusFailed:
		h.charge(w, r, h.payments.SimulateFailure)
	case models.ChargeStatusCancelled:
		h.charge(w, r, h.payments.SimulateCancellation)
	case models.ChargeStatusTimeout:
		h.charge(w, r, h.payments.SimulateTimeout)
	default:
		writeError(w, http.StatusBadRequest, "Unknown outcome")
	}
}

func (h *PaymentHandlers) charge(w http.ResponseWriter, r *http.Request, fn func(context.Context, *models.ChargeRequest) (*models.ChargeResult, error)) {
	var req models.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := fn(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process payment")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
