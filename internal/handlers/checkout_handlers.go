package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// CheckoutHandlers drives the checkout state machine over HTTP. Step and
// session errors map to conflict and not-found; validation problems come back
// as unprocessable with inline messages the client renders next to the form.
type CheckoutHandlers struct {
	checkout *services.CheckoutService
	catalog  *services.CatalogService
}

func NewCheckoutHandlers(checkout *services.CheckoutService, catalog *services.CatalogService) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout, catalog: catalog}
}

type startCheckoutRequest struct {
	BuyNow *addToCartRequest `json:"buy_now,omitempty"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type countryRequest struct {
	Country string `json:"country"`
}

type payRequest struct {
	Method string              `json:"method"`
	UPIID  string              `json:"upi_id,omitempty"`
	Card   *models.CardDetails `json:"card,omitempty"`
}

// HandleStart handles POST /api/checkout/{sessionID}/start. With a buy_now
// line the checkout covers just that product; otherwise it snapshots the cart.
func (h *CheckoutHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req startCheckoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	var buyNow *models.CartLine
	if req.BuyNow != nil {
		product, ok := h.catalog.Product(r.Context(), req.BuyNow.ProductID)
		if !ok {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		buyNow = &models.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Quantity:  req.BuyNow.Quantity,
			Variant:   req.BuyNow.Variant,
		}
	}

	session, err := h.checkout.Start(r.Context(), sessionID, buyNow)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusCreated, session)
}

// HandleGetSession handles GET /api/checkout/{sessionID}
func (h *CheckoutHandlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Session(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleApplyCoupon handles POST /api/checkout/{sessionID}/coupon
func (h *CheckoutHandlers) HandleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, msg, err := h.checkout.ApplyCoupon(r.Context(), r.PathValue("sessionID"), req.Code)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   msg,
			"session": session,
		})
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleRemoveCoupon handles DELETE /api/checkout/{sessionID}/coupon
func (h *CheckoutHandlers) HandleRemoveCoupon(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.RemoveCoupon(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleNext handles POST /api/checkout/{sessionID}/next
func (h *CheckoutHandlers) HandleNext(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.ContinueToShipping(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleBack handles POST /api/checkout/{sessionID}/back
func (h *CheckoutHandlers) HandleBack(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Back(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleSetCountry handles POST /api/checkout/{sessionID}/shipping/country
func (h *CheckoutHandlers) HandleSetCountry(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.checkout.SetShippingCountry(r.Context(), r.PathValue("sessionID"), req.Country)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandleSubmitShipping handles POST /api/checkout/{sessionID}/shipping
func (h *CheckoutHandlers) HandleSubmitShipping(w http.ResponseWriter, r *http.Request) {
	var addr models.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, fieldErrs, err := h.checkout.SubmitShipping(r.Context(), r.PathValue("sessionID"), addr)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"field_errors": fieldErrs,
			"session":      session,
		})
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

// HandlePay handles POST /api/checkout/{sessionID}/pay. Missing instrument
// fields come back unprocessable; a declined, cancelled or timed-out charge
// comes back as payment required with the inline error, and the session stays
// on the payment step for a retry.
func (h *CheckoutHandlers) HandlePay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, msg, err := h.checkout.Pay(r.Context(), r.PathValue("sessionID"), req.Method, req.UPIID, req.Card)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	if msg != "" {
		status := http.StatusPaymentRequired
		if session.Step == models.StepPayment && session.PaymentError == "" {
			// presence validation failed before any charge was attempted
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]interface{}{
			"error":   msg,
			"session": session,
		})
		return
	}
	writeCheckoutSession(w, http.StatusOK, session)
}

func (h *CheckoutHandlers) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoSession):
		writeError(w, http.StatusNotFound, "No active checkout session")
	case errors.Is(err, services.ErrEmptyCheckout):
		writeError(w, http.StatusBadRequest, "Nothing to checkout")
	case errors.Is(err, services.ErrWrongStep):
		writeError(w, http.StatusConflict, "Operation not allowed in the current step")
	case errors.Is(err, services.ErrPaymentInProgress):
		writeError(w, http.StatusConflict, "A payment is already being processed")
	case errors.Is(err, services.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "Too many payment attempts, please wait")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeCheckoutSession(w http.ResponseWriter, status int, s *models.CheckoutSession) {
	writeJSON(w, status, map[string]interface{}{
		"session":  s,
		"subtotal": models.Round2(models.Subtotal(s.Items)),
		"total":    models.Round2(s.Total()),
	})
}
