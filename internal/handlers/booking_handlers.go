package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// BookingHandlers drives seat selection and payment for travel bookings
type BookingHandlers struct {
	bookings *services.BookingService
}

func NewBookingHandlers(bookings *services.BookingService) *BookingHandlers {
	return &BookingHandlers{bookings: bookings}
}

type startBookingRequest struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Depart     string              `json:"depart"`
	OfferID    string              `json:"offer_id"`
	Passengers models.PassengerMix `json:"passengers"`
}

type toggleSeatRequest struct {
	Seat string `json:"seat"`
}

// HandleStart handles POST /api/travel/bookings/{sessionID}/start
func (h *BookingHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookings.StartBooking(r.Context(), r.PathValue("sessionID"),
		req.From, req.To, req.Depart, req.OfferID, req.Passengers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// HandleGetBooking handles GET /api/travel/bookings/{sessionID}
func (h *BookingHandlers) HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Booking(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// HandleToggleSeat handles POST /api/travel/bookings/{sessionID}/seats/toggle
func (h *BookingHandlers) HandleToggleSeat(w http.ResponseWriter, r *http.Request) {
	var req toggleSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookings.ToggleSeat(r.Context(), r.PathValue("sessionID"), req.Seat)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// HandleAutoAssign handles POST /api/travel/bookings/{sessionID}/seats/auto
func (h *BookingHandlers) HandleAutoAssign(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.AutoAssign(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// HandlePay handles POST /api/travel/bookings/{sessionID}/pay. An incomplete
// seat selection comes back unprocessable without touching the gateway; a
// declined charge comes back as payment required with the inline error.
func (h *BookingHandlers) HandlePay(w http.ResponseWriter, r *http.Request) {
	booking, msg, err := h.bookings.PayNow(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	if msg != "" {
		status := http.StatusPaymentRequired
		if booking.PaymentError == "" {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]interface{}{
			"error":   msg,
			"booking": booking,
		})
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandlers) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoBooking):
		writeError(w, http.StatusNotFound, "No active booking session")
	case errors.Is(err, services.ErrUnknownSeat):
		writeError(w, http.StatusBadRequest, "Unknown seat label")
	case errors.Is(err, services.ErrBookingFinished):
		writeError(w, http.StatusConflict, "Booking is already confirmed")
	case errors.Is(err, services.ErrBookingInProgress):
		writeError(w, http.StatusConflict, "A payment is already being processed")
	case errors.Is(err, services.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "Too many payment attempts, please wait")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
