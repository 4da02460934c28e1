package models

import "time"

// Booking status constants
const (
	BookingStatusSelecting = "selecting"
	BookingStatusConfirmed = "confirmed"
	BookingStatusFailed    = "failed"
)

// BookingSession holds the travel booking in progress for one session: the
// chosen offer, traveller mix, seat map and derived fare. It is created when
// an offer is picked and replaced wholesale when a new one is picked.
type BookingSession struct {
	SessionID    string        `json:"session_id"`
	Offer        FlightOffer   `json:"offer"`
	Passengers   PassengerMix  `json:"passengers"`
	Seats        *SeatMap      `json:"seats"`
	Fare         FareBreakdown `json:"fare"`
	Status       string        `json:"status"`
	BookingRef   string        `json:"booking_ref,omitempty"`
	PaymentError string        `json:"payment_error,omitempty"`
	Processing   bool          `json:"processing"`
	CreatedAt    time.Time     `json:"created_at"`
}
