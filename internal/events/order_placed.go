package events

import "time"

// OrderPlaced is emitted when a checkout session reaches confirmation.
type OrderPlaced struct {
	EventType   string           `json:"eventType"`
	OrderID     string           `json:"orderId"`
	SessionID   string           `json:"sessionId"`
	Items       []OrderItemEvent `json:"items"`
	CouponCode  string           `json:"couponCode,omitempty"`
	TotalAmount float64          `json:"totalAmount"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderItemEvent struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// BookingConfirmed is emitted when a travel booking is paid.
type BookingConfirmed struct {
	EventType  string    `json:"eventType"`
	BookingRef string    `json:"bookingRef"`
	SessionID  string    `json:"sessionId"`
	FlightID   string    `json:"flightId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Seats      []string  `json:"seats"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
}
