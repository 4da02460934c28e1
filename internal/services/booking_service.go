package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/events"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/ratelimit"
)

var (
	ErrNoBooking         = errors.New("no active booking session")
	ErrBookingFinished   = errors.New("booking is already confirmed")
	ErrBookingInProgress = errors.New("a payment attempt is already in progress")
	ErrUnknownSeat       = errors.New("unknown seat label")
)

// BookingPublisher emits an event once a booking is confirmed.
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev events.BookingConfirmed) error
}

// BookingService drives seat selection and payment for a picked flight offer.
// One booking session lives per storefront session; picking a new offer
// replaces it wholesale.
type BookingService struct {
	mu        sync.Mutex
	bookings  map[string]*models.BookingSession
	store     Store
	flights   *FlightService
	gateway   PaymentGateway
	publisher BookingPublisher
	limiter   *ratelimit.SessionLimiter

	chargeTimeout time.Duration
}

func NewBookingService(store Store, flights *FlightService, gateway PaymentGateway, publisher BookingPublisher) *BookingService {
	return &BookingService{
		bookings:      make(map[string]*models.BookingSession),
		store:         store,
		flights:       flights,
		gateway:       gateway,
		publisher:     publisher,
		limiter:       ratelimit.NewSessionLimiterWithDefaults(),
		chargeTimeout: 10 * time.Second,
	}
}

// SetChargeTimeout sets the deadline guard on gateway charges
func (bs *BookingService) SetChargeTimeout(d time.Duration) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.chargeTimeout = d
}

// GenerateOccupiedSeats derives a reproducible occupancy map for a flight.
// Roughly a quarter of the cabin is taken; exit rows 12 and 13 are always
// clear. Seeding from the flight ID keeps the map stable across requests and
// restarts without storing it.
func GenerateOccupiedSeats(flightID string) map[string]bool {
	h := fnv.New32a()
	h.Write([]byte(flightID))
	rng := rand.New(rand.NewSource(int64(h.Sum32())))

	total := models.SeatRows * len(models.SeatColumns)
	target := total / 4

	occupied := make(map[string]bool, target)
	for len(occupied) < target {
		row := rng.Intn(models.SeatRows) + 1
		if models.ExitRows[row] {
			continue
		}
		col := models.SeatColumns[rng.Intn(len(models.SeatColumns))]
		occupied[models.SeatLabel(row, col)] = true
	}
	return occupied
}

// StartBooking opens a booking session for an offer. The offer is looked up
// server side from its route so the fare never comes from the client. The
// passenger mix is normalized before the seat map and fare are derived.
func (bs *BookingService) StartBooking(ctx context.Context, sessionID, from, to, depart, offerID string, passengers models.PassengerMix) (*models.BookingSession, error) {
	offer, err := bs.flights.OfferByID(from, to, depart, offerID)
	if err != nil {
		return nil, err
	}

	passengers.Normalize()
	if passengers.SeatsNeeded() < 1 {
		return nil, errors.New("at least one seated traveller is required")
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	b := &models.BookingSession{
		SessionID:  sessionID,
		Offer:      *offer,
		Passengers: passengers,
		Seats:      models.NewSeatMap(GenerateOccupiedSeats(offer.ID), passengers.SeatsNeeded()),
		Fare:       models.ComputeFare(offer, passengers.TotalPax()),
		Status:     models.BookingStatusSelecting,
		CreatedAt:  time.Now(),
	}
	bs.bookings[sessionID] = b
	bs.persist(ctx, b)

	return copyBooking(b), nil
}

// Booking returns a copy of the current booking session.
func (bs *BookingService) Booking(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	b, err := bs.booking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return copyBooking(b), nil
}

// ToggleSeat flips a seat in the selection. Labels outside the cabin are
// rejected; occupied seats and over-cap picks are silent no-ops, matching the
// interactive picker semantics.
func (bs *BookingService) ToggleSeat(ctx context.Context, sessionID, label string) (*models.BookingSession, error) {
	if !validSeatLabel(label) {
		return nil, ErrUnknownSeat
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	b, err := bs.booking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingStatusConfirmed {
		return nil, ErrBookingFinished
	}

	b.Seats.Toggle(label)
	bs.persist(ctx, b)
	return copyBooking(b), nil
}

// AutoAssign replaces the selection with the best available seats.
func (bs *BookingService) AutoAssign(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	b, err := bs.booking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingStatusConfirmed {
		return nil, ErrBookingFinished
	}

	b.Seats.AutoAssign()
	bs.persist(ctx, b)
	return copyBooking(b), nil
}

// PayNow charges the fare total once the selection is complete. An incomplete
// selection returns an inline message and never reaches the gateway. On
// success the booking gets a reference built from the airline code and the
// confirmation time.
func (bs *BookingService) PayNow(ctx context.Context, sessionID string) (*models.BookingSession, string, error) {
	bs.mu.Lock()

	b, err := bs.booking(ctx, sessionID)
	if err != nil {
		bs.mu.Unlock()
		return nil, "", err
	}
	if b.Status == models.BookingStatusConfirmed {
		bs.mu.Unlock()
		return nil, "", ErrBookingFinished
	}
	if b.Processing {
		bs.mu.Unlock()
		return nil, "", ErrBookingInProgress
	}

	// A new attempt clears the previous inline error
	b.PaymentError = ""

	if !b.Seats.SelectionComplete() {
		msg := fmt.Sprintf("Please select %d seats", b.Seats.SeatsNeeded)
		bs.persist(ctx, b)
		out := copyBooking(b)
		bs.mu.Unlock()
		return out, msg, nil
	}

	if !bs.limiter.Allow(sessionID) {
		bs.mu.Unlock()
		return nil, "", ErrTooManyAttempts
	}

	b.Processing = true
	bs.persist(ctx, b)

	req := &models.ChargeRequest{
		Amount:      b.Fare.TotalPrice,
		Currency:    "INR",
		Description: fmt.Sprintf("Flight %s %s-%s", b.Offer.ID, b.Offer.From, b.Offer.To),
		Method:      models.PaymentMethodUPI,
	}
	chargeTimeout := bs.chargeTimeout
	bs.mu.Unlock()

	chargeCtx, cancel := context.WithTimeout(ctx, chargeTimeout)
	defer cancel()
	result, chargeErr := bs.gateway.Charge(chargeCtx, req)

	bs.mu.Lock()
	defer bs.mu.Unlock()

	b.Processing = false

	if chargeErr != nil {
		log.Printf("Charge error for booking session %s: %v", sessionID, chargeErr)
		b.PaymentError = "Payment failed - please try again."
		bs.persist(ctx, b)
		return copyBooking(b), b.PaymentError, nil
	}

	if !result.Succeeded() {
		b.PaymentError = result.Message
		if b.PaymentError == "" {
			b.PaymentError = "Payment failed - please try again."
		}
		bs.persist(ctx, b)
		return copyBooking(b), b.PaymentError, nil
	}

	b.Status = models.BookingStatusConfirmed
	b.BookingRef = generateBookingRef(b.Offer.AirlineCode)
	bs.persist(ctx, b)
	bs.limiter.Forget(sessionID)

	ev := events.BookingConfirmed{
		BookingRef: b.BookingRef,
		SessionID:  sessionID,
		FlightID:   b.Offer.ID,
		From:       b.Offer.From,
		To:         b.Offer.To,
		Seats:      append([]string(nil), b.Seats.Selected...),
		TotalPrice: b.Fare.TotalPrice,
		Timestamp:  time.Now().UTC(),
	}
	if err := bs.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("Failed to publish BookingConfirmed for %s: %v", b.BookingRef, err)
	}

	log.Printf("Booking %s confirmed for session %s (%.0f INR)", b.BookingRef, sessionID, b.Fare.TotalPrice)
	return copyBooking(b), "", nil
}

// booking returns the live booking, reloading it from the mirror after a
// restart. Callers must hold the mutex.
func (bs *BookingService) booking(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if b, ok := bs.bookings[sessionID]; ok {
		return b, nil
	}

	var stored models.BookingSession
	if err := bs.store.GetJSON(ctx, database.GenerateBookingKey(sessionID), &stored); err != nil {
		return nil, ErrNoBooking
	}
	stored.Processing = false
	bs.bookings[sessionID] = &stored
	return &stored, nil
}

func (bs *BookingService) persist(ctx context.Context, b *models.BookingSession) {
	if err := bs.store.SetJSON(ctx, database.GenerateBookingKey(b.SessionID), b, 0); err != nil {
		log.Printf("Failed to mirror booking session %s: %v", b.SessionID, err)
	}
}

func copyBooking(b *models.BookingSession) *models.BookingSession {
	out := *b
	if b.Seats != nil {
		seats := *b.Seats
		seats.Occupied = make(map[string]bool, len(b.Seats.Occupied))
		for k, v := range b.Seats.Occupied {
			seats.Occupied[k] = v
		}
		seats.Selected = append([]string(nil), b.Seats.Selected...)
		out.Seats = &seats
	}
	return &out
}

func validSeatLabel(label string) bool {
	if len(label) < 2 {
		return false
	}
	row, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || row < 1 || row > models.SeatRows {
		return false
	}
	col := label[len(label)-1:]
	for _, c := range models.SeatColumns {
		if c == col {
			return true
		}
	}
	return false
}

// generateBookingRef builds a reference like "6E384920" from the airline code
// and the tail of the confirmation timestamp.
func generateBookingRef(airlineCode string) string {
	ms := fmt.Sprintf("%d", time.Now().UnixMilli())
	return strings.ToUpper(airlineCode) + ms[len(ms)-6:]
}
