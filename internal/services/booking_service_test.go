package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestBooking(t *testing.T, bs *BookingService, sessionID string, mix models.PassengerMix) *models.BookingSession {
	t.Helper()

	fs := NewFlightService()
	resp, msg := fs.SearchOffers(&models.FlightSearchRequest{
		From: "DEL", To: "BOM", Depart: "2026-10-01", Page: 1,
	})
	require.Empty(t, msg)
	require.NotEmpty(t, resp.Offers)

	booking, err := bs.StartBooking(context.Background(), sessionID,
		"DEL", "BOM", "2026-10-01", resp.Offers[0].ID, mix)
	require.NoError(t, err)
	return booking
}

func TestGenerateOccupiedSeatsDeterministic(t *testing.T) {
	first := GenerateOccupiedSeats("6E-4")
	second := GenerateOccupiedSeats("6E-4")

	assert.Equal(t, first, second)
}

func TestGenerateOccupiedSeatsQuarterFullExitRowsClear(t *testing.T) {
	occupied := GenerateOccupiedSeats("AI-1")

	total := models.SeatRows * len(models.SeatColumns)
	assert.Len(t, occupied, total/4)

	for label := range occupied {
		assert.False(t, strings.HasPrefix(label, "12"), "exit row seat %s occupied", label)
		assert.False(t, strings.HasPrefix(label, "13"), "exit row seat %s occupied", label)
	}
}

func TestStartBookingDerivesSeatMapAndFare(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})

	booking := startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 2, Children: 1, Infants: 1})

	assert.Equal(t, models.BookingStatusSelecting, booking.Status)
	assert.Equal(t, 3, booking.Seats.SeatsNeeded)
	assert.Equal(t, booking.Offer.Price*4, booking.Fare.TotalPrice)
}

func TestStartBookingNormalizesPassengers(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})

	// A lone child gains an accompanying adult
	booking := startTestBooking(t, bs, "s1", models.PassengerMix{Children: 1})

	assert.Equal(t, 1, booking.Passengers.Adults)
	assert.Equal(t, 2, booking.Seats.SeatsNeeded)
}

func TestStartBookingUnknownOffer(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})

	_, err := bs.StartBooking(context.Background(), "s1", "DEL", "BOM", "2026-10-01", "ZZ-99",
		models.PassengerMix{Adults: 1})
	assert.Error(t, err)
}

func TestToggleSeatUnknownLabel(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})
	startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	_, err := bs.ToggleSeat(context.Background(), "s1", "99Z")
	assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestToggleSeatSelects(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})
	booking := startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	// Find a free seat to toggle
	var free string
	for row := 1; row <= models.SeatRows && free == ""; row++ {
		for _, col := range models.SeatColumns {
			label := models.SeatLabel(row, col)
			if !booking.Seats.Occupied[label] {
				free = label
				break
			}
		}
	}
	require.NotEmpty(t, free)

	updated, err := bs.ToggleSeat(context.Background(), "s1", free)
	require.NoError(t, err)
	assert.True(t, updated.Seats.IsSelected(free))
}

func TestAutoAssignCompletesSelection(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})
	startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 2, Children: 1})

	booking, err := bs.AutoAssign(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, booking.Seats.SelectionComplete())
	assert.Len(t, booking.Seats.Selected, 3)
}

func TestPayNowIncompleteSelectionSkipsGateway(t *testing.T) {
	gateway := successGateway()
	bs := NewBookingService(newFakeStore(), NewFlightService(), gateway, &recordPublisher{})
	startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 2})

	booking, msg, err := bs.PayNow(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Please select 2 seats", msg)
	assert.Equal(t, models.BookingStatusSelecting, booking.Status)
	assert.Zero(t, gateway.callCount())
}

func TestPayNowSuccessConfirmsBooking(t *testing.T) {
	publisher := &recordPublisher{}
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), publisher)
	started := startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	_, err := bs.AutoAssign(context.Background(), "s1")
	require.NoError(t, err)

	booking, msg, err := bs.PayNow(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.True(t, strings.HasPrefix(booking.BookingRef, started.Offer.AirlineCode))
	assert.Len(t, booking.BookingRef, len(started.Offer.AirlineCode)+6)

	require.Len(t, publisher.bookings, 1)
	assert.Equal(t, booking.BookingRef, publisher.bookings[0].BookingRef)
	assert.Equal(t, booking.Fare.TotalPrice, publisher.bookings[0].TotalPrice)
}

func TestPayNowFailureKeepsSelecting(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(),
		failingGateway(models.ChargeStatusFailed, "Insufficient funds"), &recordPublisher{})
	startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	_, err := bs.AutoAssign(context.Background(), "s1")
	require.NoError(t, err)

	booking, msg, err := bs.PayNow(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Insufficient funds", msg)
	assert.Equal(t, models.BookingStatusSelecting, booking.Status)
	assert.Equal(t, "Insufficient funds", booking.PaymentError)
	assert.Empty(t, booking.BookingRef)
}

func TestPayNowAfterConfirmationRejected(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})
	startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	_, err := bs.AutoAssign(context.Background(), "s1")
	require.NoError(t, err)
	_, _, err = bs.PayNow(context.Background(), "s1")
	require.NoError(t, err)

	_, _, err = bs.PayNow(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrBookingFinished)
}

func TestBookingSurvivesRestartThroughMirror(t *testing.T) {
	store := newFakeStore()
	bs := NewBookingService(store, NewFlightService(), successGateway(), &recordPublisher{})
	started := startTestBooking(t, bs, "s1", models.PassengerMix{Adults: 1})

	// A fresh service over the same store sees the booking
	restarted := NewBookingService(store, NewFlightService(), successGateway(), &recordPublisher{})
	booking, err := restarted.Booking(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, started.Offer.ID, booking.Offer.ID)
	assert.False(t, booking.Processing)
}

func TestBookingMissingSession(t *testing.T) {
	bs := NewBookingService(newFakeStore(), NewFlightService(), successGateway(), &recordPublisher{})

	_, err := bs.Booking(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoBooking)
}
