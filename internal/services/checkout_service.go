package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/events"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/ratelimit"

	"github.com/google/uuid"
)

var (
	ErrEmptyCheckout     = errors.New("no items to checkout")
	ErrNoSession         = errors.New("no active checkout session")
	ErrWrongStep         = errors.New("operation not allowed in the current step")
	ErrPaymentInProgress = errors.New("a payment attempt is already in progress")
	ErrTooManyAttempts   = errors.New("too many payment attempts, please wait")
)

// OrderPublisher emits an event once an order is placed. Publishing is best
// effort; a broker outage never fails a checkout.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev events.OrderPlaced) error
}

// CheckoutService drives the review -> shipping -> payment -> confirmation
// state machine over a snapshot of the session cart. Transitions are strictly
// linear forward with Back allowed from shipping and payment; no step is
// skipped without passing the current step's validation.
type CheckoutService struct {
	mu        sync.Mutex
	sessions  map[string]*models.CheckoutSession
	store     Store
	carts     *CartService
	gateway   PaymentGateway
	publisher OrderPublisher
	coupons   models.CouponTable
	limiter   *ratelimit.SessionLimiter

	chargeTimeout time.Duration
	confirmTTL    time.Duration
	currency      string
}

// NewCheckoutService creates a new checkout service with the default coupon
// table and payment attempt limits.
func NewCheckoutService(store Store, carts *CartService, gateway PaymentGateway, publisher OrderPublisher) *CheckoutService {
	return &CheckoutService{
		sessions:      make(map[string]*models.CheckoutSession),
		store:         store,
		carts:         carts,
		gateway:       gateway,
		publisher:     publisher,
		coupons:       models.DefaultCoupons(),
		limiter:       ratelimit.NewSessionLimiterWithDefaults(),
		chargeTimeout: 10 * time.Second,
		confirmTTL:    2 * time.Second,
		currency:      "USD",
	}
}

// SetCoupons replaces the coupon table
func (cs *CheckoutService) SetCoupons(table models.CouponTable) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.coupons = table
}

// SetChargeTimeout sets the deadline guard on gateway charges
func (cs *CheckoutService) SetChargeTimeout(d time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.chargeTimeout = d
}

// SetConfirmationTTL sets how long a confirmed session lingers before the
// mirror drops it and the client returns home.
func (cs *CheckoutService) SetConfirmationTTL(d time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.confirmTTL = d
}

// Start opens a new checkout session over the full cart, or over a single
// buy-now line when one is supplied. Any previous session for the same ID is
// replaced. Checkout cannot start on an empty snapshot.
func (cs *CheckoutService) Start(ctx context.Context, sessionID string, buyNow *models.CartLine) (*models.CheckoutSession, error) {
	var items []models.CartLine
	if buyNow != nil {
		line := *buyNow
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		items = []models.CartLine{line}
	} else {
		items = cs.carts.Snapshot(ctx, sessionID)
	}

	if len(items) == 0 {
		return nil, ErrEmptyCheckout
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	s := &models.CheckoutSession{
		SessionID:     sessionID,
		Step:          models.StepReview,
		Items:         items,
		BuyNow:        buyNow != nil,
		PaymentMethod: models.PaymentMethodUPI,
		CreatedAt:     time.Now(),
	}
	cs.sessions[sessionID] = s
	cs.persist(ctx, s, 0)

	return copySession(s), nil
}

// Session returns a copy of the current checkout session.
func (cs *CheckoutService) Session(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return copySession(s), nil
}

// ApplyCoupon looks up the code case-insensitively. Unknown codes set a
// transient coupon error and change nothing; a known code replaces any
// previously applied coupon. Coupons can only be touched during review.
func (cs *CheckoutService) ApplyCoupon(ctx context.Context, sessionID, code string) (*models.CheckoutSession, string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if s.Step != models.StepReview {
		return nil, "", ErrWrongStep
	}

	if strings.TrimSpace(code) == "" {
		return copySession(s), "Enter a coupon code", nil
	}

	coupon, ok := cs.coupons.Lookup(code)
	if !ok {
		return copySession(s), "Invalid coupon code", nil
	}

	s.AppliedCoupon = &coupon
	cs.persist(ctx, s, 0)
	return copySession(s), "", nil
}

// RemoveCoupon clears the applied coupon during review.
func (cs *CheckoutService) RemoveCoupon(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Step != models.StepReview {
		return nil, ErrWrongStep
	}

	s.AppliedCoupon = nil
	cs.persist(ctx, s, 0)
	return copySession(s), nil
}

// ContinueToShipping advances review -> shipping. No validation applies; the
// snapshot is known to be non-empty.
func (cs *CheckoutService) ContinueToShipping(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Step != models.StepReview {
		return nil, ErrWrongStep
	}

	s.Step = models.StepShipping
	cs.persist(ctx, s, 0)
	return copySession(s), nil
}

// Back moves shipping -> review or payment -> shipping. Confirmation is
// terminal and review has nowhere to go.
func (cs *CheckoutService) Back(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch s.Step {
	case models.StepShipping:
		s.Step = models.StepReview
	case models.StepPayment:
		s.Step = models.StepShipping
	default:
		return nil, ErrWrongStep
	}

	cs.persist(ctx, s, 0)
	return copySession(s), nil
}

// SetShippingCountry changes the address country during shipping. Changing
// country always resets the chosen state, so a state from the previous
// country can never survive the switch.
func (cs *CheckoutService) SetShippingCountry(ctx context.Context, sessionID, country string) (*models.CheckoutSession, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Step != models.StepShipping {
		return nil, ErrWrongStep
	}

	s.SetCountry(country)
	cs.persist(ctx, s, 0)
	return copySession(s), nil
}

// SubmitShipping validates the address and, when clean, advances shipping ->
// payment. Field errors keep the session on the shipping step.
func (cs *CheckoutService) SubmitShipping(ctx context.Context, sessionID string, addr models.ShippingAddress) (*models.CheckoutSession, map[string]string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.Step != models.StepShipping {
		return nil, nil, ErrWrongStep
	}

	s.Address = addr
	if errs := s.Address.Validate(); len(errs) > 0 {
		cs.persist(ctx, s, 0)
		return copySession(s), errs, nil
	}

	s.Step = models.StepPayment
	cs.persist(ctx, s, 0)
	return copySession(s), nil, nil
}

// Pay runs the payment step: presence-validates the chosen instrument,
// charges the gateway under a deadline guard, and on success removes the
// checked-out items from the cart, issues an order ID and moves to
// confirmation. Failure, cancellation and timeout keep the session on the
// payment step with an inline error so the customer can retry. A processing
// flag rejects duplicate submissions while a charge is in flight.
func (cs *CheckoutService) Pay(ctx context.Context, sessionID, method, upiID string, card *models.CardDetails) (*models.CheckoutSession, string, error) {
	cs.mu.Lock()

	s, err := cs.session(ctx, sessionID)
	if err != nil {
		cs.mu.Unlock()
		return nil, "", err
	}
	if s.Step != models.StepPayment {
		cs.mu.Unlock()
		return nil, "", ErrWrongStep
	}
	if s.Processing {
		cs.mu.Unlock()
		return nil, "", ErrPaymentInProgress
	}

	// A new attempt clears the previous inline error
	s.PaymentError = ""

	if msg := validateInstrument(method, upiID, card); msg != "" {
		cs.persist(ctx, s, 0)
		out := copySession(s)
		cs.mu.Unlock()
		return out, msg, nil
	}

	if !cs.limiter.Allow(sessionID) {
		cs.mu.Unlock()
		return nil, "", ErrTooManyAttempts
	}

	s.PaymentMethod = method
	s.Processing = true
	cs.persist(ctx, s, 0)

	req := &models.ChargeRequest{
		Amount:      s.Total(),
		Currency:    cs.currency,
		Description: fmt.Sprintf("Order for session %s", sessionID),
		Method:      method,
		UPIID:       upiID,
		Card:        card,
	}
	chargeTimeout := cs.chargeTimeout
	cs.mu.Unlock()

	chargeCtx, cancel := context.WithTimeout(ctx, chargeTimeout)
	defer cancel()
	result, chargeErr := cs.gateway.Charge(chargeCtx, req)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	s.Processing = false

	if chargeErr != nil {
		log.Printf("Charge error for session %s: %v", sessionID, chargeErr)
		s.PaymentError = "Payment failed - please try again."
		cs.persist(ctx, s, 0)
		return copySession(s), s.PaymentError, nil
	}

	if !result.Succeeded() {
		s.PaymentError = result.Message
		if s.PaymentError == "" {
			s.PaymentError = "Payment failed - please try again."
		}
		cs.persist(ctx, s, 0)
		return copySession(s), s.PaymentError, nil
	}

	// Cart mutation is deferred until here, so a failed charge can never
	// corrupt the cart.
	if s.BuyNow {
		cs.carts.RemoveFromCart(ctx, sessionID, s.Items[0].ProductID, true)
	} else {
		cs.carts.ClearCart(ctx, sessionID)
	}

	s.OrderID = generateOrderID()
	s.Step = models.StepConfirmation
	cs.persist(ctx, s, cs.confirmTTL)

	// Confirmation is terminal. The mirror entry expires after the
	// confirmation delay, which is the service-side shape of the SPA's
	// redirect back to home.
	delete(cs.sessions, sessionID)
	cs.limiter.Forget(sessionID)

	ev := events.OrderPlaced{
		OrderID:     s.OrderID,
		SessionID:   sessionID,
		TotalAmount: models.Round2(s.Total()),
		Timestamp:   time.Now().UTC(),
	}
	if s.AppliedCoupon != nil {
		ev.CouponCode = s.AppliedCoupon.Code
	}
	for _, it := range s.Items {
		ev.Items = append(ev.Items, events.OrderItemEvent{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := cs.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("Failed to publish OrderPlaced for %s: %v", s.OrderID, err)
	}

	log.Printf("Order %s placed for session %s (%.2f %s)", s.OrderID, sessionID, ev.TotalAmount, cs.currency)
	return copySession(s), "", nil
}

// validateInstrument checks the presence of method-specific fields. Client
// side presence only; the gateway treats the instrument as opaque.
func validateInstrument(method, upiID string, card *models.CardDetails) string {
	switch method {
	case models.PaymentMethodUPI:
		if strings.TrimSpace(upiID) == "" {
			return "Please enter UPI ID"
		}
	case models.PaymentMethodCard:
		if card == nil || !card.Complete() {
			return "Please fill card details"
		}
	default:
		return "Please choose a payment method"
	}
	return ""
}

// session returns the live session, reloading it from the mirror after a
// restart. Callers must hold the mutex.
func (cs *CheckoutService) session(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	if s, ok := cs.sessions[sessionID]; ok {
		return s, nil
	}

	var stored models.CheckoutSession
	if err := cs.store.GetJSON(ctx, database.GenerateCheckoutKey(sessionID), &stored); err != nil {
		return nil, ErrNoSession
	}
	stored.Processing = false // an in-flight flag never survives a restart
	cs.sessions[sessionID] = &stored
	return &stored, nil
}

func (cs *CheckoutService) persist(ctx context.Context, s *models.CheckoutSession, ttl time.Duration) {
	if err := cs.store.SetJSON(ctx, database.GenerateCheckoutKey(s.SessionID), s, ttl); err != nil {
		log.Printf("Failed to mirror checkout session %s: %v", s.SessionID, err)
	}
}

func copySession(s *models.CheckoutSession) *models.CheckoutSession {
	out := *s
	out.Items = make([]models.CartLine, len(s.Items))
	copy(out.Items, s.Items)
	if s.AppliedCoupon != nil {
		coupon := *s.AppliedCoupon
		out.AppliedCoupon = &coupon
	}
	return &out
}

func generateOrderID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + raw[:7]
}
