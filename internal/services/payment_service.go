package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"

	"github.com/google/uuid"
)

// PaymentGateway is the opaque external collaborator both checkout and travel
// booking charge through. A charge has exactly one outcome: success with a
// transaction ID, failure with a reason, cancellation by the payer, or a
// timeout.
type PaymentGateway interface {
	Charge(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error)
}

// PaymentService simulates a payment gateway with configurable outcome rates
type PaymentService struct {
	mu             sync.Mutex
	rng            *rand.Rand
	failureRate    float64       // Share of charges that fail
	cancelRate     float64       // Share of charges the payer dismisses
	timeoutRate    float64       // Share of charges that time out
	processingTime time.Duration // Average processing time
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate:    0.10,
		cancelRate:     0.05,
		timeoutRate:    0.05,
		processingTime: 900 * time.Millisecond,
	}
}

// Charge processes a payment request with mock scenarios
func (ps *PaymentService) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	log.Printf("Processing charge of %.2f %s (%s)", req.Amount, req.Currency, req.Description)

	if !models.IsValidPaymentMethod(req.Method) {
		return ps.result("", models.ChargeStatusFailed, "Invalid payment method", req.Amount), nil
	}
	if req.Amount <= 0 {
		return ps.result("", models.ChargeStatusFailed, "Invalid amount", req.Amount), nil
	}

	ps.mu.Lock()
	delay := ps.processingTime + time.Duration(ps.rng.Intn(300))*time.Millisecond
	roll := ps.rng.Float64()
	failureRate, cancelRate, timeoutRate := ps.failureRate, ps.cancelRate, ps.timeoutRate
	ps.mu.Unlock()

	// The caller's deadline is the timeout guard; an expired context is
	// reported as a gateway timeout, not an error.
	select {
	case <-ctx.Done():
		return ps.result("", models.ChargeStatusTimeout, "Payment processing timeout", req.Amount), nil
	case <-time.After(delay):
	}

	var status, message string
	switch {
	case roll < timeoutRate:
		status = models.ChargeStatusTimeout
		message = "Payment gateway timeout"
	case roll < timeoutRate+cancelRate:
		status = models.ChargeStatusCancelled
		message = "Payment cancelled by user"
	case roll < timeoutRate+cancelRate+failureRate:
		status = models.ChargeStatusFailed
		message = ps.randomFailureMessage()
	default:
		status = models.ChargeStatusSuccess
		message = "Payment processed successfully"
	}

	txnID := ""
	if status == models.ChargeStatusSuccess {
		txnID = uuid.New().String()
	}

	result := ps.result(txnID, status, message, req.Amount)
	log.Printf("Charge processed: %s - %s", status, message)
	return result, nil
}

func (ps *PaymentService) result(txnID, status, message string, amount float64) *models.ChargeResult {
	return &models.ChargeResult{
		TxnID:       txnID,
		Status:      status,
		Message:     message,
		Amount:      amount,
		ProcessedAt: time.Now(),
	}
}

// randomFailureMessage returns a random failure message
func (ps *PaymentService) randomFailureMessage() string {
	failureMessages := []string{
		"Insufficient funds",
		"Card declined",
		"Invalid card number",
		"Expired card",
		"CVV mismatch",
		"Bank declined transaction",
		"UPI handle not found",
		"Daily limit exceeded",
		"Network error",
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	return failureMessages[ps.rng.Intn(len(failureMessages))]
}

// SetOutcomeRates sets the failure, cancel and timeout rates for testing
func (ps *PaymentService) SetOutcomeRates(failure, cancel, timeout float64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if failure >= 0 && failure <= 1 {
		ps.failureRate = failure
	}
	if cancel >= 0 && cancel <= 1 {
		ps.cancelRate = cancel
	}
	if timeout >= 0 && timeout <= 1 {
		ps.timeoutRate = timeout
	}
}

// SetProcessingTime sets the processing time for testing
func (ps *PaymentService) SetProcessingTime(duration time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.processingTime = duration
}

// SimulateFailure forces a failed charge
func (ps *PaymentService) SimulateFailure(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	return ps.withRates(ctx, req, 1.0, 0.0, 0.0)
}

// SimulateCancellation forces a cancelled charge
func (ps *PaymentService) SimulateCancellation(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	return ps.withRates(ctx, req, 0.0, 1.0, 0.0)
}

// SimulateTimeout forces a timed-out charge
func (ps *PaymentService) SimulateTimeout(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	return ps.withRates(ctx, req, 0.0, 0.0, 1.0)
}

// SimulateSuccess forces a successful charge
func (ps *PaymentService) SimulateSuccess(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	return ps.withRates(ctx, req, 0.0, 0.0, 0.0)
}

func (ps *PaymentService) withRates(ctx context.Context, req *models.ChargeRequest, failure, cancel, timeout float64) (*models.ChargeResult, error) {
	ps.mu.Lock()
	origFailure, origCancel, origTimeout := ps.failureRate, ps.cancelRate, ps.timeoutRate
	ps.failureRate, ps.cancelRate, ps.timeoutRate = failure, cancel, timeout
	ps.mu.Unlock()

	defer func() {
		ps.mu.Lock()
		ps.failureRate, ps.cancelRate, ps.timeoutRate = origFailure, origCancel, origTimeout
		ps.mu.Unlock()
	}()

	return ps.Charge(ctx, req)
}
