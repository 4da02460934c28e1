package models

import (
	"time"
)

// Charge status constants
const (
	ChargeStatusSuccess   = "success"
	ChargeStatusFailed    = "failed"
	ChargeStatusCancelled = "cancelled"
	ChargeStatusTimeout   = "timeout"
)

// IsValidChargeStatus checks if the charge status is valid
func IsValidChargeStatus(status string) bool {
	switch status {
	case ChargeStatusSuccess, ChargeStatusFailed, ChargeStatusCancelled, ChargeStatusTimeout:
		return true
	}
	return false
}

// ChargeRequest represents a payment request handed to the gateway. The
// instrument fields are presence-checked by the caller; the gateway treats
// them as opaque.
type ChargeRequest struct {
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Description string       `json:"description"`
	Method      string       `json:"method"` // "upi" or "card"
	UPIID       string       `json:"upi_id,omitempty"`
	Card        *CardDetails `json:"card,omitempty"`
}

// ChargeResult represents the single outcome of a gateway charge: success
// with a transaction ID, failure with a reason, cancellation by the payer, or
// a gateway timeout.
type ChargeResult struct {
	TxnID       string    `json:"txn_id,omitempty"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	Amount      float64   `json:"amount"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Succeeded reports whether the charge went through.
func (r *ChargeResult) Succeeded() bool {
	return r.Status == ChargeStatusSuccess
}

// Retryable reports whether the session should stay on its payment step and
// allow another attempt.
func (r *ChargeResult) Retryable() bool {
	return r.Status == ChargeStatusFailed || r.Status == ChargeStatusCancelled || r.Status == ChargeStatusTimeout
}
