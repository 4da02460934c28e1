package models

import (
	"regexp"
	"strings"
	"time"
)

// Checkout step constants
const (
	StepReview       = "review"
	StepShipping     = "shipping"
	StepPayment      = "payment"
	StepConfirmation = "confirmation"
)

// Payment method constants
const (
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
)

// IsValidPaymentMethod checks if the payment method is supported
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodUPI || method == PaymentMethodCard
}

// ShippingAddress represents the address collected during the shipping step
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Postal   string `json:"postal"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

// statesByCountry lists the countries that require a state selection and the
// states accepted for each.
var statesByCountry = map[string][]string{
	"India":          {"Delhi", "Maharashtra", "Karnataka"},
	"United States":  {"CA", "NY", "TX"},
	"United Kingdom": {"England", "Scotland", "Wales"},
}

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
)

// CountryRequiresState reports whether a state must be chosen for the country.
func CountryRequiresState(country string) bool {
	_, ok := statesByCountry[country]
	return ok
}

// StatesFor returns the accepted states for a country, or nil.
func StatesFor(country string) []string {
	return statesByCountry[country]
}

// Validate checks every field and returns a field -> message map. An empty
// map means the address can be shipped to.
func (a *ShippingAddress) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(a.FullName)
	if len(name) < 2 || !letterPattern.MatchString(name) {
		errs["full_name"] = "Please enter a valid full name (at least 2 letters)"
	}

	if len(strings.TrimSpace(a.Line1)) < 3 {
		errs["line1"] = "Please enter address line 1"
	}

	if len(strings.TrimSpace(a.City)) < 2 {
		errs["city"] = "Please enter a valid city"
	}

	if len(strings.TrimSpace(a.Postal)) < 3 {
		errs["postal"] = "Please enter a valid postal code"
	}

	if states, ok := statesByCountry[a.Country]; ok {
		if a.State == "" {
			errs["state"] = "Please select a state/province"
		} else if !containsString(states, a.State) {
			errs["state"] = "Please select a state/province"
		}
	}

	if phone := strings.TrimSpace(a.Phone); phone != "" && !phonePattern.MatchString(phone) {
		errs["phone"] = "Please enter a valid phone number (digits only, 7-15 characters)"
	}

	return errs
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CardDetails represents the card fields collected on the payment step.
// Presence only; there is no real card verification in this path.
type CardDetails struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Complete reports whether all card fields were provided.
func (c *CardDetails) Complete() bool {
	return c.Number != "" && c.Name != "" && c.Expiry != "" && c.CVV != ""
}

// CheckoutSession drives the linear review -> shipping -> payment ->
// confirmation flow for one session. Items are a snapshot taken when checkout
// starts: either the full cart or a single buy-now line.
type CheckoutSession struct {
	SessionID     string          `json:"session_id"`
	Step          string          `json:"step"`
	Items         []CartLine      `json:"items"`
	BuyNow        bool            `json:"buy_now"`
	Address       ShippingAddress `json:"address"`
	PaymentMethod string          `json:"payment_method"`
	AppliedCoupon *Coupon         `json:"applied_coupon,omitempty"`
	OrderID       string          `json:"order_id,omitempty"`
	PaymentError  string          `json:"payment_error,omitempty"`
	Processing    bool            `json:"processing"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Total returns the discounted total for the session snapshot.
func (s *CheckoutSession) Total() float64 {
	return ComputeTotal(s.Items, s.AppliedCoupon)
}

// SetCountry updates the country and resets any previously chosen state, so a
// stale state can never pass validation against the new country's list.
func (s *CheckoutSession) SetCountry(country string) {
	if s.Address.Country != country {
		s.Address.State = ""
	}
	s.Address.Country = country
}
