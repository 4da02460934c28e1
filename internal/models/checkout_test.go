package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() ShippingAddress {
	return ShippingAddress{
		FullName: "Priya Sharma",
		Line1:    "221B Residency Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Postal:   "560025",
		Country:  "India",
		Phone:    "+919876543210",
	}
}

func TestAddressValidateAccepted(t *testing.T) {
	addr := validAddress()
	assert.Empty(t, addr.Validate())
}

func TestAddressValidateFieldMessages(t *testing.T) {
	addr := ShippingAddress{
		FullName: "1",
		Line1:    "ab",
		City:     "x",
		Postal:   "12",
		Country:  "India",
		Phone:    "12ab34",
	}

	errs := addr.Validate()
	assert.Equal(t, "Please enter a valid full name (at least 2 letters)", errs["full_name"])
	assert.Equal(t, "Please enter address line 1", errs["line1"])
	assert.Equal(t, "Please enter a valid city", errs["city"])
	assert.Equal(t, "Please enter a valid postal code", errs["postal"])
	assert.Equal(t, "Please select a state/province", errs["state"])
	assert.Equal(t, "Please enter a valid phone number (digits only, 7-15 characters)", errs["phone"])
}

func TestAddressValidateStateMustMatchCountry(t *testing.T) {
	addr := validAddress()
	addr.Country = "United States"
	addr.State = "Karnataka"

	errs := addr.Validate()
	assert.Equal(t, "Please select a state/province", errs["state"])

	addr.State = "NY"
	assert.Empty(t, addr.Validate())
}

func TestAddressValidateStateOptionalElsewhere(t *testing.T) {
	addr := validAddress()
	addr.Country = "Singapore"
	addr.State = ""

	assert.Empty(t, addr.Validate())
}

func TestAddressValidatePhoneOptional(t *testing.T) {
	addr := validAddress()
	addr.Phone = ""
	assert.Empty(t, addr.Validate())

	addr.Phone = "123456" // too short
	errs := addr.Validate()
	require.Contains(t, errs, "phone")
}

func TestCountryRequiresState(t *testing.T) {
	assert.True(t, CountryRequiresState("India"))
	assert.True(t, CountryRequiresState("United Kingdom"))
	assert.False(t, CountryRequiresState("Japan"))
	assert.Equal(t, []string{"Delhi", "Maharashtra", "Karnataka"}, StatesFor("India"))
}

func TestSetCountryResetsState(t *testing.T) {
	s := &CheckoutSession{Address: ShippingAddress{Country: "India", State: "Delhi"}}

	s.SetCountry("United States")
	assert.Equal(t, "United States", s.Address.Country)
	assert.Empty(t, s.Address.State)
}

func TestSetCountrySameCountryKeepsState(t *testing.T) {
	s := &CheckoutSession{Address: ShippingAddress{Country: "India", State: "Delhi"}}

	s.SetCountry("India")
	assert.Equal(t, "Delhi", s.Address.State)
}

func TestCheckoutSessionTotalUsesCoupon(t *testing.T) {
	s := &CheckoutSession{
		Items:         []CartLine{{ProductID: 1, UnitPrice: 100, Quantity: 2}},
		AppliedCoupon: &Coupon{Code: "NEW20", Kind: CouponPercent, Value: 20},
	}
	assert.InDelta(t, 160.0, s.Total(), 0.001)
}

func TestCardDetailsComplete(t *testing.T) {
	card := CardDetails{Number: "4111111111111111", Name: "Priya Sharma", Expiry: "12/27", CVV: "123"}
	assert.True(t, card.Complete())

	card.CVV = ""
	assert.False(t, card.Complete())
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentMethodUPI))
	assert.True(t, IsValidPaymentMethod(PaymentMethodCard))
	assert.False(t, IsValidPaymentMethod("cash"))
}
