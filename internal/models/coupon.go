package models

import "strings"

// CouponKind constants
const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

// Coupon represents a discount code. Percent coupons carry a 0-100 value,
// fixed coupons an absolute amount.
type Coupon struct {
	Code  string  `json:"code"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// CouponTable maps upper-cased codes to coupons. Lookup is case-insensitive.
type CouponTable map[string]Coupon

// DefaultCoupons returns the storefront's built-in coupon codes.
func DefaultCoupons() CouponTable {
	return CouponTable{
		"SAVE10": {Code: "SAVE10", Kind: CouponPercent, Value: 10},
		"NEW20":  {Code: "NEW20", Kind: CouponPercent, Value: 20},
		"FLAT5":  {Code: "FLAT5", Kind: CouponFixed, Value: 5},
	}
}

// Lookup finds a coupon by code, ignoring case and surrounding whitespace.
func (t CouponTable) Lookup(code string) (Coupon, bool) {
	c, ok := t[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}
