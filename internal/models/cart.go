package models

import "math"

// CartLine represents one product entry in a cart. A cart holds at most one
// line per product ID; adds merge into the existing line instead.
type CartLine struct {
	ProductID int      `json:"product_id"`
	Title     string   `json:"title"`
	UnitPrice float64  `json:"unit_price"`
	Quantity  int      `json:"quantity"`
	Variant   *Variant `json:"variant,omitempty"`
}

// LineTotal returns unit price times quantity for this line.
func (l *CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart represents a session cart. Lines keep insertion order, which is also
// the display order.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
}

// Find returns the line for productID, or nil.
func (c *Cart) Find(productID int) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Add merges quantity into an existing line or appends a new one.
func (c *Cart) Add(p Product, quantity int, variant *Variant) {
	if quantity < 1 {
		quantity = 1
	}
	if line := c.Find(p.ID); line != nil {
		line.Quantity += quantity
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Variant:   variant,
	})
}

// Remove takes one unit off the line, or deletes it when removeAll is set or
// the quantity would reach zero. Unknown product IDs are a no-op.
func (c *Cart) Remove(productID int, removeAll bool) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if removeAll || c.Lines[i].Quantity <= 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity--
		}
		return
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a copy of the cart lines for checkout. Mutating the cart
// afterwards does not affect the snapshot.
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

// Subtotal sums unit price times quantity over lines, without any coupon.
func Subtotal(lines []CartLine) float64 {
	var total float64
	for i := range lines {
		total += lines[i].LineTotal()
	}
	return total
}

// ComputeTotal applies an optional coupon to the subtotal of lines. Percent
// coupons multiply by (1 - value/100); fixed coupons subtract their value,
// floored at zero.
func ComputeTotal(lines []CartLine, coupon *Coupon) float64 {
	total := Subtotal(lines)
	if coupon == nil {
		return total
	}
	switch coupon.Kind {
	case CouponPercent:
		total = total * (1 - coupon.Value/100)
	case CouponFixed:
		total = math.Max(0, total-coupon.Value)
	}
	return total
}

// Round2 rounds an amount to two decimal places for display. Totals are
// accumulated unrounded and only rounded here.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
