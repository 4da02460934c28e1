package models

import (
	"time"
)

// FlightOffer represents a single synthetic flight result. Offers are
// immutable once generated: the same (from, to, depart date) triple always
// produces the same offers.
type FlightOffer struct {
	ID          string    `json:"id"`
	AirlineCode string    `json:"airline_code"`
	Airline     string    `json:"airline"`
	Price       float64   `json:"price"`
	DurationMin int       `json:"duration_minutes"`
	DepartAt    time.Time `json:"depart_at"`
	ArriveAt    time.Time `json:"arrive_at"`
	Nonstop     bool      `json:"nonstop"`
	From        string    `json:"from"`
	To          string    `json:"to"`
}

// Sort order constants for flight search
const (
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
	SortDuration  = "duration"
	SortAirline   = "airline"
)

// IsValidSort checks if the sort order is supported
func IsValidSort(sort string) bool {
	switch sort {
	case SortPriceAsc, SortPriceDesc, SortDuration, SortAirline:
		return true
	}
	return false
}

// FlightSearchRequest represents a flight search with filters and paging
type FlightSearchRequest struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Depart      string   `json:"depart"` // YYYY-MM-DD
	OnlyNonstop bool     `json:"only_nonstop"`
	Airlines    []string `json:"airlines,omitempty"`
	SortBy      string   `json:"sort_by"`
	Page        int      `json:"page"`
}

// Validate fills defaults and reports the first missing required field.
func (r *FlightSearchRequest) Validate() string {
	if r.From == "" || r.To == "" || r.Depart == "" {
		return "from, to and depart are required"
	}
	if r.SortBy == "" {
		r.SortBy = SortPriceAsc
	}
	if !IsValidSort(r.SortBy) {
		return "invalid sort_by"
	}
	if r.Page < 1 {
		r.Page = 1
	}
	return ""
}

// FlightSearchResponse represents a page of flight results
type FlightSearchResponse struct {
	Offers  []FlightOffer `json:"offers"`
	Count   int           `json:"count"`
	Page    int           `json:"page"`
	HasMore bool          `json:"has_more"`
}

// PassengerMix represents the traveller composition for a booking. Infants
// travel on an adult's lap and do not need a seat.
type PassengerMix struct {
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
	Infants  int    `json:"infants"`
	Class    string `json:"class,omitempty"`
}

// Normalize enforces the traveller constraints: at least one adult whenever
// children or infants are present, and never more infants than adults.
func (p *PassengerMix) Normalize() {
	if p.Adults < 0 {
		p.Adults = 0
	}
	if p.Children < 0 {
		p.Children = 0
	}
	if p.Infants < 0 {
		p.Infants = 0
	}
	if p.Adults == 0 && (p.Children > 0 || p.Infants > 0) {
		p.Adults = 1
	}
	if p.Infants > p.Adults {
		p.Infants = p.Adults
	}
	if p.Class == "" {
		p.Class = "Economy"
	}
}

// SeatsNeeded returns the number of seats the mix requires.
func (p *PassengerMix) SeatsNeeded() int {
	return p.Adults + p.Children
}

// TotalPax returns all travellers including infants; fares are charged per
// traveller.
func (p *PassengerMix) TotalPax() int {
	return p.Adults + p.Children + p.Infants
}
