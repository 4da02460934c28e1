package models

import "fmt"

// Cabin layout constants. Columns A and F are windows, C and D aisles,
// B and E middles. Rows 12 and 13 are exit rows and are kept clear when the
// occupancy map is generated.
const (
	SeatRows = 30
)

var (
	// SeatColumns in physical order across the cabin.
	SeatColumns = []string{"A", "B", "C", "D", "E", "F"}

	// seatPreference is the auto-assign order within a row: windows, then
	// aisles, then middles.
	seatPreference = []string{"A", "F", "C", "D", "B", "E"}

	// ExitRows stay clear in generated occupancy maps.
	ExitRows = map[int]bool{12: true, 13: true}
)

// SeatLabel builds a label like "12C" from row and column.
func SeatLabel(row int, col string) string {
	return fmt.Sprintf("%d%s", row, col)
}

// SeatMap tracks which seats are occupied and which the traveller has
// selected. Selected never overlaps occupied, and never exceeds SeatsNeeded.
type SeatMap struct {
	Rows        int             `json:"rows"`
	Occupied    map[string]bool `json:"occupied"`
	Selected    []string        `json:"selected"`
	SeatsNeeded int             `json:"seats_needed"`
}

// NewSeatMap builds a seat map over the occupied set for a required seat
// count.
func NewSeatMap(occupied map[string]bool, seatsNeeded int) *SeatMap {
	if occupied == nil {
		occupied = make(map[string]bool)
	}
	return &SeatMap{
		Rows:        SeatRows,
		Occupied:    occupied,
		SeatsNeeded: seatsNeeded,
	}
}

// IsSelected reports whether label is currently selected.
func (m *SeatMap) IsSelected(label string) bool {
	for _, s := range m.Selected {
		if s == label {
			return true
		}
	}
	return false
}

// Toggle selects or deselects a seat. Occupied seats never toggle, and a new
// selection is silently ignored once SeatsNeeded seats are held; this is an
// interactive picker, not a validated form.
func (m *SeatMap) Toggle(label string) {
	if m.Occupied[label] {
		return
	}
	for i, s := range m.Selected {
		if s == label {
			m.Selected = append(m.Selected[:i], m.Selected[i+1:]...)
			return
		}
	}
	if len(m.Selected) >= m.SeatsNeeded {
		return
	}
	m.Selected = append(m.Selected, label)
}

// AutoAssign replaces the selection by walking rows in order, preferring
// windows, then aisles, then middles within each row, skipping occupied
// seats, until SeatsNeeded seats are held or the cabin is exhausted.
func (m *SeatMap) AutoAssign() {
	m.Selected = nil
	for row := 1; row <= m.Rows; row++ {
		for _, col := range seatPreference {
			if len(m.Selected) >= m.SeatsNeeded {
				return
			}
			label := SeatLabel(row, col)
			if m.Occupied[label] {
				continue
			}
			m.Selected = append(m.Selected, label)
		}
	}
}

// SelectionComplete reports whether enough seats are held to pay.
func (m *SeatMap) SelectionComplete() bool {
	return len(m.Selected) >= m.SeatsNeeded
}

// PerPersonFees is the fixed taxes-and-fees component charged per traveller.
const PerPersonFees = 750

// FareBreakdown itemises a fare for an offer and traveller count. It is
// derived and recomputed whenever either input changes, never stored on its
// own.
type FareBreakdown struct {
	PerPersonBase float64 `json:"per_person_base"`
	PerPersonFees float64 `json:"per_person_fees"`
	TotalBase     float64 `json:"total_base"`
	TotalFees     float64 `json:"total_fees"`
	TotalPrice    float64 `json:"total_price"`
}

// ComputeFare itemises the fare. The charged amount is always price times
// travellers; the base component clamps at zero, so for offers priced under
// the fixed fee the breakdown lines deliberately do not sum to the total.
func ComputeFare(offer *FlightOffer, totalPax int) FareBreakdown {
	base := offer.Price - PerPersonFees
	if base < 0 {
		base = 0
	}
	pax := float64(totalPax)
	return FareBreakdown{
		PerPersonBase: base,
		PerPersonFees: PerPersonFees,
		TotalBase:     base * pax,
		TotalFees:     PerPersonFees * pax,
		TotalPrice:    offer.Price * pax,
	}
}
