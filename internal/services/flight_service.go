package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
)

// PageSize is the number of offers revealed per "load more" click. Paging is
// cumulative: page N returns the first N*PageSize offers.
const PageSize = 6

const offersPerRoute = 12

type airlineInfo struct {
	Code string
	Name string
}

var airlines = []airlineInfo{
	{"AI", "Air India"},
	{"6E", "IndiGo"},
	{"UK", "Vistara"},
	{"SG", "SpiceJet"},
	{"G8", "Go First"},
}

// FlightService serves synthetic flight inventory. Generation is pure: the
// same (from, to, depart) triple always yields the same offers, so results
// stay stable across filters, paging and process restarts without any
// storage behind them.
type FlightService struct{}

func NewFlightService() *FlightService {
	return &FlightService{}
}

// SearchOffers generates the route's offers, applies filters and sort, and
// returns the cumulative page. An invalid request returns a message for the
// client instead of an error.
func (fs *FlightService) SearchOffers(req *models.FlightSearchRequest) (*models.FlightSearchResponse, string) {
	if msg := req.Validate(); msg != "" {
		return nil, msg
	}

	offers := fs.generateOffers(req.From, req.To, req.Depart)
	offers = filterOffers(offers, req)
	sortOffers(offers, req.SortBy)

	end := req.Page * PageSize
	if end > len(offers) {
		end = len(offers)
	}

	return &models.FlightSearchResponse{
		Offers:  offers[:end],
		Count:   len(offers),
		Page:    req.Page,
		HasMore: end < len(offers),
	}, ""
}

// OfferByID regenerates the route and picks out a single offer. Used when a
// booking starts, so the booking never trusts client-supplied fares.
func (fs *FlightService) OfferByID(from, to, depart, offerID string) (*models.FlightOffer, error) {
	for _, offer := range fs.generateOffers(from, to, depart) {
		if offer.ID == offerID {
			o := offer
			return &o, nil
		}
	}
	return nil, fmt.Errorf("offer %s not found on %s-%s %s", offerID, from, to, depart)
}

// generateOffers derives 12 offers from a sine wave seeded by the route
// string. sin keeps the values reproducible with no RNG state to carry.
func (fs *FlightService) generateOffers(from, to, depart string) []models.FlightOffer {
	base := 0
	for _, c := range from + to + depart {
		base += int(c)
	}
	r := func(n int) float64 {
		return (math.Sin(float64(base+n)) + 1) / 2
	}

	day, err := time.Parse("2006-01-02", depart)
	if err != nil {
		day = time.Now().Truncate(24 * time.Hour)
	}

	offers := make([]models.FlightOffer, 0, offersPerRoute)
	for i := 0; i < offersPerRoute; i++ {
		airline := airlines[i%len(airlines)]
		nonstop := r(i) > 0.35

		duration := 90 + int(math.Round(r(i+3)*150))
		if !nonstop {
			duration += 50
		}

		price := 3999 + math.Round(r(i+7)*9000)
		if nonstop {
			price += 700
		}

		departMin := int(math.Round(r(i+11) * 12 * 60))
		departAt := day.Add(6*time.Hour + time.Duration(departMin)*time.Minute)

		offers = append(offers, models.FlightOffer{
			ID:          fmt.Sprintf("%s-%d", airline.Code, i+1),
			AirlineCode: airline.Code,
			Airline:     airline.Name,
			Price:       price,
			DurationMin: duration,
			DepartAt:    departAt,
			ArriveAt:    departAt.Add(time.Duration(duration) * time.Minute),
			Nonstop:     nonstop,
			From:        from,
			To:          to,
		})
	}
	return offers
}

func filterOffers(offers []models.FlightOffer, req *models.FlightSearchRequest) []models.FlightOffer {
	wanted := make(map[string]bool, len(req.Airlines))
	for _, code := range req.Airlines {
		wanted[strings.ToUpper(code)] = true
	}

	out := offers[:0]
	for _, offer := range offers {
		if req.OnlyNonstop && !offer.Nonstop {
			continue
		}
		if len(wanted) > 0 && !wanted[offer.AirlineCode] {
			continue
		}
		out = append(out, offer)
	}
	return out
}

func sortOffers(offers []models.FlightOffer, sortBy string) {
	switch sortBy {
	case models.SortPriceAsc:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
	case models.SortPriceDesc:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].Price > offers[j].Price })
	case models.SortDuration:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].DurationMin < offers[j].DurationMin })
	case models.SortAirline:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].Airline < offers[j].Airline })
	}
}
