package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// FlightHandlers serves flight search
type FlightHandlers struct {
	flights *services.FlightService
}

func NewFlightHandlers(flights *services.FlightService) *FlightHandlers {
	return &FlightHandlers{flights: flights}
}

// HandleSearch handles GET /api/travel/flights/search. Filters and sort are
// query parameters; page is cumulative, so page=2 returns the first twelve
// offers.
func (h *FlightHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := &models.FlightSearchRequest{
		From:        strings.TrimSpace(q.Get("from")),
		To:          strings.TrimSpace(q.Get("to")),
		Depart:      strings.TrimSpace(q.Get("depart")),
		OnlyNonstop: q.Get("nonstop") == "true",
		SortBy:      q.Get("sort"),
	}
	if airlines := q.Get("airlines"); airlines != "" {
		req.Airlines = strings.Split(airlines, ",")
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		req.Page = page
	}

	resp, msg := h.flights.SearchOffers(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
