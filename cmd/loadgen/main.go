package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// loadgen drives the storefront and travel services with concurrent synthetic
// shoppers: browse the catalog, fill a cart, walk the checkout to a paid
// order, and search and book a flight. It reports request counts and error
// rates per flow.

var (
	storefrontURL = flag.String("storefront", "http://localhost:8080", "storefront service base URL")
	travelURL     = flag.String("travel", "http://localhost:8081", "travel service base URL")
	users         = flag.Int("users", 5, "concurrent simulated shoppers")
	duration      = flag.Duration("duration", 30*time.Second, "how long to run")
)

var routes = [][2]string{
	{"DEL", "BOM"},
	{"BLR", "DEL"},
	{"BOM", "BLR"},
	{"DEL", "GOI"},
	{"HYD", "DEL"},
}

type counters struct {
	mu       sync.Mutex
	requests int64
	errors   int64
	orders   int64
	bookings int64
}

func (c *counters) request(err bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	if err {
		c.errors++
	}
}

func (c *counters) order() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders++
}

func (c *counters) booking() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookings++
}

type shopper struct {
	client    *http.Client
	sessionID string
	stats     *counters
	rng       *rand.Rand
}

func main() {
	flag.Parse()

	log.Printf("Starting load generator: %d shoppers for %v", *users, *duration)

	stats := &counters{}
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	for i := 0; i < *users; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			s := &shopper{
				client:    &http.Client{Timeout: 30 * time.Second},
				sessionID: fmt.Sprintf("loadgen-%d-%d", userID, time.Now().UnixNano()),
				stats:     stats,
				rng:       rand.New(rand.NewSource(int64(userID) + time.Now().UnixNano())),
			}
			for time.Now().Before(deadline) {
				s.shopFlow()
				s.travelFlow()
			}
		}(i)
	}
	wg.Wait()

	stats.mu.Lock()
	defer stats.mu.Unlock()
	log.Printf("Done: %d requests, %d errors, %d orders placed, %d bookings confirmed",
		stats.requests, stats.errors, stats.orders, stats.bookings)
}

// shopFlow walks one shopper through browse, cart and checkout. Declined
// payments are an expected outcome, not an error.
func (s *shopper) shopFlow() {
	products, ok := s.get(*storefrontURL + "/api/products")
	if !ok {
		return
	}
	list, _ := products["products"].([]interface{})
	if len(list) == 0 {
		return
	}

	picked, _ := list[s.rng.Intn(len(list))].(map[string]interface{})
	productID := int(picked["id"].(float64))

	if _, ok := s.post(fmt.Sprintf("%s/api/cart/%s/items", *storefrontURL, s.sessionID),
		map[string]interface{}{"product_id": productID, "quantity": 1 + s.rng.Intn(3)}); !ok {
		return
	}

	base := fmt.Sprintf("%s/api/checkout/%s", *storefrontURL, s.sessionID)
	if _, ok := s.post(base+"/start", nil); !ok {
		return
	}
	s.post(base+"/coupon", map[string]interface{}{"code": "SAVE10"})
	if _, ok := s.post(base+"/next", nil); !ok {
		return
	}
	if _, ok := s.post(base+"/shipping", map[string]interface{}{
		"full_name": "Load Tester",
		"line1":     "42 Generated Lane",
		"city":      "Bengaluru",
		"postal":    "560001",
		"phone":     "+919900112233",
		"country":   "India",
		"state":     "Karnataka",
	}); !ok {
		return
	}

	resp, ok := s.post(base+"/pay", map[string]interface{}{
		"method": "upi",
		"upi_id": "loadgen@upi",
	})
	if ok {
		if session, ok := resp["session"].(map[string]interface{}); ok && session["step"] == "confirmation" {
			s.stats.order()
		}
	}
}

// travelFlow searches a random route, books the first offer and pays after
// auto-assigning seats.
func (s *shopper) travelFlow() {
	route := routes[s.rng.Intn(len(routes))]
	depart := time.Now().AddDate(0, 0, 7+s.rng.Intn(30)).Format("2006-01-02")

	search, ok := s.get(fmt.Sprintf("%s/api/travel/flights/search?from=%s&to=%s&depart=%s",
		*travelURL, route[0], route[1], depart))
	if !ok {
		return
	}
	offers, _ := search["offers"].([]interface{})
	if len(offers) == 0 {
		return
	}
	offer, _ := offers[s.rng.Intn(len(offers))].(map[string]interface{})

	base := fmt.Sprintf("%s/api/travel/bookings/%s", *travelURL, s.sessionID)
	if _, ok := s.post(base+"/start", map[string]interface{}{
		"from":     route[0],
		"to":       route[1],
		"depart":   depart,
		"offer_id": offer["id"],
		"passengers": map[string]interface{}{
			"adults":   1 + s.rng.Intn(2),
			"children": s.rng.Intn(2),
		},
	}); !ok {
		return
	}
	if _, ok := s.post(base+"/seats/auto", nil); !ok {
		return
	}

	resp, ok := s.post(base+"/pay", nil)
	if ok {
		if resp["status"] == "confirmed" {
			s.stats.booking()
		}
	}
}

func (s *shopper) get(url string) (map[string]interface{}, bool) {
	resp, err := s.client.Get(url)
	if err != nil {
		s.stats.request(true)
		return nil, false
	}
	return s.decode(resp)
}

func (s *shopper) post(url string, payload interface{}) (map[string]interface{}, bool) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.stats.request(true)
			return nil, false
		}
		body = bytes.NewReader(data)
	}

	resp, err := s.client.Post(url, "application/json", body)
	if err != nil {
		s.stats.request(true)
		return nil, false
	}
	return s.decode(resp)
}

func (s *shopper) decode(resp *http.Response) (map[string]interface{}, bool) {
	defer resp.Body.Close()

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil && err != io.EOF {
		s.stats.request(true)
		return nil, false
	}

	// 4xx from declined payments and validation is expected traffic
	s.stats.request(resp.StatusCode >= 500)
	return data, resp.StatusCode < 300
}
