package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/events"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
)

// fakeStore is an in-memory Store for tests. Values round-trip through JSON
// the same way the Redis mirror does.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) SetJSON(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
	return nil
}

func (f *fakeStore) GetJSON(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	data, ok := f.data[key]
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

// fakeGateway returns scripted charge results and counts calls.
type fakeGateway struct {
	mu      sync.Mutex
	results []*models.ChargeResult
	err     error
	calls   int
	block   chan struct{} // when set, Charge waits until the channel closes
}

func successGateway() *fakeGateway {
	return &fakeGateway{results: []*models.ChargeResult{{
		TxnID:  "txn-test",
		Status: models.ChargeStatusSuccess,
	}}}
}

func failingGateway(status, message string) *fakeGateway {
	return &fakeGateway{results: []*models.ChargeResult{{
		Status:  status,
		Message: message,
	}}}
}

func (g *fakeGateway) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	g.mu.Lock()
	g.calls++
	var result *models.ChargeResult
	if len(g.results) > 0 {
		result = g.results[0]
		if len(g.results) > 1 {
			g.results = g.results[1:]
		}
	}
	err := g.err
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	out := *result
	out.Amount = req.Amount
	return &out, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// recordPublisher captures published events.
type recordPublisher struct {
	mu       sync.Mutex
	orders   []events.OrderPlaced
	bookings []events.BookingConfirmed
}

func (p *recordPublisher) PublishOrderPlaced(ctx context.Context, ev events.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, ev)
	return nil
}

func (p *recordPublisher) PublishBookingConfirmed(ctx context.Context, ev events.BookingConfirmed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookings = append(p.bookings, ev)
	return nil
}
