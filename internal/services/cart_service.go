package services

import (
	"context"
	"log"
	"sync"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
)

// CartService owns the session carts. The in-memory cart is authoritative
// during a request; every mutation is mirrored to the store so a session
// survives a restart. Mirror failures are logged, not surfaced - the cart
// keeps working from memory.
type CartService struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	store Store
}

// NewCartService creates a new cart service
func NewCartService(store Store) *CartService {
	return &CartService{
		carts: make(map[string]*models.Cart),
		store: store,
	}
}

// cart returns the session's cart, loading it from the mirror on first touch.
// Callers must hold the mutex.
func (cs *CartService) cart(ctx context.Context, sessionID string) *models.Cart {
	if c, ok := cs.carts[sessionID]; ok {
		return c
	}

	c := &models.Cart{SessionID: sessionID}
	var stored models.Cart
	if err := cs.store.GetJSON(ctx, database.GenerateCartKey(sessionID), &stored); err == nil {
		c.Lines = stored.Lines
	}
	cs.carts[sessionID] = c
	return c
}

// persist mirrors the cart to the store. Callers must hold the mutex.
func (cs *CartService) persist(ctx context.Context, c *models.Cart) {
	if err := cs.store.SetJSON(ctx, database.GenerateCartKey(c.SessionID), c, 0); err != nil {
		log.Printf("Failed to mirror cart for session %s: %v", c.SessionID, err)
	}
}

// AddToCart merges quantity into an existing line for the product or appends
// a new one. It always succeeds; totals are derived, never stored.
func (cs *CartService) AddToCart(ctx context.Context, sessionID string, p models.Product, quantity int, variant *models.Variant) *models.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.cart(ctx, sessionID)
	c.Add(p, quantity, variant)
	cs.persist(ctx, c)
	return copyCart(c)
}

// RemoveFromCart removes one unit, or the whole line when removeAll is set or
// only one unit remains. Absent product IDs are a silent no-op.
func (cs *CartService) RemoveFromCart(ctx context.Context, sessionID string, productID int, removeAll bool) *models.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.cart(ctx, sessionID)
	c.Remove(productID, removeAll)
	cs.persist(ctx, c)
	return copyCart(c)
}

// ClearCart empties the session cart unconditionally.
func (cs *CartService) ClearCart(ctx context.Context, sessionID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.cart(ctx, sessionID)
	c.Clear()
	cs.persist(ctx, c)
}

// Cart returns a copy of the session cart.
func (cs *CartService) Cart(ctx context.Context, sessionID string) *models.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return copyCart(cs.cart(ctx, sessionID))
}

// Snapshot returns a copy of the cart lines for checkout. The snapshot does
// not track later cart mutations.
func (cs *CartService) Snapshot(ctx context.Context, sessionID string) []models.CartLine {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return cs.cart(ctx, sessionID).Snapshot()
}

func copyCart(c *models.Cart) *models.Cart {
	out := &models.Cart{SessionID: c.SessionID}
	out.Lines = make([]models.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
