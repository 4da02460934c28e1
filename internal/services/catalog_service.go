package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"

	"golang.org/x/sync/singleflight"
)

// ProductSource loads the product catalog from wherever it lives.
type ProductSource interface {
	Load(ctx context.Context) ([]models.Product, error)
}

// HTTPCatalogSource pulls the catalog from an upstream JSON endpoint.
type HTTPCatalogSource struct {
	url        string
	httpClient *http.Client
}

func NewHTTPCatalogSource() *HTTPCatalogSource {
	url := os.Getenv("CATALOG_URL")
	if url == "" {
		url = "https://fakestoreapi.com/products"
	}
	return &HTTPCatalogSource{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ratingField accepts both a bare number and the upstream's
// {"rate": x, "count": n} object.
type ratingField float64

func (r *ratingField) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = ratingField(n)
		return nil
	}
	var obj struct {
		Rate float64 `json:"rate"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unexpected rating shape: %s", data)
	}
	*r = ratingField(obj.Rate)
	return nil
}

func (s *HTTPCatalogSource) Load(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog upstream returned status %d", resp.StatusCode)
	}

	var raw []struct {
		ID          int         `json:"id"`
		Title       string      `json:"title"`
		Price       float64     `json:"price"`
		Image       string      `json:"image"`
		Description string      `json:"description"`
		Category    string      `json:"category"`
		Brand       string      `json:"brand"`
		Rating      ratingField `json:"rating"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]models.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, models.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
			Category:    p.Category,
			Brand:       p.Brand,
			Rating:      float64(p.Rating),
		})
	}
	return products, nil
}

// PostgresCatalogStore loads the catalog from the products table.
type PostgresCatalogStore struct {
	db *database.DB
}

func NewPostgresCatalogStore(db *database.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

func (s *PostgresCatalogStore) Load(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, price, image, description, category, brand, rating
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Description, &p.Category, &p.Brand, &p.Rating); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CatalogService serves the product catalog. Loads go through singleflight so
// a cold cache and a burst of traffic produce exactly one upstream fetch, and
// the result is mirrored to Redis so restarts serve without touching the
// source. A failed load degrades to an empty catalog rather than an error.
type CatalogService struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[int]models.Product
	loaded   bool

	source   ProductSource
	store    Store
	group    singleflight.Group
	cacheTTL time.Duration
}

func NewCatalogService(source ProductSource, store Store) *CatalogService {
	return &CatalogService{
		byID:     make(map[int]models.Product),
		source:   source,
		store:    store,
		cacheTTL: 10 * time.Minute,
	}
}

// Products returns the full catalog, loading it on first use.
func (cs *CatalogService) Products(ctx context.Context) []models.Product {
	cs.ensureLoaded(ctx)

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]models.Product, len(cs.products))
	copy(out, cs.products)
	return out
}

// Product looks a product up by ID.
func (cs *CatalogService) Product(ctx context.Context, id int) (*models.Product, bool) {
	cs.ensureLoaded(ctx)

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	p, ok := cs.byID[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Refresh drops the in-memory catalog so the next read reloads.
func (cs *CatalogService) Refresh() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.loaded = false
}

func (cs *CatalogService) ensureLoaded(ctx context.Context) {
	cs.mu.RLock()
	loaded := cs.loaded
	cs.mu.RUnlock()
	if loaded {
		return
	}

	cs.group.Do("catalog", func() (interface{}, error) {
		products, err := cs.load(ctx)
		if err != nil {
			log.Printf("Catalog load failed, serving empty catalog: %v", err)
			products = nil
		}

		cs.mu.Lock()
		defer cs.mu.Unlock()

		cs.products = products
		cs.byID = make(map[int]models.Product, len(products))
		for _, p := range products {
			cs.byID[p.ID] = p
		}
		cs.loaded = true
		return nil, nil
	})
}

func (cs *CatalogService) load(ctx context.Context) ([]models.Product, error) {
	key := database.GenerateCatalogKey()

	var cached []models.Product
	if err := cs.store.GetJSON(ctx, key, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	products, err := cs.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := cs.store.SetJSON(ctx, key, products, cs.cacheTTL); err != nil {
		log.Printf("Failed to cache catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d products", len(products))
	return products, nil
}
