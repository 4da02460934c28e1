package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Sajan6491/nextgen-ecommerce/internal/database"
	"github.com/Sajan6491/nextgen-ecommerce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	loads    int
}

func (f *fakeSource) Load(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.products, f.err
}

func (f *fakeSource) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func TestCatalogLoadsOnce(t *testing.T) {
	source := &fakeSource{products: []models.Product{testShirt, testJacket}}
	cs := NewCatalogService(source, newFakeStore())
	ctx := context.Background()

	assert.Len(t, cs.Products(ctx), 2)
	assert.Len(t, cs.Products(ctx), 2)
	assert.Equal(t, 1, source.loadCount())
}

func TestCatalogProductLookup(t *testing.T) {
	source := &fakeSource{products: []models.Product{testShirt, testJacket}}
	cs := NewCatalogService(source, newFakeStore())
	ctx := context.Background()

	p, ok := cs.Product(ctx, testJacket.ID)
	require.True(t, ok)
	assert.Equal(t, "Jacket", p.Title)

	_, ok = cs.Product(ctx, 999)
	assert.False(t, ok)
}

func TestCatalogDegradesToEmptyOnSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	cs := NewCatalogService(source, newFakeStore())

	assert.Empty(t, cs.Products(context.Background()))
}

func TestCatalogServesFromCacheWithoutSource(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.SetJSON(context.Background(), database.GenerateCatalogKey(),
		[]models.Product{testShirt}, 0))

	source := &fakeSource{products: []models.Product{testShirt, testJacket}}
	cs := NewCatalogService(source, store)

	assert.Len(t, cs.Products(context.Background()), 1)
	assert.Zero(t, source.loadCount())
}

func TestCatalogRefreshReloads(t *testing.T) {
	source := &fakeSource{products: []models.Product{testShirt}}
	store := newFakeStore()
	cs := NewCatalogService(source, store)
	ctx := context.Background()

	require.Len(t, cs.Products(ctx), 1)

	// Invalidate both layers, then grow the source
	cs.Refresh()
	require.NoError(t, store.Delete(ctx, database.GenerateCatalogKey()))
	source.mu.Lock()
	source.products = []models.Product{testShirt, testJacket}
	source.mu.Unlock()

	assert.Len(t, cs.Products(ctx), 2)
}

func TestHTTPCatalogSourceDecodesRatingShapes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "title": "Shirt", "price": 499.5, "rating": 4.2},
			{"id": 2, "title": "Jacket", "price": 1200, "rating": {"rate": 3.9, "count": 120}}
		]`))
	}))
	defer server.Close()

	t.Setenv("CATALOG_URL", server.URL)
	source := NewHTTPCatalogSource()

	products, err := source.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 4.2, products[0].Rating)
	assert.Equal(t, 3.9, products[1].Rating)
}

func TestHTTPCatalogSourceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	t.Setenv("CATALOG_URL", server.URL)
	source := NewHTTPCatalogSource()

	_, err := source.Load(context.Background())
	assert.Error(t, err)
}
