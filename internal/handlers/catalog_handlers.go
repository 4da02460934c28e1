package handlers

import (
	"net/http"
	"strconv"

	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// CatalogHandlers serves the product catalog
type CatalogHandlers struct {
	catalog *services.CatalogService
}

func NewCatalogHandlers(catalog *services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// HandleListProducts handles GET /api/products
func (h *CatalogHandlers) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// HandleGetProduct handles GET /api/products/{id}
func (h *CatalogHandlers) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, ok := h.catalog.Product(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}
