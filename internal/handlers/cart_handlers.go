package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
	"github.com/Sajan6491/nextgen-ecommerce/internal/services"
)

// CartHandlers serves the session cart
type CartHandlers struct {
	carts   *services.CartService
	catalog *services.CatalogService
}

func NewCartHandlers(carts *services.CartService, catalog *services.CatalogService) *CartHandlers {
	return &CartHandlers{carts: carts, catalog: catalog}
}

type addToCartRequest struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Variant   *models.Variant `json:"variant,omitempty"`
}

// HandleGetCart handles GET /api/cart/{sessionID}
func (h *CartHandlers) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	cart := h.carts.Cart(r.Context(), sessionID)
	writeCart(w, cart)
}

// HandleAddItem handles POST /api/cart/{sessionID}/items. The product is
// looked up in the catalog so the cart never stores a client-supplied price.
func (h *CartHandlers) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, ok := h.catalog.Product(r.Context(), req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	cart := h.carts.AddToCart(r.Context(), sessionID, *product, req.Quantity, req.Variant)
	writeCart(w, cart)
}

// HandleRemoveItem handles DELETE /api/cart/{sessionID}/items/{productID}.
// ?all=true drops the whole line instead of one unit.
func (h *CartHandlers) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	productID, err := strconv.Atoi(r.PathValue("productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	removeAll := r.URL.Query().Get("all") == "true"
	cart := h.carts.RemoveFromCart(r.Context(), sessionID, productID, removeAll)
	writeCart(w, cart)
}

// HandleClearCart handles DELETE /api/cart/{sessionID}
func (h *CartHandlers) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	h.carts.ClearCart(r.Context(), sessionID)
	writeCart(w, &models.Cart{SessionID: sessionID})
}

func writeCart(w http.ResponseWriter, cart *models.Cart) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cart":     cart,
		"subtotal": models.Round2(models.Subtotal(cart.Lines)),
	})
}
