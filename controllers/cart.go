package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/services"
)

// CartController handles cart requests for the authenticated caller.
type CartController struct {
	Cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{Cart: cart}
}

// GetCart retrieves the caller's cart, creating it on first read.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Cart.Get(ctx, session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddToCart adds a product to the caller's cart.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Cart.Add(ctx, session, productID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateCartItem sets a line's quantity; zero or below removes the line.
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	itemID := mux.Vars(r)["id"]

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Cart.UpdateItem(ctx, session, itemID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveFromCart deletes a line from the caller's cart.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	itemID := mux.Vars(r)["id"]

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Cart.RemoveItem(ctx, session, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// ClearCart empties the caller's cart.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Cart.Clear(ctx, session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
