package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// OrderController handles order placement and order reads.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder places an order from the caller's cart.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()
	order, err := oc.Orders.Create(ctx, session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrders lists the caller's orders; managers see every order.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()
	orders, err := oc.Orders.List(ctx, session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrderByID returns one order to its owner or a manager.
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	order, err := oc.Orders.Get(ctx, session, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus sets an order's status, managers only.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := oc.Orders.UpdateStatus(ctx, session, id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}
