package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/store"
	"storefront/utils"
)

// OrderService owns order placement and order reads. Placement is a
// multi-step workflow over single-document writes: stock verification,
// order creation, per-line stock decrement, cart clearing. The steps are
// strictly sequential within one call but carry no cross-document
// transaction and no rollback; a failure after the order write leaves the
// completed steps in place, matching the system this replaces. Concurrent
// placements against the same product can both pass verification and
// overdraw stock for the same reason.
type OrderService struct {
	Store store.Store
	Cart  *CartService
	Email *utils.EmailService
}

func NewOrderService(st store.Store, cart *CartService, email *utils.EmailService) *OrderService {
	return &OrderService{Store: st, Cart: cart, Email: email}
}

// Create places an order from the caller's cart.
func (s *OrderService) Create(ctx context.Context, session *models.Session) (*models.Order, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Cart.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: your cart is empty", ErrValidation)
	}

	// Verification pass: fresh read per line, abort before any write.
	verified := make(map[primitive.ObjectID]*models.Product, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.Store.ProductByID(ctx, item.ProductID)
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: product %s no longer exists", ErrValidation, item.ProductID.Hex())
		}
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: not enough %s in stock", ErrValidation, product.Name)
		}
		verified[item.ProductID] = product
	}

	now := time.Now()
	order := &models.Order{
		UserID:    session.UserID(),
		Items:     snapshotItems(cart.Items),
		Total:     cart.Total,
		Status:    models.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Decrement pass: re-fetch and write back per line. Not atomic with the
	// order write above.
	for _, item := range cart.Items {
		product, err := s.Store.ProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := s.Store.SetProductStock(ctx, product.ID, product.StockQuantity-item.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := s.Cart.Clear(ctx, session); err != nil {
		return nil, err
	}

	// Attach product detail for immediate display; the persisted snapshot
	// keeps only id, quantity and price.
	for i := range order.Items {
		order.Items[i].Product = verified[order.Items[i].ProductID]
	}

	logrus.WithFields(logrus.Fields{
		"user":  session.UserID().Hex(),
		"order": order.ID.Hex(),
		"total": order.Total,
	}).Info("order placed")

	if s.Email != nil {
		go func(email string, order models.Order) {
			if err := s.Email.SendOrderConfirmationEmail(email, order); err != nil {
				logrus.WithError(err).Warnf("failed to send order confirmation to %s", email)
			}
		}(session.User.Email, *order)
	}

	return order, nil
}

// List returns the caller's orders, newest first. Managers see every order.
func (s *OrderService) List(ctx context.Context, session *models.Session) ([]models.Order, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var (
		orders []models.Order
		err    error
	)
	if session.IsManager() {
		orders, err = s.Store.Orders(ctx)
	} else {
		orders, err = s.Store.OrdersByUser(ctx, session.UserID())
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	for i := range orders {
		s.attachProducts(ctx, &orders[i])
	}
	return orders, nil
}

// Get returns one order, visible to its owner and to managers.
func (s *OrderService) Get(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.Order, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	order, err := s.Store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsManager() && order.UserID != session.UserID() {
		return nil, fmt.Errorf("%w: you do not have permission to view this order", ErrPermissionDenied)
	}
	s.attachProducts(ctx, order)
	return order, nil
}

// UpdateStatus sets the order's status, managers only. Any status may be set
// from any other.
func (s *OrderService) UpdateStatus(ctx context.Context, session *models.Session, id primitive.ObjectID, status models.OrderStatus) error {
	if !session.IsManager() {
		return fmt.Errorf("%w: only managers can update order status", ErrPermissionDenied)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	if err := s.Store.SetOrderStatus(ctx, id, status); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"actor":  session.UserID().Hex(),
		"order":  id.Hex(),
		"status": status,
	}).Info("order status updated")
	return nil
}

// attachProducts resolves live product detail per item, substituting a
// placeholder when the product has been deleted since the order was placed.
func (s *OrderService) attachProducts(ctx context.Context, order *models.Order) {
	for i := range order.Items {
		item := &order.Items[i]
		product, err := s.Store.ProductByID(ctx, item.ProductID)
		if err != nil {
			item.Product = models.PlaceholderProduct(item.ProductID, item.Price)
			continue
		}
		item.Product = product
	}
}

func snapshotItems(items []models.CartItem) []models.OrderItem {
	snapshot := make([]models.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = models.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return snapshot
}
