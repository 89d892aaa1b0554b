package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/store"
)

// CartService owns cart reads and mutations. Line prices are captured at
// add-time; totals are always re-derived from the captured prices, never
// from live product prices. Quantities are capped by live product stock.
type CartService struct {
	Store store.Store
}

func NewCartService(st store.Store) *CartService {
	return &CartService{Store: st}
}

// Get returns the caller's cart, creating an empty one on first read.
// Live product details are attached to each line for display.
func (s *CartService) Get(ctx context.Context, session *models.Session) (*models.Cart, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Store.CartByUser(ctx, session.UserID())
	if err == store.ErrNotFound {
		now := time.Now()
		cart = &models.Cart{
			UserID:    session.UserID(),
			Items:     []models.CartItem{},
			Total:     0,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Store.CreateCart(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if product, err := s.Store.ProductByID(ctx, cart.Items[i].ProductID); err == nil {
			cart.Items[i].Product = product
		}
	}
	return cart, nil
}

// Add puts quantity units of a product into the cart, merging into an
// existing line for the same product. The merged quantity must not exceed
// live stock. A new line captures the product's current price.
func (s *CartService) Add(ctx context.Context, session *models.Session, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	product, err := s.Store.ProductByID(ctx, productID)
	if err == store.ErrNotFound {
		return nil, fmt.Errorf("%w: product not found", ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	merged := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			newQuantity := item.Quantity + quantity
			if newQuantity > product.StockQuantity {
				return nil, fmt.Errorf("%w: not enough stock available", ErrValidation)
			}
			cart.Items[i].Quantity = newQuantity
			merged = true
			break
		}
	}
	if !merged {
		if quantity > product.StockQuantity {
			return nil, fmt.Errorf("%w: not enough stock available", ErrValidation)
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	return s.save(ctx, cart)
}

// UpdateItem sets a line's quantity. A quantity of zero or below deletes the
// line. A quantity above live stock leaves the cart unmodified.
func (s *CartService) UpdateItem(ctx context.Context, session *models.Session, itemID string, quantity int) (*models.Cart, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, item := range cart.Items {
		if item.ID == itemID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("%w: item not found in cart", ErrValidation)
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
		return s.save(ctx, cart)
	}

	product, err := s.Store.ProductByID(ctx, cart.Items[index].ProductID)
	if err == store.ErrNotFound {
		return nil, fmt.Errorf("%w: product no longer exists", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, fmt.Errorf("%w: not enough stock available", ErrValidation)
	}

	cart.Items[index].Quantity = quantity
	return s.save(ctx, cart)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, session *models.Session, itemID string) (*models.Cart, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, fmt.Errorf("%w: item not found in cart", ErrValidation)
	}

	cart.Items = items
	return s.save(ctx, cart)
}

// Clear resets the cart to empty. The cart document itself is retained.
func (s *CartService) Clear(ctx context.Context, session *models.Session) (*models.Cart, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return s.save(ctx, cart)
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.Total = models.CartTotal(cart.Items)
	cart.UpdatedAt = time.Now()

	// Strip attached products before persisting; the document stores only
	// id, product id, quantity and captured price per line.
	persisted := make([]models.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		item.Product = nil
		persisted[i] = item
	}
	if err := s.Store.UpdateCartItems(ctx, cart.ID, persisted, cart.Total); err != nil {
		return nil, err
	}
	return cart, nil
}
