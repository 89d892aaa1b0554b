// Package store is the document-store boundary: typed collection access for
// users, products, carts and orders. Implementations guarantee
// single-document atomicity only; there is no multi-document transaction.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the set of document operations the application needs.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	SetUserAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error
	SetUserDisplayName(ctx context.Context, id primitive.ObjectID, name string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	// Products
	CreateProduct(ctx context.Context, product *models.Product) error
	ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
	ProductsBelowStock(ctx context.Context, threshold int) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	SetProductStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error

	// Carts
	CreateCart(ctx context.Context, cart *models.Cart) error
	CartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	UpdateCartItems(ctx context.Context, id primitive.ObjectID, items []models.CartItem, total float64) error

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)
	OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}
