package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

func TestMemoryNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id := primitive.NewObjectID()

	_, err := m.UserByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.ProductByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.CartByUser(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.OrderByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.SetUserRole(ctx, id, models.RoleUser), ErrNotFound)
	assert.ErrorIs(t, m.DeleteUser(ctx, id), ErrNotFound)
	assert.ErrorIs(t, m.SetProductStock(ctx, id, 1), ErrNotFound)
	assert.ErrorIs(t, m.DeleteProduct(ctx, id), ErrNotFound)
	assert.ErrorIs(t, m.SetOrderStatus(ctx, id, models.OrderShipped), ErrNotFound)
}

func TestMemoryAssignsIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user := &models.User{Email: "a@example.com"}
	require.NoError(t, m.CreateUser(ctx, user))
	assert.False(t, user.ID.IsZero())

	product := &models.Product{Name: "Widget"}
	require.NoError(t, m.CreateProduct(ctx, product))
	assert.False(t, product.ID.IsZero())
}

func TestMemoryProductOrdering(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	old := &models.Product{Name: "Old", CreatedAt: time.Now().Add(-time.Hour)}
	recent := &models.Product{Name: "Recent", CreatedAt: time.Now()}
	require.NoError(t, m.CreateProduct(ctx, old))
	require.NoError(t, m.CreateProduct(ctx, recent))

	products, err := m.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Recent", products[0].Name)
	assert.Equal(t, "Old", products[1].Name)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user := &models.User{Email: "a@example.com", Role: models.RoleUser}
	require.NoError(t, m.CreateUser(ctx, user))

	// Mutating a returned value must not leak into the store.
	got, err := m.UserByID(ctx, user.ID)
	require.NoError(t, err)
	got.Role = models.RoleManager

	again, err := m.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, again.Role)
}

func TestMemoryCartRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	require.NoError(t, m.CreateCart(ctx, cart))

	items := []models.CartItem{{ID: "line-1", ProductID: primitive.NewObjectID(), Quantity: 2, Price: 5}}
	require.NoError(t, m.UpdateCartItems(ctx, cart.ID, items, 10))

	got, err := m.CartByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 10, got.Total, 1e-9)
}
