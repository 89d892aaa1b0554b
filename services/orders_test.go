package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/store"
)

func newOrderEnv(st *store.Memory) (*CartService, *OrderService) {
	carts := NewCartService(st)
	return carts, NewOrderService(st, carts, nil)
}

func TestCreateOrderRequiresNonEmptyCart(t *testing.T) {
	st := store.NewMemory()
	_, orders := newOrderEnv(st)
	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)

	_, err := orders.Create(context.Background(), session)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = orders.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateOrderInsufficientStockWritesNothing(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	product := seedProduct(t, st, "Widget", 10, 5)

	_, err := carts.Add(context.Background(), session, product.ID, 4)
	require.NoError(t, err)

	// Stock drops below the cart quantity after the line was added.
	require.NoError(t, st.SetProductStock(context.Background(), product.ID, 2))

	_, err = orders.Create(context.Background(), session)
	assert.ErrorIs(t, err, ErrValidation)

	// No order was created, stock is untouched, the cart survives.
	all, err := st.Orders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	stored, err := st.ProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.StockQuantity)

	cart, err := carts.Get(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderDeletedProductWritesNothing(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	product := seedProduct(t, st, "Widget", 10, 5)

	_, err := carts.Add(context.Background(), session, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, st.DeleteProduct(context.Background(), product.ID))

	_, err = orders.Create(context.Background(), session)
	assert.ErrorIs(t, err, ErrValidation)

	all, err := st.Orders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateOrderEndToEnd(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	product := seedProduct(t, st, "Widget", 25, 10)

	cart, err := carts.Add(context.Background(), session, product.ID, 3)
	require.NoError(t, err)
	assert.InDelta(t, 75, cart.Total, 1e-9)

	order, err := orders.Create(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 75, order.Total, 1e-9)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.InDelta(t, 25, order.Items[0].Price, 1e-9)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Widget", order.Items[0].Product.Name)

	// Stock decremented by exactly the ordered quantity.
	stored, err := st.ProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.StockQuantity)

	// Cart is cleared, not deleted.
	cart, err = carts.Get(context.Background(), session)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// The persisted snapshot matches the cart lines.
	persisted, err := st.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
	assert.Equal(t, product.ID, persisted.Items[0].ProductID)
	assert.Nil(t, persisted.Items[0].Product)
}

func TestOrderSurvivesProductDeletion(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	product := seedProduct(t, st, "Widget", 10, 5)

	_, err := carts.Add(context.Background(), session, product.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(context.Background(), session)
	require.NoError(t, err)

	require.NoError(t, st.DeleteProduct(context.Background(), product.ID))

	fetched, err := orders.Get(context.Background(), session, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	require.NotNil(t, fetched.Items[0].Product)
	assert.Equal(t, "Product no longer available", fetched.Items[0].Product.Name)
	assert.InDelta(t, 10, fetched.Items[0].Product.Price, 1e-9)
}

func TestOrderVisibility(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	alice := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	bob := seedUser(t, st, "bob@example.com", models.RoleUser, false)
	manager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	product := seedProduct(t, st, "Widget", 10, 50)

	_, err := carts.Add(context.Background(), alice, product.ID, 1)
	require.NoError(t, err)
	aliceOrder, err := orders.Create(context.Background(), alice)
	require.NoError(t, err)

	_, err = carts.Add(context.Background(), bob, product.ID, 2)
	require.NoError(t, err)
	_, err = orders.Create(context.Background(), bob)
	require.NoError(t, err)

	// Users see only their own orders.
	mine, err := orders.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.UserID(), mine[0].UserID)

	// Managers see everything.
	all, err := orders.List(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Single-order reads follow the same rule.
	_, err = orders.Get(context.Background(), bob, aliceOrder.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = orders.Get(context.Background(), manager, aliceOrder.ID)
	assert.NoError(t, err)
}

func TestUpdateOrderStatus(t *testing.T) {
	st := store.NewMemory()
	carts, orders := newOrderEnv(st)
	alice := seedUser(t, st, "alice@example.com", models.RoleUser, false)
	manager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	product := seedProduct(t, st, "Widget", 10, 5)

	_, err := carts.Add(context.Background(), alice, product.ID, 1)
	require.NoError(t, err)
	order, err := orders.Create(context.Background(), alice)
	require.NoError(t, err)

	err = orders.UpdateStatus(context.Background(), alice, order.ID, models.OrderShipped)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = orders.UpdateStatus(context.Background(), manager, order.ID, models.OrderStatus("lost"))
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, orders.UpdateStatus(context.Background(), manager, order.ID, models.OrderDelivered))

	// No forward-only enforcement: delivered back to pending is allowed.
	require.NoError(t, orders.UpdateStatus(context.Background(), manager, order.ID, models.OrderPending))

	stored, err := st.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
}
