package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

// Memory is an in-memory Store with the same semantics as the Mongo
// implementation. It backs the tests and the no-database development mode.
type Memory struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	carts    map[primitive.ObjectID]models.Cart
	orders   map[primitive.ObjectID]models.Order
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[primitive.ObjectID]models.User),
		products: make(map[primitive.ObjectID]models.Product),
		carts:    make(map[primitive.ObjectID]models.Cart),
		orders:   make(map[primitive.ObjectID]models.Order),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Users(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) SetUserRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	return m.updateUser(id, func(u *models.User) { u.Role = role })
}

func (m *Memory) SetUserAdmin(_ context.Context, id primitive.ObjectID, isAdmin bool) error {
	return m.updateUser(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (m *Memory) SetUserDisplayName(_ context.Context, id primitive.ObjectID, name string) error {
	return m.updateUser(id, func(u *models.User) { u.DisplayName = name })
}

func (m *Memory) updateUser(id primitive.ObjectID, apply func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	apply(&user)
	user.UpdatedAt = time.Now()
	m.users[id] = user
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = *product
	return nil
}

func (m *Memory) ProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (m *Memory) Products(_ context.Context) ([]models.Product, error) {
	return m.filterProducts(func(models.Product) bool { return true }), nil
}

func (m *Memory) ProductsBelowStock(_ context.Context, threshold int) ([]models.Product, error) {
	return m.filterProducts(func(p models.Product) bool { return p.StockQuantity < threshold }), nil
}

func (m *Memory) filterProducts(keep func(models.Product) bool) []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var products []models.Product
	for _, product := range m.products {
		if keep(product) {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products
}

func (m *Memory) UpdateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.StockQuantity = product.StockQuantity
	existing.Category = product.Category
	existing.ImageURL = product.ImageURL
	existing.UpdatedAt = product.UpdatedAt
	m.products[product.ID] = existing
	return nil
}

func (m *Memory) SetProductStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	product.StockQuantity = quantity
	product.UpdatedAt = time.Now()
	m.products[id] = product
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) CreateCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	m.carts[cart.ID] = *cart
	return nil
}

func (m *Memory) CartByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cart := range m.carts {
		if cart.UserID == userID {
			c := cart
			c.Items = append([]models.CartItem(nil), cart.Items...)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateCartItems(_ context.Context, id primitive.ObjectID, items []models.CartItem, total float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[id]
	if !ok {
		return ErrNotFound
	}
	cart.Items = append([]models.CartItem(nil), items...)
	cart.Total = total
	cart.UpdatedAt = time.Now()
	m.carts[id] = cart
	return nil
}

func (m *Memory) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *Memory) OrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.Items = append([]models.OrderItem(nil), order.Items...)
	return &order, nil
}

func (m *Memory) Orders(_ context.Context) ([]models.Order, error) {
	return m.filterOrders(func(models.Order) bool { return true }), nil
}

func (m *Memory) OrdersByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.filterOrders(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (m *Memory) filterOrders(keep func(models.Order) bool) []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []models.Order
	for _, order := range m.orders {
		if keep(order) {
			o := order
			o.Items = append([]models.OrderItem(nil), order.Items...)
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders
}

func (m *Memory) SetOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	m.orders[id] = order
	return nil
}
