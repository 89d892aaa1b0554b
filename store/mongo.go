package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/models"
)

// Mongo implements Store on top of a MongoDB database.
type Mongo struct {
	users    *mongo.Collection
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
}

// NewMongo wires the collections used by the application.
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		users:    db.Collection("users"),
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
	}
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// CreateUser inserts the user and assigns its id.
func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := m.users.InsertOne(ctx, user)
	return err
}

func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (m *Mongo) Users(ctx context.Context) ([]models.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *Mongo) SetUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return m.updateOne(ctx, m.users, id, bson.M{"role": role, "updated_at": time.Now()})
}

func (m *Mongo) SetUserAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	return m.updateOne(ctx, m.users, id, bson.M{"is_admin": isAdmin, "updated_at": time.Now()})
}

func (m *Mongo) SetUserDisplayName(ctx context.Context, id primitive.ObjectID, name string) error {
	return m.updateOne(ctx, m.users, id, bson.M{"display_name": name, "updated_at": time.Now()})
}

func (m *Mongo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := m.products.InsertOne(ctx, product)
	return err
}

func (m *Mongo) ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

// Products lists the catalog, newest first.
func (m *Mongo) Products(ctx context.Context) ([]models.Product, error) {
	return m.findProducts(ctx, bson.M{})
}

func (m *Mongo) ProductsBelowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return m.findProducts(ctx, bson.M{"stock_quantity": bson.M{"$lt": threshold}})
}

func (m *Mongo) findProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := m.products.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mongo) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.updateOne(ctx, m.products, product.ID, bson.M{
		"name":           product.Name,
		"description":    product.Description,
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"category":       product.Category,
		"image_url":      product.ImageURL,
		"updated_at":     product.UpdatedAt,
	})
}

func (m *Mongo) SetProductStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	return m.updateOne(ctx, m.products, id, bson.M{"stock_quantity": quantity, "updated_at": time.Now()})
}

func (m *Mongo) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateCart(ctx context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	_, err := m.carts.InsertOne(ctx, cart)
	return err
}

func (m *Mongo) CartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := m.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		return nil, mapErr(err)
	}
	return &cart, nil
}

func (m *Mongo) UpdateCartItems(ctx context.Context, id primitive.ObjectID, items []models.CartItem, total float64) error {
	return m.updateOne(ctx, m.carts, id, bson.M{"items": items, "total": total, "updated_at": time.Now()})
}

func (m *Mongo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := m.orders.InsertOne(ctx, order)
	return err
}

func (m *Mongo) OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

// Orders lists every order, newest first.
func (m *Mongo) Orders(ctx context.Context) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{})
}

func (m *Mongo) OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{"user_id": userID})
}

func (m *Mongo) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := m.orders.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (m *Mongo) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return m.updateOne(ctx, m.orders, id, bson.M{"status": status, "updated_at": time.Now()})
}

func (m *Mongo) updateOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, fields bson.M) error {
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
