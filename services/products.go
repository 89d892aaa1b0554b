package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/store"
)

// DefaultLowStockThreshold is used when a stock-alert query names none.
const DefaultLowStockThreshold = 10

// ProductService owns the catalog. Reads are public; every mutation and the
// low-stock query require the manager role.
type ProductService struct {
	Store store.Store
}

func NewProductService(st store.Store) *ProductService {
	return &ProductService{Store: st}
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	Category      *string  `json:"category"`
	ImageURL      *string  `json:"image_url"`
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.Store.Products(ctx)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.Store.ProductByID(ctx, id)
}

// Add creates a product, managers only.
func (s *ProductService) Add(ctx context.Context, session *models.Session, product models.Product) (*models.Product, error) {
	if !session.IsManager() {
		return nil, fmt.Errorf("%w: only managers can add products", ErrPermissionDenied)
	}
	if err := validateProduct(product.Name, product.Price, product.StockQuantity); err != nil {
		return nil, err
	}

	now := time.Now()
	product.ID = primitive.NilObjectID
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.Store.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"actor": session.UserID().Hex(), "product": product.ID.Hex()}).Info("product added")
	return &product, nil
}

// Update applies a partial update, managers only.
func (s *ProductService) Update(ctx context.Context, session *models.Session, id primitive.ObjectID, updates ProductUpdate) (*models.Product, error) {
	if !session.IsManager() {
		return nil, fmt.Errorf("%w: only managers can update products", ErrPermissionDenied)
	}

	product, err := s.Store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updates.Name != nil {
		product.Name = *updates.Name
	}
	if updates.Description != nil {
		product.Description = *updates.Description
	}
	if updates.Price != nil {
		product.Price = *updates.Price
	}
	if updates.StockQuantity != nil {
		product.StockQuantity = *updates.StockQuantity
	}
	if updates.Category != nil {
		product.Category = *updates.Category
	}
	if updates.ImageURL != nil {
		product.ImageURL = *updates.ImageURL
	}
	if err := validateProduct(product.Name, product.Price, product.StockQuantity); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now()
	if err := s.Store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product, managers only. Orders referencing it keep their
// snapshots and render a placeholder.
func (s *ProductService) Delete(ctx context.Context, session *models.Session, id primitive.ObjectID) error {
	if !session.IsManager() {
		return fmt.Errorf("%w: only managers can delete products", ErrPermissionDenied)
	}
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"actor": session.UserID().Hex(), "product": id.Hex()}).Info("product deleted")
	return nil
}

// LowStock lists products whose stock is below the threshold, managers only.
func (s *ProductService) LowStock(ctx context.Context, session *models.Session, threshold int) ([]models.Product, error) {
	if !session.IsManager() {
		return nil, fmt.Errorf("%w: only managers can view stock alerts", ErrPermissionDenied)
	}
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.Store.ProductsBelowStock(ctx, threshold)
}

func validateProduct(name string, price float64, stock int) error {
	if name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrValidation)
	}
	return nil
}
