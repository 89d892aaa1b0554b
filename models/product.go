package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. StockQuantity never goes negative; the order
// placement workflow is the only path that reserves stock.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	StockQuantity int                `bson:"stock_quantity" json:"stock_quantity"`
	Category      string             `bson:"category" json:"category"`
	ImageURL      string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// PlaceholderProduct stands in for a product that was deleted after orders
// referencing it were placed, so those orders still render.
func PlaceholderProduct(id primitive.ObjectID, price float64) *Product {
	return &Product{
		ID:          id,
		Name:        "Product no longer available",
		Description: "This product has been removed from the catalog",
		Price:       price,
		Category:    "Unknown",
	}
}
