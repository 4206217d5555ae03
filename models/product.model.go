package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderRef links a product back to the user that reserved stock from it.
type OrderRef struct {
	OrderID string `bson:"order_id" json:"order_id"`
}

// Product represents a catalog entry
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	StockCount  int                `bson:"stock_count" json:"stock_count"`
	ListedBy    string             `bson:"listed_by" json:"listed_by"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedOn   time.Time          `bson:"created_on" json:"created_on"`
	SoldCount   int                `bson:"sold_count" json:"sold_count"`
	Orders      []OrderRef         `bson:"orders" json:"orders"`
}

// ProductView is the field-limited projection returned by public catalog reads.
type ProductView struct {
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	StockCount  int     `bson:"stock_count" json:"stock_count"`
}
