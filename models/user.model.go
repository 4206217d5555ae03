package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a user's delivery address
type Address struct {
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	Province string `bson:"province" json:"province"`
	ZipCode  string `bson:"zipcode" json:"zipcode"`
	Country  string `bson:"country" json:"country"`
}

// CartLine is one product entry inside a cart order. UnitPrice is the
// product price captured at add time, so totals stay stable even if the
// catalog price changes afterwards.
type CartLine struct {
	ProductName string  `bson:"product_name" json:"product_name"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
}

// CartOrder is one grouping of product lines in a user's in-progress cart.
type CartOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Products    []CartLine         `bson:"products" json:"products"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	PlacedOn    time.Time          `bson:"placed_on" json:"placed_on"`
}

// CheckoutRecord is appended to the user's checkout history at checkout.
// Append-only.
type CheckoutRecord struct {
	ProductName   string    `bson:"product_name" json:"product_name"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	CheckOutTotal float64   `bson:"checkout_total" json:"checkout_total"`
	PaidOn        time.Time `bson:"paid_on" json:"paid_on"`
}

// User represents an account. The cart (Orders + CartTotal) and the
// checkout history are embedded in the user document.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName       string             `bson:"first_name" json:"first_name"`
	LastName        string             `bson:"last_name" json:"last_name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password,omitempty" json:"-"`
	MobileNo        string             `bson:"mobile_no" json:"mobile_no"`
	IsAdmin         bool               `bson:"is_admin" json:"is_admin"`
	CreatedOn       time.Time          `bson:"created_on" json:"created_on"`
	Address         Address            `bson:"address" json:"address"`
	Orders          []CartOrder        `bson:"orders" json:"orders"`
	CartTotal       float64            `bson:"cart_total" json:"cart_total"`
	CheckOutDetails []CheckoutRecord   `bson:"checkout_details" json:"checkout_details"`
}

// FullName is the display name stamped on products the user lists.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
