package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles cart and checkout requests
type CartController struct {
	Cart         *services.CartService
	EmailService *utils.EmailService
}

// NewCartController creates a new CartController
func NewCartController(cart *services.CartService, emailService *utils.EmailService) *CartController {
	return &CartController{
		Cart:         cart,
		EmailService: emailService,
	}
}

type quantityInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// AddToCart reserves stock for the caller's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input quantityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		writeMessage(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	name, err := cc.Cart.AddToCart(r.Context(), middleware.ClaimsFrom(r), id, input.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s is added to cart", name))
}

// ChangeQuantity sets a cart line to a new quantity
func (cc *CartController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input quantityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		writeMessage(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	name, err := cc.Cart.ChangeQuantity(r.Context(), middleware.ClaimsFrom(r), id, input.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s quantity updated", name))
}

// Orders returns the caller's cart
func (cc *CartController) Orders(w http.ResponseWriter, r *http.Request) {
	view, err := cc.Cart.Orders(r.Context(), middleware.ClaimsFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": view})
}

// AllOrders returns every non-empty cart (admin only)
func (cc *CartController) AllOrders(w http.ResponseWriter, r *http.Request) {
	users, err := cc.Cart.AllOrders(r.Context(), middleware.ClaimsFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": users})
}

// RemoveOrder drops one cart order by record id
func (cc *CartController) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	if err := cc.Cart.RemoveCartOrder(r.Context(), middleware.ClaimsFrom(r), orderID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Order successfully removed")
}

// Checkout settles the caller's cart
func (cc *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)

	summary, err := cc.Cart.Checkout(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	go cc.EmailService.SendCheckoutConfirmation(claims.Email, summary.Total, summary.Quantity)

	writeMessage(w, http.StatusCreated, "Purchased items will be delivered to your registered address. THANK YOU")
}
