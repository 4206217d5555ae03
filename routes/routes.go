// routes/routes.go
package routes

import (
	"net/http"

	"go-storefront/controllers"
	"go-storefront/utils"

	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application. Role checks
// live in the services; the middleware here only authenticates.
func RegisterRoutes(router *mux.Router, tokens *utils.TokenService, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController) {
	auth := middleware.Auth(tokens)

	// Public routes
	router.HandleFunc("/users/register", userController.Register).Methods(http.MethodPost)
	router.HandleFunc("/users/login", userController.Login).Methods(http.MethodPost)
	router.HandleFunc("/products", productController.ListActive).Methods(http.MethodGet)

	// Authenticated user routes
	users := router.PathPrefix("/users").Subrouter()
	users.Use(auth)
	users.HandleFunc("/me", userController.Me).Methods(http.MethodGet)
	users.HandleFunc("/me", userController.UpdateMe).Methods(http.MethodPatch)
	users.HandleFunc("/{id}/admin", userController.GrantAdmin).Methods(http.MethodPatch)
	users.HandleFunc("/orders", cartController.Orders).Methods(http.MethodGet)
	users.HandleFunc("/orders/all", cartController.AllOrders).Methods(http.MethodGet)
	users.HandleFunc("/orders/{id}", cartController.RemoveOrder).Methods(http.MethodDelete)
	users.HandleFunc("/checkout", cartController.Checkout).Methods(http.MethodPatch)

	// Catalog management and cart routes
	products := router.PathPrefix("/products").Subrouter()
	products.Use(auth)
	products.HandleFunc("", productController.Create).Methods(http.MethodPost)
	products.HandleFunc("/all", productController.ListAll).Methods(http.MethodGet)
	products.HandleFunc("/{id}", productController.Update).Methods(http.MethodPatch)
	products.HandleFunc("/{id}", productController.Delete).Methods(http.MethodDelete)
	products.HandleFunc("/{id}/archive", productController.Archive).Methods(http.MethodPatch)
	products.HandleFunc("/{id}/unarchive", productController.Unarchive).Methods(http.MethodPatch)
	products.HandleFunc("/{id}/cart", cartController.AddToCart).Methods(http.MethodPost)
	products.HandleFunc("/{id}/cart", cartController.ChangeQuantity).Methods(http.MethodPatch)

	// Public single-product view, registered last so /all wins first
	router.HandleFunc("/products/{id}", productController.View).Methods(http.MethodGet)
}
