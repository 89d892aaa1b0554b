// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront/controllers"
)

// RegisterRoutes sets up all the routes for the application. authMW is the
// JWT middleware; role checks happen inside the services, against the
// session the middleware attaches.
func RegisterRoutes(
	router *mux.Router,
	authMW func(http.Handler) http.Handler,
	accountController *controllers.AccountController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	userController *controllers.UserController,
) {
	// Public routes
	router.HandleFunc("/register", accountController.Register).Methods("POST")
	router.HandleFunc("/login", accountController.Login).Methods("POST")
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id:[0-9a-fA-F]{24}}", productController.GetProductByID).Methods("GET")

	// Everything below requires a signed-in caller.
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(authMW)

	protected.HandleFunc("/profile", accountController.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/name", accountController.UpdateDisplayName).Methods("PUT")

	// Product management (manager checks inside the service)
	protected.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	protected.HandleFunc("/products/low-stock", productController.GetLowStock).Methods("GET")
	protected.HandleFunc("/products/{id:[0-9a-fA-F]{24}}", productController.UpdateProduct).Methods("PUT")
	protected.HandleFunc("/products/{id:[0-9a-fA-F]{24}}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/items/{id}", cartController.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/items/{id}", cartController.RemoveFromCart).Methods("DELETE")

	// Order routes
	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderController.GetOrderByID).Methods("GET")
	protected.HandleFunc("/orders/{id}/status", orderController.UpdateOrderStatus).Methods("PUT")

	// User administration
	protected.HandleFunc("/users", userController.GetUsers).Methods("GET")
	protected.HandleFunc("/users/{id}/role", userController.ChangeRole).Methods("PUT")
	protected.HandleFunc("/users/{id}/admin", userController.SetAdmin).Methods("PUT")
	protected.HandleFunc("/users/{id}/setup-admin", userController.SetupAdmin).Methods("POST")
	protected.HandleFunc("/users/{id}", userController.DeleteUser).Methods("DELETE")
}
