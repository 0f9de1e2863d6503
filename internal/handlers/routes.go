package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/middleware"
	"github.com/localnerve/campus-market/internal/services"
)

// Routes holds everything SetupRoutes mounts
type Routes struct {
	Products *ProductHandler
	Users    *UserHandler
	Status   *StatusHandler
	Auth     services.Authenticator
}

// SetupRoutes mounts the marketplace routes on router
func SetupRoutes(router fiber.Router, r Routes) {
	required := middleware.RequireIdentity(r.Auth)
	optional := middleware.OptionalIdentity(r.Auth)

	// Status
	router.Get("/", r.Status.Root)
	router.Get("/db-status", r.Status.DBStatus)
	router.Get("/health", r.Status.Health)

	// Listings (public reads, owner writes)
	router.Get("/products", r.Products.GetProducts)
	router.Get("/products/:id", r.Products.GetProduct)
	router.Get("/my-products/:email", r.Products.GetSellerProducts)
	router.Post("/products", required, r.Products.CreateProduct)
	router.Put("/products/:id", required, r.Products.UpdateProduct)
	router.Delete("/products/:id", required, r.Products.DeleteProduct)
	router.Post("/products/:id/view", optional, r.Products.ViewProduct)

	// Users
	router.Post("/users", r.Users.CreateUser)
	router.Get("/users/:email", r.Users.GetUser)
	router.Put("/users/:email", required, r.Users.UpdateUser)
	router.Delete("/users/:email", required, r.Users.DeleteUser)
	router.Get("/user-by-email/:email", r.Users.GetUserProfile)
}
