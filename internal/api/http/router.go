package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Orders         *handlers.OrdersHandler
	Chat           *handlers.ChatHandler
	Products       *handlers.ProductsHandler
	Customers      *handlers.CustomersHandler
	Users          *handlers.UsersHandler
	Profiles       *handlers.ProfilesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/validate", cfg.AuthMiddleware.Handle, cfg.Auth.Validate)

	orders := api.Group("/orders", cfg.AuthMiddleware.Handle)
	orders.Get("/", auth.RequirePermission(domain.PermViewOrders), cfg.Orders.List)
	orders.Post("/", auth.RequirePermission(domain.PermViewOrders), cfg.Orders.Create)
	orders.Get("/:id", auth.RequirePermission(domain.PermViewOrders), cfg.Orders.Get)
	orders.Patch("/:id", auth.RequirePermission(domain.PermViewOrders), cfg.Orders.Update)
	orders.Patch("/:id/status", auth.RequirePermission(domain.PermChangeOrderStatus), cfg.Orders.UpdateStatus)
	orders.Delete("/:id", auth.RequirePermission(domain.PermViewOrders), cfg.Orders.Delete)

	chat := api.Group("/chat", cfg.AuthMiddleware.Handle)
	chat.Post("/send", auth.RequirePermission(domain.PermSendChat), cfg.Chat.Send)
	chat.Get("/messages/:orderId", auth.RequirePermission(domain.PermViewChat), cfg.Chat.Messages)

	products := api.Group("/products", cfg.AuthMiddleware.Handle)
	products.Get("/", auth.RequirePermission(domain.PermViewMenu), cfg.Products.List)
	products.Get("/:id", auth.RequirePermission(domain.PermViewMenu), cfg.Products.Get)
	products.Post("/", auth.RequirePermission(domain.PermEditProduct), cfg.Products.Create)
	products.Put("/:id", auth.RequirePermission(domain.PermEditProduct), cfg.Products.Update)
	products.Patch("/:id/toggle", auth.RequirePermission(domain.PermDeactivateProduct), cfg.Products.Toggle)
	products.Delete("/:id", auth.RequirePermission(domain.PermDeleteProduct), cfg.Products.Delete)

	customers := api.Group("/customers", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermViewCustomers))
	customers.Get("/", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Post("/", cfg.Customers.Create)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequirePermission(domain.PermEditUsers), cfg.Users.List)
	users.Get("/:id", auth.RequirePermission(domain.PermEditUsers), cfg.Users.Get)
	users.Post("/", auth.RequirePermission(domain.PermCreateUsers), cfg.Users.Create)
	users.Put("/:id", auth.RequirePermission(domain.PermEditUsers), cfg.Users.Update)
	users.Delete("/:id", auth.RequirePermission(domain.PermDeleteUsers), cfg.Users.Delete)

	profiles := api.Group("/profiles", cfg.AuthMiddleware.Handle)
	profiles.Get("/", auth.RequirePermission(domain.PermViewProfiles), cfg.Profiles.List)
	profiles.Get("/:id", auth.RequirePermission(domain.PermViewProfiles), cfg.Profiles.Get)
	profiles.Post("/", auth.RequirePermission(domain.PermManageProfiles), cfg.Profiles.Create)
	profiles.Put("/:id", auth.RequirePermission(domain.PermManageProfiles), cfg.Profiles.Update)
	profiles.Delete("/:id", auth.RequirePermission(domain.PermManageProfiles), cfg.Profiles.Delete)
}
