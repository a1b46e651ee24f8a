package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Inventory    *InventoryHandler
	Supplier     *SupplierHandler
	Dashboard    *DashboardHandler
	Subscription *SubscriptionHandler
	User         *UserHandler
	WS           *WSHandler
}

// Guards are the request filters placed in front of the API.
type Guards struct {
	Auth         service.AuthService
	CSRF         fiber.Handler
	LoginLimiter fiber.Handler
}

// PublicPaths run without a session and are exempt from the anti-forgery
// check.
var PublicPaths = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/logout",
}

func RegisterRoutes(app *fiber.App, h Handlers, g Guards) {
	requireAuth := middleware.RequireAuth(g.Auth)
	api := app.Group("/api/v1", g.CSRF)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", g.LoginLimiter, h.Auth.Login)
	auth.Post("/logout", requireAuth, h.Auth.Logout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/auth/me", h.Auth.Me)

	protected.Get("/dashboard", h.Dashboard.GetDashboard)
	protected.Get("/reports", h.Dashboard.GetReport)
	protected.Get("/reports/export", h.Dashboard.ExportReport)

	protected.Get("/products", h.Inventory.GetProducts)
	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Put("/products/:id", h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", h.Inventory.DeleteProduct)
	protected.Post("/products/:id/sales", h.Inventory.RecordSale)
	protected.Get("/sales", h.Inventory.GetSales)

	protected.Get("/suppliers", h.Supplier.GetSuppliers)
	protected.Post("/suppliers", h.Supplier.CreateSupplier)
	protected.Get("/suppliers/:id", h.Supplier.GetSupplier)
	protected.Put("/suppliers/:id", h.Supplier.UpdateSupplier)
	protected.Delete("/suppliers/:id", h.Supplier.DeleteSupplier)

	protected.Get("/subscription", h.Subscription.GetStatus)
	protected.Get("/subscription/payments", h.Subscription.GetPayments)
	protected.Post("/subscription/payments", h.Subscription.SubmitPayment)
	protected.Get("/uploads/:filename", h.Subscription.GetScreenshot)

	// ============ ADMIN ROUTES ============
	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/users", h.User.GetUsers)
	admin.Get("/users/:id", h.User.GetUser)
	admin.Put("/users/:id", h.User.UpdateUser)
	admin.Delete("/users/:id", h.User.DeleteUser)
	admin.Post("/users/:id/cancel-subscription", h.User.CancelSubscription)
	admin.Get("/payments", h.Subscription.GetPendingPayments)
	admin.Post("/payments/:id/approve", h.Subscription.ApprovePayment)
	admin.Post("/payments/:id/reject", h.Subscription.RejectPayment)

	// WebSocket Route
	if h.WS != nil {
		app.Get("/ws", requireAuth, h.WS.Upgrade, h.WS.Serve())
	}
}
