package routes

import (
	"github.com/dukerupert/shopery/internal/middleware"
	"github.com/dukerupert/shopery/internal/router"
)

// RegisterAdminRoutes registers the catalog, order and moderation routes.
// All routes are protected by admin authentication middleware.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Product management
	admin.Get("/api/admin/products", deps.ProductHandler.List)
	admin.Post("/api/admin/products", deps.ProductHandler.Create)
	admin.Get("/api/admin/products/{id}", deps.ProductHandler.Get)
	admin.Put("/api/admin/products/{id}", deps.ProductHandler.Update)
	admin.Delete("/api/admin/products/{id}", deps.ProductHandler.Delete)

	// Categories and tags
	admin.Get("/api/admin/categories", deps.CategoryHandler.ListCategories)
	admin.Post("/api/admin/categories", deps.CategoryHandler.CreateCategory)
	admin.Put("/api/admin/categories/{id}", deps.CategoryHandler.UpdateCategory)
	admin.Delete("/api/admin/categories/{id}", deps.CategoryHandler.DeleteCategory)
	admin.Post("/api/admin/tags", deps.CategoryHandler.CreateTag)
	admin.Put("/api/admin/tags/{id}", deps.CategoryHandler.UpdateTag)
	admin.Delete("/api/admin/tags/{id}", deps.CategoryHandler.DeleteTag)

	// Order management
	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get)
	admin.Patch("/api/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
	admin.Post("/api/admin/orders/{id}/cancel", deps.OrderHandler.Cancel)

	// Moderation
	admin.Patch("/api/admin/reviews/{id}/approval", deps.ModerationHandler.SetReviewApproval)
	admin.Patch("/api/admin/comments/{id}", deps.ModerationHandler.UpdateComment)
}
