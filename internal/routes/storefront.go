package routes

import (
	"github.com/dukerupert/shopery/internal/middleware"
	"github.com/dukerupert/shopery/internal/router"
)

// RegisterStorefrontRoutes registers the public catalog, guest cart and
// checkout routes plus everything a signed-in customer can do.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Authentication, rate limited more strictly than the rest
	var authLimit []router.Middleware
	if deps.AuthRateLimit != nil {
		authLimit = append(authLimit, deps.AuthRateLimit)
	}
	r.Post("/api/auth/register", deps.AuthHandler.Register, authLimit...)
	r.Post("/api/auth/login", deps.AuthHandler.Login, authLimit...)
	r.Post("/api/auth/logout", deps.AuthHandler.Logout)
	r.Post("/api/auth/verify-email", deps.RecoveryHandler.VerifyEmail, authLimit...)
	r.Post("/api/auth/verify-email/resend", deps.RecoveryHandler.ResendVerification, authLimit...)
	r.Post("/api/auth/password/forgot", deps.RecoveryHandler.ForgotPassword, authLimit...)
	r.Post("/api/auth/password/reset", deps.RecoveryHandler.ResetPassword, authLimit...)

	// Catalog
	r.Get("/api/products", deps.CatalogHandler.ListProducts)
	r.Get("/api/products/{id}", deps.CatalogHandler.GetProduct)
	r.Get("/api/products/slug/{slug}", deps.CatalogHandler.GetProductBySlug)
	r.Get("/api/categories", deps.CatalogHandler.ListCategories)
	r.Get("/api/categories/{slug}", deps.CatalogHandler.GetCategory)
	r.Get("/api/tags", deps.CatalogHandler.ListTags)

	// Engagement (read)
	r.Get("/api/products/{id}/reviews", deps.ReviewHandler.List)
	r.Get("/api/products/{id}/comments", deps.CommentHandler.List)

	// Guest cart
	r.Post("/api/guest-cart", deps.GuestCartHandler.Create)
	r.Get("/api/guest-cart", deps.GuestCartHandler.View)
	r.Delete("/api/guest-cart", deps.GuestCartHandler.Clear)
	r.Post("/api/guest-cart/items", deps.GuestCartHandler.Add)
	r.Patch("/api/guest-cart/items/{productId}", deps.GuestCartHandler.Update)
	r.Delete("/api/guest-cart/items/{productId}", deps.GuestCartHandler.Remove)

	// Checkout accepts guests and customers
	r.Post("/api/checkout", deps.CheckoutHandler.Checkout)

	// Customer routes (require authentication)
	account := r.Group(middleware.RequireAuth)
	account.Get("/api/me", deps.AccountHandler.Me)
	account.Patch("/api/me", deps.AccountHandler.UpdateMe)
	account.Delete("/api/me", deps.AccountHandler.Deactivate)
	account.Get("/api/me/addresses", deps.AccountHandler.ListAddresses)
	account.Post("/api/me/addresses", deps.AccountHandler.AddAddress)
	account.Patch("/api/me/addresses/{id}", deps.AccountHandler.UpdateAddress)
	account.Delete("/api/me/addresses/{id}", deps.AccountHandler.DeleteAddress)

	account.Get("/api/cart", deps.CartHandler.View)
	account.Delete("/api/cart", deps.CartHandler.Clear)
	account.Post("/api/cart/items", deps.CartHandler.Add)
	account.Patch("/api/cart/items/{productId}", deps.CartHandler.Update)
	account.Delete("/api/cart/items/{productId}", deps.CartHandler.Remove)

	account.Get("/api/orders", deps.OrderHandler.List)
	account.Get("/api/orders/{id}", deps.OrderHandler.Get)
	account.Post("/api/orders/{id}/cancel", deps.OrderHandler.Cancel)

	account.Post("/api/reviews", deps.ReviewHandler.Create)
	account.Post("/api/comments", deps.CommentHandler.Create)
	account.Delete("/api/comments/{id}", deps.CommentHandler.Delete)
	account.Post("/api/comments/{id}/reactions", deps.CommentHandler.React)

	account.Get("/api/wishlist", deps.WishlistHandler.View)
	account.Post("/api/wishlist/items", deps.WishlistHandler.Add)
	account.Delete("/api/wishlist/items/{productId}", deps.WishlistHandler.Remove)
}
