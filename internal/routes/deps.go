package routes

import (
	"github.com/dukerupert/shopery/internal/handler/admin"
	"github.com/dukerupert/shopery/internal/handler/storefront"
	"github.com/dukerupert/shopery/internal/router"
)

// StorefrontDeps contains dependencies for the public and customer routes
type StorefrontDeps struct {
	// Auth (register, login, logout)
	AuthHandler *storefront.AuthHandler

	// Email verification and password reset
	RecoveryHandler *storefront.RecoveryHandler

	// Profile, addresses and deactivation
	AccountHandler *storefront.AccountHandler

	// Products, categories and tags
	CatalogHandler *storefront.CatalogHandler

	// Reviews and comments
	ReviewHandler  *storefront.ReviewHandler
	CommentHandler *storefront.CommentHandler

	// Carts
	CartHandler      *storefront.CartHandler
	GuestCartHandler *storefront.GuestCartHandler

	// Checkout and orders
	CheckoutHandler *storefront.CheckoutHandler
	OrderHandler    *storefront.OrderHandler

	WishlistHandler *storefront.WishlistHandler

	// AuthRateLimit guards register, login and the one-time code routes.
	// Optional.
	AuthRateLimit router.Middleware
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	ProductHandler    *admin.ProductHandler
	CategoryHandler   *admin.CategoryHandler
	OrderHandler      *admin.OrderHandler
	ModerationHandler *admin.ModerationHandler
}
