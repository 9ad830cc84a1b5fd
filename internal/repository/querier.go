package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Querier interface {
	// Users and sessions
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByPublicID(ctx context.Context, publicID uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error)
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
	MarkUserEmailVerified(ctx context.Context, id int64) error
	DeactivateUser(ctx context.Context, id int64) (int64, error)
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) (int64, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)

	// Addresses
	CreateAddress(ctx context.Context, arg CreateAddressParams) (Address, error)
	UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error)
	GetAddressByPublicID(ctx context.Context, publicID uuid.UUID) (Address, error)
	ListAddressesForUser(ctx context.Context, userID int64) ([]Address, error)
	ClearDefaultAddress(ctx context.Context, userID int64) error
	DeleteAddress(ctx context.Context, id int64) error

	// One-time codes
	CreateEmailVerification(ctx context.Context, arg CreateCodeParams) (OneTimeCode, error)
	GetLatestEmailVerification(ctx context.Context, userID int64) (OneTimeCode, error)
	MarkEmailVerificationUsed(ctx context.Context, id int64) (int64, error)
	CreatePasswordReset(ctx context.Context, arg CreateCodeParams) (OneTimeCode, error)
	GetLatestPasswordReset(ctx context.Context, userID int64) (OneTimeCode, error)
	MarkPasswordResetUsed(ctx context.Context, id int64) (int64, error)
	DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error)

	// Categories and tags
	CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error)
	UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	GetCategoryByPublicID(ctx context.Context, publicID uuid.UUID) (Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	ListCategoriesCursor(ctx context.Context, arg CursorParams) ([]Category, error)
	ListCategoriesPage(ctx context.Context, arg PageParams) ([]Category, error)
	CountCategories(ctx context.Context) (int64, error)
	CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error)
	UpdateTag(ctx context.Context, arg UpdateTagParams) (Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	GetTagBySlug(ctx context.Context, slug string) (Tag, error)
	GetTagByPublicID(ctx context.Context, publicID uuid.UUID) (Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListTagsForProduct(ctx context.Context, productID int64) ([]Tag, error)
	AddProductTag(ctx context.Context, arg AddProductTagParams) error
	DeleteProductTags(ctx context.Context, productID int64) error

	// Products
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProductByID(ctx context.Context, id int64) (Product, error)
	GetProductByPublicID(ctx context.Context, publicID uuid.UUID) (Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	ListProductsCursor(ctx context.Context, arg ListProductsParams) ([]Product, error)
	UpdateProductRating(ctx context.Context, arg UpdateProductRatingParams) error

	// Registered carts
	GetActiveCartByUserID(ctx context.Context, userID int64) (Cart, error)
	GetCartByPublicID(ctx context.Context, publicID uuid.UUID) (Cart, error)
	GetCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (Cart, error)
	CreateCart(ctx context.Context, userID int64) (Cart, error)
	ListCartItems(ctx context.Context, cartID int64) ([]CartLine, error)
	GetCartItem(ctx context.Context, arg GetCartItemParams) (CartItem, error)
	CreateCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error)
	DeleteCartItem(ctx context.Context, id int64) error
	ClearCartItems(ctx context.Context, cartID int64) (int64, error)

	// Guest carts
	CreateGuestCart(ctx context.Context, arg CreateGuestCartParams) (GuestCart, error)
	GetGuestCartByToken(ctx context.Context, token string) (GuestCart, error)
	GetGuestCartByPublicID(ctx context.Context, publicID uuid.UUID) (GuestCart, error)
	GetGuestCartByTokenForUpdate(ctx context.Context, token string) (GuestCart, error)
	GetGuestCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (GuestCart, error)
	UpdateGuestCartExpiry(ctx context.Context, arg UpdateGuestCartExpiryParams) error
	ListGuestCartItems(ctx context.Context, guestCartID int64) ([]CartLine, error)
	GetGuestCartItem(ctx context.Context, arg GetCartItemParams) (CartItem, error)
	CreateGuestCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error)
	UpdateGuestCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error)
	DeleteGuestCartItem(ctx context.Context, id int64) error
	DeleteGuestCartItems(ctx context.Context, guestCartID int64) (int64, error)
	DeleteGuestCart(ctx context.Context, id int64) (int64, error)
	DeleteExpiredGuestCarts(ctx context.Context, before time.Time) (int64, error)

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	GetOrderByPublicID(ctx context.Context, publicID uuid.UUID) (Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]CartLine, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)
	ListOrdersByUserCursor(ctx context.Context, arg ListOrdersByUserParams) ([]Order, error)
	ListOrdersPage(ctx context.Context, arg ListOrdersPageParams) ([]Order, error)
	CountOrders(ctx context.Context, status string) (int64, error)

	// Reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)
	GetReviewByPublicID(ctx context.Context, publicID uuid.UUID) (Review, error)
	GetReviewByUserAndProduct(ctx context.Context, arg GetReviewByUserAndProductParams) (Review, error)
	GetProductReviewStats(ctx context.Context, productID int64) (ReviewStats, error)
	ListReviewsCursor(ctx context.Context, arg ListByProductParams) ([]ReviewRow, error)
	SetReviewApproval(ctx context.Context, arg SetReviewApprovalParams) (Review, error)

	// Comments
	CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error)
	GetCommentByID(ctx context.Context, id int64) (Comment, error)
	GetCommentByPublicID(ctx context.Context, publicID uuid.UUID) (Comment, error)
	ListTopLevelCommentsCursor(ctx context.Context, arg ListByProductParams) ([]CommentRow, error)
	ListRepliesForComments(ctx context.Context, parentIDs []int64) ([]CommentRow, error)
	SoftDeleteComment(ctx context.Context, id int64) error
	UpdateCommentBody(ctx context.Context, arg UpdateCommentBodyParams) (Comment, error)
	UpsertCommentReaction(ctx context.Context, arg UpsertCommentReactionParams) error

	// Wishlists
	GetWishlistByUserID(ctx context.Context, userID int64) (Wishlist, error)
	CreateWishlist(ctx context.Context, userID int64) (Wishlist, error)
	ListWishlistItems(ctx context.Context, wishlistID int64) ([]WishlistItemRow, error)
	GetWishlistItem(ctx context.Context, arg GetWishlistItemParams) (WishlistItem, error)
	CreateWishlistItem(ctx context.Context, arg GetWishlistItemParams) (WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, id int64) error
}

var _ Querier = (*Queries)(nil)
