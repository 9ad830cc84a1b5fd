package storefront

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/service"
)

// mockUserService implements service.UserService for testing
type mockUserService struct {
	registerFunc func(ctx context.Context, params service.RegisterParams, guestToken string) (*domain.AuthResult, error)
	loginFunc    func(ctx context.Context, email, password, guestToken string) (*domain.AuthResult, error)
	logoutFunc   func(ctx context.Context, token string) error
}

func (m *mockUserService) Register(ctx context.Context, params service.RegisterParams, guestToken string) (*domain.AuthResult, error) {
	return m.registerFunc(ctx, params, guestToken)
}

func (m *mockUserService) Login(ctx context.Context, email, password, guestToken string) (*domain.AuthResult, error) {
	return m.loginFunc(ctx, email, password, guestToken)
}

func (m *mockUserService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

func (m *mockUserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrAuthRequired
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int64, params service.UpdateProfileParams) (*domain.User, error) {
	return &domain.User{ID: userID, FirstName: params.FirstName, LastName: params.LastName}, nil
}

// mockCartService implements service.CartService for testing
type mockCartService struct {
	addItemFunc func(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error)
}

func (m *mockCartService) GetOrCreate(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	return &domain.CartSummary{Items: []domain.LineItem{}}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	return m.addItemFunc(ctx, userID, productID, quantity)
}

func (m *mockCartService) UpdateItemQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID int64, productID uuid.UUID) (*domain.CartSummary, error) {
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) Clear(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	return &domain.CartSummary{}, nil
}

// mockGuestCartService implements service.GuestCartService for testing
type mockGuestCartService struct {
	addItemFunc    func(ctx context.Context, token string, productID uuid.UUID, quantity int32, client domain.ClientContext) (*domain.CartSummary, error)
	getByTokenFunc func(ctx context.Context, token string) (*domain.CartSummary, error)
}

func (m *mockGuestCartService) Create(ctx context.Context, client domain.ClientContext) (*domain.CartSummary, error) {
	return &domain.CartSummary{GuestCart: &domain.GuestCart{Token: "new-token"}}, nil
}

func (m *mockGuestCartService) GetByToken(ctx context.Context, token string) (*domain.CartSummary, error) {
	return m.getByTokenFunc(ctx, token)
}

func (m *mockGuestCartService) AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int32, client domain.ClientContext) (*domain.CartSummary, error) {
	return m.addItemFunc(ctx, token, productID, quantity, client)
}

func (m *mockGuestCartService) UpdateItemQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	return &domain.CartSummary{}, nil
}

func (m *mockGuestCartService) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*domain.CartSummary, error) {
	return &domain.CartSummary{}, nil
}

func (m *mockGuestCartService) Clear(ctx context.Context, token string) error {
	return nil
}

// mockCheckoutService implements service.CheckoutService for testing
type mockCheckoutService struct {
	checkoutFunc func(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
	return m.checkoutFunc(ctx, params)
}

// mockReviewService implements service.ReviewService for testing
type mockReviewService struct {
	createFunc func(ctx context.Context, userID int64, params service.CreateReviewParams) (*domain.Review, error)
	listFunc   func(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Review], error)
}

func (m *mockReviewService) Create(ctx context.Context, userID int64, params service.CreateReviewParams) (*domain.Review, error) {
	return m.createFunc(ctx, userID, params)
}

func (m *mockReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Page[domain.Review], error) {
	return m.listFunc(ctx, productID, params)
}

func (m *mockReviewService) SetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*domain.Review, error) {
	return nil, nil
}

// mockProductService implements service.ProductService for testing
type mockProductService struct {
	listFunc func(ctx context.Context, filter service.ProductFilter, params pagination.Params) (pagination.Page[domain.Product], error)
}

func (m *mockProductService) List(ctx context.Context, filter service.ProductFilter, params pagination.Params) (pagination.Page[domain.Product], error) {
	return m.listFunc(ctx, filter, params)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) GetBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) Create(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	return nil, nil
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, input service.ProductInput) (*domain.Product, error) {
	return nil, nil
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// mockAccountService implements service.AccountService for testing
type mockAccountService struct {
	addFunc        func(ctx context.Context, userID int64, input service.AddressInput) (*domain.Address, error)
	updateFunc     func(ctx context.Context, userID int64, addressID uuid.UUID, patch service.AddressPatch) (*domain.Address, error)
	deleteFunc     func(ctx context.Context, userID int64, addressID uuid.UUID) error
	deactivateFunc func(ctx context.Context, userID int64) error
}

func (m *mockAccountService) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	return []domain.Address{}, nil
}

func (m *mockAccountService) AddAddress(ctx context.Context, userID int64, input service.AddressInput) (*domain.Address, error) {
	return m.addFunc(ctx, userID, input)
}

func (m *mockAccountService) UpdateAddress(ctx context.Context, userID int64, addressID uuid.UUID, patch service.AddressPatch) (*domain.Address, error) {
	return m.updateFunc(ctx, userID, addressID, patch)
}

func (m *mockAccountService) DeleteAddress(ctx context.Context, userID int64, addressID uuid.UUID) error {
	return m.deleteFunc(ctx, userID, addressID)
}

func (m *mockAccountService) Deactivate(ctx context.Context, userID int64) error {
	return m.deactivateFunc(ctx, userID)
}

// mockVerificationService implements service.EmailVerificationService for testing
type mockVerificationService struct {
	verifyFunc func(ctx context.Context, email, code string) error
	resendFunc func(ctx context.Context, email string) error
}

func (m *mockVerificationService) SendCode(ctx context.Context, user *domain.User) error {
	return nil
}

func (m *mockVerificationService) Verify(ctx context.Context, email, code string) error {
	return m.verifyFunc(ctx, email, code)
}

func (m *mockVerificationService) Resend(ctx context.Context, email string) error {
	return m.resendFunc(ctx, email)
}

// mockPasswordResetService implements service.PasswordResetService for testing
type mockPasswordResetService struct {
	requestFunc func(ctx context.Context, email string) error
	resetFunc   func(ctx context.Context, params service.ResetPasswordParams) error
}

func (m *mockPasswordResetService) Request(ctx context.Context, email string) error {
	return m.requestFunc(ctx, email)
}

func (m *mockPasswordResetService) Reset(ctx context.Context, params service.ResetPasswordParams) error {
	return m.resetFunc(ctx, params)
}
