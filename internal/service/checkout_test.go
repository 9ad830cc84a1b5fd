package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopery/internal/domain"
)

// checkoutFixture is a customer with A x2 @ $10 and B x1 @ $5 in their cart.
type checkoutFixture struct {
	deps     Deps
	store    *fakeStore
	notifier *fakeNotifier
	user     int64
	cart     *domain.CartSummary
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	deps, store, notifier := testDeps(t)
	carts := NewCartService(deps)
	ctx := context.Background()

	user := store.addUser(t, "ada@example.com", domain.RoleCustomer)
	a := store.addProduct(t, "Product A", "10.00", 10)
	b := store.addProduct(t, "Product B", "5.00", 10)

	_, err := carts.AddItem(ctx, user.ID, a.PublicID, 2)
	require.NoError(t, err)
	summary, err := carts.AddItem(ctx, user.ID, b.PublicID, 1)
	require.NoError(t, err)

	return &checkoutFixture{deps: deps, store: store, notifier: notifier, user: user.ID, cart: summary}
}

func (f *checkoutFixture) params() domain.CheckoutParams {
	cartID := f.cart.Cart.PublicID
	return domain.CheckoutParams{UserID: &f.user, CartID: &cartID}
}

func TestCheckout_RegisteredCartExactlyOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, f.params())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, dec("25.00").Equal(order.Total), "total = %s", order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "ada@example.com", order.Email)
	assert.Len(t, f.store.st.orderItems, 2)
	assert.Empty(t, f.store.st.cartItems)

	cart := f.store.st.carts[f.cart.Cart.ID]
	assert.Equal(t, string(domain.CartStatusActive), cart.Status)

	_, err = svc.Checkout(ctx, f.params())
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Len(t, f.store.st.orders, 1)

	assert.Equal(t, []string{domain.TemplateOrderConfirmation}, f.notifier.templates())
}

func TestCheckout_SourceValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	cartID := f.cart.Cart.PublicID
	guestID := uuid.New()

	tests := []struct {
		name   string
		params domain.CheckoutParams
	}{
		{"neither", domain.CheckoutParams{UserID: &f.user}},
		{"both", domain.CheckoutParams{UserID: &f.user, CartID: &cartID, GuestCartID: &guestID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.params)
			assert.ErrorIs(t, err, domain.ErrCheckoutSource)
		})
	}
}

func TestCheckout_RegisteredCartOfAnotherUser(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	other := f.store.addUser(t, "eve@example.com", domain.RoleCustomer)

	params := f.params()
	params.UserID = &other.ID
	_, err := svc.Checkout(context.Background(), params)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.Len(t, f.store.st.cartItems, 2)
}

func TestCheckout_ClientTotalMismatchUsesComputedTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)

	params := f.params()
	params.Total = dec("1.00")
	order, err := svc.Checkout(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, dec("25.00").Equal(order.Total))
}

func TestCheckout_FailureLeavesNoPartialOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	f.store.failOn["CreateOrderItem"] = errInjected

	_, err := svc.Checkout(context.Background(), f.params())
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))

	assert.Empty(t, f.store.st.orders)
	assert.Empty(t, f.store.st.orderItems)
	assert.Len(t, f.store.st.cartItems, 2)
	assert.Empty(t, f.notifier.sent)
}

func TestCheckout_NotificationFailureDoesNotFailCheckout(t *testing.T) {
	f := newCheckoutFixture(t)
	f.notifier.err = errInjected
	svc := NewCheckoutService(f.deps)

	order, err := svc.Checkout(context.Background(), f.params())
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestCheckout_GuestCart(t *testing.T) {
	deps, store, notifier := testDeps(t)
	svc := NewCheckoutService(deps)
	ctx := context.Background()
	a := store.addProduct(t, "Product A", "10.00", 10)
	guest := store.addGuestCart(t, "guest-token", store.now.Add(time.Hour))
	store.addGuestItem(t, guest, a, 3)

	params := domain.CheckoutParams{GuestCartID: &guest.PublicID, GuestToken: "wrong"}
	_, err := svc.Checkout(ctx, params)
	assert.ErrorIs(t, err, domain.ErrGuestTokenMismatch)

	params.GuestToken = "guest-token"
	_, err = svc.Checkout(ctx, params)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, domain.GetValidationFields(err), "email")

	params.Email = "  Guest@Example.com "
	order, err := svc.Checkout(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, "guest@example.com", order.Email)
	assert.Nil(t, order.UserID)
	assert.True(t, dec("30.00").Equal(order.Total))
	assert.Empty(t, store.st.guestCarts)
	assert.Empty(t, store.st.guestItems)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "guest@example.com", notifier.sent[0].To)

	_, err = svc.Checkout(ctx, params)
	assert.ErrorIs(t, err, domain.ErrGuestCartNotFound)
}

func TestCheckout_ConcurrentCheckoutOfSameCartCreatesOneOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	ctx := context.Background()

	var competing *domain.Order
	f.store.hooks["ClearCartItems"] = func() {
		f.store.concurrently(func() {
			var err error
			competing, err = svc.Checkout(ctx, f.params())
			require.NoError(t, err)
		})
	}

	_, err := svc.Checkout(ctx, f.params())
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	require.NotNil(t, competing)
	require.Len(t, f.store.st.orders, 1)
	assert.Contains(t, f.store.st.orders, competing.ID)
	assert.Len(t, f.store.st.orderItems, 2)
	assert.Empty(t, f.store.st.cartItems)
	assert.Contains(t, f.store.locks, "cart:"+f.cart.Cart.PublicID.String())
}

func TestCheckout_LineAddedAfterSnapshotRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	svc := NewCheckoutService(f.deps)
	carts := NewCartService(f.deps)
	ctx := context.Background()
	c := f.store.addProduct(t, "Product C", "7.00", 10)

	f.store.hooks["ClearCartItems"] = func() {
		f.store.concurrently(func() {
			_, err := carts.AddItem(ctx, f.user, c.PublicID, 1)
			require.NoError(t, err)
		})
	}

	_, err := svc.Checkout(ctx, f.params())
	assert.ErrorIs(t, err, domain.ErrCartChanged)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	assert.Empty(t, f.store.st.orders)
	assert.Len(t, f.store.st.cartItems, 3)
}

func TestCheckout_ConcurrentGuestCheckoutCreatesOneOrder(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewCheckoutService(deps)
	ctx := context.Background()
	a := store.addProduct(t, "Product A", "10.00", 10)
	guest := store.addGuestCart(t, "guest-token", store.now.Add(time.Hour))
	store.addGuestItem(t, guest, a, 3)

	params := domain.CheckoutParams{GuestCartID: &guest.PublicID, GuestToken: "guest-token", Email: "guest@example.com"}
	store.hooks["DeleteGuestCartItems"] = func() {
		store.concurrently(func() {
			_, err := svc.Checkout(ctx, params)
			require.NoError(t, err)
		})
	}

	_, err := svc.Checkout(ctx, params)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Len(t, store.st.orders, 1)
	assert.Empty(t, store.st.guestCarts)
	assert.Contains(t, store.locks, "guest_cart:"+guest.PublicID.String())
}
