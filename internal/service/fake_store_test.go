package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
	"github.com/dukerupert/shopery/internal/telemetry"
)

// ============================================================================
// In-memory store
// ============================================================================

// fakeState holds every table. Values are stored by value so that clone
// gives ExecTx an independent copy to roll back to.
type fakeState struct {
	seq int64

	users         map[int64]repository.User
	sessions      map[string]repository.Session
	categories    map[int64]repository.Category
	tags          map[int64]repository.Tag
	productTags   map[[2]int64]bool
	products      map[int64]repository.Product
	carts         map[int64]repository.Cart
	cartItems     map[int64]repository.CartItem
	guestCarts    map[int64]repository.GuestCart
	guestItems    map[int64]repository.CartItem
	orders        map[int64]repository.Order
	orderItems    map[int64]repository.OrderItem
	reviews       map[int64]repository.Review
	comments      map[int64]repository.Comment
	reactions     map[[2]int64]string
	wishlists     map[int64]repository.Wishlist
	wishlistItems map[int64]repository.WishlistItem
	addresses     map[int64]repository.Address
	verifications map[int64]repository.OneTimeCode
	resets        map[int64]repository.OneTimeCode
}

func newFakeState() *fakeState {
	return &fakeState{
		users:         map[int64]repository.User{},
		sessions:      map[string]repository.Session{},
		categories:    map[int64]repository.Category{},
		tags:          map[int64]repository.Tag{},
		productTags:   map[[2]int64]bool{},
		products:      map[int64]repository.Product{},
		carts:         map[int64]repository.Cart{},
		cartItems:     map[int64]repository.CartItem{},
		guestCarts:    map[int64]repository.GuestCart{},
		guestItems:    map[int64]repository.CartItem{},
		orders:        map[int64]repository.Order{},
		orderItems:    map[int64]repository.OrderItem{},
		reviews:       map[int64]repository.Review{},
		comments:      map[int64]repository.Comment{},
		reactions:     map[[2]int64]string{},
		wishlists:     map[int64]repository.Wishlist{},
		wishlistItems: map[int64]repository.WishlistItem{},
		addresses:     map[int64]repository.Address{},
		verifications: map[int64]repository.OneTimeCode{},
		resets:        map[int64]repository.OneTimeCode{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *fakeState) clone() *fakeState {
	return &fakeState{
		seq:           st.seq,
		users:         cloneMap(st.users),
		sessions:      cloneMap(st.sessions),
		categories:    cloneMap(st.categories),
		tags:          cloneMap(st.tags),
		productTags:   cloneMap(st.productTags),
		products:      cloneMap(st.products),
		carts:         cloneMap(st.carts),
		cartItems:     cloneMap(st.cartItems),
		guestCarts:    cloneMap(st.guestCarts),
		guestItems:    cloneMap(st.guestItems),
		orders:        cloneMap(st.orders),
		orderItems:    cloneMap(st.orderItems),
		reviews:       cloneMap(st.reviews),
		comments:      cloneMap(st.comments),
		reactions:     cloneMap(st.reactions),
		wishlists:     cloneMap(st.wishlists),
		wishlistItems: cloneMap(st.wishlistItems),
		addresses:     cloneMap(st.addresses),
		verifications: cloneMap(st.verifications),
		resets:        cloneMap(st.resets),
	}
}

// fakeStore implements repository.Store in memory. ExecTx runs the callback
// against a copy of the state and keeps it only when the callback succeeds.
// Methods named in failOn return the configured error; a function in hooks
// runs once, just before the named method does its work.
type fakeStore struct {
	repository.Querier

	st     *fakeState
	base   *fakeState // committed state seen by the running transaction
	now    time.Time
	failOn map[string]error
	hooks  map[string]func()
	locks  []string
	txs    int
}

var _ repository.Store = (*fakeStore)(nil)

var errInjected = errors.New("injected storage failure")

func newFakeStore() *fakeStore {
	return &fakeStore{
		st:     newFakeState(),
		now:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		failOn: map[string]error{},
		hooks:  map[string]func(){},
	}
}

func (s *fakeStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	s.txs++
	outer := s.base
	s.base = s.st
	s.st = s.base.clone()
	err := fn(s)
	if err != nil {
		s.st = s.base
	}
	s.base = outer
	return err
}

// concurrently runs fn as if another request committed while the current
// transaction was in flight. Rows that fn deleted disappear from the current
// transaction's view, the way a READ COMMITTED DELETE finds them gone, and
// codes fn marked used are used there too; a rollback of the current
// transaction returns to the state fn committed.
func (s *fakeStore) concurrently(fn func()) {
	inFlight, before := s.st, s.base
	s.st = before
	fn()
	committed := s.st

	dropDeleted(inFlight.cartItems, before.cartItems, committed.cartItems)
	dropDeleted(inFlight.guestItems, before.guestItems, committed.guestItems)
	dropDeleted(inFlight.guestCarts, before.guestCarts, committed.guestCarts)
	takeUsed(inFlight.verifications, committed.verifications)
	takeUsed(inFlight.resets, committed.resets)

	s.base = committed
	s.st = inFlight
}

func dropDeleted[V any](inFlight, before, after map[int64]V) {
	for id := range before {
		if _, ok := after[id]; !ok {
			delete(inFlight, id)
		}
	}
}

func takeUsed(inFlight, committed map[int64]repository.OneTimeCode) {
	for id, c := range committed {
		if c.UsedAt != nil {
			inFlight[id] = c
		}
	}
}

func (s *fakeStore) hook(method string) {
	if h, ok := s.hooks[method]; ok {
		delete(s.hooks, method)
		h()
	}
}

func (s *fakeStore) fail(method string) error {
	return s.failOn[method]
}

// next returns a fresh id and a creation time that increases with it.
func (s *fakeStore) next() (int64, time.Time) {
	s.st.seq++
	return s.st.seq, s.now.Add(time.Duration(s.st.seq) * time.Millisecond)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ============================================================================
// Seeding helpers
// ============================================================================

func (s *fakeStore) addUser(t *testing.T, email string, role domain.Role) repository.User {
	t.Helper()
	id, at := s.next()
	u := repository.User{
		ID:           id,
		PublicID:     uuid.New(),
		Email:        email,
		PasswordHash: "unused",
		FirstName:    strings.Split(email, "@")[0],
		Role:         string(role),
		IsActive:     true,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	s.st.users[id] = u
	return u
}

type productOpt func(*repository.Product)

func withSalePrice(v string) productOpt {
	return func(p *repository.Product) {
		p.SalePrice = decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
	}
}

func inactive() productOpt {
	return func(p *repository.Product) { p.IsActive = false }
}

func withRating(v string) productOpt {
	return func(p *repository.Product) { p.AverageRating = decimal.RequireFromString(v) }
}

func (s *fakeStore) addProduct(t *testing.T, name, price string, stock int32, opts ...productOpt) repository.Product {
	t.Helper()
	id, at := s.next()
	p := repository.Product{
		ID:            id,
		PublicID:      uuid.New(),
		Name:          name,
		Slug:          domain.Slugify(name),
		SKU:           strings.ToUpper(domain.Slugify(name)),
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	for _, opt := range opts {
		opt(&p)
	}
	s.st.products[id] = p
	return p
}

func (s *fakeStore) addCategory(t *testing.T, name string) repository.Category {
	t.Helper()
	id, at := s.next()
	c := repository.Category{ID: id, PublicID: uuid.New(), Name: name, Slug: domain.Slugify(name), CreatedAt: at, UpdatedAt: at}
	s.st.categories[id] = c
	return c
}

func (s *fakeStore) addTag(t *testing.T, name string, products ...repository.Product) repository.Tag {
	t.Helper()
	id, at := s.next()
	tag := repository.Tag{ID: id, PublicID: uuid.New(), Name: name, Slug: domain.Slugify(name), CreatedAt: at, UpdatedAt: at}
	s.st.tags[id] = tag
	for _, p := range products {
		s.st.productTags[[2]int64{p.ID, id}] = true
	}
	return tag
}

// ============================================================================
// Users and sessions
// ============================================================================

func (s *fakeStore) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	if err := s.fail("CreateUser"); err != nil {
		return repository.User{}, err
	}
	for _, u := range s.st.users {
		if u.Email == arg.Email {
			return repository.User{}, uniqueViolation("users_email_key")
		}
	}
	id, at := s.next()
	u := repository.User{
		ID:           id,
		PublicID:     uuid.New(),
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		Role:         arg.Role,
		IsActive:     true,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	s.st.users[id] = u
	return u, nil
}

func (s *fakeStore) GetUserByID(ctx context.Context, id int64) (repository.User, error) {
	if u, ok := s.st.users[id]; ok {
		return u, nil
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) GetUserByPublicID(ctx context.Context, publicID uuid.UUID) (repository.User, error) {
	for _, u := range s.st.users {
		if u.PublicID == publicID {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range s.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) UpdateUserProfile(ctx context.Context, arg repository.UpdateUserProfileParams) (repository.User, error) {
	u, ok := s.st.users[arg.ID]
	if !ok {
		return u, pgx.ErrNoRows
	}
	u.FirstName, u.LastName = arg.FirstName, arg.LastName
	s.st.users[arg.ID] = u
	return u, nil
}

func (s *fakeStore) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	id, at := s.next()
	sess := repository.Session{ID: id, Token: arg.Token, UserID: arg.UserID, ExpiresAt: arg.ExpiresAt, CreatedAt: at}
	s.st.sessions[arg.Token] = sess
	return sess, nil
}

func (s *fakeStore) GetSessionByToken(ctx context.Context, token string) (repository.Session, error) {
	if sess, ok := s.st.sessions[token]; ok {
		return sess, nil
	}
	return repository.Session{}, pgx.ErrNoRows
}

func (s *fakeStore) DeleteSession(ctx context.Context, token string) error {
	delete(s.st.sessions, token)
	return nil
}

func (s *fakeStore) UpdateUserPassword(ctx context.Context, arg repository.UpdateUserPasswordParams) error {
	if err := s.fail("UpdateUserPassword"); err != nil {
		return err
	}
	u := s.st.users[arg.ID]
	u.PasswordHash = arg.PasswordHash
	s.st.users[arg.ID] = u
	return nil
}

func (s *fakeStore) MarkUserEmailVerified(ctx context.Context, id int64) error {
	if err := s.fail("MarkUserEmailVerified"); err != nil {
		return err
	}
	u := s.st.users[id]
	u.EmailVerified = true
	s.st.users[id] = u
	return nil
}

func (s *fakeStore) DeactivateUser(ctx context.Context, id int64) (int64, error) {
	u, ok := s.st.users[id]
	if !ok || !u.IsActive {
		return 0, nil
	}
	u.IsActive = false
	s.st.users[id] = u
	return 1, nil
}

func (s *fakeStore) DeleteUserSessions(ctx context.Context, userID int64) (int64, error) {
	if err := s.fail("DeleteUserSessions"); err != nil {
		return 0, err
	}
	var n int64
	for k, sess := range s.st.sessions {
		if sess.UserID == userID {
			delete(s.st.sessions, k)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for k, sess := range s.st.sessions {
		if sess.ExpiresAt.Before(before) {
			delete(s.st.sessions, k)
			n++
		}
	}
	return n, nil
}

// ============================================================================
// Addresses and one-time codes
// ============================================================================

func (s *fakeStore) CreateAddress(ctx context.Context, arg repository.CreateAddressParams) (repository.Address, error) {
	if err := s.fail("CreateAddress"); err != nil {
		return repository.Address{}, err
	}
	if arg.IsDefault && s.hasDefault(arg.UserID, 0) {
		return repository.Address{}, uniqueViolation("idx_addresses_one_default")
	}
	id, at := s.next()
	a := repository.Address{
		ID:           id,
		PublicID:     uuid.New(),
		UserID:       arg.UserID,
		Label:        arg.Label,
		FullName:     arg.FullName,
		AddressLine1: arg.AddressLine1,
		AddressLine2: arg.AddressLine2,
		City:         arg.City,
		State:        arg.State,
		PostalCode:   arg.PostalCode,
		Country:      arg.Country,
		Phone:        arg.Phone,
		IsDefault:    arg.IsDefault,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	s.st.addresses[id] = a
	return a, nil
}

// hasDefault mirrors the partial unique index on addresses(user_id) WHERE is_default.
func (s *fakeStore) hasDefault(userID, except int64) bool {
	for _, a := range s.st.addresses {
		if a.UserID == userID && a.IsDefault && a.ID != except {
			return true
		}
	}
	return false
}

func (s *fakeStore) UpdateAddress(ctx context.Context, arg repository.UpdateAddressParams) (repository.Address, error) {
	a, ok := s.st.addresses[arg.ID]
	if !ok {
		return a, pgx.ErrNoRows
	}
	if arg.IsDefault && s.hasDefault(a.UserID, a.ID) {
		return repository.Address{}, uniqueViolation("idx_addresses_one_default")
	}
	a.Label, a.FullName, a.Phone = arg.Label, arg.FullName, arg.Phone
	a.AddressLine1, a.AddressLine2 = arg.AddressLine1, arg.AddressLine2
	a.City, a.State, a.PostalCode, a.Country = arg.City, arg.State, arg.PostalCode, arg.Country
	a.IsDefault = arg.IsDefault
	a.UpdatedAt = s.now
	s.st.addresses[arg.ID] = a
	return a, nil
}

func (s *fakeStore) GetAddressByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Address, error) {
	for _, a := range s.st.addresses {
		if a.PublicID == publicID {
			return a, nil
		}
	}
	return repository.Address{}, pgx.ErrNoRows
}

func (s *fakeStore) ListAddressesForUser(ctx context.Context, userID int64) ([]repository.Address, error) {
	var out []repository.Address
	for _, a := range s.st.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) ClearDefaultAddress(ctx context.Context, userID int64) error {
	for id, a := range s.st.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			s.st.addresses[id] = a
		}
	}
	return nil
}

func (s *fakeStore) DeleteAddress(ctx context.Context, id int64) error {
	delete(s.st.addresses, id)
	return nil
}

// Code rows are stamped with the clock itself so throttle arithmetic is exact.
func (s *fakeStore) createCode(table map[int64]repository.OneTimeCode, arg repository.CreateCodeParams) repository.OneTimeCode {
	id, _ := s.next()
	c := repository.OneTimeCode{ID: id, UserID: arg.UserID, CodeHash: arg.CodeHash, ExpiresAt: arg.ExpiresAt, CreatedAt: s.now}
	table[id] = c
	return c
}

func latestCode(table map[int64]repository.OneTimeCode, userID int64) (repository.OneTimeCode, error) {
	var best *repository.OneTimeCode
	for _, c := range table {
		if c.UserID != userID || c.UsedAt != nil {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) || (c.CreatedAt.Equal(best.CreatedAt) && c.ID > best.ID) {
			c := c
			best = &c
		}
	}
	if best == nil {
		return repository.OneTimeCode{}, pgx.ErrNoRows
	}
	return *best, nil
}

func (s *fakeStore) markCode(table map[int64]repository.OneTimeCode, id int64) int64 {
	c, ok := table[id]
	if !ok || c.UsedAt != nil {
		return 0
	}
	now := s.now
	c.UsedAt = &now
	table[id] = c
	return 1
}

func (s *fakeStore) CreateEmailVerification(ctx context.Context, arg repository.CreateCodeParams) (repository.OneTimeCode, error) {
	if err := s.fail("CreateEmailVerification"); err != nil {
		return repository.OneTimeCode{}, err
	}
	return s.createCode(s.st.verifications, arg), nil
}

func (s *fakeStore) GetLatestEmailVerification(ctx context.Context, userID int64) (repository.OneTimeCode, error) {
	return latestCode(s.st.verifications, userID)
}

func (s *fakeStore) MarkEmailVerificationUsed(ctx context.Context, id int64) (int64, error) {
	s.hook("MarkEmailVerificationUsed")
	return s.markCode(s.st.verifications, id), nil
}

func (s *fakeStore) CreatePasswordReset(ctx context.Context, arg repository.CreateCodeParams) (repository.OneTimeCode, error) {
	if err := s.fail("CreatePasswordReset"); err != nil {
		return repository.OneTimeCode{}, err
	}
	return s.createCode(s.st.resets, arg), nil
}

func (s *fakeStore) GetLatestPasswordReset(ctx context.Context, userID int64) (repository.OneTimeCode, error) {
	return latestCode(s.st.resets, userID)
}

func (s *fakeStore) MarkPasswordResetUsed(ctx context.Context, id int64) (int64, error) {
	s.hook("MarkPasswordResetUsed")
	return s.markCode(s.st.resets, id), nil
}

func (s *fakeStore) DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for _, table := range []map[int64]repository.OneTimeCode{s.st.verifications, s.st.resets} {
		for id, c := range table {
			if c.ExpiresAt.Before(before) {
				delete(table, id)
				n++
			}
		}
	}
	return n, nil
}

// ============================================================================
// Catalog
// ============================================================================

func (s *fakeStore) GetCategoryBySlug(ctx context.Context, slug string) (repository.Category, error) {
	for _, c := range s.st.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return repository.Category{}, pgx.ErrNoRows
}

func (s *fakeStore) GetCategoryByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Category, error) {
	for _, c := range s.st.categories {
		if c.PublicID == publicID {
			return c, nil
		}
	}
	return repository.Category{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductByID(ctx context.Context, id int64) (repository.Product, error) {
	if p, ok := s.st.products[id]; ok {
		return p, nil
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Product, error) {
	for _, p := range s.st.products {
		if p.PublicID == publicID {
			return p, nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductBySlug(ctx context.Context, slug string) (repository.Product, error) {
	for _, p := range s.st.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	for _, p := range s.st.products {
		if p.Slug == arg.Slug {
			return repository.Product{}, uniqueViolation("products_slug_key")
		}
		if p.SKU == arg.SKU {
			return repository.Product{}, uniqueViolation("products_sku_key")
		}
	}
	id, at := s.next()
	p := repository.Product{
		ID:               id,
		PublicID:         uuid.New(),
		CategoryID:       arg.CategoryID,
		CategoryPublicID: s.categoryPublicID(arg.CategoryID),
		Name:             arg.Name,
		Slug:             arg.Slug,
		SKU:              arg.SKU,
		Description:      arg.Description,
		Price:            arg.Price,
		SalePrice:        arg.SalePrice,
		StockQuantity:    arg.StockQuantity,
		IsActive:         arg.IsActive,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	s.st.products[id] = p
	return p, nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	p, ok := s.st.products[arg.ID]
	if !ok {
		return p, pgx.ErrNoRows
	}
	for _, other := range s.st.products {
		if other.ID == arg.ID {
			continue
		}
		if other.Slug == arg.Slug {
			return repository.Product{}, uniqueViolation("products_slug_key")
		}
		if other.SKU == arg.SKU {
			return repository.Product{}, uniqueViolation("products_sku_key")
		}
	}
	p.CategoryID, p.CategoryPublicID = arg.CategoryID, s.categoryPublicID(arg.CategoryID)
	p.Name, p.Slug, p.SKU = arg.Name, arg.Slug, arg.SKU
	p.Description, p.Price, p.SalePrice = arg.Description, arg.Price, arg.SalePrice
	p.StockQuantity, p.IsActive = arg.StockQuantity, arg.IsActive
	s.st.products[arg.ID] = p
	return p, nil
}

func (s *fakeStore) DeleteProduct(ctx context.Context, id int64) error {
	delete(s.st.products, id)
	return s.DeleteProductTags(ctx, id)
}

func (s *fakeStore) CreateCategory(ctx context.Context, arg repository.CreateCategoryParams) (repository.Category, error) {
	for _, c := range s.st.categories {
		if c.Slug == arg.Slug {
			return repository.Category{}, uniqueViolation("categories_slug_key")
		}
	}
	id, at := s.next()
	c := repository.Category{ID: id, PublicID: uuid.New(), Name: arg.Name, Slug: arg.Slug, Description: arg.Description, CreatedAt: at, UpdatedAt: at}
	s.st.categories[id] = c
	return c, nil
}

func (s *fakeStore) UpdateCategory(ctx context.Context, arg repository.UpdateCategoryParams) (repository.Category, error) {
	c, ok := s.st.categories[arg.ID]
	if !ok {
		return c, pgx.ErrNoRows
	}
	for _, other := range s.st.categories {
		if other.ID != arg.ID && other.Slug == arg.Slug {
			return repository.Category{}, uniqueViolation("categories_slug_key")
		}
	}
	c.Name, c.Slug, c.Description = arg.Name, arg.Slug, arg.Description
	s.st.categories[arg.ID] = c
	return c, nil
}

func (s *fakeStore) categoryPublicID(id *int64) *uuid.UUID {
	if id == nil {
		return nil
	}
	c, ok := s.st.categories[*id]
	if !ok {
		return nil
	}
	return &c.PublicID
}

// DeleteCategory mirrors ON DELETE SET NULL on products.category_id.
func (s *fakeStore) DeleteCategory(ctx context.Context, id int64) error {
	delete(s.st.categories, id)
	for pid, p := range s.st.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID, p.CategoryPublicID = nil, nil
			s.st.products[pid] = p
		}
	}
	return nil
}

func (s *fakeStore) ListCategoriesCursor(ctx context.Context, arg repository.CursorParams) ([]repository.Category, error) {
	var rows []repository.Category
	for _, c := range s.st.categories {
		rows = append(rows, c)
	}
	return keysetPage(rows, func(c repository.Category) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.PublicID}
	}, arg), nil
}

func (s *fakeStore) ListCategoriesPage(ctx context.Context, arg repository.PageParams) ([]repository.Category, error) {
	var rows []repository.Category
	for _, c := range s.st.categories {
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	if int(arg.Offset) >= len(rows) {
		return nil, nil
	}
	rows = rows[arg.Offset:]
	if len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return rows, nil
}

func (s *fakeStore) CountCategories(ctx context.Context) (int64, error) {
	return int64(len(s.st.categories)), nil
}

func (s *fakeStore) CreateTag(ctx context.Context, arg repository.CreateTagParams) (repository.Tag, error) {
	for _, t := range s.st.tags {
		if t.Slug == arg.Slug {
			return repository.Tag{}, uniqueViolation("tags_slug_key")
		}
	}
	id, at := s.next()
	t := repository.Tag{ID: id, PublicID: uuid.New(), Name: arg.Name, Slug: arg.Slug, CreatedAt: at, UpdatedAt: at}
	s.st.tags[id] = t
	return t, nil
}

func (s *fakeStore) UpdateTag(ctx context.Context, arg repository.UpdateTagParams) (repository.Tag, error) {
	t, ok := s.st.tags[arg.ID]
	if !ok {
		return t, pgx.ErrNoRows
	}
	t.Name, t.Slug = arg.Name, arg.Slug
	s.st.tags[arg.ID] = t
	return t, nil
}

func (s *fakeStore) DeleteTag(ctx context.Context, id int64) error {
	delete(s.st.tags, id)
	for k := range s.st.productTags {
		if k[1] == id {
			delete(s.st.productTags, k)
		}
	}
	return nil
}

func (s *fakeStore) GetTagBySlug(ctx context.Context, slug string) (repository.Tag, error) {
	for _, t := range s.st.tags {
		if t.Slug == slug {
			return t, nil
		}
	}
	return repository.Tag{}, pgx.ErrNoRows
}

func (s *fakeStore) GetTagByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Tag, error) {
	for _, t := range s.st.tags {
		if t.PublicID == publicID {
			return t, nil
		}
	}
	return repository.Tag{}, pgx.ErrNoRows
}

func (s *fakeStore) ListTags(ctx context.Context) ([]repository.Tag, error) {
	var rows []repository.Tag
	for _, t := range s.st.tags {
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (s *fakeStore) ListTagsForProduct(ctx context.Context, productID int64) ([]repository.Tag, error) {
	var rows []repository.Tag
	for k := range s.st.productTags {
		if k[0] == productID {
			rows = append(rows, s.st.tags[k[1]])
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (s *fakeStore) AddProductTag(ctx context.Context, arg repository.AddProductTagParams) error {
	s.st.productTags[[2]int64{arg.ProductID, arg.TagID}] = true
	return nil
}

func (s *fakeStore) DeleteProductTags(ctx context.Context, productID int64) error {
	for k := range s.st.productTags {
		if k[0] == productID {
			delete(s.st.productTags, k)
		}
	}
	return nil
}

func (s *fakeStore) UpdateProductRating(ctx context.Context, arg repository.UpdateProductRatingParams) error {
	if err := s.fail("UpdateProductRating"); err != nil {
		return err
	}
	p, ok := s.st.products[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.AverageRating, p.ReviewCount = arg.AverageRating, arg.ReviewCount
	s.st.products[arg.ID] = p
	return nil
}

// keysetPage orders rows by (created_at, public_id) and applies the cursor and limit.
func keysetPage[T any](rows []T, key func(T) pagination.Cursor, p repository.CursorParams) []T {
	sort.Slice(rows, func(i, j int) bool {
		c := pagination.Compare(key(rows[i]), key(rows[j]))
		if p.Order == pagination.Asc {
			return c < 0
		}
		return c > 0
	})
	var out []T
	for _, r := range rows {
		if !pagination.Admits(p.After, p.Order, key(r)) {
			continue
		}
		if int32(len(out)) == p.Limit {
			break
		}
		out = append(out, r)
	}
	return out
}

func (s *fakeStore) ListProductsCursor(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	var rows []repository.Product
	for _, p := range s.st.products {
		if arg.ActiveOnly && !p.IsActive {
			continue
		}
		if arg.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *arg.CategoryID) {
			continue
		}
		if arg.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(arg.Search)) {
			continue
		}
		if arg.TagID != nil && !s.st.productTags[[2]int64{p.ID, *arg.TagID}] {
			continue
		}
		if arg.MinPrice != nil && p.Price.LessThan(*arg.MinPrice) {
			continue
		}
		if arg.MaxPrice != nil && p.Price.GreaterThan(*arg.MaxPrice) {
			continue
		}
		if arg.MinRating != nil && p.AverageRating.LessThan(*arg.MinRating) {
			continue
		}
		rows = append(rows, p)
	}
	return keysetPage(rows, func(p repository.Product) pagination.Cursor {
		c := pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.PublicID}
		switch arg.SortKey {
		case repository.ProductSortPrice:
			c.Value = &p.Price
		case repository.ProductSortRating:
			c.Value = &p.AverageRating
		}
		return c
	}, arg.CursorParams), nil
}

// ============================================================================
// Carts
// ============================================================================

func (s *fakeStore) lines(items map[int64]repository.CartItem, cartID int64) []repository.CartLine {
	var out []repository.CartLine
	for _, it := range items {
		if it.CartID != cartID {
			continue
		}
		p := s.st.products[it.ProductID]
		out = append(out, repository.CartLine{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductPublicID: p.PublicID,
			ProductName:     p.Name,
			ProductSlug:     p.Slug,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			CreatedAt:       it.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func findItem(items map[int64]repository.CartItem, cartID, productID int64) (repository.CartItem, error) {
	for _, it := range items {
		if it.CartID == cartID && it.ProductID == productID {
			return it, nil
		}
	}
	return repository.CartItem{}, pgx.ErrNoRows
}

func (s *fakeStore) createItem(items map[int64]repository.CartItem, arg repository.CreateCartItemParams) (repository.CartItem, error) {
	if _, err := findItem(items, arg.CartID, arg.ProductID); err == nil {
		return repository.CartItem{}, uniqueViolation("cart_items_cart_id_product_id_key")
	}
	id, at := s.next()
	it := repository.CartItem{
		ID:        id,
		CartID:    arg.CartID,
		ProductID: arg.ProductID,
		Quantity:  arg.Quantity,
		UnitPrice: arg.UnitPrice,
		CreatedAt: at,
		UpdatedAt: at,
	}
	items[id] = it
	return it, nil
}

func updateItem(items map[int64]repository.CartItem, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	it, ok := items[arg.ID]
	if !ok {
		return it, pgx.ErrNoRows
	}
	it.Quantity = arg.Quantity
	items[arg.ID] = it
	return it, nil
}

func (s *fakeStore) GetActiveCartByUserID(ctx context.Context, userID int64) (repository.Cart, error) {
	for _, c := range s.st.carts {
		if c.UserID == userID && c.Status == string(domain.CartStatusActive) {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (s *fakeStore) GetCartByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Cart, error) {
	for _, c := range s.st.carts {
		if c.PublicID == publicID {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (s *fakeStore) GetCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (repository.Cart, error) {
	s.locks = append(s.locks, "cart:"+publicID.String())
	return s.GetCartByPublicID(ctx, publicID)
}

func (s *fakeStore) CreateCart(ctx context.Context, userID int64) (repository.Cart, error) {
	if c, err := s.GetActiveCartByUserID(ctx, userID); err == nil {
		return c, nil
	}
	id, at := s.next()
	c := repository.Cart{ID: id, PublicID: uuid.New(), UserID: userID, Status: string(domain.CartStatusActive), CreatedAt: at, UpdatedAt: at}
	s.st.carts[id] = c
	return c, nil
}

func (s *fakeStore) ListCartItems(ctx context.Context, cartID int64) ([]repository.CartLine, error) {
	return s.lines(s.st.cartItems, cartID), nil
}

func (s *fakeStore) GetCartItem(ctx context.Context, arg repository.GetCartItemParams) (repository.CartItem, error) {
	return findItem(s.st.cartItems, arg.CartID, arg.ProductID)
}

func (s *fakeStore) CreateCartItem(ctx context.Context, arg repository.CreateCartItemParams) (repository.CartItem, error) {
	if err := s.fail("CreateCartItem"); err != nil {
		return repository.CartItem{}, err
	}
	return s.createItem(s.st.cartItems, arg)
}

func (s *fakeStore) UpdateCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	return updateItem(s.st.cartItems, arg)
}

func (s *fakeStore) DeleteCartItem(ctx context.Context, id int64) error {
	delete(s.st.cartItems, id)
	return nil
}

func (s *fakeStore) ClearCartItems(ctx context.Context, cartID int64) (int64, error) {
	if err := s.fail("ClearCartItems"); err != nil {
		return 0, err
	}
	s.hook("ClearCartItems")
	return deleteItems(s.st.cartItems, cartID), nil
}

func deleteItems(items map[int64]repository.CartItem, cartID int64) int64 {
	var n int64
	for id, it := range items {
		if it.CartID == cartID {
			delete(items, id)
			n++
		}
	}
	return n
}

// ============================================================================
// Guest carts
// ============================================================================

func (s *fakeStore) addGuestCart(t *testing.T, token string, expiresAt time.Time) repository.GuestCart {
	t.Helper()
	g, err := s.CreateGuestCart(context.Background(), repository.CreateGuestCartParams{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func (s *fakeStore) addGuestItem(t *testing.T, g repository.GuestCart, p repository.Product, qty int32) {
	t.Helper()
	_, err := s.createItem(s.st.guestItems, repository.CreateCartItemParams{CartID: g.ID, ProductID: p.ID, Quantity: qty, UnitPrice: toProduct(p).EffectivePrice()})
	if err != nil {
		t.Fatal(err)
	}
}

func (s *fakeStore) CreateGuestCart(ctx context.Context, arg repository.CreateGuestCartParams) (repository.GuestCart, error) {
	id, at := s.next()
	g := repository.GuestCart{
		ID:        id,
		PublicID:  uuid.New(),
		Token:     arg.Token,
		ExpiresAt: arg.ExpiresAt,
		IPAddress: arg.IPAddress,
		UserAgent: arg.UserAgent,
		CreatedAt: at,
		UpdatedAt: at,
	}
	s.st.guestCarts[id] = g
	return g, nil
}

func (s *fakeStore) GetGuestCartByToken(ctx context.Context, token string) (repository.GuestCart, error) {
	for _, g := range s.st.guestCarts {
		if g.Token == token {
			return g, nil
		}
	}
	return repository.GuestCart{}, pgx.ErrNoRows
}

func (s *fakeStore) GetGuestCartByPublicID(ctx context.Context, publicID uuid.UUID) (repository.GuestCart, error) {
	for _, g := range s.st.guestCarts {
		if g.PublicID == publicID {
			return g, nil
		}
	}
	return repository.GuestCart{}, pgx.ErrNoRows
}

func (s *fakeStore) GetGuestCartByTokenForUpdate(ctx context.Context, token string) (repository.GuestCart, error) {
	s.locks = append(s.locks, "guest_cart:"+token)
	return s.GetGuestCartByToken(ctx, token)
}

func (s *fakeStore) GetGuestCartByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (repository.GuestCart, error) {
	s.locks = append(s.locks, "guest_cart:"+publicID.String())
	return s.GetGuestCartByPublicID(ctx, publicID)
}

func (s *fakeStore) UpdateGuestCartExpiry(ctx context.Context, arg repository.UpdateGuestCartExpiryParams) error {
	g, ok := s.st.guestCarts[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	g.ExpiresAt = arg.ExpiresAt
	s.st.guestCarts[arg.ID] = g
	return nil
}

func (s *fakeStore) ListGuestCartItems(ctx context.Context, guestCartID int64) ([]repository.CartLine, error) {
	return s.lines(s.st.guestItems, guestCartID), nil
}

func (s *fakeStore) GetGuestCartItem(ctx context.Context, arg repository.GetCartItemParams) (repository.CartItem, error) {
	return findItem(s.st.guestItems, arg.CartID, arg.ProductID)
}

func (s *fakeStore) CreateGuestCartItem(ctx context.Context, arg repository.CreateCartItemParams) (repository.CartItem, error) {
	return s.createItem(s.st.guestItems, arg)
}

func (s *fakeStore) UpdateGuestCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	return updateItem(s.st.guestItems, arg)
}

func (s *fakeStore) DeleteGuestCartItem(ctx context.Context, id int64) error {
	delete(s.st.guestItems, id)
	return nil
}

func (s *fakeStore) DeleteGuestCartItems(ctx context.Context, guestCartID int64) (int64, error) {
	s.hook("DeleteGuestCartItems")
	return deleteItems(s.st.guestItems, guestCartID), nil
}

func (s *fakeStore) DeleteGuestCart(ctx context.Context, id int64) (int64, error) {
	if err := s.fail("DeleteGuestCart"); err != nil {
		return 0, err
	}
	if _, ok := s.st.guestCarts[id]; !ok {
		return 0, nil
	}
	delete(s.st.guestCarts, id)
	return 1, nil
}

func (s *fakeStore) DeleteExpiredGuestCarts(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for id, g := range s.st.guestCarts {
		if g.ExpiresAt.Before(before) {
			delete(s.st.guestCarts, id)
			n++
		}
	}
	return n, nil
}

// ============================================================================
// Orders
// ============================================================================

func (s *fakeStore) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	if err := s.fail("CreateOrder"); err != nil {
		return repository.Order{}, err
	}
	id, at := s.next()
	o := repository.Order{
		ID:          id,
		PublicID:    uuid.New(),
		UserID:      arg.UserID,
		CartID:      arg.CartID,
		GuestCartID: arg.GuestCartID,
		Email:       arg.Email,
		Status:      arg.Status,
		Total:       arg.Total,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	s.st.orders[id] = o
	return o, nil
}

func (s *fakeStore) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	if err := s.fail("CreateOrderItem"); err != nil {
		return repository.OrderItem{}, err
	}
	id, at := s.next()
	it := repository.OrderItem{ID: id, OrderID: arg.OrderID, ProductID: arg.ProductID, Quantity: arg.Quantity, UnitPrice: arg.UnitPrice, CreatedAt: at}
	s.st.orderItems[id] = it
	return it, nil
}

func (s *fakeStore) GetOrderByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Order, error) {
	for _, o := range s.st.orders {
		if o.PublicID == publicID {
			return o, nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (s *fakeStore) ListOrderItems(ctx context.Context, orderID int64) ([]repository.CartLine, error) {
	var out []repository.CartLine
	for _, it := range s.st.orderItems {
		if it.OrderID != orderID {
			continue
		}
		p := s.st.products[it.ProductID]
		out = append(out, repository.CartLine{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductPublicID: p.PublicID,
			ProductName:     p.Name,
			ProductSlug:     p.Slug,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			CreatedAt:       it.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	o, ok := s.st.orders[arg.ID]
	if !ok {
		return o, pgx.ErrNoRows
	}
	o.Status = arg.Status
	s.st.orders[arg.ID] = o
	return o, nil
}

func (s *fakeStore) ListOrdersByUserCursor(ctx context.Context, arg repository.ListOrdersByUserParams) ([]repository.Order, error) {
	var rows []repository.Order
	for _, o := range s.st.orders {
		if o.UserID != nil && *o.UserID == arg.UserID {
			rows = append(rows, o)
		}
	}
	return keysetPage(rows, func(o repository.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.PublicID}
	}, arg.CursorParams), nil
}

func (s *fakeStore) filteredOrders(status string) []repository.Order {
	var rows []repository.Order
	for _, o := range s.st.orders {
		if status == "" || o.Status == status {
			rows = append(rows, o)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows
}

func (s *fakeStore) ListOrdersPage(ctx context.Context, arg repository.ListOrdersPageParams) ([]repository.Order, error) {
	rows := s.filteredOrders(arg.Status)
	if int(arg.Offset) >= len(rows) {
		return nil, nil
	}
	rows = rows[arg.Offset:]
	if len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return rows, nil
}

func (s *fakeStore) CountOrders(ctx context.Context, status string) (int64, error) {
	return int64(len(s.filteredOrders(status))), nil
}

// ============================================================================
// Reviews
// ============================================================================

func (s *fakeStore) CreateReview(ctx context.Context, arg repository.CreateReviewParams) (repository.Review, error) {
	for _, r := range s.st.reviews {
		if r.UserID == arg.UserID && r.ProductID == arg.ProductID {
			return repository.Review{}, uniqueViolation("reviews_product_id_user_id_key")
		}
	}
	id, at := s.next()
	r := repository.Review{
		ID:         id,
		PublicID:   uuid.New(),
		ProductID:  arg.ProductID,
		UserID:     arg.UserID,
		Rating:     arg.Rating,
		Title:      arg.Title,
		Body:       arg.Body,
		IsApproved: arg.IsApproved,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	s.st.reviews[id] = r
	return r, nil
}

func (s *fakeStore) GetReviewByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Review, error) {
	for _, r := range s.st.reviews {
		if r.PublicID == publicID {
			return r, nil
		}
	}
	return repository.Review{}, pgx.ErrNoRows
}

func (s *fakeStore) GetReviewByUserAndProduct(ctx context.Context, arg repository.GetReviewByUserAndProductParams) (repository.Review, error) {
	for _, r := range s.st.reviews {
		if r.UserID == arg.UserID && r.ProductID == arg.ProductID {
			return r, nil
		}
	}
	return repository.Review{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductReviewStats(ctx context.Context, productID int64) (repository.ReviewStats, error) {
	sum, count := decimal.Zero, int32(0)
	for _, r := range s.st.reviews {
		if r.ProductID == productID && r.IsApproved {
			sum = sum.Add(decimal.NewFromInt32(r.Rating))
			count++
		}
	}
	if count == 0 {
		return repository.ReviewStats{Average: decimal.Zero}, nil
	}
	return repository.ReviewStats{Average: sum.Div(decimal.NewFromInt32(count)).Round(2), Count: count}, nil
}

func (s *fakeStore) ListReviewsCursor(ctx context.Context, arg repository.ListByProductParams) ([]repository.ReviewRow, error) {
	var rows []repository.ReviewRow
	for _, r := range s.st.reviews {
		if r.ProductID != arg.ProductID || !r.IsApproved {
			continue
		}
		u := s.st.users[r.UserID]
		rows = append(rows, repository.ReviewRow{Review: r, UserPublicID: u.PublicID, UserFirstName: u.FirstName})
	}
	return keysetPage(rows, func(r repository.ReviewRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.PublicID}
	}, arg.CursorParams), nil
}

func (s *fakeStore) SetReviewApproval(ctx context.Context, arg repository.SetReviewApprovalParams) (repository.Review, error) {
	r, ok := s.st.reviews[arg.ID]
	if !ok {
		return r, pgx.ErrNoRows
	}
	r.IsApproved = arg.IsApproved
	s.st.reviews[arg.ID] = r
	return r, nil
}

// ============================================================================
// Comments
// ============================================================================

func (s *fakeStore) CreateComment(ctx context.Context, arg repository.CreateCommentParams) (repository.Comment, error) {
	id, at := s.next()
	c := repository.Comment{
		ID:        id,
		PublicID:  uuid.New(),
		ProductID: arg.ProductID,
		UserID:    arg.UserID,
		ParentID:  arg.ParentID,
		Body:      arg.Body,
		CreatedAt: at,
		UpdatedAt: at,
	}
	s.st.comments[id] = c
	return c, nil
}

func (s *fakeStore) GetCommentByID(ctx context.Context, id int64) (repository.Comment, error) {
	if c, ok := s.st.comments[id]; ok {
		return c, nil
	}
	return repository.Comment{}, pgx.ErrNoRows
}

func (s *fakeStore) GetCommentByPublicID(ctx context.Context, publicID uuid.UUID) (repository.Comment, error) {
	for _, c := range s.st.comments {
		if c.PublicID == publicID {
			return c, nil
		}
	}
	return repository.Comment{}, pgx.ErrNoRows
}

func (s *fakeStore) commentRow(c repository.Comment) repository.CommentRow {
	u := s.st.users[c.UserID]
	row := repository.CommentRow{Comment: c, UserPublicID: u.PublicID, UserFirstName: u.FirstName}
	for k, kind := range s.st.reactions {
		if k[0] != c.ID {
			continue
		}
		if kind == string(domain.ReactionLike) {
			row.Likes++
		} else {
			row.Dislikes++
		}
	}
	return row
}

func (s *fakeStore) ListTopLevelCommentsCursor(ctx context.Context, arg repository.ListByProductParams) ([]repository.CommentRow, error) {
	var rows []repository.CommentRow
	for _, c := range s.st.comments {
		if c.ProductID == arg.ProductID && c.ParentID == nil && !c.IsDeleted {
			rows = append(rows, s.commentRow(c))
		}
	}
	return keysetPage(rows, func(c repository.CommentRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.PublicID}
	}, arg.CursorParams), nil
}

func (s *fakeStore) ListRepliesForComments(ctx context.Context, parentIDs []int64) ([]repository.CommentRow, error) {
	want := map[int64]bool{}
	for _, id := range parentIDs {
		want[id] = true
	}
	var rows []repository.CommentRow
	for _, c := range s.st.comments {
		if c.ParentID != nil && want[*c.ParentID] && !c.IsDeleted {
			rows = append(rows, s.commentRow(c))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *fakeStore) SoftDeleteComment(ctx context.Context, id int64) error {
	c, ok := s.st.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.IsDeleted = true
	s.st.comments[id] = c
	return nil
}

func (s *fakeStore) UpdateCommentBody(ctx context.Context, arg repository.UpdateCommentBodyParams) (repository.Comment, error) {
	c, ok := s.st.comments[arg.ID]
	if !ok {
		return c, pgx.ErrNoRows
	}
	c.Body = arg.Body
	s.st.comments[arg.ID] = c
	return c, nil
}

func (s *fakeStore) UpsertCommentReaction(ctx context.Context, arg repository.UpsertCommentReactionParams) error {
	s.st.reactions[[2]int64{arg.CommentID, arg.UserID}] = arg.Kind
	return nil
}

// ============================================================================
// Wishlists
// ============================================================================

func (s *fakeStore) GetWishlistByUserID(ctx context.Context, userID int64) (repository.Wishlist, error) {
	for _, w := range s.st.wishlists {
		if w.UserID == userID {
			return w, nil
		}
	}
	return repository.Wishlist{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateWishlist(ctx context.Context, userID int64) (repository.Wishlist, error) {
	id, at := s.next()
	w := repository.Wishlist{ID: id, PublicID: uuid.New(), UserID: userID, CreatedAt: at}
	s.st.wishlists[id] = w
	return w, nil
}

func (s *fakeStore) ListWishlistItems(ctx context.Context, wishlistID int64) ([]repository.WishlistItemRow, error) {
	var rows []repository.WishlistItemRow
	for _, it := range s.st.wishlistItems {
		if it.WishlistID == wishlistID {
			rows = append(rows, repository.WishlistItemRow{ID: it.ID, AddedAt: it.CreatedAt, Product: s.st.products[it.ProductID]})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, nil
}

func (s *fakeStore) GetWishlistItem(ctx context.Context, arg repository.GetWishlistItemParams) (repository.WishlistItem, error) {
	for _, it := range s.st.wishlistItems {
		if it.WishlistID == arg.WishlistID && it.ProductID == arg.ProductID {
			return it, nil
		}
	}
	return repository.WishlistItem{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateWishlistItem(ctx context.Context, arg repository.GetWishlistItemParams) (repository.WishlistItem, error) {
	id, at := s.next()
	it := repository.WishlistItem{ID: id, WishlistID: arg.WishlistID, ProductID: arg.ProductID, CreatedAt: at}
	s.st.wishlistItems[id] = it
	return it, nil
}

func (s *fakeStore) DeleteWishlistItem(ctx context.Context, id int64) error {
	delete(s.st.wishlistItems, id)
	return nil
}

// ============================================================================
// Notifier and deps
// ============================================================================

type fakeNotifier struct {
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) templates() []string {
	out := make([]string, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.Template
	}
	return out
}

// testDeps wires a fresh store, notifier and metrics registry.
func testDeps(t *testing.T) (Deps, *fakeStore, *fakeNotifier) {
	t.Helper()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	deps := Deps{
		Store:    store,
		Notifier: notifier,
		Metrics:  telemetry.NewBusinessMetrics("test", prometheus.NewRegistry()),
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return store.now },
	}
	return deps, store, notifier
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
