package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
)

func productInput(name, sku, price string) ProductInput {
	return ProductInput{Name: name, SKU: sku, Price: dec(price), StockQuantity: 10}
}

func TestProductService_Create(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	tags := NewTagService(deps)
	ctx := context.Background()
	cat := store.addCategory(t, "Brewing Gear")
	tag, err := tags.Create(ctx, "Gift Idea", "")
	require.NoError(t, err)

	in := productInput("  Hario V60 Dripper ", "V60-01", "25.00")
	in.CategoryID = &cat.PublicID
	in.TagIDs = []uuid.UUID{tag.PublicID}
	sale := dec("19.99")
	in.SalePrice = &sale

	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "Hario V60 Dripper", p.Name)
	assert.Equal(t, "hario-v60-dripper", p.Slug)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, cat.PublicID, *p.CategoryID)
	require.Len(t, p.Tags, 1)
	assert.Equal(t, "gift-idea", p.Tags[0].Slug)
	assert.True(t, sale.Equal(p.EffectivePrice()))
}

func TestProductService_Create_Errors(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	_, err := svc.Create(ctx, productInput("Kalita Wave", "KW-185", "30.00"))
	require.NoError(t, err)
	missing := uuid.New()

	t.Run("validation lists every field", func(t *testing.T) {
		in := ProductInput{Price: dec("0"), StockQuantity: -1}
		_, err := svc.Create(ctx, in)
		require.Error(t, err)
		fields := domain.GetValidationFields(err)
		for _, f := range []string{"name", "sku", "price", "stockQuantity"} {
			assert.Contains(t, fields, f)
		}
	})

	tests := []struct {
		name    string
		input   func() ProductInput
		wantErr error
	}{
		{"duplicate slug", func() ProductInput { return productInput("Kalita Wave", "OTHER", "30.00") }, domain.ErrSlugTaken},
		{"duplicate sku", func() ProductInput { return productInput("Kalita Wave 155", "KW-185", "28.00") }, domain.ErrSKUTaken},
		{"unknown category", func() ProductInput {
			in := productInput("Clever Dripper", "CD-1", "22.00")
			in.CategoryID = &missing
			return in
		}, domain.ErrCategoryNotFound},
		{"unknown tag", func() ProductInput {
			in := productInput("Clever Dripper", "CD-1", "22.00")
			in.TagIDs = []uuid.UUID{missing}
			return in
		}, domain.ErrTagNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, store.st.products, 1, "failed creates leave nothing behind")
}

func TestProductService_VisibilityOfInactive(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	hidden := store.addProduct(t, "Retired Roast", "14.00", 3, inactive())
	store.addProduct(t, "House Roast", "14.00", 3)

	_, err := svc.Get(ctx, hidden.PublicID, false)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = svc.GetBySlug(ctx, hidden.Slug, false)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	p, err := svc.Get(ctx, hidden.PublicID, true)
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	public, err := svc.List(ctx, ProductFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, public.Data, 1)

	admin, err := svc.List(ctx, ProductFilter{IncludeInactive: true}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, admin.Data, 2)
}

func TestProductService_ListFilters(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	beans := store.addCategory(t, "Beans")
	for _, name := range []string{"Ethiopia Natural", "Ethiopia Washed", "Brazil Santos"} {
		p := store.addProduct(t, name, "15.00", 10)
		p.CategoryID = &beans.ID
		store.st.products[p.ID] = p
	}
	store.addProduct(t, "Ethiopia Mug", "9.00", 10)

	byCategory, err := svc.List(ctx, ProductFilter{CategorySlug: "beans"}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, byCategory.Data, 3)

	both, err := svc.List(ctx, ProductFilter{CategorySlug: "beans", Search: "ethiopia"}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, both.Data, 2)

	_, err = svc.List(ctx, ProductFilter{CategorySlug: "tea"}, pagination.Params{})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	page, err := svc.List(ctx, ProductFilter{}, pagination.Params{Limit: 3, SortOrder: pagination.Asc})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Ethiopia Natural", page.Data[0].Name, "oldest first")
	assert.True(t, page.Pagination.HasNextPage)
}

func TestProductService_ListTagPriceAndRatingFilters(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	cheap := store.addProduct(t, "Paper Filters", "5.00", 10, withRating("3.5"))
	mid := store.addProduct(t, "Hand Grinder", "45.00", 10, withRating("4.8"))
	store.addProduct(t, "Espresso Machine", "650.00", 10, withRating("4.1"))
	store.addProduct(t, "Retired Kettle", "40.00", 10, withRating("5.0"), inactive())
	store.addTag(t, "Gift Idea", cheap, mid)

	ptr := func(v string) *decimal.Decimal { d := dec(v); return &d }

	tests := []struct {
		name   string
		filter ProductFilter
		want   []string
	}{
		{"tag", ProductFilter{TagSlug: "gift-idea"}, []string{"Hand Grinder", "Paper Filters"}},
		{"min price inclusive", ProductFilter{MinPrice: ptr("45.00")}, []string{"Espresso Machine", "Hand Grinder"}},
		{"max price inclusive", ProductFilter{MaxPrice: ptr("45.00")}, []string{"Hand Grinder", "Paper Filters"}},
		{"price range", ProductFilter{MinPrice: ptr("10"), MaxPrice: ptr("100")}, []string{"Hand Grinder"}},
		{"min rating", ProductFilter{MinRating: ptr("4")}, []string{"Espresso Machine", "Hand Grinder"}},
		{"tag and rating", ProductFilter{TagSlug: "gift-idea", MinRating: ptr("4.5")}, []string{"Hand Grinder"}},
		{"inactive rating kept out", ProductFilter{MinRating: ptr("5")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.filter, pagination.Params{})
			require.NoError(t, err)
			names := []string{}
			for _, p := range page.Data {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := svc.List(ctx, ProductFilter{TagSlug: "clearance"}, pagination.Params{})
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestProductService_ListFilterValidation(t *testing.T) {
	deps, _, _ := testDeps(t)
	svc := NewProductService(deps)
	ptr := func(v string) *decimal.Decimal { d := dec(v); return &d }

	tests := []struct {
		name   string
		filter ProductFilter
		field  string
	}{
		{"negative min price", ProductFilter{MinPrice: ptr("-1")}, "minPrice"},
		{"min above max", ProductFilter{MinPrice: ptr("20"), MaxPrice: ptr("10")}, "minPrice"},
		{"negative max price", ProductFilter{MaxPrice: ptr("-5")}, "maxPrice"},
		{"rating above five", ProductFilter{MinRating: ptr("5.5")}, "minRating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tt.filter, pagination.Params{})
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, domain.EINVALID))
			assert.Contains(t, domain.GetValidationFields(err), tt.field)
		})
	}
}

func TestProductService_ListSortWalksAllPages(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	prices := []string{"30.00", "10.00", "20.00", "10.00", "50.00", "20.00", "40.00"}
	for i, price := range prices {
		store.addProduct(t, fmt.Sprintf("Product %d", i), price, 5, withRating(fmt.Sprintf("%d.0", i%5)))
	}

	tests := []struct {
		sort  ProductSort
		value func(domain.Product) decimal.Decimal
		asc   bool
	}{
		{SortPriceAsc, func(p domain.Product) decimal.Decimal { return p.Price }, true},
		{SortPriceDesc, func(p domain.Product) decimal.Decimal { return p.Price }, false},
		{SortRatingAsc, func(p domain.Product) decimal.Decimal { return p.AverageRating }, true},
		{SortRatingDesc, func(p domain.Product) decimal.Decimal { return p.AverageRating }, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			params := pagination.Params{Limit: 3}
			seen := map[uuid.UUID]bool{}
			var values []decimal.Decimal
			for {
				page, err := svc.List(ctx, ProductFilter{Sort: tt.sort}, params)
				require.NoError(t, err)
				for _, p := range page.Data {
					assert.False(t, seen[p.PublicID], "duplicate %s", p.Name)
					seen[p.PublicID] = true
					values = append(values, tt.value(p))
				}
				if page.Pagination.NextCursor == nil {
					break
				}
				params.Cursor = *page.Pagination.NextCursor
			}

			assert.Len(t, seen, len(prices))
			for i := 1; i < len(values); i++ {
				if tt.asc {
					assert.True(t, values[i-1].LessThanOrEqual(values[i]), "position %d", i)
				} else {
					assert.True(t, values[i-1].GreaterThanOrEqual(values[i]), "position %d", i)
				}
			}
		})
	}
}

func TestProductService_ListNewestOverridesSortOrder(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	store.addProduct(t, "First", "1.00", 1)
	store.addProduct(t, "Second", "1.00", 1)

	page, err := svc.List(context.Background(), ProductFilter{Sort: SortNewest}, pagination.Params{SortOrder: pagination.Asc})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Second", page.Data[0].Name)
}

func TestProductService_ListRejectsCursorFromOtherSort(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		store.addProduct(t, fmt.Sprintf("Filter %d", i), "5.00", 1)
	}

	byDate, err := svc.List(ctx, ProductFilter{}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, byDate.Pagination.NextCursor)
	byPrice, err := svc.List(ctx, ProductFilter{Sort: SortPriceAsc}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, byPrice.Pagination.NextCursor)

	_, err = svc.List(ctx, ProductFilter{Sort: SortPriceAsc}, pagination.Params{Limit: 1, Cursor: *byDate.Pagination.NextCursor})
	assert.ErrorIs(t, err, pagination.ErrInvalidCursor)
	_, err = svc.List(ctx, ProductFilter{}, pagination.Params{Limit: 1, Cursor: *byPrice.Pagination.NextCursor})
	assert.ErrorIs(t, err, pagination.ErrInvalidCursor)
}

func TestParseProductSort(t *testing.T) {
	tests := []struct {
		in      string
		want    ProductSort
		wantErr bool
	}{
		{"", "", false},
		{"newest", SortNewest, false},
		{"Price-Asc", SortPriceAsc, false},
		{"rating-desc", SortRatingDesc, false},
		{"popular", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProductSort(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	deps, store, _ := testDeps(t)
	svc := NewProductService(deps)
	tags := NewTagService(deps)
	ctx := context.Background()
	tag, err := tags.Create(ctx, "Seasonal", "")
	require.NoError(t, err)

	in := productInput("Holiday Blend", "HB-1", "16.00")
	in.TagIDs = []uuid.UUID{tag.PublicID}
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	off := false
	in = productInput("Holiday Blend", "HB-1", "12.00")
	in.IsActive = &off
	updated, err := svc.Update(ctx, created.PublicID, in)
	require.NoError(t, err)
	assert.True(t, dec("12.00").Equal(updated.Price))
	assert.False(t, updated.IsActive)
	assert.Len(t, updated.Tags, 1, "nil TagIDs keeps existing tags")

	in.TagIDs = []uuid.UUID{}
	updated, err = svc.Update(ctx, created.PublicID, in)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	_, err = svc.Update(ctx, uuid.New(), in)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, svc.Delete(ctx, created.PublicID))
	assert.Empty(t, store.st.products)
	assert.ErrorIs(t, svc.Delete(ctx, created.PublicID), domain.ErrProductNotFound)
}
