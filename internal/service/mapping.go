package service

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

func toUser(u repository.User) *domain.User {
	return &domain.User{
		ID:            u.ID,
		PublicID:      u.PublicID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          domain.Role(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func toAddress(a repository.Address) domain.Address {
	return domain.Address{
		ID:         a.ID,
		PublicID:   a.PublicID,
		Label:      a.Label,
		FullName:   a.FullName,
		Address1:   a.AddressLine1,
		Address2:   a.AddressLine2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toCart(c repository.Cart) *domain.Cart {
	return &domain.Cart{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Status:    domain.CartStatus(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toGuestCart(g repository.GuestCart) *domain.GuestCart {
	return &domain.GuestCart{
		ID:        g.ID,
		PublicID:  g.PublicID,
		Token:     g.Token,
		ExpiresAt: g.ExpiresAt,
		CreatedAt: g.CreatedAt,
	}
}

func toLineItems(lines []repository.CartLine) []domain.LineItem {
	items := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		items[i] = domain.LineItem{
			ProductID:   l.ProductPublicID,
			ProductName: l.ProductName,
			ProductSlug: l.ProductSlug,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return items
}

func summarize(items []domain.LineItem) *domain.CartSummary {
	total, count := domain.Totals(items)
	return &domain.CartSummary{Items: items, Total: total, ItemCount: count}
}

func toProduct(p repository.Product) *domain.Product {
	out := &domain.Product{
		ID:            p.ID,
		PublicID:      p.PublicID,
		CategoryID:    p.CategoryPublicID,
		Name:          p.Name,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		AverageRating: p.AverageRating,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Decimal
		out.SalePrice = &sale
	}
	return out
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func toCategory(c repository.Category) *domain.Category {
	return &domain.Category{
		ID:          c.ID,
		PublicID:    c.PublicID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toTag(t repository.Tag) domain.Tag {
	return domain.Tag{
		ID:        t.ID,
		PublicID:  t.PublicID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
	}
}

func toOrder(o repository.Order) *domain.Order {
	return &domain.Order{
		ID:        o.ID,
		PublicID:  o.PublicID,
		UserID:    o.UserID,
		Email:     o.Email,
		Status:    domain.OrderStatus(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
