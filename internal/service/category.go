package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
)

// =============================================================================
// CATEGORIES
// =============================================================================

type CategoryService interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[domain.Category], error)
	ListPage(ctx context.Context, params pagination.PageParams) ([]domain.Category, pagination.PageInfo, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryInput is the writable part of a category. An empty Slug is derived from Name.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (in CategoryInput) normalize(op string) (CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" {
		return in, domain.NewValidationError(op, "name", "name is required")
	}
	if in.Slug == "" {
		in.Slug = domain.Slugify(in.Name)
	}
	return in, nil
}

type categoryService struct {
	Deps
}

func NewCategoryService(deps Deps) CategoryService {
	return &categoryService{Deps: deps}
}

func (s *categoryService) List(ctx context.Context, params pagination.Params) (pagination.Page[domain.Category], error) {
	const op = "category.list"

	cp, params, err := cursorParams(params)
	if err != nil {
		return pagination.Page[domain.Category]{}, domain.WithOp(err, op)
	}
	rows, err := s.Store.ListCategoriesCursor(ctx, cp)
	if err != nil {
		return pagination.Page[domain.Category]{}, fail(err, nil, op)
	}

	page := pagination.Paginate(rows, params, func(c repository.Category) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.PublicID}
	})
	return pagination.Map(page, func(c repository.Category) domain.Category { return *toCategory(c) }), nil
}

func (s *categoryService) ListPage(ctx context.Context, params pagination.PageParams) ([]domain.Category, pagination.PageInfo, error) {
	const op = "category.list_page"
	params = params.Normalize()

	total, err := s.Store.CountCategories(ctx)
	if err != nil {
		return nil, pagination.PageInfo{}, fail(err, nil, op)
	}
	rows, err := s.Store.ListCategoriesPage(ctx, repository.PageParams{
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset()),
	})
	if err != nil {
		return nil, pagination.PageInfo{}, fail(err, nil, op)
	}

	out := make([]domain.Category, len(rows))
	for i, r := range rows {
		out[i] = *toCategory(r)
	}
	return out, pagination.NewPageInfo(params, total), nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row, err := s.Store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, fail(err, domain.ErrCategoryNotFound, "category.get_by_slug")
	}
	return toCategory(row), nil
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	const op = "category.create"
	input, err := input.normalize(op)
	if err != nil {
		return nil, err
	}

	row, err := s.Store.CreateCategory(ctx, repository.CreateCategoryParams{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	})
	if err != nil {
		return nil, slugWriteError(err, nil, op)
	}
	return toCategory(row), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error) {
	const op = "category.update"
	input, err := input.normalize(op)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.GetCategoryByPublicID(ctx, id)
	if err != nil {
		return nil, fail(err, domain.ErrCategoryNotFound, op)
	}
	row, err := s.Store.UpdateCategory(ctx, repository.UpdateCategoryParams{
		ID:          existing.ID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	})
	if err != nil {
		return nil, slugWriteError(err, domain.ErrCategoryNotFound, op)
	}
	return toCategory(row), nil
}

// Delete detaches the category's products rather than deleting them.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "category.delete"

	existing, err := s.Store.GetCategoryByPublicID(ctx, id)
	if err != nil {
		return fail(err, domain.ErrCategoryNotFound, op)
	}
	if err := s.Store.DeleteCategory(ctx, existing.ID); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

// =============================================================================
// TAGS
// =============================================================================

type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, name, slug string) (*domain.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name, slug string) (*domain.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	Deps
}

func NewTagService(deps Deps) TagService {
	return &tagService{Deps: deps}
}

func (s *tagService) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.Store.ListTags(ctx)
	if err != nil {
		return nil, fail(err, nil, "tag.list")
	}
	out := make([]domain.Tag, len(rows))
	for i, r := range rows {
		out[i] = toTag(r)
	}
	return out, nil
}

func (s *tagService) Create(ctx context.Context, name, slug string) (*domain.Tag, error) {
	const op = "tag.create"
	in, err := CategoryInput{Name: name, Slug: slug}.normalize(op)
	if err != nil {
		return nil, err
	}

	row, err := s.Store.CreateTag(ctx, repository.CreateTagParams{Name: in.Name, Slug: in.Slug})
	if err != nil {
		return nil, slugWriteError(err, nil, op)
	}
	t := toTag(row)
	return &t, nil
}

func (s *tagService) Update(ctx context.Context, id uuid.UUID, name, slug string) (*domain.Tag, error) {
	const op = "tag.update"
	in, err := CategoryInput{Name: name, Slug: slug}.normalize(op)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.GetTagByPublicID(ctx, id)
	if err != nil {
		return nil, fail(err, domain.ErrTagNotFound, op)
	}
	row, err := s.Store.UpdateTag(ctx, repository.UpdateTagParams{ID: existing.ID, Name: in.Name, Slug: in.Slug})
	if err != nil {
		return nil, slugWriteError(err, domain.ErrTagNotFound, op)
	}
	t := toTag(row)
	return &t, nil
}

func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "tag.delete"

	existing, err := s.Store.GetTagByPublicID(ctx, id)
	if err != nil {
		return fail(err, domain.ErrTagNotFound, op)
	}
	if err := s.Store.DeleteTag(ctx, existing.ID); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

func slugWriteError(err error, notFound *domain.Error, op string) error {
	if _, ok := repository.IsUniqueViolation(err); ok {
		return domain.WithOp(domain.ErrSlugTaken, op)
	}
	return fail(err, notFound, op)
}
