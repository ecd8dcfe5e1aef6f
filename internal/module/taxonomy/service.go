package taxonomy

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bazarche/bazarche/internal/cache"
	"github.com/bazarche/bazarche/internal/domain"
)

// taxonomyService implements domain.TaxonomyService. The three list reads go
// through the cache; category mutations invalidate it.
type taxonomyService struct {
	categories  domain.CategoryRepository
	cities      domain.CityRepository
	tags        domain.TagRepository
	cache       *cache.ReadThrough
	invalidator cache.Invalidator
	ttl         time.Duration
	logger      *slog.Logger
}

// NewTaxonomyService creates a TaxonomyService. A zero ttl falls back to the
// package default.
func NewTaxonomyService(categories domain.CategoryRepository, cities domain.CityRepository, tags domain.TagRepository, rt *cache.ReadThrough, invalidator cache.Invalidator, ttl time.Duration, logger *slog.Logger) domain.TaxonomyService {
	if ttl <= 0 {
		ttl = cache.TaxonomyTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taxonomyService{
		categories:  categories,
		cities:      cities,
		tags:        tags,
		cache:       rt,
		invalidator: invalidator,
		ttl:         ttl,
		logger:      logger,
	}
}

// Categories returns the cached category tree.
func (s *taxonomyService) Categories(ctx context.Context) ([]domain.Category, error) {
	return cachedList(ctx, s, cache.CategoriesKey, s.categories.ListAll)
}

// Cities returns the cached city list.
func (s *taxonomyService) Cities(ctx context.Context) ([]domain.City, error) {
	return cachedList(ctx, s, cache.CitiesKey, s.cities.ListAll)
}

// Tags returns the cached tag list.
func (s *taxonomyService) Tags(ctx context.Context) ([]domain.Tag, error) {
	return cachedList(ctx, s, cache.TagsKey, s.tags.ListAll)
}

// CreateCategory validates and persists a new category.
func (s *taxonomyService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.Name.IsEmpty() {
		return nil, domain.NewAppError(domain.CodeValidation, "name is required in at least one language", nil)
	}
	if err := s.validateParent(ctx, category.ParentID); err != nil {
		return nil, err
	}
	if category.Icon == "" {
		category.Icon = "bi-tag"
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory replaces the display fields of an existing category. The
// parent link is immutable; re-parenting would silently move listings
// between feed filters.
func (s *taxonomyService) UpdateCategory(ctx context.Context, id uint, name domain.LocalizedText, icon string, order int) (*domain.Category, error) {
	if name.IsEmpty() {
		return nil, domain.NewAppError(domain.CodeValidation, "name is required in at least one language", nil)
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if icon != "" {
		category.Icon = icon
	}
	category.Order = order

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes a leaf category. Categories with children must be
// emptied first.
func (s *taxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(category.Children) > 0 {
		return domain.NewAppError(domain.CodeValidation, "category still has subcategories", nil)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *taxonomyService) validateParent(ctx context.Context, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.categories.GetByID(ctx, *parentID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewAppError(domain.CodeValidation, "parent category does not exist", err)
		}
		return err
	}
	if !parent.IsMain() {
		return domain.NewAppError(domain.CodeValidation, "categories nest at most one level deep", nil)
	}
	return nil
}

func (s *taxonomyService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateTaxonomy(ctx); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", slog.Any("error", err))
	}
}

// cachedList serves one taxonomy list through the shared cache, marshaling
// rows to JSON for storage.
func cachedList[T any](ctx context.Context, s *taxonomyService, key string, load func(ctx context.Context) ([]T, error)) ([]T, error) {
	raw, err := s.cache.GetOrCompute(ctx, key, s.ttl, func(ctx context.Context) ([]byte, error) {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rows)
	})
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "corrupt cache payload", err)
	}
	return rows, nil
}
