package taxonomy

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
)

// categoryRepository implements domain.CategoryRepository using GORM.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a CategoryRepository backed by the given
// GORM database.
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a category with its children preloaded.
func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Preload("Children").First(&category, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &category, nil
}

// ListAll returns the top-level categories with children preloaded, ordered
// for display.
func (r *categoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Order("sort_order asc, id asc").
		Find(&categories).Error
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// Update saves changes to an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a category. Categories that still have children or listings
// attached are rejected at the service layer.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// cityRepository implements domain.CityRepository using GORM.
type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a CityRepository backed by the given GORM
// database.
func NewCityRepository(db *gorm.DB) domain.CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) GetByID(ctx context.Context, id uint) (*domain.City, error) {
	var city domain.City
	if err := r.db.WithContext(ctx).First(&city, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &city, nil
}

func (r *cityRepository) ListAll(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	if err := r.db.WithContext(ctx).Order("sort_order asc, id asc").Find(&cities).Error; err != nil {
		return nil, mapError(err)
	}
	return cities, nil
}

// tagRepository implements domain.TagRepository using GORM.
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a TagRepository backed by the given GORM database.
func NewTagRepository(db *gorm.DB) domain.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListAll(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tags).Error; err != nil {
		return nil, mapError(err)
	}
	return tags, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
