package promotion

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

var (
	allowedSortFields   = []string{"id", "display_order", "created_at", "start_at", "end_at"}
	allowedFilterFields = []string{"location", "active"}
)

// promotionRepository implements domain.PromotionRepository using GORM.
type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a PromotionRepository backed by the given
// GORM database.
func NewPromotionRepository(db *gorm.DB) domain.PromotionRepository {
	return &promotionRepository{db: db}
}

// Create inserts a new promotion.
func (r *promotionRepository) Create(ctx context.Context, promotion *domain.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a promotion with its city restriction set preloaded.
func (r *promotionRepository) GetByID(ctx context.Context, id uint) (*domain.Promotion, error) {
	var promotion domain.Promotion
	if err := r.db.WithContext(ctx).Preload("Cities").First(&promotion, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &promotion, nil
}

// FindCurrent returns the promotions live at now for one placement zone,
// ordered by display_order then recency. The window is half-open: a
// promotion whose end_at equals now is no longer live. With a city,
// promotions restricted to other cities are excluded; unrestricted ones
// always match.
func (r *promotionRepository) FindCurrent(ctx context.Context, location string, cityID *uint, now time.Time) ([]domain.Promotion, error) {
	q := r.db.WithContext(ctx).
		Preload("Cities").
		Where("location = ?", location).
		Where("active = ?", true).
		Where("start_at <= ?", now).
		Where("end_at > ?", now)

	if cityID != nil {
		q = q.Where(
			`id NOT IN (SELECT promotion_id FROM promotion_cities)
				OR id IN (SELECT promotion_id FROM promotion_cities WHERE city_id = ?)`,
			*cityID,
		)
	} else {
		q = q.Where("id NOT IN (SELECT promotion_id FROM promotion_cities)")
	}

	var promotions []domain.Promotion
	if err := q.Order("display_order asc, created_at desc").Find(&promotions).Error; err != nil {
		return nil, mapError(err)
	}
	return promotions, nil
}

// List returns a paginated page of promotions for the moderation surface.
func (r *promotionRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Promotion], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Promotion{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var promotions []domain.Promotion
	if err := base.Preload("Cities").Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&promotions).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPageResult(promotions, total, req), nil
}

// Update saves changes to an existing promotion, replacing its city set.
func (r *promotionRepository) Update(ctx context.Context, promotion *domain.Promotion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(promotion).Association("Cities").Replace(promotion.Cities); err != nil {
			return err
		}
		return tx.Save(promotion).Error
	})
	return mapError(err)
}

// Delete removes a promotion and its city associations.
func (r *promotionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Promotion{BaseModel: domain.BaseModel{ID: id}}).Association("Cities").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&domain.Promotion{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	return mapError(err)
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
