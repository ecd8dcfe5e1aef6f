package jobs

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

var (
	jobSortFields     = []string{"id", "created_at"}
	jobFilterFields   = []string{"city_id", "owner_id"}
	requestSortFields = []string{"id", "created_at"}
)

// jobAdRepository implements domain.JobAdRepository using GORM.
type jobAdRepository struct {
	db *gorm.DB
}

// NewJobAdRepository creates a JobAdRepository backed by the given GORM
// database.
func NewJobAdRepository(db *gorm.DB) domain.JobAdRepository {
	return &jobAdRepository{db: db}
}

func (r *jobAdRepository) Create(ctx context.Context, ad *domain.JobAd) error {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *jobAdRepository) GetByID(ctx context.Context, id uint) (*domain.JobAd, error) {
	var ad domain.JobAd
	if err := r.db.WithContext(ctx).Preload("City").First(&ad, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &ad, nil
}

func (r *jobAdRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.JobAd], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.JobAd{}).
		Scopes(pkg.Filter(req, jobFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var ads []domain.JobAd
	if err := base.Preload("City").Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, jobSortFields),
	).Find(&ads).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPageResult(ads, total, req), nil
}

func (r *jobAdRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.JobAd{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// requestRepository implements domain.RequestRepository using GORM.
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a RequestRepository backed by the given GORM
// database.
func NewRequestRepository(db *gorm.DB) domain.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *requestRepository) ListActive(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Request], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Request{}).Where("active = ?", true)

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var requests []domain.Request
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, requestSortFields),
	).Find(&requests).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPageResult(requests, total, req), nil
}

// Deactivate hides a request. Non-admin actors can only deactivate their own.
func (r *requestRepository) Deactivate(ctx context.Context, id uint, ownerID uint, admin bool) error {
	q := r.db.WithContext(ctx).Model(&domain.Request{}).Where("id = ?", id)
	if !admin {
		q = q.Where("user_id = ?", ownerID)
	}

	result := q.Update("active", false)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
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
