package promotion

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/bazarche/bazarche/internal/cache"
	"github.com/bazarche/bazarche/internal/domain"
)

// promotionService implements domain.PromotionService.
type promotionService struct {
	repo        domain.PromotionRepository
	invalidator cache.Invalidator
	logger      *slog.Logger
}

// NewPromotionService creates a PromotionService over the given repository.
func NewPromotionService(repo domain.PromotionRepository, invalidator cache.Invalidator, logger *slog.Logger) domain.PromotionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &promotionService{repo: repo, invalidator: invalidator, logger: logger}
}

// CreatePromotion validates and persists a new promotion.
func (s *promotionService) CreatePromotion(ctx context.Context, promotion *domain.Promotion) (*domain.Promotion, error) {
	if err := validate(promotion); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return promotion, nil
}

// GetPromotion retrieves a promotion by ID.
func (s *promotionService) GetPromotion(ctx context.Context, id uint) (*domain.Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPromotions returns a moderation page of promotions.
func (s *promotionService) ListPromotions(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Promotion], error) {
	return s.repo.List(ctx, req)
}

// UpdatePromotion replaces the mutable fields of an existing promotion.
func (s *promotionService) UpdatePromotion(ctx context.Context, id uint, promotion *domain.Promotion) (*domain.Promotion, error) {
	if err := validate(promotion); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = promotion.Title
	existing.Description = promotion.Description
	existing.Image = promotion.Image
	existing.Link = promotion.Link
	existing.Location = promotion.Location
	existing.Cities = promotion.Cities
	existing.Active = promotion.Active
	existing.DisplayOrder = promotion.DisplayOrder
	existing.StartAt = promotion.StartAt
	existing.EndAt = promotion.EndAt

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return existing, nil
}

// DeletePromotion removes a promotion.
func (s *promotionService) DeletePromotion(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *promotionService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	// Promotions are interleaved into cached feed pages, so any promotion
	// change stales the whole list keyspace.
	if err := s.invalidator.InvalidateLists(ctx); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", slog.Any("error", err))
	}
}

func validate(p *domain.Promotion) error {
	if strings.TrimSpace(p.Title) == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if !slices.Contains(domain.PromotionLocations, p.Location) {
		return domain.NewAppError(domain.CodeValidation, "unknown promotion location", nil)
	}
	if p.EndAt.Before(p.StartAt) {
		return domain.NewAppError(domain.CodeValidation, "end time must not precede start time", nil)
	}
	return nil
}
