package jobs

import (
	"context"
	"strings"

	"github.com/bazarche/bazarche/internal/domain"
)

// jobsService implements domain.JobsService.
type jobsService struct {
	ads      domain.JobAdRepository
	requests domain.RequestRepository
}

// NewJobsService creates a JobsService over the two repositories.
func NewJobsService(ads domain.JobAdRepository, requests domain.RequestRepository) domain.JobsService {
	return &jobsService{ads: ads, requests: requests}
}

// CreateJobAd validates and persists a new job posting.
func (s *jobsService) CreateJobAd(ctx context.Context, ownerID *uint, ad *domain.JobAd) (*domain.JobAd, error) {
	if strings.TrimSpace(ad.Title) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if strings.TrimSpace(ad.Description) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "description is required", nil)
	}
	if strings.TrimSpace(ad.Contact) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "contact is required", nil)
	}

	ad.OwnerID = ownerID
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// GetJobAd retrieves a job posting by ID.
func (s *jobsService) GetJobAd(ctx context.Context, id uint) (*domain.JobAd, error) {
	return s.ads.GetByID(ctx, id)
}

// ListJobAds returns a page of job postings.
func (s *jobsService) ListJobAds(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.JobAd], error) {
	return s.ads.List(ctx, req)
}

// DeleteJobAd removes a job posting. Only the owner or a moderator may
// delete.
func (s *jobsService) DeleteJobAd(ctx context.Context, id uint, actorID uint, admin bool) error {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !admin && (ad.OwnerID == nil || *ad.OwnerID != actorID) {
		return domain.ErrForbidden
	}
	return s.ads.Delete(ctx, id)
}

// CreateRequest validates and persists a new wanted post.
func (s *jobsService) CreateRequest(ctx context.Context, ownerID *uint, request *domain.Request) (*domain.Request, error) {
	if strings.TrimSpace(request.Text) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "text is required", nil)
	}
	if strings.TrimSpace(request.Contact) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "contact is required", nil)
	}

	request.UserID = ownerID
	request.Active = true
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListRequests returns a page of active wanted posts.
func (s *jobsService) ListRequests(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Request], error) {
	return s.requests.ListActive(ctx, req)
}

// DeactivateRequest hides a wanted post. Only the owner or a moderator may
// deactivate; others see it as missing.
func (s *jobsService) DeactivateRequest(ctx context.Context, id uint, actorID uint, admin bool) error {
	return s.requests.Deactivate(ctx, id, actorID, admin)
}
