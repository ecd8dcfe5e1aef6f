package listing

import (
	"context"
	"log/slog"
	"slices"

	"github.com/bazarche/bazarche/internal/cache"
	"github.com/bazarche/bazarche/internal/domain"
)

// listingService implements domain.ListingService.
type listingService struct {
	repo        domain.ListingRepository
	invalidator cache.Invalidator
	logger      *slog.Logger
}

// NewListingService creates a ListingService over the given repository.
// Every successful mutation invalidates the affected cache entries; cache
// faults are logged but never fail the mutation.
func NewListingService(repo domain.ListingRepository, invalidator cache.Invalidator, logger *slog.Logger) domain.ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &listingService{repo: repo, invalidator: invalidator, logger: logger}
}

// CreateListing validates the input and persists a new listing. Listings are
// created approved; moderation can pull them afterwards.
func (s *listingService) CreateListing(ctx context.Context, ownerID *uint, in domain.ListingInput) (*domain.Listing, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	listing := buildListing(&in)
	listing.UserID = ownerID
	listing.Approved = true

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return listing, nil
}

// GetListing retrieves a listing by ID without an approval filter.
func (s *listingService) GetListing(ctx context.Context, id uint) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateListing replaces the submitter-controlled fields of a listing.
// Only the owner or a moderator may update; moderator flags are untouched.
func (s *listingService) UpdateListing(ctx context.Context, id uint, actorID uint, admin bool, in domain.ListingInput) (*domain.Listing, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(listing, actorID, admin) {
		return nil, domain.ErrForbidden
	}

	applyInput(listing, &in)

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, id)
	return listing, nil
}

// DeleteListing removes a listing. Only the owner or a moderator may delete.
func (s *listingService) DeleteListing(ctx context.Context, id uint, actorID uint, admin bool) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(listing, actorID, admin) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListing(ctx, id)
	return nil
}

// ApproveListing marks a listing as approved, returning it to the feed.
func (s *listingService) ApproveListing(ctx context.Context, id uint) error {
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		return err
	}
	s.invalidateListing(ctx, id)
	return nil
}

// ListListings returns a moderation page of listings.
func (s *listingService) ListListings(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Listing], error) {
	return s.repo.List(ctx, req)
}

func (s *listingService) invalidateListing(ctx context.Context, id uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateListing(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Uint64("listing_id", uint64(id)), slog.Any("error", err))
	}
}

func (s *listingService) invalidateLists(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateLists(ctx); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", slog.Any("error", err))
	}
}

// canModify reports whether the actor may mutate the listing: moderators
// always, otherwise only the recorded owner.
func canModify(l *domain.Listing, actorID uint, admin bool) bool {
	if admin {
		return true
	}
	return l.UserID != nil && *l.UserID == actorID
}

// validateInput enforces the business rules on submitter input, normalizing
// defaults in place.
func validateInput(in *domain.ListingInput) error {
	if in.Name.IsEmpty() {
		return domain.NewAppError(domain.CodeValidation, "name is required in at least one language", nil)
	}

	switch in.Condition {
	case "":
		in.Condition = domain.ConditionNew
	case domain.ConditionNew, domain.ConditionUsed:
		// ok
	default:
		return domain.NewAppError(domain.CodeValidation, "condition must be new or used", nil)
	}

	if in.PriceRange != "" && !slices.Contains(domain.PriceRanges, in.PriceRange) {
		return domain.NewAppError(domain.CodeValidation, "unknown price range", nil)
	}

	// A discounted listing needs both prices, and the discount must actually
	// lower the price.
	if in.Discounted {
		if in.Price == nil {
			return domain.NewAppError(domain.CodeValidation, "price is required for a discounted listing", nil)
		}
		if in.DiscountPrice == nil {
			return domain.NewAppError(domain.CodeValidation, "discount price is required for a discounted listing", nil)
		}
		if *in.DiscountPrice >= *in.Price {
			return domain.NewAppError(domain.CodeValidation, "discount price must be lower than the price", nil)
		}
	} else if in.DiscountPrice != nil {
		return domain.NewAppError(domain.CodeValidation, "discount price is only valid on a discounted listing", nil)
	}

	return nil
}

// buildListing constructs a fresh Listing from validated input.
func buildListing(in *domain.ListingInput) *domain.Listing {
	l := &domain.Listing{}
	applyInput(l, in)
	return l
}

// applyInput copies the submitter-controlled fields onto a listing.
// Moderator flags other than Discounted are never touched here.
func applyInput(l *domain.Listing, in *domain.ListingInput) {
	l.Name = in.Name
	l.Description = in.Description
	l.CategoryID = in.CategoryID
	l.Category = nil
	l.CityID = in.CityID
	l.City = nil
	l.Price = in.Price
	l.DiscountPrice = in.DiscountPrice
	l.Discounted = in.Discounted
	l.SellerContact = in.SellerContact
	l.PriceRange = in.PriceRange
	l.Condition = in.Condition

	l.Tags = make([]domain.Tag, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		l.Tags = append(l.Tags, domain.Tag{BaseModel: domain.BaseModel{ID: id}})
	}

	l.Images = make([]domain.ListingImage, 0, len(in.ImagePaths))
	for _, path := range in.ImagePaths {
		l.Images = append(l.Images, domain.ListingImage{Path: path})
	}
}
