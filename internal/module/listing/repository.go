package listing

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

// Allowed fields for sorting and filtering in moderation List queries.
var (
	allowedSortFields   = []string{"id", "created_at", "updated_at", "price", "approved"}
	allowedFilterFields = []string{"approved", "featured", "discounted", "suggested", "category_id", "city_id", "condition", "price_range", "user_id"}
)

// listingRepository implements domain.ListingRepository using GORM.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a ListingRepository backed by the given
// GORM database.
func NewListingRepository(db *gorm.DB) domain.ListingRepository {
	return &listingRepository{db: db}
}

// Create inserts a new listing together with its associations.
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a listing by primary key with all associations preloaded,
// regardless of approval state.
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.preloaded(ctx).First(&listing, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &listing, nil
}

// GetApproved retrieves a single approved listing. Unapproved listings are
// indistinguishable from missing ones.
func (r *listingRepository) GetApproved(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.preloaded(ctx).Where("approved = ?", true).First(&listing, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &listing, nil
}

// FindApproved returns every approved listing matching the filter, with
// associations preloaded. Ordering is left to the caller.
func (r *listingRepository) FindApproved(ctx context.Context, f domain.FilterSpec) ([]domain.Listing, error) {
	q := r.preloaded(ctx).Where("approved = ?", true)

	if f.CategoryID != nil {
		// A top-level category also matches listings filed under its children.
		q = q.Where(
			"category_id = ? OR category_id IN (SELECT id FROM categories WHERE parent_id = ?)",
			*f.CategoryID, *f.CategoryID,
		)
	}
	if f.CityID != nil {
		q = q.Where("city_id = ?", *f.CityID)
	}
	if f.PriceRange != "" {
		q = q.Where("price_range = ?", f.PriceRange)
	}
	if f.TagID != nil {
		q = q.Where("id IN (SELECT listing_id FROM listing_tags WHERE tag_id = ?)", *f.TagID)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where(
			`lower(name_fa) LIKE ? OR lower(name_ps) LIKE ? OR lower(name_en) LIKE ?
				OR lower(description_fa) LIKE ? OR lower(description_ps) LIKE ? OR lower(description_en) LIKE ?
				OR id IN (
					SELECT lt.listing_id FROM listing_tags lt
					JOIN tags t ON t.id = lt.tag_id
					WHERE lower(t.name_fa) LIKE ? OR lower(t.name_ps) LIKE ? OR lower(t.name_en) LIKE ?
				)`,
			pattern, pattern, pattern,
			pattern, pattern, pattern,
			pattern, pattern, pattern,
		)
	}

	var listings []domain.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, mapError(err)
	}
	return listings, nil
}

// CountApproved returns the number of approved listings.
func (r *listingRepository) CountApproved(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Listing{}).Where("approved = ?", true).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// List returns a paginated, sorted, and filtered page of listings for the
// moderation surface. Approval state is not implied; pass it as a filter.
func (r *listingRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Listing], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var listings []domain.Listing
	if err := base.
		Preload("City").Preload("Images").
		Scopes(
			pkg.Paginate(req),
			pkg.Sort(req, allowedSortFields),
		).Find(&listings).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPageResult(listings, total, req), nil
}

// Update saves changes to an existing listing and replaces its tag and image
// associations with the ones on the struct.
func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(listing).Association("Tags").Replace(listing.Tags); err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&domain.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: false}).Save(listing).Error
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a listing. Association rows are cleared explicitly because
// SQLite does not always enforce the declared cascades.
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&domain.ListingImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Listing{BaseModel: domain.BaseModel{ID: id}}).Association("Tags").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&domain.Listing{}, id)
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

// SetApproved flips the approval flag on one listing.
func (r *listingRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Where("id = ?", id).
		Update("approved", approved)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *listingRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("City").
		Preload("Tags").
		Preload("Images").
		Preload("FeaturedCities").
		Preload("DiscountedCities").
		Preload("SuggestedCities")
}

// mapError converts GORM errors to domain errors.
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
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by message, for
// dialectors that do not translate driver errors to gorm.ErrDuplicatedKey.
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
