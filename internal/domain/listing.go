package domain

import "context"

// Listing condition values.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// PriceRanges enumerates the fixed price buckets a listing can be filed under.
// The same identifiers are accepted as the price_range filter value.
var PriceRanges = []string{
	"0-1000",
	"1000-5000",
	"5000-10000",
	"10000-50000",
	"50000-100000",
	"100000+",
}

// Listing is a user-submitted marketplace item.
type Listing struct {
	BaseModel
	UserID      *uint         `gorm:"index" json:"user_id"`
	Name        LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description LocalizedText `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	CategoryID  *uint         `gorm:"index" json:"category_id"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CityID      *uint         `gorm:"index" json:"city_id"`
	City        *City         `gorm:"foreignKey:CityID" json:"city,omitempty"`

	Price         *uint `json:"price"`
	DiscountPrice *uint `json:"discount_price"`

	Featured   bool `gorm:"default:false" json:"featured"`
	Discounted bool `gorm:"default:false" json:"discounted"`
	Suggested  bool `gorm:"default:false" json:"suggested"`

	// Per-flag city restriction sets. An empty set means the flag applies
	// in every city.
	FeaturedCities   []City `gorm:"many2many:listing_featured_cities" json:"-"`
	DiscountedCities []City `gorm:"many2many:listing_discounted_cities" json:"-"`
	SuggestedCities  []City `gorm:"many2many:listing_suggested_cities" json:"-"`

	SellerContact string `gorm:"size:100" json:"seller_contact"`
	Approved      bool   `gorm:"default:false;index" json:"approved"`
	PriceRange    string `gorm:"size:20" json:"price_range"`
	Condition     string `gorm:"size:10;default:new" json:"condition"`

	Tags   []Tag          `gorm:"many2many:listing_tags" json:"tags,omitempty"`
	Images []ListingImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// ListingImage is an image attached to a listing. Deleting the listing
// cascades to its images.
type ListingImage struct {
	BaseModel
	ListingID uint   `gorm:"index;not null" json:"listing_id"`
	Path      string `gorm:"size:500;not null" json:"path"`
	AltText   string `gorm:"size:255" json:"alt_text"`
}

// FirstImagePath returns the path of the first attached image, or "".
func (l *Listing) FirstImagePath() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0].Path
}

// FilterSpec is the transient value object describing one listing query.
// It is parsed from request query parameters and never persisted.
type FilterSpec struct {
	CategoryID *uint
	CityID     *uint
	Query      string
	TagID      *uint
	PriceRange string
	Sort       string
	Page       int
}

// ListingRepository defines data access for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uint) (*Listing, error)
	// GetApproved retrieves a single approved listing with its city, tags,
	// and images preloaded. Unapproved listings yield ErrNotFound.
	GetApproved(ctx context.Context, id uint) (*Listing, error)
	// FindApproved returns every approved listing matching the filter, with
	// city, tags, and images preloaded, in no particular order. Ranking is
	// applied by the caller.
	FindApproved(ctx context.Context, f FilterSpec) ([]Listing, error)
	CountApproved(ctx context.Context) (int64, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Listing], error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uint) error
	SetApproved(ctx context.Context, id uint, approved bool) error
}

// ListingInput carries the fields a submitter controls. Flags are
// moderator-only and never settable through this input.
type ListingInput struct {
	Name          LocalizedText
	Description   LocalizedText
	CategoryID    *uint
	CityID        *uint
	Price         *uint
	DiscountPrice *uint
	Discounted    bool
	SellerContact string
	PriceRange    string
	Condition     string
	TagIDs        []uint
	ImagePaths    []string
}

// ListingService defines the business operations on listings.
type ListingService interface {
	CreateListing(ctx context.Context, ownerID *uint, in ListingInput) (*Listing, error)
	GetListing(ctx context.Context, id uint) (*Listing, error)
	UpdateListing(ctx context.Context, id uint, actorID uint, admin bool, in ListingInput) (*Listing, error)
	DeleteListing(ctx context.Context, id uint, actorID uint, admin bool) error
	ApproveListing(ctx context.Context, id uint) error
	ListListings(ctx context.Context, req PageRequest) (*PageResult[Listing], error)
}
