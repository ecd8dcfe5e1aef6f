package domain

import (
	"context"
	"time"
)

// Promotion placement zones.
const (
	PromotionLocationHome     = "home"
	PromotionLocationProducts = "products"
	PromotionLocationSidebar  = "sidebar"
)

// PromotionLocations enumerates the valid placement zones.
var PromotionLocations = []string{
	PromotionLocationHome,
	PromotionLocationProducts,
	PromotionLocationSidebar,
}

// Promotion is a moderator-managed advertisement slot.
type Promotion struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:500" json:"image"`
	Link        string `gorm:"size:500" json:"link"`
	Location    string `gorm:"size:20;index;not null" json:"location"`

	// Empty set means the promotion shows in every city.
	Cities []City `gorm:"many2many:promotion_cities" json:"-"`

	Active       bool      `gorm:"default:true" json:"active"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
}

// IsCurrent reports whether the promotion should be shown at the given
// time. The validity window is half-open: StartAt is included, EndAt is not.
func (p *Promotion) IsCurrent(now time.Time) bool {
	return p.Active && !now.Before(p.StartAt) && now.Before(p.EndAt)
}

// PromotionRepository defines data access for promotions.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *Promotion) error
	GetByID(ctx context.Context, id uint) (*Promotion, error)
	// FindCurrent returns the promotions active at now for the given
	// placement zone, ordered by display_order then recency. A non-nil
	// cityID keeps only promotions unrestricted or restricted to that city.
	FindCurrent(ctx context.Context, location string, cityID *uint, now time.Time) ([]Promotion, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Promotion], error)
	Update(ctx context.Context, promotion *Promotion) error
	Delete(ctx context.Context, id uint) error
}

// PromotionService defines moderator operations on promotions.
type PromotionService interface {
	CreatePromotion(ctx context.Context, promotion *Promotion) (*Promotion, error)
	GetPromotion(ctx context.Context, id uint) (*Promotion, error)
	ListPromotions(ctx context.Context, req PageRequest) (*PageResult[Promotion], error)
	UpdatePromotion(ctx context.Context, id uint, promotion *Promotion) (*Promotion, error)
	DeletePromotion(ctx context.Context, id uint) error
}
