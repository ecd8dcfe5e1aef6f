package promotion

import (
	"time"

	"github.com/bazarche/bazarche/internal/domain"
)

// PromotionRequest is the moderator input for creating or updating a
// promotion. Times are RFC 3339.
type PromotionRequest struct {
	Title        string    `json:"title" binding:"required,max=200"`
	Description  string    `json:"description"`
	Image        string    `json:"image" binding:"omitempty,max=500"`
	Link         string    `json:"link" binding:"omitempty,max=500"`
	Location     string    `json:"location" binding:"required,oneof=home products sidebar"`
	CityIDs      []uint    `json:"city_ids"`
	Active       bool      `json:"active"`
	DisplayOrder int       `json:"display_order"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required"`
}

func (r PromotionRequest) toDomain() *domain.Promotion {
	p := &domain.Promotion{
		Title:        r.Title,
		Description:  r.Description,
		Image:        r.Image,
		Link:         r.Link,
		Location:     r.Location,
		Active:       r.Active,
		DisplayOrder: r.DisplayOrder,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
	}
	for _, id := range r.CityIDs {
		p.Cities = append(p.Cities, domain.City{BaseModel: domain.BaseModel{ID: id}})
	}
	return p
}
