package listing

import (
	"fmt"

	"github.com/bazarche/bazarche/internal/domain"
)

// createdAtLayout is the timestamp format used in feed and detail projections.
const createdAtLayout = "2006-01-02 15:04"

// ProductItem is the feed projection of one listing, localized for the viewer.
type ProductItem struct {
	Type          string `json:"type"`
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Price         *uint  `json:"price"`
	DiscountPrice *uint  `json:"discount_price,omitempty"`
	Discounted    bool   `json:"discounted"`
	Featured      bool   `json:"featured"`
	City          string `json:"city,omitempty"`
	Condition     string `json:"condition"`
	PriceRange    string `json:"price_range,omitempty"`
	Image         string `json:"image,omitempty"`
	URL           string `json:"url"`
	CreatedAt     string `json:"created_at"`
}

// AdItem is the feed projection of one promotion slot.
type AdItem struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
}

// FeedPage is the JSON payload served for the feed and load-more endpoints.
// Error is only set on lenient load-more failures, alongside an empty
// products slice.
type FeedPage struct {
	Products      []any  `json:"products"`
	HasNext       bool   `json:"has_next"`
	CurrentPage   int    `json:"current_page"`
	TotalPages    int    `json:"total_pages"`
	TotalProducts int    `json:"total_products"`
	Error         string `json:"error,omitempty"`
}

// DetailView is the cached detail projection of one approved listing.
type DetailView struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         *uint    `json:"price"`
	DiscountPrice *uint    `json:"discount_price,omitempty"`
	Discounted    bool     `json:"discounted"`
	Featured      bool     `json:"featured"`
	City          string   `json:"city,omitempty"`
	Category      string   `json:"category,omitempty"`
	Condition     string   `json:"condition"`
	PriceRange    string   `json:"price_range,omitempty"`
	SellerContact string   `json:"seller_contact,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Images        []string `json:"images,omitempty"`
	URL           string   `json:"url"`
	CreatedAt     string   `json:"created_at"`
}

// newProductItem projects a listing for the feed in the given locale.
func newProductItem(l *domain.Listing, loc domain.Locale) ProductItem {
	item := ProductItem{
		Type:       "product",
		ID:         l.ID,
		Name:       l.Name.Resolve(loc),
		Price:      l.Price,
		Discounted: l.Discounted,
		Featured:   l.Featured,
		Condition:  l.Condition,
		PriceRange: l.PriceRange,
		Image:      l.FirstImagePath(),
		URL:        productURL(l.ID),
		CreatedAt:  l.CreatedAt.Format(createdAtLayout),
	}
	if l.Discounted {
		item.DiscountPrice = l.DiscountPrice
	}
	if l.City != nil {
		item.City = l.City.Name
	}
	return item
}

// newAdItem projects a promotion for the feed. Promotion ids are prefixed so
// they never collide with listing ids in mixed client-side collections.
func newAdItem(p *domain.Promotion) AdItem {
	return AdItem{
		Type:        "advertisement",
		ID:          fmt.Sprintf("ad_%d", p.ID),
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Link:        p.Link,
	}
}

// newDetailView projects a listing for the detail endpoint.
func newDetailView(l *domain.Listing, loc domain.Locale) DetailView {
	view := DetailView{
		ID:            l.ID,
		Name:          l.Name.Resolve(loc),
		Description:   l.Description.Resolve(loc),
		Price:         l.Price,
		Discounted:    l.Discounted,
		Featured:      l.Featured,
		Condition:     l.Condition,
		PriceRange:    l.PriceRange,
		SellerContact: l.SellerContact,
		URL:           productURL(l.ID),
		CreatedAt:     l.CreatedAt.Format(createdAtLayout),
	}
	if l.Discounted {
		view.DiscountPrice = l.DiscountPrice
	}
	if l.City != nil {
		view.City = l.City.Name
	}
	if l.Category != nil {
		view.Category = l.Category.Name.Resolve(loc)
	}
	for _, t := range l.Tags {
		view.Tags = append(view.Tags, t.Name.Resolve(loc))
	}
	for _, img := range l.Images {
		view.Images = append(view.Images, img.Path)
	}
	return view
}

func productURL(id uint) string {
	return fmt.Sprintf("/products/%d/", id)
}

// LocalizedTextInput mirrors domain.LocalizedText for request binding.
type LocalizedTextInput struct {
	FA string `json:"fa" form:"fa" binding:"omitempty,max=200"`
	PS string `json:"ps" form:"ps" binding:"omitempty,max=200"`
	EN string `json:"en" form:"en" binding:"omitempty,max=200"`
}

func (t LocalizedTextInput) toDomain() domain.LocalizedText {
	return domain.LocalizedText{FA: t.FA, PS: t.PS, EN: t.EN}
}

// CreateListingRequest is the submitter-facing input for creating a listing.
type CreateListingRequest struct {
	Name          LocalizedTextInput `json:"name"`
	Description   LocalizedTextInput `json:"description"`
	CategoryID    *uint              `json:"category_id"`
	CityID        *uint              `json:"city_id"`
	Price         *uint              `json:"price"`
	DiscountPrice *uint              `json:"discount_price"`
	Discounted    bool               `json:"discounted"`
	SellerContact string             `json:"seller_contact" binding:"omitempty,max=100"`
	PriceRange    string             `json:"price_range" binding:"omitempty,max=20"`
	Condition     string             `json:"condition" binding:"omitempty,oneof=new used"`
	TagIDs        []uint             `json:"tag_ids"`
	ImagePaths    []string           `json:"image_paths" binding:"omitempty,dive,max=500"`
}

func (r CreateListingRequest) toInput() domain.ListingInput {
	return domain.ListingInput{
		Name:          r.Name.toDomain(),
		Description:   r.Description.toDomain(),
		CategoryID:    r.CategoryID,
		CityID:        r.CityID,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		Discounted:    r.Discounted,
		SellerContact: r.SellerContact,
		PriceRange:    r.PriceRange,
		Condition:     r.Condition,
		TagIDs:        r.TagIDs,
		ImagePaths:    r.ImagePaths,
	}
}

// UpdateListingRequest reuses the create shape; updates replace the
// submitter-controlled fields wholesale.
type UpdateListingRequest = CreateListingRequest
