package domain

import "context"

// Category is a two-level taxonomy node. Top-level categories have no parent;
// a child's parent must itself be parentless.
type Category struct {
	BaseModel
	ParentID *uint         `gorm:"index" json:"parent_id"`
	Parent   *Category     `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Name     LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Icon     string        `gorm:"size:50;default:bi-tag" json:"icon"`
	Order    int           `gorm:"column:sort_order;default:0" json:"order"`
}

// IsMain reports whether the category is a top-level one.
func (c *Category) IsMain() bool { return c.ParentID == nil }

// City is a fixed catalogue entry listings and promotions reference.
type City struct {
	BaseModel
	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Order int    `gorm:"column:sort_order;default:0" json:"order"`
}

// Tag is a free-form label attached to listings.
type Tag struct {
	BaseModel
	Name LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	ListAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
}

// CityRepository defines data access for cities.
type CityRepository interface {
	GetByID(ctx context.Context, id uint) (*City, error)
	ListAll(ctx context.Context) ([]City, error)
}

// TagRepository defines data access for tags.
type TagRepository interface {
	ListAll(ctx context.Context) ([]Tag, error)
}

// TaxonomyService exposes the cached category/city/tag lists and the
// moderator-only category mutations.
type TaxonomyService interface {
	Categories(ctx context.Context) ([]Category, error)
	Cities(ctx context.Context) ([]City, error)
	Tags(ctx context.Context) ([]Tag, error)
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name LocalizedText, icon string, order int) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}
