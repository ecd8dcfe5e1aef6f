package domain

import "context"

// JobAd is a standalone job posting, independent of the listing pipeline.
type JobAd struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Contact     string `gorm:"size:100;not null" json:"contact"`
	CityID      *uint  `gorm:"index" json:"city_id"`
	City        *City  `gorm:"foreignKey:CityID" json:"city,omitempty"`
	OwnerID     *uint  `gorm:"index" json:"owner_id"`
}

// Request is a "wanted" post: a user describing something they are looking for.
type Request struct {
	BaseModel
	UserID  *uint  `gorm:"index" json:"user_id"`
	Text    string `gorm:"type:text;not null" json:"text"`
	Contact string `gorm:"size:100;not null" json:"contact"`
	Active  bool   `gorm:"default:true" json:"active"`
}

// JobAdRepository defines data access for job ads.
type JobAdRepository interface {
	Create(ctx context.Context, ad *JobAd) error
	GetByID(ctx context.Context, id uint) (*JobAd, error)
	List(ctx context.Context, req PageRequest) (*PageResult[JobAd], error)
	Delete(ctx context.Context, id uint) error
}

// RequestRepository defines data access for user requests.
type RequestRepository interface {
	Create(ctx context.Context, request *Request) error
	ListActive(ctx context.Context, req PageRequest) (*PageResult[Request], error)
	Deactivate(ctx context.Context, id uint, ownerID uint, admin bool) error
}

// JobsService groups job ad and request operations.
type JobsService interface {
	CreateJobAd(ctx context.Context, ownerID *uint, ad *JobAd) (*JobAd, error)
	GetJobAd(ctx context.Context, id uint) (*JobAd, error)
	ListJobAds(ctx context.Context, req PageRequest) (*PageResult[JobAd], error)
	DeleteJobAd(ctx context.Context, id uint, actorID uint, admin bool) error
	CreateRequest(ctx context.Context, ownerID *uint, request *Request) (*Request, error)
	ListRequests(ctx context.Context, req PageRequest) (*PageResult[Request], error)
	DeactivateRequest(ctx context.Context, id uint, actorID uint, admin bool) error
}
