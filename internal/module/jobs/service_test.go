package jobs

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.City{}, &domain.JobAd{}, &domain.Request{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) domain.JobsService {
	t.Helper()
	return NewJobsService(NewJobAdRepository(db), NewRequestRepository(db))
}

func owner(id uint) *uint { return &id }

func validJobAd() *domain.JobAd {
	return &domain.JobAd{
		Title:       "Shop assistant",
		Description: "Part-time work in a grocery store.",
		Contact:     "0700-000-000",
	}
}

func TestCreateJobAd(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateJobAd(ctx, owner(7), validJobAd())
	if err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a non-zero id")
	}
	if created.OwnerID == nil || *created.OwnerID != 7 {
		t.Errorf("OwnerID = %v; want 7", created.OwnerID)
	}

	got, err := svc.GetJobAd(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetJobAd: %v", err)
	}
	if got.Title != "Shop assistant" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestCreateJobAd_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.JobAd)
	}{
		{"empty title", func(a *domain.JobAd) { a.Title = " " }},
		{"empty description", func(a *domain.JobAd) { a.Description = "" }},
		{"empty contact", func(a *domain.JobAd) { a.Contact = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := validJobAd()
			tt.mutate(ad)
			if _, err := svc.CreateJobAd(ctx, nil, ad); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDeleteJobAd_Authorization(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	ad, err := svc.CreateJobAd(ctx, owner(7), validJobAd())
	if err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}

	if err := svc.DeleteJobAd(ctx, ad.ID, 8, false); !domain.IsForbidden(err) {
		t.Errorf("stranger delete: expected forbidden, got %v", err)
	}
	if err := svc.DeleteJobAd(ctx, ad.ID, 7, false); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetJobAd(ctx, ad.ID); !domain.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	// Ownerless ads are moderator-only.
	orphan, err := svc.CreateJobAd(ctx, nil, validJobAd())
	if err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}
	if err := svc.DeleteJobAd(ctx, orphan.ID, 7, false); !domain.IsForbidden(err) {
		t.Errorf("non-admin delete of ownerless ad: expected forbidden, got %v", err)
	}
	if err := svc.DeleteJobAd(ctx, orphan.ID, 7, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestListJobAds_CityFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	kabul := domain.City{Name: "Kabul"}
	if err := db.Create(&kabul).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	local := validJobAd()
	local.CityID = &kabul.ID
	if _, err := svc.CreateJobAd(ctx, nil, local); err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}
	if _, err := svc.CreateJobAd(ctx, nil, validJobAd()); err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}

	result, err := svc.ListJobAds(ctx, domain.PageRequest{
		Page:     1,
		PageSize: 10,
		Filter:   map[string]string{"city_id": "1"},
	})
	if err != nil {
		t.Fatalf("ListJobAds: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d; want 1", result.Total)
	}
	if len(result.Items) == 1 && result.Items[0].City == nil {
		t.Error("City should be preloaded")
	}
}

func TestRequests(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, owner(3), &domain.Request{
		Text:    "Looking for a used bicycle",
		Contact: "0700-111-222",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if !created.Active {
		t.Error("new requests must start active")
	}

	if _, err := svc.CreateRequest(ctx, nil, &domain.Request{Contact: "x"}); !domain.IsValidation(err) {
		t.Errorf("empty text: expected validation error, got %v", err)
	}

	result, err := svc.ListRequests(ctx, domain.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d; want 1", result.Total)
	}
}

func TestDeactivateRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, owner(3), &domain.Request{
		Text:    "Looking for a used bicycle",
		Contact: "0700-111-222",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	// A stranger's deactivate matches no rows.
	if err := svc.DeactivateRequest(ctx, created.ID, 99, false); !domain.IsNotFound(err) {
		t.Errorf("stranger deactivate: expected not found, got %v", err)
	}
	if err := svc.DeactivateRequest(ctx, created.ID, 3, false); err != nil {
		t.Fatalf("owner deactivate: %v", err)
	}

	result, err := svc.ListRequests(ctx, domain.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d; deactivated requests must not be listed", result.Total)
	}
}
