package listing

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Category{},
		&domain.City{},
		&domain.Tag{},
		&domain.Listing{},
		&domain.ListingImage{},
		&domain.Promotion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedListing(t *testing.T, db *gorm.DB, mutate func(*domain.Listing)) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		Name:     domain.LocalizedText{FA: "بایسکل", EN: "bicycle"},
		Approved: true,
	}
	if mutate != nil {
		mutate(l)
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return l
}

func TestListingRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	p := uint(5000)
	l := &domain.Listing{
		Name:          domain.LocalizedText{FA: "موتر", EN: "car"},
		Price:         &p,
		Approved:      true,
		Condition:     domain.ConditionUsed,
		SellerContact: "0700-000-000",
		Images: []domain.ListingImage{
			{Path: "uploads/a.jpg"},
			{Path: "uploads/b.jpg"},
		},
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatal("expected a non-zero id")
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name.EN != "car" || got.Condition != domain.ConditionUsed {
		t.Errorf("got %+v", got)
	}
	if len(got.Images) != 2 {
		t.Errorf("images preloaded = %d; want 2", len(got.Images))
	}
	if got.FirstImagePath() != "uploads/a.jpg" {
		t.Errorf("FirstImagePath = %q", got.FirstImagePath())
	}
}

func TestListingRepository_GetApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	approved := seedListing(t, db, nil)
	pending := seedListing(t, db, func(l *domain.Listing) { l.Approved = false })

	if _, err := repo.GetApproved(ctx, approved.ID); err != nil {
		t.Errorf("GetApproved(approved): %v", err)
	}
	if _, err := repo.GetApproved(ctx, pending.ID); !domain.IsNotFound(err) {
		t.Errorf("GetApproved(pending): expected not found, got %v", err)
	}
	if _, err := repo.GetApproved(ctx, 999); !domain.IsNotFound(err) {
		t.Errorf("GetApproved(missing): expected not found, got %v", err)
	}
}

func TestFindApproved_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	kabul := domain.City{Name: "Kabul"}
	herat := domain.City{Name: "Herat"}
	if err := db.Create(&kabul).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	if err := db.Create(&herat).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	vehicles := domain.Category{Name: domain.LocalizedText{EN: "vehicles"}}
	if err := db.Create(&vehicles).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	cars := domain.Category{Name: domain.LocalizedText{EN: "cars"}, ParentID: &vehicles.ID}
	if err := db.Create(&cars).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	inKabul := seedListing(t, db, func(l *domain.Listing) {
		l.CityID = &kabul.ID
		l.CategoryID = &cars.ID
		l.PriceRange = "0-1000"
	})
	inHerat := seedListing(t, db, func(l *domain.Listing) {
		l.CityID = &herat.ID
		l.PriceRange = "1000-5000"
	})
	seedListing(t, db, func(l *domain.Listing) { l.Approved = false })

	t.Run("no filter excludes unapproved", func(t *testing.T) {
		got, err := repo.FindApproved(ctx, domain.FilterSpec{})
		if err != nil {
			t.Fatalf("FindApproved: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d; want 2", len(got))
		}
	})

	t.Run("city filter", func(t *testing.T) {
		got, err := repo.FindApproved(ctx, domain.FilterSpec{CityID: &kabul.ID})
		if err != nil {
			t.Fatalf("FindApproved: %v", err)
		}
		if len(got) != 1 || got[0].ID != inKabul.ID {
			t.Errorf("got %d listings; want only the Kabul one", len(got))
		}
	})

	t.Run("child category filter", func(t *testing.T) {
		got, err := repo.FindApproved(ctx, domain.FilterSpec{CategoryID: &cars.ID})
		if err != nil {
			t.Fatalf("FindApproved: %v", err)
		}
		if len(got) != 1 || got[0].ID != inKabul.ID {
			t.Errorf("got %d listings", len(got))
		}
	})

	t.Run("parent category includes children", func(t *testing.T) {
		got, err := repo.FindApproved(ctx, domain.FilterSpec{CategoryID: &vehicles.ID})
		if err != nil {
			t.Fatalf("FindApproved: %v", err)
		}
		if len(got) != 1 || got[0].ID != inKabul.ID {
			t.Errorf("parent category should match listings in child categories, got %d", len(got))
		}
	})

	t.Run("price range filter", func(t *testing.T) {
		got, err := repo.FindApproved(ctx, domain.FilterSpec{PriceRange: "1000-5000"})
		if err != nil {
			t.Fatalf("FindApproved: %v", err)
		}
		if len(got) != 1 || got[0].ID != inHerat.ID {
			t.Errorf("got %d listings", len(got))
		}
	})
}

func TestFindApproved_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	bike := seedListing(t, db, func(l *domain.Listing) {
		l.Name = domain.LocalizedText{EN: "Mountain Bike", FA: "بایسکل"}
	})
	car := seedListing(t, db, func(l *domain.Listing) {
		l.Name = domain.LocalizedText{EN: "Toyota"}
		l.Description = domain.LocalizedText{EN: "a reliable bike rack included"}
	})
	tagged := seedListing(t, db, func(l *domain.Listing) {
		l.Name = domain.LocalizedText{EN: "Mystery box"}
		l.Tags = []domain.Tag{{Name: domain.LocalizedText{EN: "bike parts"}}}
	})
	seedListing(t, db, func(l *domain.Listing) {
		l.Name = domain.LocalizedText{EN: "Sofa"}
	})

	got, err := repo.FindApproved(ctx, domain.FilterSpec{Query: "BIKE"})
	if err != nil {
		t.Fatalf("FindApproved: %v", err)
	}

	want := map[uint]bool{bike.ID: true, car.ID: true, tagged.ID: true}
	if len(got) != len(want) {
		t.Fatalf("len = %d; want %d (name, description, and tag matches)", len(got), len(want))
	}
	for _, l := range got {
		if !want[l.ID] {
			t.Errorf("unexpected listing %d in search results", l.ID)
		}
	}
}

func TestFindApproved_TagFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tag := domain.Tag{Name: domain.LocalizedText{EN: "electronics"}}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	tagged := seedListing(t, db, func(l *domain.Listing) { l.Tags = []domain.Tag{tag} })
	seedListing(t, db, nil)

	got, err := repo.FindApproved(ctx, domain.FilterSpec{TagID: &tag.ID})
	if err != nil {
		t.Fatalf("FindApproved: %v", err)
	}
	if len(got) != 1 || got[0].ID != tagged.ID {
		t.Errorf("got %d listings; want only the tagged one", len(got))
	}
}

func TestListingRepository_SetApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, db, func(l *domain.Listing) { l.Approved = false })

	if err := repo.SetApproved(ctx, l.ID, true); err != nil {
		t.Fatalf("SetApproved: %v", err)
	}
	got, _ := repo.GetByID(ctx, l.ID)
	if !got.Approved {
		t.Error("listing should be approved")
	}

	if err := repo.SetApproved(ctx, 999, true); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListingRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, db, func(l *domain.Listing) {
		l.Images = []domain.ListingImage{{Path: "uploads/x.jpg"}}
		l.Tags = []domain.Tag{{Name: domain.LocalizedText{EN: "old"}}}
	})

	if err := repo.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, l.ID); !domain.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	var imageCount int64
	db.Model(&domain.ListingImage{}).Where("listing_id = ?", l.ID).Count(&imageCount)
	if imageCount != 0 {
		t.Errorf("orphan images left: %d", imageCount)
	}

	if err := repo.Delete(ctx, 999); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListingRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedListing(t, db, nil)
	}
	seedListing(t, db, func(l *domain.Listing) { l.Approved = false })

	result, err := repo.List(ctx, domain.PageRequest{
		Page:     1,
		PageSize: 4,
		Sort:     "id:desc",
		Filter:   map[string]string{"approved": "1"},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("Total = %d; want 5", result.Total)
	}
	if len(result.Items) != 4 {
		t.Errorf("len(Items) = %d; want 4", len(result.Items))
	}
	if result.TotalPages != 2 {
		t.Errorf("TotalPages = %d; want 2", result.TotalPages)
	}
}

func TestListingRepository_UpdateReplacesAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, db, func(l *domain.Listing) {
		l.Images = []domain.ListingImage{{Path: "uploads/old.jpg"}}
	})

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	got.Images = []domain.ListingImage{{Path: "uploads/new.jpg"}}
	got.Name = domain.LocalizedText{EN: "renamed"}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if reloaded.Name.EN != "renamed" {
		t.Errorf("Name.EN = %q", reloaded.Name.EN)
	}
	if len(reloaded.Images) != 1 || reloaded.Images[0].Path != "uploads/new.jpg" {
		t.Errorf("images = %+v; want only the new one", reloaded.Images)
	}
}

func TestListingTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)

	l := seedListing(t, db, nil)
	got, err := repo.GetByID(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CreatedAt.IsZero() || time.Since(got.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v; want a recent timestamp", got.CreatedAt)
	}
}
