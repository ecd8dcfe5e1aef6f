package listing

import (
	"testing"
	"time"

	"github.com/bazarche/bazarche/internal/domain"
)

func mkListing(id uint, createdAt time.Time, mutate func(*domain.Listing)) domain.Listing {
	l := domain.Listing{
		BaseModel: domain.BaseModel{ID: id, CreatedAt: createdAt},
		Name:      domain.LocalizedText{FA: "item"},
	}
	if mutate != nil {
		mutate(&l)
	}
	return l
}

func ids(listings []domain.Listing) []uint {
	out := make([]uint, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func equalIDs(a []uint, b ...uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank_BucketOrder(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	listings := []domain.Listing{
		mkListing(1, base, nil),
		mkListing(2, base, func(l *domain.Listing) { l.Discounted = true }),
		mkListing(3, base, func(l *domain.Listing) { l.Suggested = true }),
		mkListing(4, base, func(l *domain.Listing) { l.Featured = true }),
	}

	Rank(listings, nil)

	if got := ids(listings); !equalIDs(got, 4, 3, 2, 1) {
		t.Errorf("ranked order = %v; want featured, suggested, discounted, regular", got)
	}
}

func TestRank_FeaturedWinsOverOtherFlags(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	listings := []domain.Listing{
		mkListing(1, base, func(l *domain.Listing) { l.Suggested = true }),
		mkListing(2, base, func(l *domain.Listing) {
			l.Featured = true
			l.Discounted = true
			l.Suggested = true
		}),
	}

	Rank(listings, nil)

	if listings[0].ID != 2 {
		t.Errorf("listing with all flags should rank as featured, got order %v", ids(listings))
	}
}

func TestRank_NewestFirstWithinBucket(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	listings := []domain.Listing{
		mkListing(1, base.Add(-2*time.Hour), nil),
		mkListing(2, base, nil),
		mkListing(3, base.Add(-time.Hour), nil),
	}

	Rank(listings, nil)

	if got := ids(listings); !equalIDs(got, 2, 3, 1) {
		t.Errorf("order within bucket = %v; want newest first", got)
	}
}

func TestRank_EqualTimestampsOrderByID(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	listings := []domain.Listing{
		mkListing(1, base, nil),
		mkListing(3, base, nil),
		mkListing(2, base, nil),
	}

	Rank(listings, nil)

	if got := ids(listings); !equalIDs(got, 3, 2, 1) {
		t.Errorf("order = %v; want descending id on equal timestamps", got)
	}
}

func TestRank_CityScopedFlags(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	kabul := domain.City{BaseModel: domain.BaseModel{ID: 1}}
	herat := domain.City{BaseModel: domain.BaseModel{ID: 2}}

	listings := []domain.Listing{
		// Featured only in Herat.
		mkListing(1, base, func(l *domain.Listing) {
			l.Featured = true
			l.FeaturedCities = []domain.City{herat}
		}),
		// Featured everywhere.
		mkListing(2, base.Add(-time.Hour), func(l *domain.Listing) { l.Featured = true }),
		// Featured in Kabul.
		mkListing(3, base.Add(-2*time.Hour), func(l *domain.Listing) {
			l.Featured = true
			l.FeaturedCities = []domain.City{kabul}
		}),
	}

	kabulID := kabul.ID
	Rank(listings, &kabulID)

	// In Kabul: 2 (unrestricted, newer) and 3 (restricted to Kabul) are
	// featured; 1 drops to the regular bucket.
	if got := ids(listings); !equalIDs(got, 2, 3, 1) {
		t.Errorf("order in Kabul = %v; want 2, 3, 1", got)
	}

	// With no city context, restricted flags do not apply at all.
	Rank(listings, nil)
	if got := ids(listings); !equalIDs(got, 2, 1, 3) {
		t.Errorf("order without city = %v; want 2, 1, 3", got)
	}
}

func TestSortBy_Price(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v uint) *uint { return &v }

	listings := []domain.Listing{
		mkListing(1, base, func(l *domain.Listing) { l.Price = price(300) }),
		mkListing(2, base, func(l *domain.Listing) {
			l.Price = price(500)
			l.DiscountPrice = price(100)
			l.Discounted = true
		}),
		mkListing(3, base, func(l *domain.Listing) { l.Price = price(200) }),
	}

	SortBy(listings, "price_asc")
	if got := ids(listings); !equalIDs(got, 2, 3, 1) {
		t.Errorf("price_asc order = %v; want discount price to count", got)
	}

	SortBy(listings, "price_desc")
	if got := ids(listings); !equalIDs(got, 1, 3, 2) {
		t.Errorf("price_desc order = %v", got)
	}
}

func TestSortBy_UnknownFallsBackToNewest(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	listings := []domain.Listing{
		mkListing(1, base.Add(-time.Hour), nil),
		mkListing(2, base, nil),
	}

	SortBy(listings, "whatever")
	if got := ids(listings); !equalIDs(got, 2, 1) {
		t.Errorf("order = %v; want newest first", got)
	}
}
