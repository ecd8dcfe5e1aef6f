package listing

import (
	"testing"

	"github.com/bazarche/bazarche/internal/domain"
)

func mkListings(n int) []domain.Listing {
	out := make([]domain.Listing, n)
	for i := range out {
		out[i] = domain.Listing{BaseModel: domain.BaseModel{ID: uint(i + 1)}}
	}
	return out
}

func mkPromotions(n int) []domain.Promotion {
	out := make([]domain.Promotion, n)
	for i := range out {
		out[i] = domain.Promotion{BaseModel: domain.BaseModel{ID: uint(100 + i)}}
	}
	return out
}

func TestInterleave_PlacesAdAfterEveryTenth(t *testing.T) {
	items := Interleave(mkListings(25), mkPromotions(2))

	// 25 listings + 2 promotions: slots after listing 10 and 20.
	if len(items) != 27 {
		t.Fatalf("len = %d; want 27", len(items))
	}

	for i, item := range items {
		isAdSlot := i == 10 || i == 21
		if isAdSlot && item.Promotion == nil {
			t.Errorf("index %d: expected a promotion", i)
		}
		if !isAdSlot && item.Listing == nil {
			t.Errorf("index %d: expected a listing", i)
		}
	}

	if items[10].Promotion.ID != 100 || items[21].Promotion.ID != 101 {
		t.Error("promotions should appear in their given order")
	}
}

func TestInterleave_MorePromotionsThanSlots(t *testing.T) {
	items := Interleave(mkListings(15), mkPromotions(5))

	// Only one full group of ten, so only one promotion fits.
	promoCount := 0
	for _, item := range items {
		if item.Promotion != nil {
			promoCount++
		}
	}
	if promoCount != 1 {
		t.Errorf("promotion count = %d; want 1", promoCount)
	}
	if len(items) != 16 {
		t.Errorf("len = %d; want 16", len(items))
	}
}

func TestInterleave_FewListingsNoAds(t *testing.T) {
	items := Interleave(mkListings(9), mkPromotions(3))
	for i, item := range items {
		if item.Promotion != nil {
			t.Errorf("index %d: no promotion should appear before the tenth listing", i)
		}
	}
	if len(items) != 9 {
		t.Errorf("len = %d; want 9", len(items))
	}
}

func TestInterleave_NoPromotions(t *testing.T) {
	items := Interleave(mkListings(30), nil)
	if len(items) != 30 {
		t.Errorf("len = %d; want 30", len(items))
	}
}

func TestInterleave_PreservesListingOrder(t *testing.T) {
	items := Interleave(mkListings(25), mkPromotions(2))

	var got []uint
	for _, item := range items {
		if item.Listing != nil {
			got = append(got, item.Listing.ID)
		}
	}
	for i, id := range got {
		if id != uint(i+1) {
			t.Fatalf("listing order disturbed at position %d: got %d", i, id)
		}
	}
}
