package listing

import (
	"sort"

	"github.com/bazarche/bazarche/internal/domain"
)

// Ranking buckets, in display order. A listing lands in the first bucket
// whose flag is effective for the viewer's city.
const (
	bucketFeatured   = 0
	bucketSuggested  = 1
	bucketDiscounted = 2
	bucketRegular    = 3
)

// bucketRank returns the ranking bucket for a listing as seen from cityID.
// A flag only counts when its city restriction set is empty or contains the
// viewer's city; with no viewer city, any restriction set disables the flag.
func bucketRank(l *domain.Listing, cityID *uint) int {
	if l.Featured && flagAppliesIn(l.FeaturedCities, cityID) {
		return bucketFeatured
	}
	if l.Suggested && flagAppliesIn(l.SuggestedCities, cityID) {
		return bucketSuggested
	}
	if l.Discounted && flagAppliesIn(l.DiscountedCities, cityID) {
		return bucketDiscounted
	}
	return bucketRegular
}

func flagAppliesIn(cities []domain.City, cityID *uint) bool {
	if len(cities) == 0 {
		return true
	}
	if cityID == nil {
		return false
	}
	for _, c := range cities {
		if c.ID == *cityID {
			return true
		}
	}
	return false
}

// Rank orders listings in place for the default feed: bucket first, newest
// first within a bucket, listing id as the final tiebreaker so equal
// timestamps still order deterministically.
func Rank(listings []domain.Listing, cityID *uint) {
	sort.SliceStable(listings, func(i, j int) bool {
		ri, rj := bucketRank(&listings[i], cityID), bucketRank(&listings[j], cityID)
		if ri != rj {
			return ri < rj
		}
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		}
		return listings[i].ID > listings[j].ID
	})
}

// SortBy applies one of the explicit sort orders instead of the default
// bucket ranking. Unknown values fall back to newest-first.
func SortBy(listings []domain.Listing, order string) {
	switch order {
	case "price_asc":
		sort.SliceStable(listings, func(i, j int) bool {
			return effectivePrice(&listings[i]) < effectivePrice(&listings[j])
		})
	case "price_desc":
		sort.SliceStable(listings, func(i, j int) bool {
			return effectivePrice(&listings[i]) > effectivePrice(&listings[j])
		})
	default:
		sort.SliceStable(listings, func(i, j int) bool {
			if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
				return listings[i].CreatedAt.After(listings[j].CreatedAt)
			}
			return listings[i].ID > listings[j].ID
		})
	}
}

// effectivePrice is the price buyers pay: the discount price when one is
// active, otherwise the list price. Unpriced listings sort last ascending.
func effectivePrice(l *domain.Listing) uint {
	if l.Discounted && l.DiscountPrice != nil {
		return *l.DiscountPrice
	}
	if l.Price != nil {
		return *l.Price
	}
	return ^uint(0)
}
