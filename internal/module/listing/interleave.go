package listing

import "github.com/bazarche/bazarche/internal/domain"

// adInterval is the number of listings shown between two promotion slots.
const adInterval = 10

// FeedItem is one entry of the interleaved feed. Exactly one of the two
// pointers is set.
type FeedItem struct {
	Listing   *domain.Listing
	Promotion *domain.Promotion
}

// Interleave merges ranked listings with promotions: one promotion is placed
// after every tenth listing until the promotions run out. Leftover promotions
// are dropped, and the promotion rotation carries across page boundaries
// because the whole sequence is built before slicing.
func Interleave(listings []domain.Listing, promotions []domain.Promotion) []FeedItem {
	items := make([]FeedItem, 0, len(listings)+len(promotions))

	next := 0
	for i := range listings {
		items = append(items, FeedItem{Listing: &listings[i]})
		if (i+1)%adInterval == 0 && next < len(promotions) {
			items = append(items, FeedItem{Promotion: &promotions[next]})
			next++
		}
	}

	return items
}
