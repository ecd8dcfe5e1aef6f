package listing

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/bazarche/bazarche/internal/cache"
	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

// feedPageSize is the number of feed items (listings plus interleaved
// promotions) per page.
const feedPageSize = 20

// FeedService assembles the public listing feed: ranked approved listings
// with promotions interleaved, paginated, and cached per query.
type FeedService struct {
	listings   domain.ListingRepository
	promotions domain.PromotionRepository
	cache      *cache.ReadThrough
	listingTTL time.Duration
	detailTTL  time.Duration
	countTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewFeedService wires the feed over the listing and promotion repositories.
// Zero TTLs fall back to the package defaults.
func NewFeedService(listings domain.ListingRepository, promotions domain.PromotionRepository, rt *cache.ReadThrough, listingTTL, detailTTL, countTTL time.Duration, logger *slog.Logger) *FeedService {
	if listingTTL <= 0 {
		listingTTL = cache.ListingTTL
	}
	if detailTTL <= 0 {
		detailTTL = cache.DetailTTL
	}
	if countTTL <= 0 {
		countTTL = cache.CountTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{
		listings:   listings,
		promotions: promotions,
		cache:      rt,
		listingTTL: listingTTL,
		detailTTL:  detailTTL,
		countTTL:   countTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// FeedJSON returns the marshaled FeedPage for one query. Pages for the
// common query shapes (category, city, free-text search) are served through
// the cache; queries carrying a tag, price range, explicit sort, or a
// non-default locale are computed directly because their variation is not
// part of the cache key.
func (s *FeedService) FeedJSON(ctx context.Context, spec domain.FilterSpec, loc domain.Locale) ([]byte, error) {
	if !cacheable(spec, loc) {
		return s.computeFeed(ctx, spec, loc)
	}

	key := cache.ListKey(spec.CategoryID, spec.CityID, spec.Query, normalizePage(spec.Page))
	return s.cache.GetOrCompute(ctx, key, s.listingTTL, func(ctx context.Context) ([]byte, error) {
		return s.computeFeed(ctx, spec, loc)
	})
}

// Feed is FeedJSON decoded back into its page structure, for callers that
// need the metadata rather than the raw payload.
func (s *FeedService) Feed(ctx context.Context, spec domain.FilterSpec, loc domain.Locale) (*FeedPage, error) {
	raw, err := s.FeedJSON(ctx, spec, loc)
	if err != nil {
		return nil, err
	}
	var page FeedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "corrupt feed payload", err)
	}
	return &page, nil
}

func (s *FeedService) computeFeed(ctx context.Context, spec domain.FilterSpec, loc domain.Locale) ([]byte, error) {
	matches, err := s.listings.FindApproved(ctx, spec)
	if err != nil {
		return nil, err
	}

	if spec.Sort != "" {
		SortBy(matches, spec.Sort)
	} else {
		Rank(matches, spec.CityID)
	}

	promotions, err := s.promotions.FindCurrent(ctx, domain.PromotionLocationProducts, spec.CityID, s.now())
	if err != nil {
		// A broken promotion query degrades to a plain listing feed.
		s.logger.WarnContext(ctx, "promotion lookup failed, serving feed without ads", slog.Any("error", err))
		promotions = nil
	}

	items := Interleave(matches, promotions)
	page := pkg.SlicePage(items, feedPageSize, normalizePage(spec.Page))

	// The total counts the combined sequence, interleaved ads included.
	out := FeedPage{
		Products:      make([]any, 0, len(page.Items)),
		HasNext:       page.HasNext,
		CurrentPage:   page.CurrentPage,
		TotalPages:    page.TotalPages,
		TotalProducts: page.TotalCount,
	}
	for _, item := range page.Items {
		if item.Listing != nil {
			out.Products = append(out.Products, newProductItem(item.Listing, loc))
		} else {
			out.Products = append(out.Products, newAdItem(item.Promotion))
		}
	}

	return json.Marshal(out)
}

// DetailJSON returns the cached detail projection of one approved listing.
// Only the default locale goes through the cache.
func (s *FeedService) DetailJSON(ctx context.Context, id uint, loc domain.Locale) ([]byte, error) {
	if loc != domain.DefaultLocale {
		return s.computeDetail(ctx, id, loc)
	}
	return s.cache.GetOrCompute(ctx, cache.DetailKey(id), s.detailTTL, func(ctx context.Context) ([]byte, error) {
		return s.computeDetail(ctx, id, loc)
	})
}

func (s *FeedService) computeDetail(ctx context.Context, id uint, loc domain.Locale) ([]byte, error) {
	l, err := s.listings.GetApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newDetailView(l, loc)
	return json.Marshal(view)
}

// TotalApproved returns the cached count of approved listings, the figure
// displayed in site statistics. Listing mutations drop the key.
func (s *FeedService) TotalApproved(ctx context.Context) (int64, error) {
	raw, err := s.cache.GetOrCompute(ctx, cache.CountKey, s.countTTL, func(ctx context.Context) ([]byte, error) {
		total, err := s.listings.CountApproved(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(total, 10)), nil
	})
	if err != nil {
		return 0, err
	}
	total, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, domain.NewAppError(domain.CodeInternal, "corrupt count payload", err)
	}
	return total, nil
}

func cacheable(spec domain.FilterSpec, loc domain.Locale) bool {
	return spec.TagID == nil && spec.PriceRange == "" && spec.Sort == "" && loc == domain.DefaultLocale
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
