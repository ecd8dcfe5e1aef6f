package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Key prefixes. Every listing-list entry lives under ListKeyPrefix so that a
// single prefix deletion invalidates all of them.
const (
	ListKeyPrefix      = "products:list"
	DetailKeyPrefix    = "product:detail:"
	CountKey           = "products:total_count"
	CategoriesKey      = "categories:all"
	CitiesKey          = "cities:all"
	TagsKey            = "tags:all"
	RateLimitKeyPrefix = "rl:"
)

// Default TTLs per entry class.
const (
	ListingTTL  = 10 * time.Minute
	DetailTTL   = 30 * time.Minute
	TaxonomyTTL = 30 * time.Minute
	CountTTL    = 5 * time.Minute
)

// ListKey builds the deterministic cache key for one listing-list query.
// Optional components are omitted entirely when unset, so two specs that
// normalize to the same components share a key. The free-text query is
// folded to an 8-character md5 prefix to bound key length.
func ListKey(categoryID, cityID *uint, query string, page int) string {
	var b strings.Builder
	b.WriteString(ListKeyPrefix)

	if categoryID != nil {
		fmt.Fprintf(&b, ":cat_%d", *categoryID)
	}
	if cityID != nil {
		fmt.Fprintf(&b, ":city_%d", *cityID)
	}
	if query != "" {
		fmt.Fprintf(&b, ":search_%s", QueryHash(query))
	}
	fmt.Fprintf(&b, ":page_%d", page)

	return b.String()
}

// DetailKey builds the cache key for one listing's detail projection.
func DetailKey(id uint) string {
	return fmt.Sprintf("%s%d", DetailKeyPrefix, id)
}

// QueryHash returns a stable 8-character digest of a free-text query.
func QueryHash(query string) string {
	sum := md5.Sum([]byte(query))
	return hex.EncodeToString(sum[:])[:8]
}
