package cache

import (
	"context"
	"log/slog"
)

// Invalidator removes cache entries that a listing or promotion mutation may
// have made stale. List entries are not addressable by listing id, so any
// mutation drops the whole list keyspace plus the entity's detail entry.
type Invalidator interface {
	// InvalidateListing drops the detail entry for one listing and every
	// listing-list entry.
	InvalidateListing(ctx context.Context, id uint) error
	// InvalidateLists drops every listing-list entry and the cached count.
	InvalidateLists(ctx context.Context) error
	// InvalidateTaxonomy drops the cached category/city/tag lists.
	InvalidateTaxonomy(ctx context.Context) error
}

// NewInvalidator selects an invalidation strategy by capability check on the
// store: prefix deletion when the backend supports it, key enumeration
// otherwise, and a full clear as the last resort. All three converge on the
// same observable state.
func NewInvalidator(store Store, logger *slog.Logger) Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	switch s := store.(type) {
	case PrefixDeleter:
		return &prefixInvalidator{store: store, prefixes: s, logger: logger}
	case KeyLister:
		return &enumerateInvalidator{store: store, lister: s, logger: logger}
	default:
		return &clearInvalidator{store: store, logger: logger}
	}
}

type prefixInvalidator struct {
	store    Store
	prefixes PrefixDeleter
	logger   *slog.Logger
}

func (i *prefixInvalidator) InvalidateListing(ctx context.Context, id uint) error {
	if err := i.store.Delete(ctx, DetailKey(id)); err != nil {
		return err
	}
	return i.InvalidateLists(ctx)
}

func (i *prefixInvalidator) InvalidateLists(ctx context.Context) error {
	if err := i.prefixes.DeletePrefix(ctx, ListKeyPrefix); err != nil {
		return err
	}
	return i.store.Delete(ctx, CountKey)
}

func (i *prefixInvalidator) InvalidateTaxonomy(ctx context.Context) error {
	return i.store.Delete(ctx, CategoriesKey, CitiesKey, TagsKey)
}

type enumerateInvalidator struct {
	store  Store
	lister KeyLister
	logger *slog.Logger
}

func (i *enumerateInvalidator) InvalidateListing(ctx context.Context, id uint) error {
	if err := i.store.Delete(ctx, DetailKey(id)); err != nil {
		return err
	}
	return i.InvalidateLists(ctx)
}

func (i *enumerateInvalidator) InvalidateLists(ctx context.Context) error {
	keys, err := i.lister.Keys(ctx, ListKeyPrefix)
	if err != nil {
		return err
	}
	keys = append(keys, CountKey)
	return i.store.Delete(ctx, keys...)
}

func (i *enumerateInvalidator) InvalidateTaxonomy(ctx context.Context) error {
	return i.store.Delete(ctx, CategoriesKey, CitiesKey, TagsKey)
}

// clearInvalidator drops everything. Coarse, but correct for stores with no
// enumeration or pattern support.
type clearInvalidator struct {
	store  Store
	logger *slog.Logger
}

func (i *clearInvalidator) InvalidateListing(ctx context.Context, id uint) error {
	return i.store.Clear(ctx)
}

func (i *clearInvalidator) InvalidateLists(ctx context.Context) error {
	return i.store.Clear(ctx)
}

func (i *clearInvalidator) InvalidateTaxonomy(ctx context.Context) error {
	return i.store.Clear(ctx)
}
