package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// faultyStore fails every operation, for exercising the degrade paths.
type faultyStore struct{}

var errStoreDown = errors.New("store down")

func (faultyStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}
func (faultyStore) Set(context.Context, string, []byte, time.Duration) error { return errStoreDown }
func (faultyStore) Delete(context.Context, ...string) error                  { return errStoreDown }
func (faultyStore) Clear(context.Context) error                              { return errStoreDown }
func (faultyStore) Ping(context.Context) error                               { return errStoreDown }

func TestReadThrough_MissComputesAndStores(t *testing.T) {
	store := NewMemoryStore()
	rt := NewReadThrough(store, nil)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	got, err := rt.GetOrCompute(ctx, "k", time.Minute, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if string(got) != "computed" {
		t.Errorf("got %q", got)
	}
	if calls != 1 {
		t.Errorf("compute called %d times; want 1", calls)
	}

	// Second call hits the cache.
	got, err = rt.GetOrCompute(ctx, "k", time.Minute, compute)
	if err != nil {
		t.Fatalf("GetOrCompute (hit): %v", err)
	}
	if string(got) != "computed" {
		t.Errorf("got %q on hit", got)
	}
	if calls != 1 {
		t.Errorf("compute called %d times after hit; want 1", calls)
	}
}

func TestReadThrough_ComputeErrorSurfaces(t *testing.T) {
	rt := NewReadThrough(NewMemoryStore(), nil)
	boom := errors.New("boom")

	_, err := rt.GetOrCompute(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v; want compute error", err)
	}
}

func TestReadThrough_StoreFaultsDegrade(t *testing.T) {
	rt := NewReadThrough(faultyStore{}, nil)

	calls := 0
	got, err := rt.GetOrCompute(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute with broken store: %v", err)
	}
	if string(got) != "fresh" || calls != 1 {
		t.Errorf("got %q, calls=%d; want direct compute", got, calls)
	}
}
