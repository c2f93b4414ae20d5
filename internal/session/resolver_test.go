package session

import (
	"context"
	"errors"
	"testing"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

type fakeCreator struct {
	calls  int
	nextID string
	err    error
	region string
}

func (f *fakeCreator) CreateCart(ctx context.Context, region string) (storefront.Cart, error) {
	f.calls++
	f.region = region
	if f.err != nil {
		return storefront.Cart{}, f.err
	}
	return storefront.Cart{ID: f.nextID}, nil
}

func TestEnsureCartCreatesOnce(t *testing.T) {
	store := NewMemoryStore()
	creator := &fakeCreator{nextID: "cart_abc"}
	r := NewResolver(store, creator)

	first, err := r.EnsureCart(context.Background(), "sess_1", "gb")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first != "cart_abc" {
		t.Fatalf("unexpected cart id %q", first)
	}
	if creator.region != "gb" {
		t.Fatalf("region hint not forwarded, got %q", creator.region)
	}

	second, err := r.EnsureCart(context.Background(), "sess_1", "gb")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second != first {
		t.Fatalf("second ensure returned %q, want %q", second, first)
	}
	if creator.calls != 1 {
		t.Fatalf("expected exactly one create-cart call, got %d", creator.calls)
	}
}

func TestEnsureCartPersists(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store, &fakeCreator{nextID: "cart_abc"})

	if _, err := r.EnsureCart(context.Background(), "sess_1", ""); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	persisted, err := store.Get(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if persisted != "cart_abc" {
		t.Fatalf("persisted %q, want cart_abc", persisted)
	}
}

func TestEnsureCartCreateFailure(t *testing.T) {
	r := NewResolver(NewMemoryStore(), &fakeCreator{err: errors.New("connection refused")})

	_, err := r.EnsureCart(context.Background(), "sess_1", "")
	if !errors.Is(err, ErrSession) {
		t.Fatalf("expected ErrSession, got %v", err)
	}
}

func TestEnsureCartEmptyUpstreamID(t *testing.T) {
	r := NewResolver(NewMemoryStore(), &fakeCreator{nextID: ""})

	_, err := r.EnsureCart(context.Background(), "sess_1", "")
	if !errors.Is(err, ErrSession) {
		t.Fatalf("expected ErrSession for empty upstream id, got %v", err)
	}
}

func TestEnsureCartMissingSessionKey(t *testing.T) {
	r := NewResolver(NewMemoryStore(), &fakeCreator{nextID: "cart_abc"})

	_, err := r.EnsureCart(context.Background(), "", "")
	if !errors.Is(err, ErrSession) {
		t.Fatalf("expected ErrSession, got %v", err)
	}
}

type failingStore struct{ getErr, setErr error }

func (s *failingStore) Get(ctx context.Context, key string) (string, error) { return "", s.getErr }
func (s *failingStore) Set(ctx context.Context, key, value string) error    { return s.setErr }

func TestEnsureCartStoreFailures(t *testing.T) {
	t.Run("read failure", func(t *testing.T) {
		r := NewResolver(&failingStore{getErr: errors.New("db down")}, &fakeCreator{nextID: "cart_abc"})
		if _, err := r.EnsureCart(context.Background(), "sess_1", ""); !errors.Is(err, ErrSession) {
			t.Fatalf("expected ErrSession, got %v", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		r := NewResolver(&failingStore{setErr: errors.New("db down")}, &fakeCreator{nextID: "cart_abc"})
		if _, err := r.EnsureCart(context.Background(), "sess_1", ""); !errors.Is(err, ErrSession) {
			t.Fatalf("expected ErrSession, got %v", err)
		}
	})
}

func TestReissueCartReplacesDeadID(t *testing.T) {
	store := NewMemoryStore()
	creator := &fakeCreator{nextID: "cart_old"}
	r := NewResolver(store, creator)

	old, err := r.EnsureCart(context.Background(), "sess_1", "")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	creator.nextID = "cart_new"
	fresh, err := r.ReissueCart(context.Background(), "sess_1", "")
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if fresh == old {
		t.Fatal("reissue returned the dead cart id")
	}

	ensured, err := r.EnsureCart(context.Background(), "sess_1", "")
	if err != nil {
		t.Fatalf("ensure after reissue: %v", err)
	}
	if ensured != fresh {
		t.Fatalf("ensure returned %q after reissue, want %q", ensured, fresh)
	}
	if creator.calls != 2 {
		t.Fatalf("expected two create-cart calls, got %d", creator.calls)
	}
}
