package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// ErrSession reports that a cart could not be established for the session.
// It is never papered over with a synthetic cart id.
var ErrSession = errors.New("cannot establish cart session")

// Store is the injected persistence capability for the cart identifier.
// Get returns "" with a nil error when no value is stored under the key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// CartCreator is the slice of the cart service the resolver needs.
type CartCreator interface {
	CreateCart(ctx context.Context, region string) (storefront.Cart, error)
}

// Resolver obtains or creates the cart identifier for a storefront session.
// A persisted id is returned unchanged; an absent one triggers exactly one
// create-cart call, whose result is persisted before being returned.
type Resolver struct {
	store Store
	carts CartCreator
}

func NewResolver(store Store, carts CartCreator) *Resolver {
	return &Resolver{store: store, carts: carts}
}

func (r *Resolver) EnsureCart(ctx context.Context, sessionKey, regionHint string) (string, error) {
	if sessionKey == "" {
		return "", fmt.Errorf("%w: missing session key", ErrSession)
	}

	cartID, err := r.store.Get(ctx, sessionKey)
	if err != nil {
		return "", fmt.Errorf("%w: read store: %v", ErrSession, err)
	}
	if cartID != "" {
		return cartID, nil
	}

	return r.mint(ctx, sessionKey, regionHint)
}

// ReissueCart discards the persisted id and mints a replacement cart. Used
// when the cart service reports the stored cart gone (expired server-side),
// so callers stop failing against a dead id.
func (r *Resolver) ReissueCart(ctx context.Context, sessionKey, regionHint string) (string, error) {
	if sessionKey == "" {
		return "", fmt.Errorf("%w: missing session key", ErrSession)
	}
	return r.mint(ctx, sessionKey, regionHint)
}

func (r *Resolver) mint(ctx context.Context, sessionKey, regionHint string) (string, error) {
	cart, err := r.carts.CreateCart(ctx, regionHint)
	if err != nil {
		return "", fmt.Errorf("%w: create cart: %v", ErrSession, err)
	}
	if cart.ID == "" {
		return "", fmt.Errorf("%w: cart service returned empty id", ErrSession)
	}

	if err := r.store.Set(ctx, sessionKey, cart.ID); err != nil {
		return "", fmt.Errorf("%w: persist cart id: %v", ErrSession, err)
	}
	return cart.ID, nil
}
