package storefront

import "errors"

// Upstream failure classes. The typed clients translate HTTP responses from
// the cart and catalog services into these sentinels so callers can branch
// with errors.Is without knowing status codes.
var (
	// ErrNotFound: the cart, line item, or product vanished upstream
	// (expired cart, deleted product). Callers may re-resolve the session.
	ErrNotFound = errors.New("not found")

	// ErrInventoryExceeded: the cart service rejected a mutation because the
	// requested quantity exceeds availability. Never retried automatically.
	ErrInventoryExceeded = errors.New("insufficient inventory")

	// ErrTransient: network or server failure unrelated to business rules.
	// Callers may retry.
	ErrTransient = errors.New("transient upstream failure")
)
