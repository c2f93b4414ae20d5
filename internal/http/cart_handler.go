package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/premaicommerce/hypestorefront/internal/cartsync"
	"github.com/premaicommerce/hypestorefront/internal/middleware"
	"github.com/premaicommerce/hypestorefront/internal/session"
	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// ensureCart resolves the session's cart id. Reports false after writing the
// error response.
func (h *Handler) ensureCart(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := middleware.GetSessionKey(r.Context())
	cartID, err := h.resolver.EnsureCart(r.Context(), key, h.region(r))
	if err != nil {
		h.logger.Printf("ensure cart: %v", err)
		writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
		return "", false
	}
	return cartID, true
}

// reissueCart replaces a cart that expired upstream and drops its stale
// views, so the retried operation runs against the fresh id.
func (h *Handler) reissueCart(ctx context.Context, r *http.Request, deadCartID string) (string, error) {
	h.reconciler.Forget(deadCartID)
	key := middleware.GetSessionKey(ctx)
	return h.resolver.ReissueCart(ctx, key, h.region(r))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.ensureCart(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), cartID)
	if errors.Is(err, storefront.ErrNotFound) {
		fresh, rerr := h.reissueCart(r.Context(), r, cartID)
		if rerr != nil {
			h.logger.Printf("reissue cart: %v", rerr)
			writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
			return
		}
		cart, err = h.carts.GetCart(r.Context(), fresh)
	}
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cart": h.cartView(r.Context(), cart)})
}

// cartLineView is a line item joined with its catalog data. The catalog
// fields stay empty when the lookup fails; the cart itself is still shown.
type cartLineView struct {
	storefront.LineItem
	Title        string                   `json:"title,omitempty"`
	Amount       *int64                   `json:"amount,omitempty"`
	Availability *storefront.Availability `json:"availability,omitempty"`
}

type cartView struct {
	ID     string         `json:"id"`
	Region string         `json:"region,omitempty"`
	Lines  []cartLineView `json:"lines"`
}

func (h *Handler) cartView(ctx context.Context, cart storefront.Cart) cartView {
	view := cartView{ID: cart.ID, Region: cart.Region, Lines: []cartLineView{}}
	for _, item := range cart.Items {
		line := cartLineView{LineItem: item}
		variant, err := h.catalog.GetVariant(ctx, item.VariantID)
		if err != nil {
			h.logger.Printf("enrich line %s: %v", item.VariantID, err)
		} else {
			line.Title = variant.Title
			if amount, ok := variant.DisplayAmount(); ok {
				line.Amount = &amount
			}
			av := storefront.Evaluate(variant)
			line.Availability = &av
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}

func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	cartID, ok := h.ensureCart(w, r)
	if !ok {
		return
	}

	state, err := h.syncWithReissue(w, r, cartID, variantID)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) syncWithReissue(w http.ResponseWriter, r *http.Request, cartID, variantID string) (cartsync.ItemState, error) {
	state, err := h.reconciler.Sync(r.Context(), cartID, variantID)
	if errors.Is(err, storefront.ErrNotFound) {
		fresh, rerr := h.reissueCart(r.Context(), r, cartID)
		if rerr != nil {
			h.logger.Printf("reissue cart: %v", rerr)
			writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
			return state, rerr
		}
		state, err = h.reconciler.Sync(r.Context(), fresh, variantID)
	}
	if err != nil {
		h.writeCartError(w, r, err)
		return state, err
	}
	return state, nil
}

func (h *Handler) IncrementLine(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", "missing variant id")
		return
	}

	cartID, ok := h.ensureCart(w, r)
	if !ok {
		return
	}

	// Availability is evaluated fresh for every increment; the available
	// quantity can change between catalog fetches.
	variant, err := h.catalog.GetVariant(r.Context(), variantID)
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "unknown_variant", "variant not found")
			return
		}
		h.writeCartError(w, r, err)
		return
	}
	availability := storefront.Evaluate(variant)

	state, err := h.reconciler.Increment(r.Context(), cartID, variantID, availability)
	if errors.Is(err, storefront.ErrNotFound) {
		fresh, rerr := h.reissueCart(r.Context(), r, cartID)
		if rerr != nil {
			h.logger.Printf("reissue cart: %v", rerr)
			writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
			return
		}
		state, err = h.reconciler.Increment(r.Context(), fresh, variantID, availability)
	}
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) DecrementLine(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", "missing variant id")
		return
	}

	cartID, ok := h.ensureCart(w, r)
	if !ok {
		return
	}

	state, err := h.reconciler.Decrement(r.Context(), cartID, variantID)
	if errors.Is(err, storefront.ErrNotFound) {
		fresh, rerr := h.reissueCart(r.Context(), r, cartID)
		if rerr != nil {
			h.logger.Printf("reissue cart: %v", rerr)
			writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
			return
		}
		state, err = h.reconciler.Decrement(r.Context(), fresh, variantID)
	}
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// writeCartError maps the error taxonomy onto the HTTP surface. Business
// outcomes are 409s the UI renders; everything else is an upstream problem.
func (h *Handler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cartsync.ErrLimitReached):
		writeError(w, r, http.StatusConflict, "limit_reached", "maximum purchasable quantity reached")
	case errors.Is(err, storefront.ErrInventoryExceeded):
		writeError(w, r, http.StatusConflict, "insufficient_inventory", "requested quantity exceeds availability")
	case errors.Is(err, storefront.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, session.ErrSession):
		writeError(w, r, http.StatusBadGateway, "session_unavailable", "could not establish a cart session")
	default:
		h.logger.Printf("cart operation failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "upstream_error", "cart service request failed")
	}
}
