package cartsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// ErrLimitReached reports that an increment was refused client-side because
// the variant's purchasable maximum is already in the cart. No request is
// sent upstream for a gated increment.
var ErrLimitReached = errors.New("quantity limit reached")

const defaultOpTimeout = 15 * time.Second

// CartAPI is the slice of the cart service the reconciler needs.
// *clients.CartClient satisfies it.
type CartAPI interface {
	GetCart(ctx context.Context, cartID string) (storefront.Cart, error)
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (storefront.Cart, error)
	UpdateLineItem(ctx context.Context, cartID, itemID string, quantity int) (storefront.Cart, error)
	DeleteLineItem(ctx context.Context, cartID, itemID string) error
}

// LineChange describes a confirmed cart mutation, for activity publishing.
type LineChange struct {
	CartID      string
	VariantID   string
	LineItemID  string
	Action      string // "added", "updated", "removed"
	OldQuantity int
	NewQuantity int
}

const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionRemoved = "removed"
)

// ActivityRecorder receives confirmed line changes. Implementations must not
// block the mutation path on delivery guarantees; failures are theirs to log.
type ActivityRecorder interface {
	RecordLineChange(ctx context.Context, change LineChange)
}

// ItemState is the reconciler's view of one (cart, variant) pair: the last
// quantity confirmed by the cart service and the line item holding it.
// Quantity 0 with an empty LineItemID means the variant is not in the cart.
type ItemState struct {
	Quantity   int    `json:"quantity"`
	LineItemID string `json:"line_item_id,omitempty"`
}

// view phases. A view never stays in phaseMutating: every mutation either
// confirms into phaseIdle or surfaces an error and falls back to the last
// confirmed state.
type phase int

const (
	phaseUnknown phase = iota
	phaseIdle
	phaseMutating
	phaseError
)

type itemView struct {
	mu sync.Mutex

	phase      phase
	quantity   int
	lineItemID string
}

func (v *itemView) state() ItemState {
	return ItemState{Quantity: v.quantity, LineItemID: v.lineItemID}
}

// Reconciler keeps displayed quantities consistent with the remote cart.
//
// The cart service is the sole source of truth: every mutation re-reads the
// cart afterwards instead of trusting local arithmetic, because the
// authoritative value may differ (server-side inventory rejection, another
// tab mutating the same cart). Mutations on the same (cart, variant) pair
// serialize behind a per-view lock so a second increment waits for the first
// to confirm; distinct variants mutate concurrently.
type Reconciler struct {
	api      CartAPI
	recorder ActivityRecorder
	timeout  time.Duration

	mu    sync.Mutex
	views map[viewKey]*itemView
}

type viewKey struct {
	cartID    string
	variantID string
}

type Option func(*Reconciler)

// WithTimeout bounds each operation (mutation plus confirming read).
// Exceeding it surfaces as a transient error.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

// WithActivityRecorder attaches a recorder for confirmed line changes.
func WithActivityRecorder(rec ActivityRecorder) Option {
	return func(r *Reconciler) { r.recorder = rec }
}

func New(api CartAPI, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:     api,
		timeout: defaultOpTimeout,
		views:   make(map[viewKey]*itemView),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reconciler) view(cartID, variantID string) *itemView {
	key := viewKey{cartID: cartID, variantID: variantID}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[key]
	if !ok {
		v = &itemView{}
		r.views[key] = v
	}
	return v
}

// Forget drops all views for a cart. Used after the session resolver mints a
// replacement for a cart that expired upstream.
func (r *Reconciler) Forget(cartID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.views {
		if key.cartID == cartID {
			delete(r.views, key)
		}
	}
}

// Sync fetches the cart and returns the authoritative state for the variant.
// It is the single read path; consuming views call it on mount and the
// mutation paths call it after every write.
func (r *Reconciler) Sync(ctx context.Context, cartID, variantID string) (ItemState, error) {
	v := r.view(cartID, variantID)
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.refresh(ctx, v, cartID, variantID); err != nil {
		return v.state(), err
	}
	return v.state(), nil
}

// Increment raises the variant's quantity by one, creating the line item if
// absent. The availability gate is checked against the last confirmed
// quantity before anything is sent upstream: at the cap it returns
// ErrLimitReached without a network call.
func (r *Reconciler) Increment(ctx context.Context, cartID, variantID string, av storefront.Availability) (ItemState, error) {
	v := r.view(cartID, variantID)
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	// Only an Idle view holds a confirmed server value; an Unknown or
	// Error view must re-read before its state is gated on or written
	// back.
	if v.phase != phaseIdle {
		if err := r.refresh(ctx, v, cartID, variantID); err != nil {
			return v.state(), err
		}
	}

	if av.MaxQuantity != nil && v.quantity >= *av.MaxQuantity {
		return v.state(), ErrLimitReached
	}

	old := v.quantity
	v.phase = phaseMutating

	var err error
	action := ActionUpdated
	if v.lineItemID != "" {
		_, err = r.api.UpdateLineItem(ctx, cartID, v.lineItemID, v.quantity+1)
	} else {
		action = ActionAdded
		_, err = r.api.AddLineItem(ctx, cartID, variantID, 1)
	}
	if err != nil {
		// Displayed quantity stays at the last confirmed server value.
		v.phase = phaseError
		return v.state(), classify(fmt.Errorf("increment %s: %w", variantID, err))
	}

	if err := r.refresh(ctx, v, cartID, variantID); err != nil {
		// The mutation may already have landed upstream; the quantity is
		// left at its last confirmed value until the next successful sync.
		return v.state(), classify(fmt.Errorf("confirm increment %s: %w", variantID, err))
	}

	r.record(ctx, LineChange{
		CartID:      cartID,
		VariantID:   variantID,
		LineItemID:  v.lineItemID,
		Action:      action,
		OldQuantity: old,
		NewQuantity: v.quantity,
	})
	return v.state(), nil
}

// Decrement lowers the variant's quantity by one. A quantity that would
// reach zero deletes the line item instead; a line item with quantity <= 0
// must not exist. Decrementing an empty view is a no-op.
func (r *Reconciler) Decrement(ctx context.Context, cartID, variantID string) (ItemState, error) {
	v := r.view(cartID, variantID)
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	if v.phase != phaseIdle {
		if err := r.refresh(ctx, v, cartID, variantID); err != nil {
			return v.state(), err
		}
	}

	if v.quantity <= 0 || v.lineItemID == "" {
		return v.state(), nil
	}

	old := v.quantity
	itemID := v.lineItemID
	next := v.quantity - 1
	v.phase = phaseMutating

	var err error
	action := ActionUpdated
	if next <= 0 {
		action = ActionRemoved
		err = r.api.DeleteLineItem(ctx, cartID, itemID)
	} else {
		_, err = r.api.UpdateLineItem(ctx, cartID, itemID, next)
	}
	if err != nil {
		v.phase = phaseError
		return v.state(), classify(fmt.Errorf("decrement %s: %w", variantID, err))
	}

	if err := r.refresh(ctx, v, cartID, variantID); err != nil {
		return v.state(), classify(fmt.Errorf("confirm decrement %s: %w", variantID, err))
	}

	r.record(ctx, LineChange{
		CartID:      cartID,
		VariantID:   variantID,
		LineItemID:  itemID,
		Action:      action,
		OldQuantity: old,
		NewQuantity: v.quantity,
	})
	return v.state(), nil
}

// refresh re-derives the view from the cart service. Caller holds v.mu.
func (r *Reconciler) refresh(ctx context.Context, v *itemView, cartID, variantID string) error {
	cart, err := r.api.GetCart(ctx, cartID)
	if err != nil {
		v.phase = phaseError
		return classify(fmt.Errorf("sync cart %s: %w", cartID, err))
	}

	if item, ok := cart.FindItem(variantID); ok {
		v.quantity = item.Quantity
		v.lineItemID = item.ID
	} else {
		v.quantity = 0
		v.lineItemID = ""
	}
	v.phase = phaseIdle
	return nil
}

func (r *Reconciler) record(ctx context.Context, change LineChange) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordLineChange(ctx, change)
}

func (r *Reconciler) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// classify folds context expiry into the transient class so callers only
// deal with the documented taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", storefront.ErrTransient, err)
	}
	return err
}
