package clients

import (
	"context"
	"net/http"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// CartClient talks to the remote cart service, the sole owner of cart state.
type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// The cart service wraps every response in a cart envelope.
type cartEnvelope struct {
	Cart storefront.Cart `json:"cart"`
}

type createCartRequest struct {
	RegionCode string `json:"region_code,omitempty"`
}

type addLineItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateLineItemRequest struct {
	Quantity int `json:"quantity"`
}

// CreateCart mints a new cart, optionally scoped to a region. Not
// idempotent upstream: call at most once per missing-id detection.
func (cc *CartClient) CreateCart(ctx context.Context, region string) (storefront.Cart, error) {
	var env cartEnvelope
	err := cc.c.do(ctx, http.MethodPost, "/store/carts", "", createCartRequest{RegionCode: region}, &env)
	return env.Cart, err
}

func (cc *CartClient) GetCart(ctx context.Context, cartID string) (storefront.Cart, error) {
	var env cartEnvelope
	err := cc.c.do(ctx, http.MethodGet, "/store/carts/"+cartID, "", nil, &env)
	return env.Cart, err
}

func (cc *CartClient) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (storefront.Cart, error) {
	var env cartEnvelope
	err := cc.c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items", "",
		addLineItemRequest{VariantID: variantID, Quantity: quantity}, &env)
	return env.Cart, err
}

// UpdateLineItem sets the line item to an absolute quantity. Relative deltas
// are never sent: a stale local view must not be written back blindly.
func (cc *CartClient) UpdateLineItem(ctx context.Context, cartID, itemID string, quantity int) (storefront.Cart, error) {
	var env cartEnvelope
	err := cc.c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items/"+itemID, "",
		updateLineItemRequest{Quantity: quantity}, &env)
	return env.Cart, err
}

func (cc *CartClient) DeleteLineItem(ctx context.Context, cartID, itemID string) error {
	return cc.c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+itemID, "", nil, nil)
}
