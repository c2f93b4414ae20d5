package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// CatalogClient talks to the remote catalog service. Products, variants and
// categories are read-only from the storefront's perspective.
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

type productsEnvelope struct {
	Products []storefront.Product `json:"products"`
	Count    int                  `json:"count"`
}

type productEnvelope struct {
	Product storefront.Product `json:"product"`
}

type variantEnvelope struct {
	Variant storefront.Variant `json:"variant"`
}

type categoriesEnvelope struct {
	ProductCategories []storefront.Category `json:"product_categories"`
}

// ListProducts fetches products matching the upstream-supported query
// (category_id, limit, offset, ...). Filters the upstream does not support
// are applied locally by the browse package.
func (cc *CatalogClient) ListProducts(ctx context.Context, query url.Values) ([]storefront.Product, int, error) {
	var env productsEnvelope
	err := cc.c.do(ctx, http.MethodGet, "/store/products", query.Encode(), nil, &env)
	return env.Products, env.Count, err
}

func (cc *CatalogClient) GetProduct(ctx context.Context, productID string) (storefront.Product, error) {
	var env productEnvelope
	err := cc.c.do(ctx, http.MethodGet, "/store/products/"+productID, "", nil, &env)
	return env.Product, err
}

// GetVariant fetches a single variant with its inventory fields. The policy
// evaluator runs on this fresh response, never a cached one.
func (cc *CatalogClient) GetVariant(ctx context.Context, variantID string) (storefront.Variant, error) {
	var env variantEnvelope
	err := cc.c.do(ctx, http.MethodGet, "/store/variants/"+variantID, "", nil, &env)
	return env.Variant, err
}

func (cc *CatalogClient) ListCategories(ctx context.Context, query url.Values) ([]storefront.Category, error) {
	var env categoriesEnvelope
	err := cc.c.do(ctx, http.MethodGet, "/store/product-categories", query.Encode(), nil, &env)
	return env.ProductCategories, err
}

// GetCategoryByHandle resolves a category by its URL handle.
func (cc *CatalogClient) GetCategoryByHandle(ctx context.Context, handle string) (storefront.Category, error) {
	q := url.Values{}
	q.Set("handle", handle)

	cats, err := cc.ListCategories(ctx, q)
	if err != nil {
		return storefront.Category{}, err
	}
	if len(cats) == 0 {
		return storefront.Category{}, storefront.ErrNotFound
	}
	return cats[0], nil
}
