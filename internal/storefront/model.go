package storefront

import "time"

// Product is the catalog view of a purchasable product. Fields mirror the
// upstream catalog service payload; the storefront never mutates them.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	Description string     `json:"description,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Images      []Image    `json:"images,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	Variants    []Variant  `json:"variants,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Image struct {
	URL string `json:"url"`
}

type Tag struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type Category struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Handle           string `json:"handle"`
	ParentCategoryID string `json:"parent_category_id,omitempty"`
}

// Variant carries the inventory fields consumed by the policy evaluator.
// The three inventory fields are pointers: the upstream omits them for
// products it does not track, and absence means something different from
// an explicit false/zero.
type Variant struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	ManageInventory   *bool   `json:"manage_inventory,omitempty"`
	AllowBackorder    *bool   `json:"allow_backorder,omitempty"`
	InventoryQuantity *int    `json:"inventory_quantity,omitempty"`
	Prices            []Price `json:"prices,omitempty"`
	CalculatedPrice   *Price  `json:"calculated_price,omitempty"`
}

// Price amounts are in minor units (pence/cents).
type Price struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

// DisplayAmount returns the price the grid shows: the calculated price if
// the upstream resolved one, otherwise the first raw price entry.
func (v Variant) DisplayAmount() (int64, bool) {
	if v.CalculatedPrice != nil {
		return v.CalculatedPrice.Amount, true
	}
	if len(v.Prices) > 0 {
		return v.Prices[0].Amount, true
	}
	return 0, false
}

// Cart is the remote cart aggregate. The cart service owns it; everything
// here is a snapshot of the last response.
type Cart struct {
	ID     string     `json:"id"`
	Region string     `json:"region,omitempty"`
	Items  []LineItem `json:"items"`
}

type LineItem struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// FindItem returns the line item holding the given variant, if any. At most
// one line item exists per (cart, variant) pair.
func (c Cart) FindItem(variantID string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.VariantID == variantID {
			return it, true
		}
	}
	return LineItem{}, false
}

// Availability is the policy evaluator's verdict for a variant.
// MaxQuantity is nil when purchases are unbounded.
type Availability struct {
	InStock     bool `json:"in_stock"`
	MaxQuantity *int `json:"max_quantity,omitempty"`
}
