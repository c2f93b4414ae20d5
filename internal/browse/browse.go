// Package browse applies storefront listing semantics (filters, sort
// orders, pagination, facet counts) to catalog responses. The catalog
// service supports category filtering natively; price bands and tag facets
// are applied here, on the fetched page.
package browse

import (
	"sort"
	"strings"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

const (
	SortDefault   = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
	SortNewest    = "newest"
)

// Query is one listing request. Zero values mean "no constraint"; MaxPrice
// 0 leaves the upper bound open. Tag filters OR within a group and AND
// across groups, matching the facet sidebar's toggle behaviour.
type Query struct {
	CategoryID string
	MinPrice   int64
	MaxPrice   int64
	Tags       [][]string
	Sort       string
	Limit      int
	Offset     int
}

// ProductView decorates a product with the listing-derived fields the grid
// renders: a display price and the availability verdict for its lead
// variant.
type ProductView struct {
	storefront.Product
	Amount       *int64                  `json:"amount,omitempty"`
	Availability storefront.Availability `json:"availability"`
}

type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Facet struct {
	ID     string       `json:"id"`
	Values []FacetValue `json:"values"`
}

// Result is one listing page. Count is the filtered total before
// pagination; facets are counted over the filtered set so the sidebar
// reflects the current selection.
type Result struct {
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
	Facets   []Facet       `json:"facets"`
}

// Apply filters, sorts and paginates the fetched products.
func Apply(products []storefront.Product, q Query) Result {
	filtered := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := newView(p)
		if !matches(view, q) {
			continue
		}
		filtered = append(filtered, view)
	}

	sortViews(filtered, q.Sort)

	res := Result{
		Count:  len(filtered),
		Facets: facets(filtered),
	}
	res.Products = paginate(filtered, q.Offset, q.Limit)
	return res
}

func newView(p storefront.Product) ProductView {
	view := ProductView{Product: p, Availability: storefront.Availability{InStock: true}}
	if len(p.Variants) > 0 {
		lead := p.Variants[0]
		if amount, ok := lead.DisplayAmount(); ok {
			view.Amount = &amount
		}
		view.Availability = storefront.Evaluate(lead)
	}
	return view
}

func matches(v ProductView, q Query) bool {
	if q.CategoryID != "" && !hasCategory(v.Product, q.CategoryID) {
		return false
	}

	if q.MinPrice > 0 || q.MaxPrice > 0 {
		// Unpriced products never match an explicit price band.
		if v.Amount == nil {
			return false
		}
		if q.MinPrice > 0 && *v.Amount < q.MinPrice {
			return false
		}
		if q.MaxPrice > 0 && *v.Amount > q.MaxPrice {
			return false
		}
	}

	for _, group := range q.Tags {
		if len(group) == 0 {
			continue
		}
		if !hasAnyTag(v.Product, group) {
			return false
		}
	}
	return true
}

func hasCategory(p storefront.Product, id string) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasAnyTag(p storefront.Product, values []string) bool {
	for _, t := range p.Tags {
		for _, want := range values {
			if strings.EqualFold(t.Value, want) {
				return true
			}
		}
	}
	return false
}

func sortViews(views []ProductView, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(views, func(i, j int) bool {
			return priceOrNoPriceLast(views[i]) < priceOrNoPriceLast(views[j])
		})
	case SortPriceDesc:
		sort.SliceStable(views, func(i, j int) bool {
			return priceOrNoPriceFirst(views[i]) > priceOrNoPriceFirst(views[j])
		})
	case SortTitle:
		sort.SliceStable(views, func(i, j int) bool {
			return strings.ToLower(views[i].Title) < strings.ToLower(views[j].Title)
		})
	case SortNewest:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
	}
}

func priceOrNoPriceLast(v ProductView) int64 {
	if v.Amount == nil {
		return int64(1) << 62
	}
	return *v.Amount
}

func priceOrNoPriceFirst(v ProductView) int64 {
	if v.Amount == nil {
		return -1
	}
	return *v.Amount
}

// facets counts tag values over the filtered set, sorted by count then
// value for stable rendering.
func facets(views []ProductView) []Facet {
	counts := make(map[string]int)
	for _, v := range views {
		seen := make(map[string]bool)
		for _, t := range v.Tags {
			val := strings.ToLower(t.Value)
			if val == "" || seen[val] {
				continue
			}
			seen[val] = true
			counts[val]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	values := make([]FacetValue, 0, len(counts))
	for val, count := range counts {
		values = append(values, FacetValue{Value: val, Count: count})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})

	return []Facet{{ID: "tags", Values: values}}
}

func paginate(views []ProductView, offset, limit int) []ProductView {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(views) {
		return []ProductView{}
	}
	end := len(views)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return views[offset:end]
}
