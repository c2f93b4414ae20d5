package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/premaicommerce/hypestorefront/internal/browse"
	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, upstream, err := parseListing(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	// Category and region narrowing happens upstream; price bands, tag
	// groups, sorting and facet counts are computed here over the fetched
	// window.
	if region := h.region(r); region != "" {
		upstream.Set("region_id", region)
	}
	products, _, err := h.catalog.ListProducts(r.Context(), upstream)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, browse.Apply(products, q))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	category, err := h.catalog.GetCategoryByHandle(r.Context(), handle)
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category})
}

// parseListing splits the request query into the local browse query and the
// parameters forwarded upstream.
func parseListing(values url.Values) (browse.Query, url.Values, error) {
	q := browse.Query{Limit: defaultPageSize}
	upstream := url.Values{}

	if v := values.Get("category_id"); v != "" {
		q.CategoryID = v
		upstream.Set("category_id", v)
	}
	if v := values.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return q, nil, errors.New("min_price must be a non-negative integer")
		}
		q.MinPrice = n
	}
	if v := values.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return q, nil, errors.New("max_price must be a non-negative integer")
		}
		q.MaxPrice = n
	}
	// Each tags parameter is one OR-group; repeating the parameter ANDs
	// the groups: tags=portrait,street&tags=bw.
	for _, group := range values["tags"] {
		var vals []string
		for _, t := range strings.Split(group, ",") {
			if t = strings.TrimSpace(t); t != "" {
				vals = append(vals, t)
			}
		}
		if len(vals) > 0 {
			q.Tags = append(q.Tags, vals)
		}
	}
	switch sort := values.Get("sort"); sort {
	case browse.SortDefault, browse.SortPriceAsc, browse.SortPriceDesc, browse.SortTitle, browse.SortNewest:
		q.Sort = sort
	default:
		return q, nil, errors.New("unknown sort order")
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return q, nil, errors.New("limit must be between 1 and 100")
		}
		q.Limit = n
	}
	if v := values.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, nil, errors.New("offset must be a non-negative integer")
		}
		q.Offset = n
	}

	return q, upstream, nil
}
