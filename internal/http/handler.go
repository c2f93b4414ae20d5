package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/premaicommerce/hypestorefront/internal/cartsync"
	"github.com/premaicommerce/hypestorefront/internal/middleware"
	"github.com/premaicommerce/hypestorefront/internal/model"
	"github.com/premaicommerce/hypestorefront/internal/session"
	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

// CatalogAPI is the slice of the catalog client the handlers use.
type CatalogAPI interface {
	ListProducts(ctx context.Context, query url.Values) ([]storefront.Product, int, error)
	GetVariant(ctx context.Context, variantID string) (storefront.Variant, error)
	GetCategoryByHandle(ctx context.Context, handle string) (storefront.Category, error)
}

type Handler struct {
	logger        *log.Logger
	resolver      *session.Resolver
	reconciler    *cartsync.Reconciler
	catalog       CatalogAPI
	carts         cartsync.CartAPI
	defaultRegion string
}

type Deps struct {
	Logger        *log.Logger
	Resolver      *session.Resolver
	Reconciler    *cartsync.Reconciler
	Catalog       CatalogAPI
	Carts         cartsync.CartAPI
	DefaultRegion string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		logger:        d.Logger,
		resolver:      d.Resolver,
		reconciler:    d.Reconciler,
		catalog:       d.Catalog,
		carts:         d.Carts,
		defaultRegion: d.DefaultRegion,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) region(r *http.Request) string {
	if region := r.URL.Query().Get("region"); region != "" {
		return region
	}
	return h.defaultRegion
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		Code:          code,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}
