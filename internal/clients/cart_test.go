package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/premaicommerce/hypestorefront/internal/storefront"
)

func newTestCartClient(t *testing.T, handler http.HandlerFunc) *CartClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := NewClient("cart-service", srv.URL, "pk_test", &http.Client{Timeout: 2 * time.Second})
	return NewCartClient(base)
}

func TestCreateCart(t *testing.T) {
	var gotBody map[string]any
	var gotKey string
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/store/carts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-Publishable-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"cart": map[string]any{"id": "cart_123", "items": []any{}}})
	})

	cart, err := client.CreateCart(context.Background(), "gb")
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if cart.ID != "cart_123" {
		t.Fatalf("unexpected cart id %q", cart.ID)
	}
	if gotBody["region_code"] != "gb" {
		t.Fatalf("region not forwarded: %v", gotBody)
	}
	if gotKey != "pk_test" {
		t.Fatalf("publishable key header missing, got %q", gotKey)
	}
}

func TestGetCartNotFound(t *testing.T) {
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"type": "not_found", "message": "Cart with id cart_dead was not found"})
	})

	_, err := client.GetCart(context.Background(), "cart_dead")
	if !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddLineItemInventoryRejection(t *testing.T) {
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":    "insufficient_inventory",
			"message": "Some variants do not have the required inventory",
		})
	})

	_, err := client.AddLineItem(context.Background(), "cart_1", "v1", 3)
	if !errors.Is(err, storefront.ErrInventoryExceeded) {
		t.Fatalf("expected ErrInventoryExceeded, got %v", err)
	}
}

func TestUpdateLineItemServerError(t *testing.T) {
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	_, err := client.UpdateLineItem(context.Background(), "cart_1", "item_1", 2)
	if !errors.Is(err, storefront.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestCartClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately dead

	base := NewClient("cart-service", srv.URL, "", &http.Client{Timeout: time.Second})
	client := NewCartClient(base)

	_, err := client.GetCart(context.Background(), "cart_1")
	if !errors.Is(err, storefront.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestUpdateLineItemSendsAbsoluteQuantity(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"cart": map[string]any{
			"id":    "cart_1",
			"items": []map[string]any{{"id": "item_1", "variant_id": "v1", "quantity": 4}},
		}})
	})

	cart, err := client.UpdateLineItem(context.Background(), "cart_1", "item_1", 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotPath != "/store/carts/cart_1/line-items/item_1" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if got := gotBody["quantity"].(float64); got != 4 {
		t.Fatalf("expected absolute quantity 4, got %v", got)
	}
	if item, ok := cart.FindItem("v1"); !ok || item.Quantity != 4 {
		t.Fatalf("response not decoded: %+v", cart)
	}
}

func TestDeleteLineItem(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := client.DeleteLineItem(context.Background(), "cart_1", "item_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/store/carts/cart_1/line-items/item_1" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}
