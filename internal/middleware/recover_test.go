package middleware

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/premaicommerce/hypestorefront/internal/model"
)

func TestRecover(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := CorrelationID(Recover(logger)(panicky))

	r := httptest.NewRequest(http.MethodGet, "/store/cart", nil)
	r.Header.Set(HeaderCorrelationID, "corr_1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp model.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "internal_error" {
		t.Fatalf("expected code internal_error, got %q", resp.Code)
	}
	if resp.CorrelationID != "corr_1" {
		t.Fatalf("expected correlation id corr_1, got %q", resp.CorrelationID)
	}
}
