package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/spa-storefront/api/middleware"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	cartsvc "github.com/angelmondragon/spa-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/storage"
	"github.com/angelmondragon/spa-storefront/pkg/types"
)

const testCartID = "controller-cart-01"

type brokenKV struct {
	*storage.Memory
}

func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func newRouter(t *testing.T, kv storage.KV) http.Handler {
	t.Helper()
	store, err := cartsvc.NewStore(kv, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	products, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithCartID(r.Context(), testCartID)))
		})
	})
	r.Get("/cart", CartFetch(store, nil))
	r.Get("/cart/count", CartCount(store, nil))
	r.Post("/cart/items", CartAddItem(store, products, nil))
	r.Patch("/cart/items/{id}", CartSetQuantity(store, nil))
	r.Delete("/cart/items/{id}", CartRemoveItem(store, nil))
	r.Delete("/cart", CartClear(store, nil))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartDTO {
	t.Helper()
	var envelope struct {
		Data cartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error
}

func TestCartLifecycle(t *testing.T) {
	h := newRouter(t, storage.NewMemory(0))

	resp := do(t, h, http.MethodGet, "/cart", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); got.Total != "0.00" || len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}

	resp = do(t, h, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); got.Total != "39.98" || got.Count != 1 {
		t.Fatalf("unexpected cart after add: %+v", got)
	}

	resp = do(t, h, http.MethodPost, "/cart/items", `{"product_id":13}`)
	got := decodeCart(t, resp)
	if got.Total != "49.97" || got.Count != 2 || got.Units != 3 {
		t.Fatalf("unexpected cart after second add: %+v", got)
	}
	if got.Items[0].Subtotal != "39.98" || got.Items[1].Price != "9.99" {
		t.Fatalf("unexpected line items: %+v", got.Items)
	}

	resp = do(t, h, http.MethodGet, "/cart/count", "")
	var count struct {
		Data countDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count.Data.Count != 2 {
		t.Fatalf("expected badge 2 got %d", count.Data.Count)
	}

	resp = do(t, h, http.MethodPatch, "/cart/items/1", `{"quantity":0}`)
	if got := decodeCart(t, resp); got.Total != "9.99" || got.Count != 1 {
		t.Fatalf("unexpected cart after zero quantity: %+v", got)
	}

	resp = do(t, h, http.MethodDelete, "/cart/items/13", "")
	if got := decodeCart(t, resp); got.Total != "0.00" || len(got.Items) != 0 {
		t.Fatalf("unexpected cart after remove: %+v", got)
	}
}

func TestCartAddItemRejectsBadInput(t *testing.T) {
	h := newRouter(t, storage.NewMemory(0))

	resp := do(t, h, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":0}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}

	resp = do(t, h, http.MethodPost, "/cart/items", `{"product_id":999}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	resp = do(t, h, http.MethodPatch, "/cart/items/abc", `{"quantity":1}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	resp = do(t, h, http.MethodPatch, "/cart/items/1", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity got %d", resp.Code)
	}
}

func TestCartQuantityIsBounded(t *testing.T) {
	h := newRouter(t, storage.NewMemory(0))

	resp := do(t, h, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":9223372036854775807}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized quantity got %d", resp.Code)
	}

	resp = do(t, h, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":9999}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	resp = do(t, h, http.MethodPost, "/cart/items", `{"product_id":1}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when merge exceeds the limit got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}

	resp = do(t, h, http.MethodPatch, "/cart/items/1", `{"quantity":10000}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized set got %d", resp.Code)
	}

	got := decodeCart(t, do(t, h, http.MethodGet, "/cart", ""))
	if len(got.Items) != 1 || got.Items[0].Quantity != 9999 || got.Total != "199880.01" {
		t.Fatalf("unexpected cart after rejected mutations: %+v", got)
	}
}

func TestCartClear(t *testing.T) {
	h := newRouter(t, storage.NewMemory(0))
	do(t, h, http.MethodPost, "/cart/items", `{"product_id":3}`)

	resp := do(t, h, http.MethodDelete, "/cart", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, do(t, h, http.MethodGet, "/cart", "")); len(got.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", got)
	}
}

func TestCartWriteFailureIsServiceUnavailable(t *testing.T) {
	h := newRouter(t, brokenKV{Memory: storage.NewMemory(0)})

	resp := do(t, h, http.MethodPost, "/cart/items", `{"product_id":1}`)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Code != string(pkgerrors.CodeStorageWrite) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}
}

func TestCartFetchMalformedRecordRendersEmpty(t *testing.T) {
	kv := storage.NewMemory(0)
	if err := kv.Set(context.Background(), "cart:"+testCartID, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := newRouter(t, kv)

	resp := do(t, h, http.MethodGet, "/cart", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); len(got.Items) != 0 || got.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestCartRequiresSession(t *testing.T) {
	store, err := cartsvc.NewStore(storage.NewMemory(0), nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	resp := httptest.NewRecorder()
	CartFetch(store, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
