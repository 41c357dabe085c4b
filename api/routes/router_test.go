package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/spa-storefront/api/middleware"
	"github.com/angelmondragon/spa-storefront/internal/cart"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	"github.com/angelmondragon/spa-storefront/internal/checkout"
	"github.com/angelmondragon/spa-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/metrics"
	"github.com/angelmondragon/spa-storefront/pkg/storage"
)

type stubProvider struct {
	handoffs []checkout.Handoff
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) CreateSession(_ context.Context, h checkout.Handoff) (*checkout.Session, error) {
	p.handoffs = append(p.handoffs, h)
	return &checkout.Session{RedirectURL: "https://pay.example.com/session/1", ProviderRef: "sess_1"}, nil
}

func newTestServer(t *testing.T, provider checkout.Provider) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Storage: config.StorageConfig{Backend: config.StorageBackendMemory},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)

	store, err := cart.NewStore(storage.NewMemory(0), nil, cartMetrics)
	require.NoError(t, err)
	products, err := catalog.Default()
	require.NoError(t, err)
	svc, err := checkout.NewService(store, provider, "usd", nil, cartMetrics)
	require.NoError(t, err)

	return NewRouter(cfg, nil, reg, store, products, svc)
}

func request(h http.Handler, method, path, cartID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if cartID != "" {
		req.Header.Set(middleware.CartIDHeader, cartID)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	h := newTestServer(t, checkout.UnavailableProvider{})

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/health/live", "", "").Code)
	resp := request(h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"storage":"memory"`)
}

func TestProductRoutes(t *testing.T) {
	h := newTestServer(t, checkout.UnavailableProvider{})

	resp := request(h, http.MethodGet, "/api/v1/products?category=body%20care", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Data, 3)

	resp = request(h, http.MethodGet, "/api/v1/products/1", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"price":"19.99"`)

	assert.Equal(t, http.StatusNotFound, request(h, http.MethodGet, "/api/v1/products/404", "", "").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/v1/categories", "", "").Code)
}

func TestCartSessionCookieIsMinted(t *testing.T) {
	h := newTestServer(t, checkout.UnavailableProvider{})

	resp := request(h, http.MethodGet, "/api/v1/cart", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(middleware.CartIDHeader))
	require.Len(t, resp.Result().Cookies(), 1)
}

func TestCheckoutFlow(t *testing.T) {
	provider := &stubProvider{}
	h := newTestServer(t, provider)
	const cartID = "router-cart-0001"

	resp := request(h, http.MethodPost, "/api/v1/checkout", cartID, `{"customer_info":{"name":"Ada","email":"ada@example.com"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code, "empty cart cannot check out")

	require.Equal(t, http.StatusCreated, request(h, http.MethodPost, "/api/v1/cart/items", cartID, `{"product_id":1,"quantity":2}`).Code)
	require.Equal(t, http.StatusCreated, request(h, http.MethodPost, "/api/v1/cart/items", cartID, `{"product_id":13}`).Code)

	resp = request(h, http.MethodPost, "/api/v1/checkout", cartID, `{"customer_info":{"name":"Ada","email":"bad"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = request(h, http.MethodPost, "/api/v1/checkout", cartID, `{"customer_info":{"name":"Ada","email":"ada@example.com","phone":"555"}}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data struct {
			RedirectURL string `json:"redirect_url"`
			Total       string `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "https://pay.example.com/session/1", body.Data.RedirectURL)
	assert.Equal(t, "49.97", body.Data.Total)
	require.Len(t, provider.handoffs, 1)

	// checkout leaves the cart in place
	resp = request(h, http.MethodGet, "/api/v1/cart/count", cartID, "")
	assert.Contains(t, resp.Body.String(), `"count":2`)

	metricsResp := request(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), `cart_mutations_total{op="add",outcome="ok"} 2`)
	assert.Contains(t, metricsResp.Body.String(), `checkout_handoffs_total{outcome="ok",provider="stub"} 1`)
}

func TestCheckoutWithoutProvider(t *testing.T) {
	h := newTestServer(t, checkout.UnavailableProvider{})
	const cartID = "router-cart-0002"
	request(h, http.MethodPost, "/api/v1/cart/items", cartID, `{"product_id":4}`)

	resp := request(h, http.MethodPost, "/api/v1/checkout", cartID, `{"customer_info":{"name":"Ada","email":"ada@example.com"}}`)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), string(pkgerrors.CodeCheckout))
}
