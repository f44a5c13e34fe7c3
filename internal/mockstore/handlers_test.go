package mockstore

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

type fixture struct {
	store *MemoryStore
	srv   *httptest.Server
	admin string
	user  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := NewMemoryStore()
	server := NewServer(store, zap.NewNop())

	adminUser := store.SeedUser(domain.User{Name: "Admin", Email: "admin@x.dev", IsAdmin: true}, "pw")
	plainUser := store.SeedUser(domain.User{Name: "User", Email: "user@x.dev"}, "pw")
	store.SeedProducts([]domain.Product{
		{ID: 1, Name: "Blaster", Brand: "BlasTech", Category: "armas", Price: 100, Stock: 3},
	})

	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)
	return &fixture{
		store: store,
		srv:   srv,
		admin: server.mintToken(adminUser),
		user:  server.mintToken(plainUser),
	}
}

func (f *fixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuth_MissingOrInvalidToken(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminGating(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/user", f.user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/user", f.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]domain.User](t, resp)
	assert.Len(t, users, 2)
}

func TestLogin_MintsDecodableToken(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "user@x.dev", "password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auth := decode[struct {
		Token string        `json:"token"`
		User  domain.Claims `json:"user"`
	}](t, resp)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "user@x.dev", auth.User.Email)
	assert.Greater(t, auth.User.ExpiresAt, int64(0))

	// The minted token works for authenticated calls.
	resp = f.request(t, http.MethodGet, "/user/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCart_AddConflictAndCheckoutDecrementsStock(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/cart/items", f.user, map[string]any{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	line := decode[domain.CartLine](t, resp)
	assert.NotEmpty(t, line.ID)

	// Same product twice is a conflict, not a merge.
	resp = f.request(t, http.MethodPost, "/cart/items", f.user, map[string]any{"productId": 1, "quantity": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The cart comes back wrapped in {items}.
	resp = f.request(t, http.MethodGet, "/cart", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wrapped := decode[struct {
		Items []domain.CartLine `json:"items"`
	}](t, resp)
	require.Len(t, wrapped.Items, 1)

	resp = f.request(t, http.MethodPost, "/cart/checkout", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	product, ok := f.store.Product(1)
	require.True(t, ok)
	assert.Equal(t, 1, product.Stock)

	// Checkout emptied the cart; a second checkout has nothing to commit.
	resp = f.request(t, http.MethodPost, "/cart/checkout", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCart_QuantityBounds(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/cart/items", f.user, map[string]any{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	line := decode[domain.CartLine](t, resp)

	resp = f.request(t, http.MethodPatch, "/cart/items/"+line.ID, f.user, map[string]int{"quantity": 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodPatch, "/cart/items/"+line.ID, f.user, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodPatch, "/cart/items/"+line.ID, f.user, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProducts_AdminCRUD(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/products", f.admin, productDTO{
		Name: "Caça TIE", Brand: "Sienar", Category: "naves", Price: 75000, Stock: 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[domain.Product](t, resp)
	assert.NotZero(t, created.ID)

	resp = f.request(t, http.MethodPost, "/products", f.user, productDTO{Name: "x", Price: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodDelete, "/products/999", f.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
