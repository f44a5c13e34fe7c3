package cart_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/cart"
	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
	"github.com/Leorodrigs/deathstore-storefront/internal/mockstore"
	"github.com/Leorodrigs/deathstore-storefront/internal/session"
)

// Full reconciliation loop against the real gateway and the in-memory
// backend: the engine's snapshot must track server truth through add,
// quantity changes, removal and checkout.
func TestEngine_ReconciliationAgainstBackend(t *testing.T) {
	store := mockstore.NewMemoryStore()
	store.SeedUser(domain.User{Name: "Cliente", Email: "cliente@x.dev"}, "pw")
	store.SeedProducts([]domain.Product{
		{ID: 1, Name: "Blaster", Price: 100, Stock: 3},
		{ID: 2, Name: "Sabre", Price: 450, Stock: 1},
	})
	srv := httptest.NewServer(mockstore.NewServer(store, zap.NewNop()).Router())
	defer srv.Close()

	mgr := session.NewManager(session.NewMemoryStore(""), zap.NewNop())
	client := gateway.New(srv.URL, mgr, zap.NewNop())
	ctx := context.Background()

	resp, err := client.Login(ctx, "cliente@x.dev", "pw")
	require.NoError(t, err)
	require.NoError(t, mgr.Login(resp.Token, resp.User))

	engine := cart.NewEngine(client, zap.NewNop())

	require.NoError(t, engine.AddItem(ctx, 1))
	require.NoError(t, engine.AddItem(ctx, 2))
	assert.True(t, engine.Pending(1))
	assert.Empty(t, engine.Lines(), "add does not insert lines locally")

	require.NoError(t, engine.Fetch(ctx))
	lines := engine.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 550.0, engine.Total())

	var blaster string
	for _, l := range lines {
		if l.ProductID == 1 {
			blaster = l.ID
		}
	}
	require.NotEmpty(t, blaster)

	require.NoError(t, engine.Increment(ctx, blaster))
	require.NoError(t, engine.Increment(ctx, blaster))
	// Stock ceiling reached; further increments are no-ops.
	require.NoError(t, engine.Increment(ctx, blaster))
	got, _ := engine.Line(blaster)
	assert.Equal(t, 3, got.Quantity)

	// Server agrees after a fresh fetch.
	require.NoError(t, engine.Fetch(ctx))
	got, _ = engine.Line(blaster)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 750.0, engine.Total())

	require.NoError(t, engine.ConfirmedRemove(ctx, blaster))
	assert.Len(t, engine.Lines(), 1)

	receipt, err := engine.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 450.0, receipt.Total)
	assert.Empty(t, engine.Lines())

	// Checkout committed stock on the backend.
	sabre, ok := store.Product(2)
	require.True(t, ok)
	assert.Equal(t, 0, sabre.Stock)
}
