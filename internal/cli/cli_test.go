package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
	"github.com/Leorodrigs/deathstore-storefront/internal/session"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{" YES \n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		out := &bytes.Buffer{}
		a := &App{In: strings.NewReader(tt.input), Out: out}
		assert.Equal(t, tt.want, a.Confirm("Sure?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Sure? [y/N]:")
	}
}

func TestValidateProductInput(t *testing.T) {
	valid := gateway.ProductInput{
		Name: "Blaster", Brand: "BlasTech", Category: "armas", Price: 100, Stock: 5,
	}
	require.NoError(t, validateProductInput(valid))

	tests := []struct {
		name   string
		mutate func(*gateway.ProductInput)
		detail string
	}{
		{"empty name", func(p *gateway.ProductInput) { p.Name = "  " }, "name is required"},
		{"empty brand", func(p *gateway.ProductInput) { p.Brand = "" }, "brand is required"},
		{"empty category", func(p *gateway.ProductInput) { p.Category = "" }, "category is required"},
		{"zero price", func(p *gateway.ProductInput) { p.Price = 0 }, "price must be positive"},
		{"negative stock", func(p *gateway.ProductInput) { p.Stock = -1 }, "stock cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			err := validateProductInput(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.detail)
		})
	}
}

func TestRequireAdminAndSession(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(""), zap.NewNop())
	a := &App{Session: mgr}

	require.Error(t, a.RequireSession())
	require.Error(t, a.RequireAdmin())

	require.NoError(t, mgr.Login("tok", domain.Claims{SubjectID: 1, ExpiresAt: 9999999999}))
	require.NoError(t, a.RequireSession())
	require.Error(t, a.RequireAdmin(), "claimed non-admin stays gated")

	require.NoError(t, mgr.Login("tok", domain.Claims{SubjectID: 1, IsAdmin: true, ExpiresAt: 9999999999}))
	require.NoError(t, a.RequireAdmin())
}
