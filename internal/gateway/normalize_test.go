package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

func TestNormalizeCartSnapshot(t *testing.T) {
	lineJSON := `{"id":"a","productId":1,"quantity":2,"product":{"id":1,"name":"x","price":10,"stock":5}}`
	want := []domain.CartLine{{
		ID:        "a",
		ProductID: 1,
		Quantity:  2,
		Product:   domain.Product{ID: 1, Name: "x", Price: 10, Stock: 5},
	}}

	tests := []struct {
		name string
		raw  string
		want []domain.CartLine
	}{
		{"bare array", `[` + lineJSON + `]`, want},
		{"items wrapper", `{"items":[` + lineJSON + `]}`, want},
		{"data wrapper", `{"data":[` + lineJSON + `]}`, want},
		{"items wins over data", `{"items":[` + lineJSON + `],"data":[]}`, want},
		{"empty array", `[]`, []domain.CartLine{}},
		{"garbage string", `"garbage"`, []domain.CartLine{}},
		{"number", `42`, []domain.CartLine{}},
		{"null", `null`, []domain.CartLine{}},
		{"unrecognized wrapper", `{"lines":[` + lineJSON + `]}`, []domain.CartLine{}},
		{"wrapper with wrong type", `{"items":"nope"}`, []domain.CartLine{}},
		{"not JSON at all", `<html>`, []domain.CartLine{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCartSnapshot([]byte(tt.raw)))
		})
	}
}
