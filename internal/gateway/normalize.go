package gateway

import (
	"encoding/json"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

// normalizeCartSnapshot maps the three cart response shapes the backend
// has been observed to produce (bare array, {items: [...]}, {data: [...]})
// to a flat line list. Anything unrecognizable normalizes to an empty
// cart instead of failing the caller.
func normalizeCartSnapshot(raw []byte) []domain.CartLine {
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err == nil && lines != nil {
		return lines
	}

	var wrapped struct {
		Items []domain.CartLine `json:"items"`
		Data  []domain.CartLine `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Items != nil {
			return wrapped.Items
		}
		if wrapped.Data != nil {
			return wrapped.Data
		}
	}
	return []domain.CartLine{}
}
