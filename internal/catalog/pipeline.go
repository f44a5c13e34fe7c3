// Package catalog derives the displayed product ordering from the raw
// product list and the user's filter/sort parameters. Pure: no network,
// no mutation of inputs.
package catalog

import (
	"net/url"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

// SortKey selects the primary ordering.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// SortKeys lists every accepted key, for flag validation.
var SortKeys = []SortKey{SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc}

// ValidSortKey reports whether s is one of the accepted sort keys.
func ValidSortKey(s string) bool {
	for _, k := range SortKeys {
		if s == string(k) {
			return true
		}
	}
	return false
}

// Params is the transient filter/sort state, owned by the caller. Brand
// and category are exact, case-sensitive matches; empty means unset.
type Params struct {
	Sort     SortKey
	Brand    string
	Category string

	seeded bool
}

// NewParams returns the neutral state.
func NewParams() Params {
	return Params{Sort: SortDefault}
}

// SeedCategory seeds the category filter from a deep-link navigation
// parameter, when present.
func (p *Params) SeedCategory(query url.Values) {
	if c := query.Get("category"); c != "" {
		p.Category = c
		p.seeded = true
	}
}

// Seeded reports whether the current category came from a deep link.
func (p *Params) Seeded() bool { return p.seeded }

// Clear resets sort and both filters, dropping any seeded deep-link
// category. It reports whether a seeded category was cleared, so the
// caller knows to strip the navigation parameter too.
func (p *Params) Clear() bool {
	wasSeeded := p.seeded
	p.Sort = SortDefault
	p.Brand = ""
	p.Category = ""
	p.seeded = false
	return wasSeeded
}

// Pipeline derives display orderings. The collator is built once; name
// sorts are locale-aware.
type Pipeline struct {
	collator *collate.Collator
}

// New builds a Pipeline sorting names per the given locale.
func New(tag language.Tag) *Pipeline {
	return &Pipeline{collator: collate.New(tag)}
}

// Derive filters then sorts. Availability dominates every sort mode:
// after the primary sort, a stable pass moves out-of-stock items behind
// in-stock ones without disturbing relative order within each tier.
func (p *Pipeline) Derive(products []domain.Product, params Params) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, prod := range products {
		if params.Brand != "" && prod.Brand != params.Brand {
			continue
		}
		if params.Category != "" && prod.Category != params.Category {
			continue
		}
		out = append(out, prod)
	}

	switch params.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return p.collator.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return p.collator.CompareString(out[i].Name, out[j].Name) > 0
		})
	default:
		// In-stock first, ties by ascending ID. The availability pass
		// below would be a no-op here, so this is the whole ordering.
		sort.SliceStable(out, func(i, j int) bool {
			iStock, jStock := out[i].Stock > 0, out[j].Stock > 0
			if iStock != jStock {
				return iStock
			}
			return out[i].ID < out[j].ID
		})
		return out
	}

	// Availability pass: stable, so the user's chosen order holds
	// within each availability tier.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stock > 0 && out[j].Stock <= 0
	})
	return out
}

// Options returns the sorted distinct non-empty brand and category
// values, for populating filter controls. Derived once per catalog load.
func Options(products []domain.Product) (brands, categories []string) {
	brandSet := make(map[string]struct{})
	categorySet := make(map[string]struct{})
	for _, p := range products {
		if p.Brand != "" {
			brandSet[p.Brand] = struct{}{}
		}
		if p.Category != "" {
			categorySet[p.Category] = struct{}{}
		}
	}
	for b := range brandSet {
		brands = append(brands, b)
	}
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(brands)
	sort.Strings(categories)
	return brands, categories
}
