// Package columns packs a fixed catalog of columns into a width budget.
package columns

import (
	"sort"

	"github.com/oakwood-commons/bookgrid/internal/cell"
	"github.com/oakwood-commons/bookgrid/internal/layout"
)

// MinVisible is the number of columns shown regardless of the width budget.
const MinVisible = 2

// Packed is a column resolved for one render pass.
type Packed struct {
	Key      string
	Width    float64 // em, of the resolved variant
	Renderer cell.Kind
	Header   string
	Order    int
	Visible  bool
}

// Result is the outcome of a packing pass. It is never mutated; toggles
// return a new Result.
type Result struct {
	Columns    []Packed        // visible columns in display order
	All        []Packed        // every packed column in display order, hidden ones included
	Visibility map[string]bool // key -> visible
	TotalWidth float64         // em, including packing overhead
}

// Pack selects the columns of catalog that fit widthBudget at density.
//
// Specs are visited once in catalog order; excluded keys are skipped
// entirely. A column is visible when it still fits the running width or when
// fewer than MinVisible columns have been selected, so the floor can overflow
// the budget. Hidden columns are resolved too so they can be toggled on later.
// The result is then stably sorted by Order.
func Pack(catalog Catalog, widthBudget float64, density layout.Density, exclusions map[string]bool) Result {
	small := density == layout.Small
	running := 0.0
	selected := make([]Packed, 0, catalog.Len())
	visible := 0

	for _, spec := range catalog.specs {
		if exclusions[spec.Key] {
			continue
		}
		v := spec.resolve(small)
		p := Packed{
			Key:      spec.Key,
			Width:    v.Width,
			Renderer: v.Renderer,
			Header:   v.Header,
			Order:    spec.Order,
		}
		if running+v.Width < widthBudget || visible < MinVisible {
			running += v.Width
			p.Visible = true
			visible++
		}
		selected = append(selected, p)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Order < selected[j].Order
	})

	res := build(selected)
	res.TotalWidth = catalog.overhead.Apply(running)
	return res
}

// build derives the visible list and visibility map from the ordered columns.
func build(all []Packed) Result {
	res := Result{
		Columns:    make([]Packed, 0, len(all)),
		All:        all,
		Visibility: make(map[string]bool, len(all)),
	}
	for _, p := range all {
		res.Visibility[p.Key] = p.Visible
		if p.Visible {
			res.Columns = append(res.Columns, p)
		}
	}
	return res
}

// Visible reports whether key is currently shown.
func (r Result) Visible(key string) bool {
	return r.Visibility[key]
}

// Keys returns the visible keys in display order.
func (r Result) Keys() []string {
	keys := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		keys[i] = c.Key
	}
	return keys
}

// WithVisibility returns a copy of r with key shown or hidden. TotalWidth is
// kept: it sizes the container, which a user toggle does not resize. Unknown
// keys return an unchanged copy.
func (r Result) WithVisibility(key string, visible bool) Result {
	all := make([]Packed, len(r.All))
	copy(all, r.All)
	for i := range all {
		if all[i].Key == key {
			all[i].Visible = visible
		}
	}
	res := build(all)
	res.TotalWidth = r.TotalWidth
	return res
}
