package columns

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/bookgrid/internal/cell"
)

// Catalog construction errors.
var (
	ErrEmptyKey      = errors.New("column key is empty")
	ErrDuplicateKey  = errors.New("duplicate column key")
	ErrNoRenderer    = errors.New("column has no renderer")
	ErrNegativeWidth = errors.New("column width is negative")
)

// Variant is one concrete rendering of a column at a density.
type Variant struct {
	Width    float64 // em
	Renderer cell.Kind
	Header   string
}

// Spec is an immutable catalog entry. Small is optional; without it the
// column renders Normal at every density.
type Spec struct {
	Key      string
	Priority int // informational only, never used for selection
	Order    int // display rank, ascending left to right
	Normal   Variant
	Small    *Variant
}

// Overhead converts raw column widths into the container width, accounting
// for spacing and borders between columns.
type Overhead struct {
	Factor float64
	Margin float64
}

// DefaultOverhead is the packing overhead of the order book.
var DefaultOverhead = Overhead{Factor: 0.875, Margin: 0.15}

// Apply scales a raw width.
func (o Overhead) Apply(width float64) float64 {
	return width*o.Factor + o.Margin
}

// Catalog is a fixed, ordered list of column specs. Declaration order is the
// packing order and is independent of each spec's Order.
type Catalog struct {
	name     string
	specs    []Spec
	overhead Overhead
}

// NewCatalog validates specs and returns a catalog that keeps its own copy.
func NewCatalog(name string, overhead Overhead, specs ...Spec) (Catalog, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Key == "" {
			return Catalog{}, fmt.Errorf("catalog %s: %w", name, ErrEmptyKey)
		}
		if seen[s.Key] {
			return Catalog{}, fmt.Errorf("catalog %s: %q: %w", name, s.Key, ErrDuplicateKey)
		}
		seen[s.Key] = true
		if err := validateVariant(s.Normal); err != nil {
			return Catalog{}, fmt.Errorf("catalog %s: %q normal: %w", name, s.Key, err)
		}
		if s.Small != nil {
			if err := validateVariant(*s.Small); err != nil {
				return Catalog{}, fmt.Errorf("catalog %s: %q small: %w", name, s.Key, err)
			}
		}
	}

	owned := make([]Spec, len(specs))
	for i, s := range specs {
		owned[i] = s
		if s.Small != nil {
			small := *s.Small
			owned[i].Small = &small
		}
	}
	return Catalog{name: name, specs: owned, overhead: overhead}, nil
}

// MustCatalog is NewCatalog for compiled-in catalogs.
func MustCatalog(name string, overhead Overhead, specs ...Spec) Catalog {
	c, err := NewCatalog(name, overhead, specs...)
	if err != nil {
		panic(err)
	}
	return c
}

func validateVariant(v Variant) error {
	if v.Renderer == cell.None {
		return ErrNoRenderer
	}
	if v.Width < 0 {
		return ErrNegativeWidth
	}
	return nil
}

// Name identifies the catalog in logs.
func (c Catalog) Name() string { return c.name }

// Overhead returns the packing overhead.
func (c Catalog) Overhead() Overhead { return c.overhead }

// Len returns the number of specs.
func (c Catalog) Len() int { return len(c.specs) }

// Specs returns a copy of the specs in packing order.
func (c Catalog) Specs() []Spec {
	out := make([]Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup returns the spec for key.
func (c Catalog) Lookup(key string) (Spec, bool) {
	for _, s := range c.specs {
		if s.Key == key {
			return s, true
		}
	}
	return Spec{}, false
}

// resolve picks the variant for a density.
func (s Spec) resolve(small bool) Variant {
	if small && s.Small != nil {
		return *s.Small
	}
	return s.Normal
}
