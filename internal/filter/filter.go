// Package filter selects which orders reach the book. A Base filter covers
// the book's own controls (side, currency, content mode, enabled
// coordinators); a Predicate adds an arbitrary CEL expression on top.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/catalog"
)

// ErrNotBoolean is returned when a predicate does not yield a bool.
var ErrNotBoolean = errors.New("filter expression must evaluate to a bool")

// swapCurrency is the currency code of on-chain swap orders.
const swapCurrency = 1000

// Side restricts the book to one side of the market.
type Side int

const (
	AnySide Side = iota
	BuySide
	SellSide
)

func (s Side) String() string {
	switch s {
	case BuySide:
		return "buy"
	case SellSide:
		return "sell"
	}
	return "any"
}

// Next cycles any, buy, sell.
func (s Side) Next() Side {
	return (s + 1) % 3
}

// ParseSide accepts "any", "buy" or "sell". Empty means any.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return AnySide, nil
	case "buy":
		return BuySide, nil
	case "sell":
		return SellSide, nil
	}
	return AnySide, fmt.Errorf("unknown side %q (expected any, buy or sell)", s)
}

// Base is the book's built-in filter.
type Base struct {
	Side         Side
	Currency     int             // 0 = any; ignored in swap mode
	Mode         catalog.Mode    // swap mode shows only swap orders, fiat mode hides them
	Coordinators map[string]bool // enabled coordinators; nil = all
}

// Match reports whether o passes the base filter.
func (b Base) Match(o book.Order) bool {
	switch b.Side {
	case BuySide:
		if o.IsSell() {
			return false
		}
	case SellSide:
		if !o.IsSell() {
			return false
		}
	}
	if b.Mode == catalog.Swap {
		if o.Currency != swapCurrency {
			return false
		}
	} else {
		if o.Currency == swapCurrency {
			return false
		}
		if b.Currency != 0 && o.Currency != b.Currency {
			return false
		}
	}
	if b.Coordinators != nil && !b.Coordinators[o.CoordinatorShortAlias] {
		return false
	}
	return true
}

// EnabledCoordinators builds a Coordinators set from a federation.
func EnabledCoordinators(f book.Federation) map[string]bool {
	set := make(map[string]bool, f.Len())
	for _, c := range f.Coordinators() {
		if c.Enabled {
			set[c.ShortAlias] = true
		}
	}
	return set
}

// Predicate is a compiled CEL expression over one order, bound to "_".
// Example: `_.premium < 2.0 && _.payment_method.contains("SEPA")`.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr.
func Compile(expr string) (*Predicate, error) {
	env, err := cel.NewEnv(
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	switch ast.OutputType().Kind() {
	case types.BoolKind, types.DynKind:
	default:
		return nil, fmt.Errorf("%q yields %s: %w", expr, ast.OutputType(), ErrNotBoolean)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against o.
func (p *Predicate) Match(o book.Order) (bool, error) {
	v, err := orderValue(o)
	if err != nil {
		return false, fmt.Errorf("order %s: %w", o.RowID(), err)
	}
	out, _, err := p.prg.Eval(map[string]interface{}{"_": v})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("order %s: %w", o.RowID(), ErrNotBoolean)
	}
	return bool(b), nil
}

// orderValue exposes an order to CEL under its wire field names, plus the
// derived currency_code and side.
func orderValue(o book.Order) (map[string]interface{}, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	m["currency_code"] = o.CurrencyCode()
	m["side"] = o.Side().String()
	return m, nil
}

// Orders returns the orders passing base and, when set, pred. The input is
// not modified.
func Orders(orders []book.Order, base Base, pred *Predicate) ([]book.Order, error) {
	out := make([]book.Order, 0, len(orders))
	for _, o := range orders {
		if !base.Match(o) {
			continue
		}
		if pred != nil {
			ok, err := pred.Match(o)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}
