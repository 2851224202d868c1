// Package catalog declares the compiled-in column catalogs of the order book
// and the federation roster.
package catalog

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/bookgrid/internal/cell"
	"github.com/oakwood-commons/bookgrid/internal/columns"
)

// Mode is the content mode of the order book.
type Mode int

const (
	Fiat Mode = iota
	Swap // on-chain bitcoin swaps; there is no currency to show
)

func (m Mode) String() string {
	if m == Swap {
		return "swap"
	}
	return "fiat"
}

// MarshalText lets modes appear by name in JSON and YAML output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Swap {
		return Fiat
	}
	return Swap
}

// ParseMode accepts "fiat" or "swap", case-insensitively. Empty means fiat.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fiat":
		return Fiat, nil
	case "swap":
		return Swap, nil
	}
	return Fiat, fmt.Errorf("unknown mode %q (expected fiat or swap)", s)
}

// FederationOverhead is the packing overhead of the roster.
var FederationOverhead = columns.Overhead{Factor: 0.9, Margin: 0}

func variant(width float64, kind cell.Kind, header string) columns.Variant {
	return columns.Variant{Width: width, Renderer: kind, Header: header}
}

func small(width float64, kind cell.Kind, header string) *columns.Variant {
	v := variant(width, kind, header)
	return &v
}

// bookSpecs lists the order book columns in packing order. Widths that
// depend on the mode are filled in by bookCatalog.
func bookSpecs(amountWidth, currencyWidth, typeWidth float64) []columns.Spec {
	return []columns.Spec{
		{Key: "amount", Priority: 1, Order: 5, Normal: variant(amountWidth, cell.Amount, "Amount")},
		{Key: "currency", Priority: 2, Order: 6, Normal: variant(currencyWidth, cell.Currency, "Currency")},
		{Key: "premium", Priority: 3, Order: 12, Normal: variant(6, cell.Premium, "Premium")},
		{
			Key: "payment_method", Priority: 4, Order: 7,
			Normal: variant(12.85, cell.Payment, "Payment Method"),
			Small:  small(4.4, cell.PaymentIcons, "Pay"),
		},
		{
			Key: "maker_nick", Priority: 5, Order: 1,
			Normal: variant(17.14, cell.Robot, "Robot"),
			Small:  small(4.1, cell.RobotAvatar, "Robot"),
		},
		{Key: "coordinatorShortAlias", Priority: 5, Order: 3, Normal: variant(4.1, cell.Coordinator, "Host")},
		{Key: "price", Priority: 6, Order: 11, Normal: variant(10, cell.Price, "Price")},
		{Key: "expires_at", Priority: 7, Order: 8, Normal: variant(5, cell.Expiry, "Expiry")},
		{Key: "escrow_duration", Priority: 8, Order: 9, Normal: variant(4.8, cell.Timer, "Timer")},
		{Key: "satoshis_now", Priority: 9, Order: 10, Normal: variant(6, cell.Sats, "Sats now")},
		{Key: "type", Priority: 10, Order: 2, Normal: variant(typeWidth, cell.Type, "Is")},
		{Key: "bond_size", Priority: 11, Order: 11, Normal: variant(4.2, cell.Bond, "Bond")},
		{Key: "id", Priority: 12, Order: 13, Normal: variant(4.8, cell.OrderID, "Order ID")},
	}
}

var (
	fiatBook = columns.MustCatalog("book", columns.DefaultOverhead, bookSpecs(6.5, 5.9, 4.3)...)
	swapBook = columns.MustCatalog("book", columns.DefaultOverhead, bookSpecs(9.5, 0, 7)...)

	federation = columns.MustCatalog("federation", FederationOverhead,
		columns.Spec{
			Key: "alias", Priority: 2, Order: 1,
			Normal: variant(12.1, cell.Alias, "Coordinator"),
			Small:  small(4.1, cell.AliasShort, "Coordinator"),
		},
		columns.Spec{Key: "up", Priority: 3, Order: 2, Normal: variant(3.5, cell.Up, "Up")},
		columns.Spec{Key: "enabled", Priority: 1, Order: 3, Normal: variant(5, cell.Enabled, "Enabled")},
	)
)

// Book returns the order book catalog for mode.
func Book(mode Mode) columns.Catalog {
	if mode == Swap {
		return swapBook
	}
	return fiatBook
}

// BookExclusions returns the keys the book never shows in mode.
func BookExclusions(mode Mode) map[string]bool {
	if mode == Swap {
		return map[string]bool{"currency": true}
	}
	return nil
}

// Federation returns the roster catalog; the roster has no modes.
func Federation(Mode) columns.Catalog {
	return federation
}

// NoExclusions is the exclusion set of tables without excluded columns.
func NoExclusions(Mode) map[string]bool {
	return nil
}
