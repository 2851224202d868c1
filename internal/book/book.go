// Package book holds the listing records the tables display: public orders
// of the federated book and the coordinators of the federation. Snapshots
// are read-only; changes produce new values.
package book

import (
	"fmt"
	"time"

	"github.com/oakwood-commons/bookgrid/pkg/premium"
)

// Order types as published by coordinators.
const (
	TypeBuy  = 0
	TypeSell = 1
)

// Order is one public order of the book.
type Order struct {
	ID                    int       `json:"id"`
	CoordinatorShortAlias string    `json:"coordinatorShortAlias"`
	Type                  int       `json:"type"`
	Currency              int       `json:"currency"`
	Amount                float64   `json:"amount"`
	MinAmount             float64   `json:"min_amount"`
	MaxAmount             float64   `json:"max_amount"`
	HasRange              bool      `json:"has_range"`
	PaymentMethod         string    `json:"payment_method"`
	Price                 float64   `json:"price"`
	Premium               float64   `json:"premium"`
	EscrowDuration        int       `json:"escrow_duration"` // seconds
	ExpiresAt             time.Time `json:"expires_at"`
	SatoshisNow           float64   `json:"satoshis_now"`
	BondSize              float64   `json:"bond_size"`
	MakerNick             string    `json:"maker_nick"`
	MakerStatus           string    `json:"maker_status"`
}

// RowID identifies an order across coordinators.
func (o Order) RowID() string {
	return fmt.Sprintf("%s/%d", o.CoordinatorShortAlias, o.ID)
}

// IsSell reports whether the maker sells bitcoin.
func (o Order) IsSell() bool {
	return o.Type == TypeSell
}

// Side maps the order type onto a premium side.
func (o Order) Side() premium.Side {
	if o.IsSell() {
		return premium.Sell
	}
	return premium.Buy
}

// CurrencyCode resolves the order's numeric currency.
func (o Order) CurrencyCode() string {
	return CurrencyCode(o.Currency)
}

// Snapshot is the order book as last reported by the data source.
type Snapshot struct {
	Orders             []Order `json:"orders"`
	Loading            bool    `json:"loading"`
	LoadedCoordinators int     `json:"loadedCoordinators"`
	TotalCoordinators  int     `json:"totalCoordinators"`
}

// Progress is the share of coordinators loaded, in percent.
func (s Snapshot) Progress() float64 {
	if s.TotalCoordinators <= 0 {
		return 0
	}
	return float64(s.LoadedCoordinators) / float64(s.TotalCoordinators) * 100
}

// WithOrders returns a copy of s listing orders instead.
func (s Snapshot) WithOrders(orders []Order) Snapshot {
	s.Orders = orders
	return s
}
