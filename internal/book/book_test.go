package book

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/bookgrid/pkg/premium"
)

func TestSnapshot_Progress(t *testing.T) {
	tests := []struct {
		name   string
		loaded int
		total  int
		want   float64
	}{
		{"none loaded", 0, 8, 0},
		{"half", 4, 8, 50},
		{"all", 8, 8, 100},
		{"no coordinators", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{LoadedCoordinators: tt.loaded, TotalCoordinators: tt.total}
			assert.Equal(t, tt.want, s.Progress())
		})
	}
}

func TestOrder_Decode(t *testing.T) {
	raw := `{
		"id": 17,
		"coordinatorShortAlias": "moon",
		"type": 1,
		"currency": 1,
		"amount": 120.5,
		"payment_method": "Strike",
		"premium": -1.5,
		"escrow_duration": 28800,
		"expires_at": "2024-05-01T12:00:00Z",
		"maker_nick": "BrightOtter"
	}`
	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, "moon/17", o.RowID())
	assert.True(t, o.IsSell())
	assert.Equal(t, premium.Sell, o.Side())
	assert.Equal(t, "USD", o.CurrencyCode())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), o.ExpiresAt)
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "EUR", CurrencyCode(2))
	assert.Equal(t, "777", CurrencyCode(777))

	id, ok := CurrencyID("eur")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	id, ok = CurrencyID("1000")
	assert.True(t, ok)
	assert.Equal(t, 1000, id)

	_, ok = CurrencyID("doubloon")
	assert.False(t, ok)

	codes := CurrencyCodes()
	assert.Equal(t, "USD", codes[0])
	assert.Equal(t, "BTC", codes[len(codes)-1])
}

func TestFederation_WithToggled(t *testing.T) {
	src := []Coordinator{
		{ShortAlias: "moon", Enabled: true},
		{ShortAlias: "lake", Enabled: false},
	}
	fed := NewFederation(src)
	src[0].Enabled = false

	next, ok := fed.WithToggled("lake")
	require.True(t, ok)

	before, _ := fed.Get("lake")
	after, _ := next.Get("lake")
	assert.False(t, before.Enabled, "receiver must not change")
	assert.True(t, after.Enabled)
	assert.Equal(t, 1, fed.EnabledCount())
	assert.Equal(t, 2, next.EnabledCount())

	moon, _ := fed.Get("moon")
	assert.True(t, moon.Enabled, "constructor must copy its input")

	same, ok := fed.WithToggled("nobody")
	assert.False(t, ok)
	assert.Equal(t, fed.Coordinators(), same.Coordinators())
}

func TestFederation_CoordinatorsIsACopy(t *testing.T) {
	fed := NewFederation([]Coordinator{{ShortAlias: "moon"}})
	list := fed.Coordinators()
	list[0].ShortAlias = "mutated"

	_, ok := fed.Get("moon")
	assert.True(t, ok)
	assert.Equal(t, 1, fed.Len())
}
