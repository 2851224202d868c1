package book

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oakwood-commons/bookgrid/pkg/loader"
)

// ErrUnknownShape is returned when input is neither a snapshot nor a list.
var ErrUnknownShape = errors.New("unrecognized input shape")

// ParseSnapshot accepts a parsed book document: a snapshot object with an
// "orders" list, a bare list of orders, or a single order. Bare lists are
// treated as fully loaded.
func ParseSnapshot(root interface{}) (Snapshot, error) {
	switch v := root.(type) {
	case map[string]interface{}:
		if _, ok := v["orders"]; ok {
			var s Snapshot
			if err := loader.Decode(v, &s); err != nil {
				return Snapshot{}, fmt.Errorf("decode book snapshot: %w", err)
			}
			return s, nil
		}
		if _, ok := v["id"]; ok {
			return ParseSnapshot([]interface{}{v})
		}
	case []interface{}:
		var orders []Order
		if err := loader.Decode(v, &orders); err != nil {
			return Snapshot{}, fmt.Errorf("decode orders: %w", err)
		}
		n := countCoordinators(orders)
		return Snapshot{Orders: orders, LoadedCoordinators: n, TotalCoordinators: n}, nil
	}
	return Snapshot{}, fmt.Errorf("book: %w", ErrUnknownShape)
}

func countCoordinators(orders []Order) int {
	seen := map[string]bool{}
	for _, o := range orders {
		seen[o.CoordinatorShortAlias] = true
	}
	return len(seen)
}

// ParseFederation accepts a list of coordinators, an object with a
// "coordinators" list, or an object keyed by short alias. Keyed input is
// ordered by alias.
func ParseFederation(root interface{}) (Federation, error) {
	switch v := root.(type) {
	case []interface{}:
		var list []Coordinator
		if err := loader.Decode(v, &list); err != nil {
			return Federation{}, fmt.Errorf("decode coordinators: %w", err)
		}
		return NewFederation(list), nil
	case map[string]interface{}:
		if list, ok := v["coordinators"]; ok {
			return ParseFederation(list)
		}
		var keyed map[string]Coordinator
		if err := loader.Decode(v, &keyed); err != nil {
			return Federation{}, fmt.Errorf("decode federation: %w", err)
		}
		aliases := make([]string, 0, len(keyed))
		for alias := range keyed {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		list := make([]Coordinator, 0, len(keyed))
		for _, alias := range aliases {
			c := keyed[alias]
			if c.ShortAlias == "" {
				c.ShortAlias = alias
			}
			list = append(list, c)
		}
		return NewFederation(list), nil
	}
	return Federation{}, fmt.Errorf("federation: %w", ErrUnknownShape)
}
