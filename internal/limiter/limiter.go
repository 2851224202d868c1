// Package limiter trims the orders of a book before they reach the table,
// the way --limit, --offset and --tail do on the command line.
package limiter

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid order window")

// Config selects a window of the loaded orders. The zero value keeps all of
// them.
type Config struct {
	Limit  int // keep at most this many orders after Offset (0 = all)
	Offset int // drop this many leading orders
	Tail   int // keep only the last N orders; excludes Limit and ignores Offset
}

// Validate reports every problem with the window at once.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		flag  string
		value int
	}{{"--limit", c.Limit}, {"--offset", c.Offset}, {"--tail", c.Tail}} {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalid, f.flag, f.value))
		}
	}
	if c.Limit > 0 && c.Tail > 0 {
		errs = append(errs, fmt.Errorf("%w: --limit and --tail are mutually exclusive", ErrInvalid))
	}
	return errors.Join(errs...)
}

// IsActive reports whether the window drops any order.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Bounds returns the [start, end) window the config selects from length rows.
func (c Config) Bounds(length int) (start, end int) {
	if c.Tail > 0 {
		return max(length-c.Tail, 0), length
	}
	start = min(max(c.Offset, 0), length)
	end = length
	if c.Limit > 0 {
		end = min(start+c.Limit, length)
	}
	return start, end
}

// Apply returns the rows the config selects. The result shares the input's
// backing array but has no spare capacity, so appending to it copies.
func Apply[T any](c Config, rows []T) []T {
	if !c.IsActive() {
		return rows
	}
	start, end := c.Bounds(len(rows))
	return rows[start:end:end]
}
