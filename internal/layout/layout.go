// Package layout derives density and page dimensions for a listing from the
// space its container offers. All sizes are in em (multiples of the base font
// unit).
package layout

import "math"

// Constants for listing dimensions
const (
	DensityThreshold = 70.0  // widths below this render small column variants
	RowHeight        = 3.714 // rendered row height
	HeaderHeight     = 3.25  // column header row
	ControlsHeight   = 3.7   // toolbar above the header
	CollapsedControl = 0.35  // gap left when the toolbar is hidden
	FooterHeight     = 2.35  // pagination footer
	FullscreenScale  = 0.9   // share of the full height used in fullscreen
)

// Density selects which column variant a render pass uses.
type Density int

const (
	Normal Density = iota
	Small
)

func (d Density) String() string {
	if d == Small {
		return "small"
	}
	return "normal"
}

// DensityFor returns Small iff width is below DensityThreshold. One density
// applies to every column of a pass.
func DensityFor(width float64) Density {
	if width < DensityThreshold {
		return Small
	}
	return Normal
}

// Chrome lists the fixed vertical regions around the rows of a listing.
type Chrome struct {
	Header            float64
	Controls          float64 // toolbar, when shown
	ControlsCollapsed float64 // spacing left in place of a hidden toolbar
	Footer            float64
}

// BookChrome is the chrome of the order book listing.
var BookChrome = Chrome{
	Header:            HeaderHeight,
	Controls:          ControlsHeight,
	ControlsCollapsed: CollapsedControl,
	Footer:            FooterHeight,
}

// RosterChrome is the chrome of the coordinator roster, which has neither
// toolbar nor footer.
var RosterChrome = Chrome{Header: HeaderHeight}

// Budget sums the chrome regions enabled for a listing.
func (c Chrome) Budget(showControls, showFooter bool) float64 {
	budget := c.Header
	if showControls {
		budget += c.Controls
	} else {
		budget += c.ControlsCollapsed
	}
	if showFooter {
		budget += c.Footer
	}
	return budget
}

// Page is the row count and the container height derived from it.
type Page struct {
	Size   int
	Height float64
}

// PageSize fits whole rows of rowHeight into containerHeight minus chrome.
// At least one row is always requested; the container height is derived back
// from the integer row count so no fractional row is shown.
func PageSize(containerHeight, chrome, rowHeight float64) Page {
	size := 1
	if rowHeight > 0 {
		raw := math.Floor((containerHeight - chrome) / rowHeight)
		if !math.IsNaN(raw) && raw > 1 {
			size = int(math.Min(raw, math.MaxInt32))
		}
	}
	return Page{
		Size:   size,
		Height: float64(size)*rowHeight + chrome,
	}
}
