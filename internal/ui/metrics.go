package ui

import (
	"github.com/oakwood-commons/bookgrid/internal/config"
	"github.com/oakwood-commons/bookgrid/internal/controller"
)

// Lines the view draws around a listing regardless of its chrome.
const (
	titleLines  = 1
	headerLines = 2 // column titles and separator
	statusLines = 1
)

// containerHeight converts lines of terminal into an em height whose fitted
// page size equals the lines left for rows. Half a row of slack absorbs
// rounding in the floor taken by the page-size computation.
func containerHeight(lines, chromeLines int, chromeEm, emPerLine float64) float64 {
	rows := max(lines-chromeLines, 0)
	return float64(rows)*emPerLine + chromeEm + emPerLine/2
}

// bound limits size to limit when limit is positive.
func bound(size, limit int) int {
	if limit > 0 && limit < size {
		return limit
	}
	return size
}

// area is a listing's room on screen: the terminal, optionally bounded by
// a configured maximum, with fullscreen always taking the whole terminal.
type area struct {
	cols, lines       int
	maxCols, maxLines int
	chromeLines       int
	chromeEm          float64
}

func (a area) dimensions(u config.Units) controller.Dimensions {
	return controller.Dimensions{
		Width:      u.Width(bound(a.cols, a.maxCols)),
		Height:     containerHeight(bound(a.lines, a.maxLines), a.chromeLines, a.chromeEm, u.EmPerLine),
		FullWidth:  u.Width(a.cols),
		FullHeight: containerHeight(a.lines, a.chromeLines, a.chromeEm, u.EmPerLine),
	}
}
