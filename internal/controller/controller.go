// Package controller owns the layout of one listing view. It turns container
// dimensions, fullscreen and content mode into a column layout and a page
// size, and keeps the pagination and column toggles the user applied.
//
// A Controller is not safe for concurrent use; it belongs to one view and is
// driven from that view's update loop.
package controller

import (
	"math"
	"slices"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/columns"
	"github.com/oakwood-commons/bookgrid/internal/layout"
)

// minOptionsWidth is the total width below which no page size selector fits.
const minOptionsWidth = 22.0

// fixedPageSizes are always offered next to the fitted page size.
var fixedPageSizes = []int{50, 100}

// State of the listing.
type State int

const (
	Loading State = iota // no rows yet; show a placeholder instead of a page
	Ready
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "ready"
}

// MarshalText lets states appear by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dimensions are the container sizes in em. Full* is the space available
// in fullscreen.
type Dimensions struct {
	Width      float64
	Height     float64
	FullWidth  float64
	FullHeight float64
}

// Options configure a Controller.
type Options struct {
	Name            string
	Catalog         func(catalog.Mode) columns.Catalog
	Exclusions      func(catalog.Mode) map[string]bool
	Chrome          layout.Chrome
	ShowControls    bool
	ShowFooter      bool
	RowHeight       float64 // default layout.RowHeight
	FullscreenScale float64 // default layout.FullscreenScale
	Mode            catalog.Mode
	Fullscreen      bool
	Logger          logr.Logger
}

// View is everything a renderer needs for one pass.
type View struct {
	Name            string           `json:"name"`
	Mode            catalog.Mode     `json:"mode"`
	State           State            `json:"state"`
	Density         string           `json:"density"`
	Fullscreen      bool             `json:"fullscreen"`
	Width           float64          `json:"width"`
	Columns         []columns.Packed `json:"columns"`
	All             []columns.Packed `json:"all"`
	Visibility      map[string]bool  `json:"visibility"`
	TotalWidth      float64          `json:"totalWidth"`
	Height          float64          `json:"height"`
	PageSize        int              `json:"pageSize"`
	PageIndex       int              `json:"pageIndex"`
	PageSizeOptions []int            `json:"pageSizeOptions,omitempty"`
}

// Controller holds the layout state of one listing.
type Controller struct {
	opts       Options
	log        logr.Logger
	dims       Dimensions
	fullscreen bool
	mode       catalog.Mode

	loading bool
	rows    int

	density layout.Density
	page    layout.Page
	packed  columns.Result
	toggles map[string]bool // user overrides of packed visibility

	pageIndex    int
	userPageSize int // 0 = follow the fitted page size
}

// New returns a controller with an initial layout for zero dimensions.
func New(opts Options) *Controller {
	if opts.RowHeight <= 0 {
		opts.RowHeight = layout.RowHeight
	}
	if opts.FullscreenScale <= 0 {
		opts.FullscreenScale = layout.FullscreenScale
	}
	if opts.Exclusions == nil {
		opts.Exclusions = catalog.NoExclusions
	}
	c := &Controller{
		opts:       opts,
		log:        opts.Logger.WithValues("table", opts.Name),
		fullscreen: opts.Fullscreen,
		mode:       opts.Mode,
		toggles:    map[string]bool{},
	}
	c.recompute()
	return c
}

// Resize applies new container dimensions.
func (c *Controller) Resize(d Dimensions) {
	c.dims = d
	c.recompute()
}

// SetFullscreen switches between the container and the fullscreen area.
func (c *Controller) SetFullscreen(on bool) {
	c.fullscreen = on
	c.recompute()
}

// ToggleFullscreen flips fullscreen.
func (c *Controller) ToggleFullscreen() {
	c.SetFullscreen(!c.fullscreen)
}

// Fullscreen reports whether the fullscreen area is in use.
func (c *Controller) Fullscreen() bool {
	return c.fullscreen
}

// SetMode switches the content mode.
func (c *Controller) SetMode(m catalog.Mode) {
	c.mode = m
	c.recompute()
}

// Mode returns the content mode.
func (c *Controller) Mode() catalog.Mode {
	return c.mode
}

// Sync records the data source status. A source still loading with no rows
// yet puts the listing in the Loading state.
func (c *Controller) Sync(loading bool, rows int) {
	c.loading = loading
	c.rows = rows
}

// State reports whether a page can be shown.
func (c *Controller) State() State {
	if c.loading && c.rows == 0 {
		return Loading
	}
	return Ready
}

// SetPage moves to page index. Negative indexes become 0; indexes past the
// last page are kept and yield an empty window.
func (c *Controller) SetPage(index int) {
	c.pageIndex = max(index, 0)
}

// SetPageSize pins the page size chosen by the user. A size of 0 or less
// returns to the fitted size.
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		c.ResetPageSize()
		return
	}
	c.userPageSize = size
	c.log.V(1).Info("page size pinned", "pageSize", size)
}

// ResetPageSize returns to the page size fitted to the container.
func (c *Controller) ResetPageSize() {
	c.userPageSize = 0
}

// ToggleColumn flips the visibility of key. It reports false for keys the
// current layout does not have.
func (c *Controller) ToggleColumn(key string) bool {
	current, ok := c.current().Visibility[key]
	if !ok {
		return false
	}
	c.toggles[key] = !current
	return true
}

// ResetColumns drops every user column toggle.
func (c *Controller) ResetColumns() {
	c.toggles = map[string]bool{}
}

// PageSize is the effective page size; 0 while loading.
func (c *Controller) PageSize() int {
	if c.State() == Loading {
		return 0
	}
	if c.userPageSize > 0 {
		return c.userPageSize
	}
	return c.page.Size
}

// PageIndex returns the current page.
func (c *Controller) PageIndex() int {
	return c.pageIndex
}

// Window returns the [start, end) row range of the current page out of
// total rows. It is empty when the page lies past the end.
func (c *Controller) Window(total int) (start, end int) {
	size := c.PageSize()
	if size == 0 || total <= 0 {
		return 0, 0
	}
	start = c.pageIndex * size
	if start >= total {
		return total, total
	}
	return start, min(start+size, total)
}

// PageCount returns how many pages total rows fill.
func (c *Controller) PageCount(total int) int {
	size := c.PageSize()
	if size == 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// PageSizeOptions lists the page sizes a selector offers.
func (c *Controller) PageSizeOptions() []int {
	if c.packed.TotalWidth < minOptionsWidth {
		return nil
	}
	opts := append([]int{c.page.Size, c.page.Size * 2}, fixedPageSizes...)
	slices.Sort(opts)
	return slices.Compact(opts)
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	cur := c.current()
	width, _ := c.area()
	return View{
		Name:            c.opts.Name,
		Mode:            c.mode,
		State:           c.State(),
		Density:         c.density.String(),
		Fullscreen:      c.fullscreen,
		Width:           width,
		Columns:         cur.Columns,
		All:             cur.All,
		Visibility:      cur.Visibility,
		TotalWidth:      cur.TotalWidth,
		Height:          c.page.Height,
		PageSize:        c.PageSize(),
		PageIndex:       c.pageIndex,
		PageSizeOptions: c.PageSizeOptions(),
	}
}

// area is the width and height the layout fits into.
func (c *Controller) area() (width, height float64) {
	if c.fullscreen {
		return c.dims.FullWidth, c.dims.FullHeight * c.opts.FullscreenScale
	}
	return c.dims.Width, c.dims.Height
}

// current applies the user toggles to the packed layout.
func (c *Controller) current() columns.Result {
	res := c.packed
	for key, visible := range c.toggles {
		if _, ok := res.Visibility[key]; ok && res.Visibility[key] != visible {
			res = res.WithVisibility(key, visible)
		}
	}
	return res
}

func (c *Controller) recompute() {
	width, height := c.area()
	c.density = layout.DensityFor(width)
	c.page = layout.PageSize(height, c.opts.Chrome.Budget(c.opts.ShowControls, c.opts.ShowFooter), c.opts.RowHeight)
	c.packed = columns.Pack(c.opts.Catalog(c.mode), width, c.density, c.opts.Exclusions(c.mode))

	c.log.V(1).Info("layout recomputed",
		"mode", c.mode.String(),
		"fullscreen", c.fullscreen,
		"width", width,
		"height", height,
		"density", c.density.String(),
		"pageSize", c.page.Size,
		"totalWidth", c.packed.TotalWidth,
		"columns", c.packed.Keys(),
	)
}
