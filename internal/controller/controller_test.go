package controller

import (
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/layout"
)

func newBook(t *testing.T) *Controller {
	t.Helper()
	return New(Options{
		Name:         "book",
		Catalog:      catalog.Book,
		Exclusions:   catalog.BookExclusions,
		Chrome:       layout.BookChrome,
		ShowControls: true,
		ShowFooter:   true,
		Logger:       testr.NewWithOptions(t, testr.Options{Verbosity: 1}),
	})
}

func TestController_Resize(t *testing.T) {
	c := newBook(t)
	c.Sync(false, 40)
	c.Resize(Dimensions{Width: 100, Height: 70, FullWidth: 160, FullHeight: 90})

	v := c.Snapshot()
	assert.Equal(t, Ready, v.State)
	assert.Equal(t, "normal", v.Density)
	assert.Equal(t, 16, v.PageSize)
	assert.InDelta(t, 16*layout.RowHeight+9.3, v.Height, 1e-9)
	assert.Len(t, v.Columns, 13)
	assert.InDelta(t, 91.59*0.875+0.15, v.TotalWidth, 1e-9)
	assert.Equal(t, []int{16, 32, 50, 100}, v.PageSizeOptions)
}

func TestController_NarrowHasNoPageSizeOptions(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 20, Height: 40})

	v := c.Snapshot()
	assert.Equal(t, "small", v.Density)
	assert.InDelta(t, 18.4*0.875+0.15, v.TotalWidth, 1e-9)
	assert.Nil(t, v.PageSizeOptions)
	assert.Equal(t, []string{"amount", "currency", "premium"}, keys(v))
}

func TestController_Fullscreen(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70, FullWidth: 60, FullHeight: 100})
	c.ToggleFullscreen()

	v := c.Snapshot()
	assert.True(t, v.Fullscreen)
	assert.Equal(t, 60.0, v.Width)
	assert.Equal(t, "small", v.Density)
	assert.Equal(t, 21, v.PageSize, "(100*0.9 - 9.3) / 3.714 rows")

	c.ToggleFullscreen()
	assert.Equal(t, 16, c.Snapshot().PageSize)
}

func TestController_LoadingState(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70})

	c.Sync(true, 0)
	assert.Equal(t, Loading, c.State())
	assert.Equal(t, 0, c.PageSize())
	start, end := c.Window(10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.Equal(t, 0, c.PageCount(10))

	c.Sync(true, 3)
	assert.Equal(t, Ready, c.State(), "rows arriving while loading show a page")
	assert.Equal(t, 16, c.PageSize())

	c.Sync(false, 0)
	assert.Equal(t, Ready, c.State(), "an empty finished book is ready")
}

func TestController_ReloadReturnsToLoading(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70})

	c.Sync(false, 40)
	c.SetPage(1)
	require.Equal(t, Ready, c.State())
	require.Equal(t, 16, c.PageSize())
	start, end := c.Window(40)
	assert.Equal(t, 16, start)
	assert.Equal(t, 32, end)

	c.Sync(true, 0)
	assert.Equal(t, Loading, c.State(), "a fresh load with no rows shows the placeholder again")
	assert.Equal(t, 0, c.PageSize())
	assert.Equal(t, 0, c.Snapshot().PageSize)
	assert.Equal(t, 1, c.PageIndex(), "the page index survives the reload")

	c.Sync(true, 40)
	assert.Equal(t, Ready, c.State())
	start, end = c.Window(40)
	assert.Equal(t, 16, start)
	assert.Equal(t, 32, end)
}

func TestController_Pagination(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70})

	tests := []struct {
		page      int
		wantStart int
		wantEnd   int
	}{
		{page: 0, wantStart: 0, wantEnd: 16},
		{page: 2, wantStart: 32, wantEnd: 40},
		{page: 5, wantStart: 40, wantEnd: 40},
		{page: -3, wantStart: 0, wantEnd: 16},
	}
	for _, tt := range tests {
		c.SetPage(tt.page)
		start, end := c.Window(40)
		assert.Equal(t, tt.wantStart, start, "page %d", tt.page)
		assert.Equal(t, tt.wantEnd, end, "page %d", tt.page)
	}
	assert.Equal(t, 3, c.PageCount(40))

	c.SetPage(7)
	c.Resize(Dimensions{Width: 100, Height: 200})
	assert.Equal(t, 7, c.PageIndex(), "page index is never clamped")
}

func TestController_UserPageSizeSticks(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70})
	c.SetPageSize(50)

	c.Resize(Dimensions{Width: 100, Height: 30})
	assert.Equal(t, 50, c.PageSize())
	assert.Equal(t, []int{5, 10, 50, 100}, c.PageSizeOptions())

	c.ResetPageSize()
	assert.Equal(t, 5, c.PageSize())

	c.SetPageSize(50)
	c.SetPageSize(0)
	assert.Equal(t, 5, c.PageSize(), "zero returns to the fitted size")
}

func TestController_PageSizeOptionsDeduplicate(t *testing.T) {
	c := newBook(t)
	// (196 - 9.3) / 3.714 = 50.27 rows
	c.Resize(Dimensions{Width: 100, Height: 196})
	require.Equal(t, 50, c.PageSize())
	assert.Equal(t, []int{50, 100}, c.PageSizeOptions())
}

func TestController_ToggleColumn(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 20, Height: 40})

	require.True(t, c.ToggleColumn("price"))
	v := c.Snapshot()
	assert.True(t, v.Visibility["price"])
	assert.Equal(t, []string{"amount", "currency", "price", "premium"}, keys(v))

	assert.False(t, c.ToggleColumn("nope"))

	c.Resize(Dimensions{Width: 25, Height: 40})
	assert.True(t, c.Snapshot().Visibility["price"], "toggles survive a resize")

	require.True(t, c.ToggleColumn("amount"))
	assert.False(t, c.Snapshot().Visibility["amount"])

	c.ResetColumns()
	v = c.Snapshot()
	assert.True(t, v.Visibility["amount"])
	assert.False(t, v.Visibility["price"])
}

func TestController_SwapMode(t *testing.T) {
	c := newBook(t)
	c.Resize(Dimensions{Width: 100, Height: 70})
	c.SetMode(catalog.Swap)

	v := c.Snapshot()
	assert.Equal(t, catalog.Swap, v.Mode)
	assert.NotContains(t, v.Visibility, "currency")
	assert.False(t, c.ToggleColumn("currency"))

	c.SetMode(c.Mode().Toggle())
	assert.Contains(t, c.Snapshot().Visibility, "currency")
}

func TestController_Roster(t *testing.T) {
	c := New(Options{
		Name:    "federation",
		Catalog: catalog.Federation,
		Chrome:  layout.RosterChrome,
	})
	c.Resize(Dimensions{Width: 30, Height: 40})

	v := c.Snapshot()
	// (40 - 3.25) / 3.714 = 9.89
	assert.Equal(t, 9, v.PageSize)
	assert.Equal(t, []string{"alias", "up", "enabled"}, keys(v))
	assert.Nil(t, v.PageSizeOptions, "20.6 * 0.9 is below the selector width")
}

func keys(v View) []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Key
	}
	return out
}
