// Package ui is the interactive terminal view of the order book and the
// federation roster.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/cell"
	"github.com/oakwood-commons/bookgrid/internal/config"
	"github.com/oakwood-commons/bookgrid/internal/controller"
	"github.com/oakwood-commons/bookgrid/internal/filter"
	"github.com/oakwood-commons/bookgrid/internal/layout"
	"github.com/oakwood-commons/bookgrid/internal/ui/table"
)

const loadTimeout = 30 * time.Second

// Tab selects the listing on screen.
type Tab int

const (
	TabBook Tab = iota
	TabFederation
)

func (t Tab) String() string {
	if t == TabFederation {
		return "federation"
	}
	return "book"
}

// ParseTab accepts "book" or "federation".
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "book":
		return TabBook, nil
	case "federation", "coordinators":
		return TabFederation, nil
	}
	return TabBook, fmt.Errorf("unknown view %q (expected book or federation)", s)
}

// Options configure a Model.
type Options struct {
	Source   book.Source
	Config   config.Config
	Theme    *Theme // nil = built from Config.Theme
	Tab      Tab
	Mode     catalog.Mode
	Side     filter.Side
	Currency int
	Page     int
	Where    *filter.Predicate
	Refresh  time.Duration // 0 = load once
	NoColor  bool
	Now      func() time.Time
	Logger   logr.Logger
}

// loadedMsg carries the result of a Source.Load.
type loadedMsg struct {
	snapshot   book.Snapshot
	federation book.Federation
	err        error
}

type refreshMsg struct{}

// Model is the Bubble Tea model of the listing view.
type Model struct {
	opts  Options
	units config.Units
	theme Theme
	log   logr.Logger

	tab     Tab
	book    *controller.Controller
	roster  *controller.Controller
	orders  *table.Model[book.Order]
	coords  *table.Model[book.Coordinator]
	input   textinput.Model
	spinner spinner.Model
	ticking bool

	snapshot   book.Snapshot
	federation book.Federation
	filtered   []book.Order
	base       filter.Base
	where      *filter.Predicate
	cellCtx    cell.Context

	loaded  bool
	editing bool
	help    bool
	status  string
	failed  bool

	width, height int
	pendingKeys   []string
}

// New builds a model that has not loaded any data yet.
func New(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	} else if th, err := NewTheme(opts.Config.Theme); err == nil {
		theme = th
	}
	units := unitsOf(opts.Config)

	m := &Model{
		opts:  opts,
		units: units,
		theme: theme,
		log:   opts.Logger.WithName("ui"),
		tab:   opts.Tab,
		where: opts.Where,
		base:  filter.Base{Side: opts.Side, Currency: opts.Currency, Mode: opts.Mode},
	}

	m.book = BookController(opts.Config, units, opts.Mode, opts.Logger)
	m.book.SetPage(opts.Page)
	m.roster = RosterController(units, opts.Logger)

	m.orders = table.NewModel(func(o book.Order, c table.Column) cell.Cell {
		return cell.RenderOrder(c.Kind, o, m.cellCtx)
	})
	m.coords = table.NewModel(func(c book.Coordinator, col table.Column) cell.Cell {
		return cell.RenderCoordinator(col.Kind, c)
	})
	m.orders.SetNoColor(opts.NoColor)
	m.orders.SetStyles(theme.Table, theme.Background)
	m.orders.Focus()
	m.coords.SetNoColor(opts.NoColor)
	m.coords.SetStyles(theme.Table, theme.Background)
	m.coords.Focus()

	ti := textinput.New()
	ti.Placeholder = `_.premium < 2.0 && _.payment_method.contains("SEPA")`
	ti.CharLimit = 500
	ti.SetWidth(60)
	ti.Prompt = ""
	m.input = ti

	s := spinner.New()
	s.Spinner = spinner.Dot
	m.spinner = s

	m.sync()
	return m
}

// BookController builds the layout controller of the order book listing.
func BookController(cfg config.Config, units config.Units, mode catalog.Mode, log logr.Logger) *controller.Controller {
	return controller.New(controller.Options{
		Name:         "book",
		Catalog:      catalog.Book,
		Exclusions:   catalog.BookExclusions,
		Chrome:       layout.BookChrome,
		ShowControls: cfg.Book.ShowControls,
		ShowFooter:   cfg.Book.ShowFooter,
		RowHeight:    units.EmPerLine,
		Mode:         mode,
		Fullscreen:   cfg.Book.Fullscreen,
		Logger:       log,
	})
}

// RosterController builds the layout controller of the federation roster.
func RosterController(units config.Units, log logr.Logger) *controller.Controller {
	return controller.New(controller.Options{
		Name:      "federation",
		Catalog:   catalog.Federation,
		Chrome:    layout.RosterChrome,
		RowHeight: units.EmPerLine,
		Logger:    log,
	})
}

func unitsOf(cfg config.Config) config.Units {
	u := cfg.Units
	if u.CellsPerEm <= 0 || u.EmPerLine <= 0 {
		return config.Units{CellsPerEm: 1.5, EmPerLine: layout.RowHeight}
	}
	return u
}

// Init starts the spinner and the first load.
func (m *Model) Init() tea.Cmd {
	m.ticking = true
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		return m, m.receive(msg)

	case refreshMsg:
		return m, m.load()

	case spinner.TickMsg:
		if !m.spinning() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		if m.editing {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// View renders the screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// Layout returns the layout of the listing on screen.
func (m *Model) Layout() controller.View {
	return m.active().Snapshot()
}

// Tab returns the listing on screen.
func (m *Model) Tab() Tab {
	return m.tab
}

// Filtered returns the orders passing the current filters.
func (m *Model) Filtered() []book.Order {
	return m.filtered
}

// Federation returns the roster, including toggles made in the view.
func (m *Model) Federation() book.Federation {
	return m.federation
}

func (m *Model) load() tea.Cmd {
	src := m.opts.Source
	return func() tea.Msg {
		if src == nil {
			return loadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		snap, fed, err := src.Load(ctx)
		return loadedMsg{snapshot: snap, federation: fed, err: err}
	}
}

func (m *Model) receive(msg loadedMsg) tea.Cmd {
	m.loaded = true
	if msg.err != nil {
		m.log.Error(msg.err, "load failed")
		m.setError(msg.err)
	} else {
		m.snapshot = msg.snapshot
		m.federation = m.mergeToggles(msg.federation)
		m.log.V(1).Info("book loaded",
			"orders", len(msg.snapshot.Orders),
			"coordinators", msg.federation.Len(),
			"loading", msg.snapshot.Loading,
		)
		if m.status == reloadingStatus {
			m.clearStatus()
		}
	}
	m.apply()
	if keys := m.pendingKeys; len(keys) > 0 {
		m.pendingKeys = nil
		ApplyStartupKeys(m, keys)
	}

	var cmds []tea.Cmd
	if m.opts.Refresh > 0 {
		cmds = append(cmds, tea.Tick(m.opts.Refresh, func(time.Time) tea.Msg { return refreshMsg{} }))
	}
	cmds = append(cmds, m.tick())
	return tea.Batch(cmds...)
}

// mergeToggles keeps the enabled flags chosen in the view across reloads.
func (m *Model) mergeToggles(next book.Federation) book.Federation {
	if m.federation.Len() == 0 {
		return next
	}
	for _, c := range next.Coordinators() {
		prev, ok := m.federation.Get(c.ShortAlias)
		if ok && prev.Enabled != c.Enabled {
			next, _ = next.WithToggled(c.ShortAlias)
		}
	}
	return next
}

func (m *Model) spinning() bool {
	return !m.loaded || m.snapshot.Loading
}

// tick restarts the spinner when it is needed and not already running.
func (m *Model) tick() tea.Cmd {
	if m.ticking || !m.spinning() {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if idx, ok := columnIndex(key); ok {
		m.toggleColumn(idx)
		return m, nil
	}

	c := m.active()
	action := actionFor(key)
	if action != ActionNone && action != ActionHelp {
		m.log.V(2).Info("key", "key", key, "action", string(action))
	}
	switch action {
	case ActionQuit:
		return m, tea.Quit
	case ActionSwitchView:
		if m.tab == TabBook {
			m.tab = TabFederation
		} else {
			m.tab = TabBook
		}
	case ActionUp:
		m.moveCursor(-1)
	case ActionDown:
		m.moveCursor(1)
	case ActionNextPage:
		if c.PageIndex()+1 < c.PageCount(m.rowCount()) {
			c.SetPage(c.PageIndex() + 1)
		}
	case ActionPrevPage:
		c.SetPage(c.PageIndex() - 1)
	case ActionFirstPage:
		c.SetPage(0)
	case ActionFullscreen:
		c.ToggleFullscreen()
	case ActionMode:
		if m.tab == TabBook {
			m.book.SetMode(m.book.Mode().Toggle())
			m.book.SetPage(0)
		}
	case ActionSide:
		if m.tab == TabBook {
			m.base.Side = m.base.Side.Next()
			m.book.SetPage(0)
		}
	case ActionLargerPage:
		m.stepPageSize(1)
	case ActionSmallerPage:
		m.stepPageSize(-1)
	case ActionResetPageSize:
		c.ResetPageSize()
	case ActionResetColumns:
		c.ResetColumns()
	case ActionFilter:
		if m.tab == TabBook {
			m.editing = true
			m.help = false
			if m.where != nil {
				m.input.SetValue(m.where.String())
				m.input.CursorEnd()
			}
			return m, m.input.Focus()
		}
	case ActionClearFilter:
		m.help = false
		if m.where != nil {
			m.where = nil
			m.book.SetPage(0)
			m.setStatus("filter cleared")
		}
	case ActionReload:
		m.setStatus(reloadingStatus)
		return m, tea.Batch(m.load(), m.tick())
	case ActionToggleSelected:
		if m.tab == TabFederation {
			m.toggleCoordinator()
		}
	case ActionHelp:
		m.help = !m.help
		return m, nil
	default:
		return m, nil
	}
	m.apply()
	return m, nil
}

func (m *Model) handleInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		expr := strings.TrimSpace(m.input.Value())
		if expr == "" {
			m.where = nil
		} else {
			p, err := filter.Compile(expr)
			if err != nil {
				m.setError(err)
				return m, nil
			}
			m.where = p
			m.clearStatus()
		}
		m.book.SetPage(0)
		m.apply()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) active() *controller.Controller {
	if m.tab == TabFederation {
		return m.roster
	}
	return m.book
}

func (m *Model) rowCount() int {
	if m.tab == TabFederation {
		return m.federation.Len()
	}
	return len(m.filtered)
}

func (m *Model) moveCursor(delta int) {
	if m.tab == TabFederation {
		m.coords.MoveCursor(delta)
		return
	}
	m.orders.MoveCursor(delta)
}

// toggleColumn flips the idx-th column of the active listing, counting
// hidden columns too.
func (m *Model) toggleColumn(idx int) {
	all := m.active().Snapshot().All
	if idx >= len(all) {
		return
	}
	m.active().ToggleColumn(all[idx].Key)
	m.sync()
}

// stepPageSize moves to the next larger or smaller page size option.
func (m *Model) stepPageSize(dir int) {
	c := m.active()
	options := c.PageSizeOptions()
	if len(options) == 0 {
		return
	}
	current := c.PageSize()
	if dir > 0 {
		for _, size := range options {
			if size > current {
				c.SetPageSize(size)
				break
			}
		}
	} else {
		for i := len(options) - 1; i >= 0; i-- {
			if options[i] < current {
				c.SetPageSize(options[i])
				break
			}
		}
	}
	c.SetPage(0)
}

func (m *Model) toggleCoordinator() {
	sel := m.coords.SelectedRow()
	if sel == nil {
		return
	}
	next, ok := m.federation.WithToggled(sel.ShortAlias)
	if !ok {
		return
	}
	m.federation = next
	m.book.SetPage(0)
	c, _ := next.Get(sel.ShortAlias)
	state := "disabled"
	if c.Enabled {
		state = "enabled"
	}
	m.setStatus(fmt.Sprintf("%s %s", c.ShortAlias, state))
}

// apply refilters the book and refreshes both tables.
func (m *Model) apply() {
	m.base.Mode = m.book.Mode()
	m.base.Coordinators = nil
	if m.federation.Len() > 0 {
		m.base.Coordinators = filter.EnabledCoordinators(m.federation)
	}
	rows, err := filter.Orders(m.snapshot.Orders, m.base, m.where)
	if err != nil {
		m.setError(fmt.Errorf("filter %q dropped: %w", m.where.String(), err))
		m.where = nil
		rows, _ = filter.Orders(m.snapshot.Orders, m.base, nil)
	}
	m.filtered = rows
	m.sync()
}

// resize maps the terminal onto both listings.
func (m *Model) resize() {
	bc := m.opts.Config.Book
	m.book.Resize(area{
		cols: m.width, lines: m.height,
		maxCols: bc.MaxWidth, maxLines: bc.MaxHeight,
		chromeLines: m.bookChromeLines(),
		chromeEm:    layout.BookChrome.Budget(bc.ShowControls, bc.ShowFooter),
	}.dimensions(m.units))

	fc := m.opts.Config.Federation
	m.roster.Resize(area{
		cols: m.width, lines: m.height,
		maxCols: fc.MaxWidth, maxLines: fc.MaxHeight,
		chromeLines: titleLines + headerLines + statusLines,
		chromeEm:    layout.RosterChrome.Budget(false, false),
	}.dimensions(m.units))
	m.sync()
}

func (m *Model) bookChromeLines() int {
	n := titleLines + headerLines + statusLines
	if m.opts.Config.Book.ShowControls {
		n++
	}
	if m.opts.Config.Book.ShowFooter {
		n++
	}
	return n
}

// sync pushes the controller state into the tables.
func (m *Model) sync() {
	m.book.Sync(!m.loaded || m.snapshot.Loading, len(m.filtered))
	m.roster.Sync(!m.loaded, m.federation.Len())
	m.cellCtx = cell.Context{
		Now:     m.opts.Now(),
		Swap:    m.book.Mode() == catalog.Swap,
		Encoder: m.theme.Encoder,
	}

	m.orders.SetEmptyText(emptyText(m.book, "No orders match"))
	m.coords.SetEmptyText(emptyText(m.roster, "No coordinators"))

	bookView := m.book.Snapshot()
	m.orders.SetColumns(table.ColumnsFor(bookView.Columns, m.units.CellsPerEm*catalog.Book(bookView.Mode).Overhead().Factor))
	start, end := m.book.Window(len(m.filtered))
	m.orders.SetRows(m.filtered[start:end])

	rosterView := m.roster.Snapshot()
	m.coords.SetColumns(table.ColumnsFor(rosterView.Columns, m.units.CellsPerEm*catalog.FederationOverhead.Factor))
	coords := m.federation.Coordinators()
	start, end = m.roster.Window(len(coords))
	m.coords.SetRows(coords[start:end])
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.failed = false
}

// emptyText is blank while loading; the view draws a spinner instead.
func emptyText(c *controller.Controller, ready string) string {
	if c.State() == controller.Loading {
		return ""
	}
	return ready
}
