package table

import (
	"fmt"
	"math"

	"charm.land/lipgloss/v2"
	lgtable "charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/bookgrid/internal/cell"
	"github.com/oakwood-commons/bookgrid/internal/columns"
	"github.com/oakwood-commons/bookgrid/pkg/gradient"
)

const (
	sepWidth = 1
	ellipsis = "…"
	cursor   = "›"
)

// Column is a packed column converted to terminal cells.
type Column struct {
	Key   string
	Title string
	Kind  cell.Kind
	Width int // terminal cells
	Right bool
}

// ColumnsFor converts packed em widths into terminal columns.
func ColumnsFor(packed []columns.Packed, cellsPerEm float64) []Column {
	out := make([]Column, len(packed))
	for i, p := range packed {
		out[i] = Column{
			Key:   p.Key,
			Title: p.Header,
			Kind:  p.Renderer,
			Width: max(int(math.Round(p.Width*cellsPerEm)), 1),
			Right: rightAligned(p.Renderer),
		}
	}
	return out
}

func rightAligned(k cell.Kind) bool {
	switch k {
	case cell.Amount, cell.Price, cell.Premium, cell.Sats, cell.Bond, cell.Timer, cell.Expiry:
		return true
	}
	return false
}

// Styles are the lipgloss styles a table draws with.
type Styles struct {
	Header    lipgloss.Style
	Separator lipgloss.Style
	Cursor    lipgloss.Style
	Tones     map[cell.Tone]lipgloss.Style
}

// DefaultStyles returns uncoloured styles with a bold header.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true),
		Separator: lipgloss.NewStyle(),
		Cursor:    lipgloss.NewStyle().Bold(true),
		Tones:     map[cell.Tone]lipgloss.Style{},
	}
}

// Model is a generic table that renders rows of V through a cell function
// with the lipgloss table renderer. Only the rows handed to SetRows are
// drawn; paging happens upstream.
//
// Type parameter V represents the row data type (e.g., book.Order).
type Model[V any] struct {
	columns []Column
	rows    []V
	toCell  func(V, Column) cell.Cell

	cursor     int
	focused    bool
	noColor    bool
	styles     Styles
	background gradient.RGB
	emptyText  string
}

// NewModel creates a table that renders each cell with toCell.
func NewModel[V any](toCell func(V, Column) cell.Cell) *Model[V] {
	return &Model[V]{
		toCell: toCell,
		styles: DefaultStyles(),
	}
}

// SetColumns replaces the columns.
func (m *Model[V]) SetColumns(cols []Column) {
	m.columns = cols
}

// Columns returns the current columns.
func (m *Model[V]) Columns() []Column {
	return m.columns
}

// SetRows updates the rows and keeps the cursor in range.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.SetCursor(m.cursor)
}

// Rows returns the current rows.
func (m *Model[V]) Rows() []V {
	return m.rows
}

// Cursor returns the current cursor position.
func (m *Model[V]) Cursor() int {
	return m.cursor
}

// SetCursor sets the cursor position, clamped to the rows.
func (m *Model[V]) SetCursor(pos int) {
	m.cursor = min(max(pos, 0), max(len(m.rows)-1, 0))
}

// MoveCursor moves the cursor by delta rows.
func (m *Model[V]) MoveCursor(delta int) {
	m.SetCursor(m.cursor + delta)
}

// SelectedRow returns the currently selected row value, or nil if no rows.
func (m *Model[V]) SelectedRow() *V {
	if len(m.rows) == 0 {
		return nil
	}
	return &m.rows[m.cursor]
}

// Focus shows the row cursor.
func (m *Model[V]) Focus() {
	m.focused = true
}

// Blur hides the row cursor.
func (m *Model[V]) Blur() {
	m.focused = false
}

// Focused returns true if the table has focus.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
}

// SetStyles sets the theme styles. Translucent cell colours are composited
// over background.
func (m *Model[V]) SetStyles(s Styles, background gradient.RGB) {
	m.styles = s
	m.background = background
}

// SetEmptyText sets the line shown in place of rows when there are none.
func (m *Model[V]) SetEmptyText(text string) {
	m.emptyText = text
}

// View renders the header, a separator and one line per row.
func (m *Model[V]) View() string {
	if len(m.columns) == 0 {
		return ""
	}
	cells := make([][]cell.Cell, len(m.rows))
	data := make([][]string, len(m.rows))
	for i, row := range m.rows {
		cells[i] = make([]cell.Cell, len(m.columns))
		data[i] = make([]string, 0, len(m.columns)+1)
		if m.focused {
			marker := " "
			if i == m.cursor {
				marker = cursor
			}
			data[i] = append(data[i], marker)
		}
		for j, c := range m.columns {
			cells[i][j] = m.toCell(row, c)
			data[i] = append(data[i], cells[i][j].Text)
		}
	}
	headers := make([]string, 0, len(m.columns)+1)
	if m.focused {
		headers = append(headers, "")
	}
	for _, c := range m.columns {
		headers = append(headers, c.Title)
	}

	t := lgtable.New().
		Border(separatorBorder).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderHeader(true).
		BorderColumn(true).
		Wrap(false).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return m.cellStyle(cells, row, col)
		})
	if !m.noColor {
		t = t.BorderStyle(m.styles.Separator)
	}
	out := t.Render()
	if len(m.rows) == 0 && m.emptyText != "" {
		out += "\n" + ansi.Truncate(m.emptyText, m.Width(), ellipsis)
	}
	return out
}

// separatorBorder draws a rule under the header and a blank between columns.
var separatorBorder = lipgloss.Border{
	Top:    "─",
	Middle: "─",
	Left:   " ",
}

// cellStyle sizes and colours the cell at row, col of the rendered table.
// The cursor gutter, when focused, is column 0.
func (m *Model[V]) cellStyle(cells [][]cell.Cell, row, col int) lipgloss.Style {
	if m.focused {
		if col == 0 {
			st := lipgloss.NewStyle()
			if !m.noColor && row != lgtable.HeaderRow {
				st = m.styles.Cursor
			}
			return st.Width(runewidth.StringWidth(cursor))
		}
		col--
	}
	c := m.columns[col]
	align := lipgloss.Left
	if c.Right {
		align = lipgloss.Right
	}
	st := lipgloss.NewStyle()
	switch {
	case m.noColor:
	case row == lgtable.HeaderRow:
		st = m.styles.Header
	default:
		v := cells[row][col]
		if tone, ok := m.styles.Tones[v.Tone]; ok {
			st = tone
		}
		if v.Color != nil {
			st = st.Foreground(lipgloss.Color(v.Color.Over(m.background).Hex()))
		}
		if v.Bold {
			st = st.Bold(true)
		}
	}
	return st.Width(c.Width).Align(align)
}

// Width returns the rendered width of the table.
func (m *Model[V]) Width() int {
	total := m.gutter()
	for i, c := range m.columns {
		total += c.Width
		if i > 0 {
			total += sepWidth
		}
	}
	return total
}

// Height returns the rendered height of the table (including header).
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

func (m *Model[V]) gutter() int {
	if m.focused {
		return runewidth.StringWidth(cursor) + sepWidth
	}
	return 0
}

// String returns a string representation for debugging.
func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[columns=%d, rows=%d, cursor=%d]", len(m.columns), len(m.rows), m.cursor)
}
