package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/controller"
)

const (
	reloadingStatus = "reloading…"
	defaultHint     = "? help · / filter · tab federation · q quit"
)

func (m *Model) render() string {
	lines := []string{m.renderTitle()}
	if m.tab == TabBook && m.opts.Config.Book.ShowControls {
		lines = append(lines, m.renderControls())
	}
	lines = append(lines, m.renderBody())
	if m.tab == TabBook && m.opts.Config.Book.ShowFooter {
		lines = append(lines, m.renderFooter())
	}
	lines = append(lines, m.renderStatus())
	return m.clip(strings.Join(lines, "\n"))
}

// clip cuts every line to the terminal width.
func (m *Model) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, m.width, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) style(st lipgloss.Style, s string) string {
	if m.opts.NoColor {
		return s
	}
	return st.Render(s)
}

func (m *Model) renderTitle() string {
	tabs := []struct {
		tab   Tab
		label string
	}{
		{TabBook, " Book "},
		{TabFederation, " Federation "},
	}
	parts := make([]string, 0, len(tabs)+1)
	for _, t := range tabs {
		if t.tab == m.tab {
			if m.opts.NoColor {
				parts = append(parts, "["+strings.TrimSpace(t.label)+"]")
			} else {
				parts = append(parts, m.theme.Key.Render(t.label))
			}
			continue
		}
		parts = append(parts, m.style(m.theme.Muted, t.label))
	}

	v := m.Layout()
	info := fmt.Sprintf("%s · %s", v.Density, m.countLabel())
	if m.tab == TabBook {
		info = v.Mode.String() + " · " + info
	}
	if v.Fullscreen {
		info += " · fullscreen"
	}
	parts = append(parts, m.style(m.theme.Title, info))
	return strings.Join(parts, " ")
}

func (m *Model) countLabel() string {
	if m.tab == TabFederation {
		return fmt.Sprintf("%d/%d enabled", m.federation.EnabledCount(), m.federation.Len())
	}
	n := len(m.filtered)
	if n == 1 {
		return "1 order"
	}
	return humanize.Comma(int64(n)) + " orders"
}

func (m *Model) renderControls() string {
	if m.editing {
		return m.style(m.theme.Title, "where ") + m.input.View()
	}
	currency := "any"
	if m.base.Currency != 0 {
		currency = book.CurrencyCode(m.base.Currency)
	}
	where := "-"
	if m.where != nil {
		where = m.where.String()
	}
	parts := []string{
		"side " + m.base.Side.String(),
		"currency " + currency,
		"where " + where,
	}
	if opts := m.book.PageSizeOptions(); len(opts) > 0 {
		labels := make([]string, len(opts))
		for i, o := range opts {
			labels[i] = strconv.Itoa(o)
			if o == m.book.PageSize() {
				labels[i] = "[" + labels[i] + "]"
			}
		}
		parts = append(parts, "rows "+strings.Join(labels, " "))
	}
	return m.style(m.theme.Muted, strings.Join(parts, " · "))
}

func (m *Model) renderBody() string {
	if m.help {
		return m.renderHelp()
	}
	body := m.orders.View()
	label := "order book"
	if m.tab == TabFederation {
		body = m.coords.View()
		label = "coordinators"
	}
	if m.active().State() == controller.Loading {
		body += "\n" + m.spinner.View() + " Loading " + label + "…"
	}
	return body
}

func (m *Model) renderHelp() string {
	width := 0
	for _, row := range helpRows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	lines := make([]string, len(helpRows))
	for i, row := range helpRows {
		lines[i] = m.style(m.theme.Title, runewidth.FillRight(row[0], width)) + "  " + row[1]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var parts []string
	if m.snapshot.Loading || !m.loaded {
		progress := fmt.Sprintf("%s loading %d/%d coordinators (%.0f%%)",
			m.spinner.View(), m.snapshot.LoadedCoordinators, m.snapshot.TotalCoordinators, m.snapshot.Progress())
		parts = append(parts, progress)
	}
	total := len(m.filtered)
	if size := m.book.PageSize(); size > 0 {
		start, end := m.book.Window(total)
		pages := max(m.book.PageCount(total), 1)
		parts = append(parts, fmt.Sprintf("page %d/%d", m.book.PageIndex()+1, pages))
		if end > start {
			parts = append(parts, fmt.Sprintf("%d-%d of %s", start+1, end, humanize.Comma(int64(total))))
		}
	}
	return m.style(m.theme.Footer, strings.Join(parts, " · "))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return m.style(m.theme.Muted, defaultHint)
	}
	if m.failed {
		return m.style(m.theme.Error, m.status)
	}
	return m.style(m.theme.Success, m.status)
}
