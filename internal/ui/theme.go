package ui

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/bookgrid/internal/cell"
	"github.com/oakwood-commons/bookgrid/internal/config"
	"github.com/oakwood-commons/bookgrid/internal/ui/table"
	"github.com/oakwood-commons/bookgrid/pkg/gradient"
	"github.com/oakwood-commons/bookgrid/pkg/premium"
)

// Theme holds the styles and colour encoder of one palette.
type Theme struct {
	Table      table.Styles
	Encoder    premium.Encoder
	Background gradient.RGB

	Title   lipgloss.Style
	Key     lipgloss.Style
	Footer  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewTheme builds a theme from configured hex colours.
func NewTheme(t config.Theme) (Theme, error) {
	parse := func(name, hex string) (gradient.RGB, error) {
		c, err := gradient.ParseHex(hex)
		if err != nil {
			return gradient.RGB{}, fmt.Errorf("theme %s: %w", name, err)
		}
		return c, nil
	}
	text, err := parse("text_primary", t.TextPrimary)
	if err != nil {
		return Theme{}, err
	}
	primary, err := parse("primary_dark", t.PrimaryDark)
	if err != nil {
		return Theme{}, err
	}
	secondary, err := parse("secondary_dark", t.SecondaryDark)
	if err != nil {
		return Theme{}, err
	}
	background, err := parse("background", t.Background)
	if err != nil {
		return Theme{}, err
	}

	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	th := Theme{
		Encoder: premium.Encoder{
			Primary:    text,
			BuyAccent:  secondary,
			SellAccent: primary,
		},
		Background: background,
		Title:      fg(t.HeaderFG).Bold(true),
		Key:        fg(t.Background).Background(lipgloss.Color(t.PrimaryDark)).Bold(true),
		Footer:     fg(t.Muted),
		Muted:      fg(t.Muted),
		Error:      fg(t.Error).Bold(true),
		Success:    fg(t.Success),
	}
	th.Table = table.Styles{
		Header:    fg(t.HeaderFG).Bold(true),
		Separator: fg(t.Muted),
		Cursor:    fg(t.PrimaryDark).Bold(true),
		Tones: map[cell.Tone]lipgloss.Style{
			cell.Plain:   fg(t.TextPrimary),
			cell.Muted:   fg(t.Muted),
			cell.Success: fg(t.Success),
			cell.Warning: fg(t.Warning),
			cell.Error:   fg(t.Error),
		},
	}
	return th, nil
}

// DefaultTheme returns the palette of the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err == nil {
		if th, err := NewTheme(cfg.Theme); err == nil {
			return th
		}
	}
	return Theme{Table: table.DefaultStyles(), Encoder: premium.Encoder{Primary: gradient.RGB{R: 255, G: 255, B: 255}}}
}
