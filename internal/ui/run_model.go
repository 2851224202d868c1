package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Fallback terminal size when it cannot be detected.
const (
	defaultWidth  = 120
	defaultHeight = 40
)

// RunModel starts the interactive view. Width/height of 0 use the terminal
// size. startKeys are replayed once the first load arrives. The final
// model is returned so callers can report toggles made in the view.
func RunModel(ctx context.Context, opts Options, width, height int, startKeys []string, progOpts ...tea.ProgramOption) (*Model, error) {
	m := New(opts)
	if width > 0 || height > 0 {
		w, h := TerminalSize(width, height)
		progOpts = append(progOpts, tea.WithWindowSize(w, h))
	}
	m.pendingKeys = startKeys
	progOpts = append(progOpts, tea.WithContext(ctx))

	final, err := tea.NewProgram(m, progOpts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm, err
	}
	return m, err
}

// TerminalSize fills zero dimensions from the terminal on stdout, falling
// back to 120x40.
func TerminalSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width <= 0 {
				width = w
			}
			if height <= 0 {
				height = h
			}
		}
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// SnapshotConfig configures a one-shot render.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot loads the data once, lays it out for the given size,
// replays StartKeys and returns the rendered screen.
func RenderSnapshot(opts Options, cfg SnapshotConfig) (string, *Model, error) {
	width, height := TerminalSize(cfg.Width, cfg.Height)
	m := New(opts)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})

	msg, _ := m.load()().(loadedMsg)
	m.receive(msg)
	if msg.err != nil {
		return "", m, msg.err
	}
	ApplyStartupKeys(m, cfg.StartKeys)
	return m.render(), m, nil
}
