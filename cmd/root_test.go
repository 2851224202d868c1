package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/limiter"
)

const (
	bookFile       = "testdata/book.json"
	federationFile = "testdata/federation.yaml"
)

// runCLI executes a fresh command tree isolated from the user's config.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--quiet"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestBookSnapshot(t *testing.T) {
	out, err := runCLI(t, "book", bookFile, "--federation", federationFile, "--width", "150", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "[Book]")
	assert.Contains(t, out, "fiat · normal · 4 orders")
	assert.Contains(t, out, "SilentOtter")
	assert.NotContains(t, out, "SwiftMarten")
	assert.Contains(t, out, "page 1/1")
}

func TestBookSnapshotFilters(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"swap mode":       {args: []string{"--mode", "swap"}, want: "swap · normal · 1 order"},
		"buy side":        {args: []string{"--side", "buy"}, want: "2 orders"},
		"currency":        {args: []string{"--currency", "eur"}, want: "3 orders"},
		"expression":      {args: []string{"--filter", "_.premium < 1.0"}, want: "2 orders"},
		"limit":           {args: []string{"--limit", "2"}, want: "2 orders"},
		"toggled off":     {args: []string{"--toggle", "moon"}, want: "2 orders"},
		"replayed keys":   {args: []string{"--press", "s", "--press", "s"}, want: "side sell"},
		"small screen":    {args: []string{"--width", "60"}, want: "fiat · small"},
		"fullscreen flag": {args: []string{"--fullscreen"}, want: "fullscreen"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"book", bookFile, "--federation", federationFile, "--width", "150", "--height", "20"}, tc.args...)
			out, err := runCLI(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tc.want)
		})
	}
}

func TestBookSnapshotHidesChrome(t *testing.T) {
	out, err := runCLI(t, "book", bookFile, "--width", "150", "--height", "20", "--no-controls", "--no-footer")
	require.NoError(t, err)
	assert.NotContains(t, out, "side any")
	assert.NotContains(t, out, "page 1/1")
}

func TestBookErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"limit and tail":   {args: []string{bookFile, "--limit", "1", "--tail", "1"}, want: "mutually exclusive"},
		"unknown mode":     {args: []string{bookFile, "--mode", "lightning"}, want: "unknown mode"},
		"unknown side":     {args: []string{bookFile, "--side", "up"}, want: "unknown side"},
		"unknown currency": {args: []string{bookFile, "--currency", "XYZ"}, want: "unknown currency"},
		"bad expression":   {args: []string{bookFile, "--filter", "_.premium +"}, want: "compilation error"},
		"negative page":    {args: []string{bookFile, "--page", "-1"}, want: "--page"},
		"unknown toggle":   {args: []string{bookFile, "--toggle", "nowhere"}, want: "unknown coordinator"},
		"missing file":     {args: []string{"testdata/missing.json"}, want: "load book"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"book"}, tc.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBookWithoutInput(t *testing.T) {
	orig := stdinIsPiped
	stdinIsPiped = func() bool { return false }
	t.Cleanup(func() { stdinIsPiped = orig })

	_, err := runCLI(t, "book")
	assert.ErrorIs(t, err, errNoInput)
}

func TestBookFromStdin(t *testing.T) {
	data, err := os.ReadFile(bookFile)
	require.NoError(t, err)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	origStdin, origPiped := os.Stdin, stdinIsPiped
	os.Stdin = r
	stdinIsPiped = func() bool { return true }
	t.Cleanup(func() {
		os.Stdin = origStdin
		stdinIsPiped = origPiped
		_ = r.Close()
	})

	out, err := runCLI(t, "book", "--width", "150", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "4 orders")
}

func TestFederationSnapshot(t *testing.T) {
	out, err := runCLI(t, "federation", bookFile, "--federation", federationFile, "--width", "120", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "[Federation]")
	assert.Contains(t, out, "2/3 enabled")
	assert.Contains(t, out, "Moon Harbour")

	out, err = runCLI(t, "federation", bookFile, "--federation", federationFile, "--toggle", "bay", "--width", "120", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "3/3 enabled")

	out, err = runCLI(t, "coordinators", bookFile, "--width", "120", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 enabled", "roster derived from the orders")
}

type layoutOutput struct {
	Name     string
	Density  string
	State    string
	PageSize int `json:"pageSize"`
	Columns  []struct {
		Key     string
		Visible bool
	}
	PageSizeOptions []int `json:"pageSizeOptions"`
}

func TestLayoutJSON(t *testing.T) {
	out, err := runCLI(t, "layout", "--width", "64", "--height", "80")
	require.NoError(t, err)

	var got layoutOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "book", got.Name)
	assert.Equal(t, "small", got.Density)
	assert.Equal(t, "ready", got.State)
	assert.Equal(t, 19, got.PageSize)
	assert.Len(t, got.Columns, 11)
	for _, c := range got.Columns {
		assert.NotEqual(t, "bond_size", c.Key)
	}
	assert.Equal(t, []int{19, 38, 50, 100}, got.PageSizeOptions)
}

func TestLayoutLoading(t *testing.T) {
	out, err := runCLI(t, "layout", "--loading", "--rows", "0")
	require.NoError(t, err)

	var got layoutOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "loading", got.State)
	assert.Equal(t, 0, got.PageSize)
}

func TestLayoutYAMLFederation(t *testing.T) {
	out, err := runCLI(t, "layout", "--table", "federation", "--width", "30", "-o", "yaml")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "federation", got["name"])
	assert.Equal(t, "small", got["density"])
}

func TestLayoutErrors(t *testing.T) {
	_, err := runCLI(t, "layout", "--table", "orders")
	assert.Error(t, err)
	_, err = runCLI(t, "layout", "-o", "csv")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cells_per_em: 1.5")

	out, err = runCLI(t, "config", "-o", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	out, err = runCLI(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "# Defaults for bookgrid")

	_, err = runCLI(t, "config", "-o", "toml")
	assert.Error(t, err)
}

func TestConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("book:\n  mode: swap\n"), 0o600))

	out, err := runCLI(t, "--config-file", path, "book", bookFile, "--width", "150", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "swap · normal · 1 order")

	_, err = runCLI(t, "--config-file", filepath.Join(t.TempDir(), "absent.yaml"), "config")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bookgrid v0.0.0-nightly")

	out, err = runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "bookgrid")
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := runCLI(t, "--log-format", "xml", "version")
	assert.Error(t, err)
}

func TestResolveSnapshotSize(t *testing.T) {
	tests := map[string]struct {
		flagW, flagH, detW, detH int
		want                     snapshotSize
	}{
		"flags win":      {flagW: 100, flagH: 30, detW: 200, detH: 50, want: snapshotSize{100, 30}},
		"detected":       {detW: 200, detH: 50, want: snapshotSize{200, 50}},
		"mixed":          {flagW: 90, detH: 50, want: snapshotSize{90, 50}},
		"nothing known":  {want: snapshotSize{defaultSnapshotWidth, defaultSnapshotHeight}},
		"width detected": {detW: 80, want: snapshotSize{80, defaultSnapshotHeight}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveSnapshotSize(tc.flagW, tc.flagH, tc.detW, tc.detH))
		})
	}
}

func TestLimitedSource(t *testing.T) {
	src := limitedSource{
		Source: book.StaticSource{Snapshot: book.Snapshot{Orders: []book.Order{{ID: 1}, {ID: 2}, {ID: 3}}}},
		limits: limiter.Config{Tail: 2},
	}
	snap, _, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Orders, 2)
	assert.Equal(t, 2, snap.Orders[0].ID)
}

func TestToggledSource(t *testing.T) {
	fed := book.NewFederation([]book.Coordinator{{ShortAlias: "moon", Enabled: true}})
	src := toggledSource{Source: book.StaticSource{Federation: fed}, aliases: []string{"moon"}}

	_, got, err := src.Load(context.Background())
	require.NoError(t, err)
	moon, _ := got.Get("moon")
	assert.False(t, moon.Enabled)
	before, _ := fed.Get("moon")
	assert.True(t, before.Enabled, "the loaded roster is not modified")
}

func TestTerminalDeviceNames(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in  string
		out string
	}{
		"windows": {in: "CONIN$", out: "CONOUT$"},
		"linux":   {in: "/dev/tty", out: "/dev/tty"},
		"darwin":  {in: "/dev/tty", out: "/dev/tty"},
		"freebsd": {in: "/dev/tty", out: "/dev/tty"},
	}
	for goos, expected := range tests {
		t.Run(goos, func(t *testing.T) {
			t.Parallel()
			in, out := terminalDeviceNames(goos)
			require.Equal(t, expected.in, in)
			require.Equal(t, expected.out, out)
		})
	}
}

func TestGetProgramOptions_PipedUsesTTYAndCleansUp(t *testing.T) {
	origIsPiped := stdinIsPiped
	origOpenTTY := openTerminalIOFn
	stdinIsPiped = func() bool { return true }

	inFile, err := os.CreateTemp(t.TempDir(), "tty-in-*")
	require.NoError(t, err)
	outFile, err := os.CreateTemp(t.TempDir(), "tty-out-*")
	require.NoError(t, err)
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return inFile, outFile, nil
	}
	defer func() {
		stdinIsPiped = origIsPiped
		openTerminalIOFn = origOpenTTY
	}()

	opts, cleanup := getProgramOptions()
	require.NotNil(t, cleanup)
	require.GreaterOrEqual(t, len(opts), 1)

	// both handles are closed, so a second close fails
	cleanup()
	require.Error(t, inFile.Close())
	require.Error(t, outFile.Close())
}

func TestGetProgramOptions_NotPipedUsesDefaults(t *testing.T) {
	origIsPiped := stdinIsPiped
	origOpenTTY := openTerminalIOFn
	stdinIsPiped = func() bool { return false }
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return nil, nil, fmt.Errorf("should not be called")
	}
	defer func() {
		stdinIsPiped = origIsPiped
		openTerminalIOFn = origOpenTTY
	}()

	opts, cleanup := getProgramOptions()
	require.NotNil(t, cleanup)
	require.Nil(t, opts)
	require.NotPanics(t, cleanup)
}

func TestWithTTYResizeWatcherSendsOnSizeChange(t *testing.T) {
	origTermGetSize := termGetSize
	origTicker := newResizeTicker
	origSend := sendWindowSize
	termCalls := atomic.Int32{}

	termGetSize = func(_ int) (int, int, error) {
		switch termCalls.Add(1) {
		case 1, 2:
			return 80, 24, nil
		default:
			return 81, 24, nil
		}
	}
	ticks := make(chan time.Time, 3)
	newResizeTicker = func(time.Duration) resizeTicker {
		return &fakeResizeTicker{ch: ticks}
	}
	msgs := make(chan tea.WindowSizeMsg, 2)
	sendWindowSize = func(_ *tea.Program, msg tea.WindowSizeMsg) {
		msgs <- msg
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		termGetSize = origTermGetSize
		newResizeTicker = origTicker
		sendWindowSize = origSend
	}()

	_, out := makePipe(t)
	var p tea.Program
	withTTYResizeWatcher(ctx, out)(&p)

	recv := func() tea.WindowSizeMsg {
		select {
		case m := <-msgs:
			return m
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timed out waiting for resize message")
			return tea.WindowSizeMsg{}
		}
	}

	ticks <- time.Now()
	assert.Equal(t, tea.WindowSizeMsg{Width: 80, Height: 24}, recv())

	ticks <- time.Now()
	select {
	case m := <-msgs:
		t.Fatalf("unexpected resize message on unchanged size: %+v", m)
	case <-time.After(150 * time.Millisecond):
	}

	ticks <- time.Now()
	assert.Equal(t, tea.WindowSizeMsg{Width: 81, Height: 24}, recv())
}

type fakeResizeTicker struct {
	ch <-chan time.Time
}

func (f *fakeResizeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeResizeTicker) Stop()               {}

func makePipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	return r, w
}
