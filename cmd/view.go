package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/limiter"
	"github.com/oakwood-commons/bookgrid/internal/ui"
	"github.com/oakwood-commons/bookgrid/pkg/logger"
)

var errNoInput = errors.New("no order book given (pass a file, or pipe one on stdin)")

// viewFlags are shared by the commands that show a listing.
type viewFlags struct {
	federationFile string
	interactive    bool
	width          int
	height         int
	press          []string
	refresh        time.Duration
	toggles        []string
}

func (f *viewFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.federationFile, "federation", "", "coordinator roster file (default: derived from the orders)")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "start the interactive view")
	fs.IntVar(&f.width, "width", 0, "screen width in columns (default: terminal width)")
	fs.IntVar(&f.height, "height", 0, "screen height in lines (default: terminal height)")
	fs.StringArrayVar(&f.press, "press", nil, `keys replayed after the first load; <Key> for named keys, e.g. --press "m" --press "<Tab>"`)
	fs.DurationVar(&f.refresh, "refresh", 0, "reload the files at this interval in the interactive view (0 = never)")
	fs.StringArrayVar(&f.toggles, "toggle", nil, "flip the enabled flag of a coordinator (repeatable)")
}

// source builds the data source for the book at path ("-" or "" reads stdin).
func (f *viewFlags) source(path string, limits limiter.Config) (book.Source, error) {
	if path == "" {
		if !stdinIsPiped() {
			return nil, errNoInput
		}
		path = "-"
	}
	var src book.Source = &book.FileSource{
		BookPath:       path,
		FederationPath: f.federationFile,
		Stdin:          os.Stdin,
	}
	if limits.IsActive() {
		src = limitedSource{Source: src, limits: limits}
	}
	if len(f.toggles) > 0 {
		src = toggledSource{Source: src, aliases: f.toggles}
	}
	return src, nil
}

// show renders one snapshot to stdout, or runs the interactive view.
func (f *viewFlags) show(cmd *cobra.Command, opts ui.Options) error {
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)
	run := runSettings(ctx)
	opts.NoColor = run.NoColor || os.Getenv("NO_COLOR") != ""

	if !f.interactive {
		if !opts.NoColor && stdoutIsPiped() {
			opts.NoColor = true
		}
		opts.Logger = *lgr
		w, h := detectTerminalSize()
		size := resolveSnapshotSize(f.width, f.height, w, h)
		out, _, err := ui.RenderSnapshot(opts, ui.SnapshotConfig{
			Width:     size.Width,
			Height:    size.Height,
			StartKeys: f.press,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	// log lines on stderr would tear through the alternate screen
	opts.Logger = logr.Discard()
	if run.LogsToFile() {
		opts.Logger = *lgr
	}
	opts.Refresh = f.refresh
	progOpts, cleanup := getProgramOptions()
	defer cleanup()

	lgr.V(1).Info("starting interactive view", logger.ViewKey, opts.Tab.String())
	_, err := ui.RunModel(ctx, opts, f.width, f.height, f.press, progOpts...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("interactive view: %w", err)
	}
	return nil
}

// limitedSource windows the orders of every load.
type limitedSource struct {
	book.Source
	limits limiter.Config
}

func (s limitedSource) Load(ctx context.Context) (book.Snapshot, book.Federation, error) {
	snap, fed, err := s.Source.Load(ctx)
	if err != nil {
		return snap, fed, err
	}
	return snap.WithOrders(limiter.Apply(s.limits, snap.Orders)), fed, nil
}

// toggledSource flips coordinators of every loaded roster.
type toggledSource struct {
	book.Source
	aliases []string
}

func (s toggledSource) Load(ctx context.Context) (book.Snapshot, book.Federation, error) {
	snap, fed, err := s.Source.Load(ctx)
	if err != nil {
		return snap, fed, err
	}
	for _, alias := range s.aliases {
		next, ok := fed.WithToggled(alias)
		if !ok {
			return snap, fed, fmt.Errorf("--toggle: unknown coordinator %q", alias)
		}
		fed = next
	}
	return snap, fed, nil
}
