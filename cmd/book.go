package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/filter"
	"github.com/oakwood-commons/bookgrid/internal/limiter"
	"github.com/oakwood-commons/bookgrid/internal/ui"
	"github.com/oakwood-commons/bookgrid/pkg/logger"
)

type bookFlags struct {
	view       viewFlags
	mode       string
	side       string
	currency   string
	where      string
	page       int
	fullscreen bool
	noControls bool
	noFooter   bool
	limits     limiter.Config
}

func newBookCommand() *cobra.Command {
	f := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "book [file]",
		Short: "Show the order book",
		Long: `Show the order book fitted to the screen. Without -i one page is printed
and the command exits; with -i the interactive view starts.

The file may be a snapshot object ({"orders": [...], "loading": ...}), a list
of orders or NDJSON, in JSON, YAML or TOML. Use "-" or a pipe for stdin.`,
		Example: `  bookgrid book orders.json
  bookgrid book orders.json --mode swap --width 100 --height 30
  bookgrid book orders.json --side sell --currency EUR --filter '_.premium < 2.0'
  curl -s https://example.org/book | bookgrid book -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, args)
		},
	}
	f.view.register(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVar(&f.mode, "mode", "", "content mode: fiat|swap (default from config)")
	fs.StringVar(&f.side, "side", "any", "show one side of the market: any|buy|sell")
	fs.StringVar(&f.currency, "currency", "", "show one currency, by ISO code or number")
	fs.StringVar(&f.where, "filter", "", `CEL expression over each order bound to '_', e.g. '_.premium < 2.0'`)
	fs.IntVar(&f.page, "page", 0, "zero-based page to show first")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "start in fullscreen")
	fs.BoolVar(&f.noControls, "no-controls", false, "hide the controls line")
	fs.BoolVar(&f.noFooter, "no-footer", false, "hide the pagination footer")
	fs.IntVar(&f.limits.Limit, "limit", 0, "keep only the first N orders")
	fs.IntVar(&f.limits.Offset, "offset", 0, "skip the first N orders")
	fs.IntVar(&f.limits.Tail, "tail", 0, "keep only the last N orders (exclusive with --limit; ignores --offset)")
	return cmd
}

func (f *bookFlags) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)

	if err := f.limits.Validate(); err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if f.fullscreen {
		cfg.Book.Fullscreen = true
	}
	if f.noControls {
		cfg.Book.ShowControls = false
	}
	if f.noFooter {
		cfg.Book.ShowFooter = false
	}

	modeName := cfg.Book.Mode
	if f.mode != "" {
		modeName = f.mode
	}
	mode, err := catalog.ParseMode(modeName)
	if err != nil {
		return err
	}
	side, err := filter.ParseSide(f.side)
	if err != nil {
		return err
	}
	currency := 0
	if f.currency != "" {
		id, ok := book.CurrencyID(f.currency)
		if !ok {
			return fmt.Errorf("unknown currency %q", f.currency)
		}
		currency = id
	}
	var where *filter.Predicate
	if f.where != "" {
		if where, err = filter.Compile(f.where); err != nil {
			lgr.Error(err, "invalid filter", "filter", f.where)
			return err
		}
	}
	if f.page < 0 {
		return fmt.Errorf("--page must be non-negative, got %d", f.page)
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	src, err := f.view.source(path, f.limits)
	if err != nil {
		return err
	}

	return f.view.show(cmd, ui.Options{
		Source:   src,
		Config:   cfg,
		Tab:      ui.TabBook,
		Mode:     mode,
		Side:     side,
		Currency: currency,
		Page:     f.page,
		Where:    where,
	})
}
