package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/controller"
	"github.com/oakwood-commons/bookgrid/internal/ui"
	"github.com/oakwood-commons/bookgrid/pkg/logger"
)

type layoutFlags struct {
	table      string
	mode       string
	width      float64
	height     float64
	fullWidth  float64
	fullHeight float64
	fullscreen bool
	rows       int
	loading    bool
	output     string
}

func newLayoutCommand() *cobra.Command {
	f := &layoutFlags{}
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the layout chosen for a container size",
		Long: `Print the packing decision for a listing: density, visible columns and their
widths, total width, page size and page size options. Sizes are in em.`,
		Example: `  bookgrid layout --width 64 --height 80
  bookgrid layout --table federation --width 30 -o yaml
  bookgrid layout --mode swap --width 100 --height 60 --full-height 120 --fullscreen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := f.view(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch f.output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(v); err != nil {
					return err
				}
				return enc.Close()
			}
			return fmt.Errorf("invalid --output %q (expected json or yaml)", f.output)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.table, "table", "book", "listing: book|federation")
	fs.StringVar(&f.mode, "mode", "", "content mode of the book: fiat|swap (default from config)")
	fs.Float64Var(&f.width, "width", 100, "container width in em")
	fs.Float64Var(&f.height, "height", 60, "container height in em")
	fs.Float64Var(&f.fullWidth, "full-width", 0, "fullscreen width in em (default --width)")
	fs.Float64Var(&f.fullHeight, "full-height", 0, "fullscreen height in em (default --height)")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "lay out for fullscreen")
	fs.IntVar(&f.rows, "rows", 1, "rows in the listing")
	fs.BoolVar(&f.loading, "loading", false, "the source is still loading")
	fs.StringVarP(&f.output, "output", "o", "json", "output format: json|yaml")
	return cmd
}

func (f *layoutFlags) view(cmd *cobra.Command) (controller.View, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return controller.View{}, err
	}
	tab, err := ui.ParseTab(f.table)
	if err != nil {
		return controller.View{}, err
	}
	modeName := cfg.Book.Mode
	if f.mode != "" {
		modeName = f.mode
	}
	mode, err := catalog.ParseMode(modeName)
	if err != nil {
		return controller.View{}, err
	}

	lgr := *logger.FromContext(ctx)
	c := ui.BookController(cfg, cfg.Units, mode, lgr)
	if tab == ui.TabFederation {
		c = ui.RosterController(cfg.Units, lgr)
	}
	d := controller.Dimensions{
		Width:      f.width,
		Height:     f.height,
		FullWidth:  f.fullWidth,
		FullHeight: f.fullHeight,
	}
	if d.FullWidth <= 0 {
		d.FullWidth = d.Width
	}
	if d.FullHeight <= 0 {
		d.FullHeight = d.Height
	}
	c.Resize(d)
	if f.fullscreen {
		c.SetFullscreen(true)
	}
	c.Sync(f.loading, max(f.rows, 0))
	return c.Snapshot(), nil
}
