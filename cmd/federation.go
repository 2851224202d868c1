package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/internal/limiter"
	"github.com/oakwood-commons/bookgrid/internal/ui"
)

func newFederationCommand() *cobra.Command {
	f := &viewFlags{}
	cmd := &cobra.Command{
		Use:     "federation [book-file]",
		Aliases: []string{"coordinators"},
		Short:   "Show the coordinator roster",
		Long: `Show the coordinators of the federation and whether each is enabled. The
roster comes from --federation, or is derived from the coordinators of the
orders in the book file.`,
		Example: `  bookgrid federation --federation coordinators.yaml orders.json
  bookgrid federation orders.json --toggle moon`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			mode, err := catalog.ParseMode(cfg.Book.Mode)
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			src, err := f.source(path, limiter.Config{})
			if err != nil {
				return err
			}
			return f.show(cmd, ui.Options{
				Source: src,
				Config: cfg,
				Tab:    ui.TabFederation,
				Mode:   mode,
			})
		},
	}
	f.register(cmd.Flags())
	return cmd
}
