package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/bookgrid/internal/config"
)

func newConfigCommand() *cobra.Command {
	var (
		output   string
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration",
		Long: `Print the configuration in effect: the built-in defaults merged with the
file given by --config-file or found at $XDG_CONFIG_HOME/bookgrid/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := out.Write(config.DefaultConfigYAML())
				return err
			}
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			switch output {
			case "yaml":
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			return fmt.Errorf("invalid --output %q (expected yaml or json)", output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults, comments included")
	return cmd
}
