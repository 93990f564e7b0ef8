package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filtergrid/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	var path string
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration, flags included, to a file",
		Example: `
filtergrid config save --mode grid --sort text
filtergrid config save --path ./.filtergrid.toml --filter-kind fuzzy
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			svc := config.NewConfigService()
			if path == "" {
				path = svc.Path()
				err = svc.Save(cfg)
			} else {
				err = svc.SaveToPath(cfg, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", path)
			return nil
		},
	}
	save.Flags().StringVar(&path, "path", "", "file to write (default is the user config file)")
	save.Flags().StringVarP(&o.mode, "mode", "m", "", "selection mode: "+config.ModeList+" or "+config.ModeGrid)

	show := &cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration as TOML",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(save, show)
	return cmd
}
