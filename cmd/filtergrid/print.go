package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrintCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "print [sources...]",
		Short: "Print the filtered and sorted lines without the interactive list",
		Example: `
filtergrid print --filter error --sort text app.log
cat words.txt | filtergrid print --filter-kind regex --filter '^a.*z$'
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runPrint(cmd, defaultSources(args))
		},
	}
}

func (o *options) runPrint(cmd *cobra.Command, sources []string) error {
	a, err := o.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.load(cmd.Context(), sources, cmd.ErrOrStderr()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for row := range a.coord.RowCount() {
		e, ok := a.coord.Row(row)
		if !ok {
			continue
		}
		if a.cfg.UI.ShowLineNumbers {
			fmt.Fprintf(out, "%s\t%s\n", e.Location(), e.Text)
		} else {
			fmt.Fprintln(out, e.Text)
		}
	}
	a.log.Debug().Int("rows", a.coord.RowCount()).Int("total", a.coord.TotalCount()).Msg("printed view")
	return nil
}
