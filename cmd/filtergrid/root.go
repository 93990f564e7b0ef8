package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"filtergrid/internal/config"
	"filtergrid/internal/eventbus"
	"filtergrid/internal/ui"
)

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "filtergrid [sources...]",
		Short: "Pick lines from files or stdin in a filterable, sortable list",
		Long: `Loads lines from files, directories or stdin ("-") and shows them in a
list you can filter and sort. The selection survives filtering: entries
hidden by the filter stay selected. Press enter to print the selected
lines and exit.`,
		Example: `
filtergrid notes.txt todo.txt
git log --oneline | filtergrid --filter-kind fuzzy
filtergrid --mode grid --sort length src/
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runTUI(cmd, defaultSources(args))
		},
	}
	o.addFlags(cmd)
	cmd.Flags().StringVarP(&o.mode, "mode", "m", "", "selection mode: "+config.ModeList+" or "+config.ModeGrid)

	cmd.AddCommand(newPrintCmd(o), newConfigCmd(o))
	return cmd
}

func (o *options) runTUI(cmd *cobra.Command, sources []string) error {
	a, err := o.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := ui.NewModel(a.cfg, a.coord, a.log.Zerolog())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.SetProgram(p)

	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventLoadStarted,
		eventbus.EventEntriesLoaded,
		eventbus.EventLoadCompleted,
		eventbus.EventError,
	} {
		a.bus.Subscribe(t, forward)
	}

	if err := a.loader.Start(ctx, sources); err != nil {
		return err
	}

	if _, err := p.Run(); err != nil {
		a.log.Error().Err(err).Msg("program failed")
		return fmt.Errorf("run program: %w", err)
	}
	// stop loading before reading the selection
	a.loader.Stop()

	if !m.Accepted() {
		return nil
	}
	out := cmd.OutOrStdout()
	for _, e := range m.Selection() {
		fmt.Fprintln(out, e.Text)
	}
	a.log.Info().Int("selected", len(m.Selection())).Msg("selection accepted")
	return nil
}
