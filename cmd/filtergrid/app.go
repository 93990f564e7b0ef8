package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"filtergrid/internal/config"
	"filtergrid/internal/eventbus"
	"filtergrid/internal/loader"
	"filtergrid/internal/logging"
	"filtergrid/internal/logic"
	"filtergrid/internal/ui/coordinator"
)

// options holds the flags shared by every command
type options struct {
	configPath  string
	mode        string
	filterKind  string
	filter      string
	sort        string
	logLevel    string
	lineNumbers bool
}

func (o *options) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default is ./"+config.FileName+", then the user config dir)")
	flags.StringVar(&o.filterKind, "filter-kind", "", "filter kind: substring, fuzzy or regex")
	flags.StringVarP(&o.filter, "filter", "f", "", "initial filter query")
	flags.StringVarP(&o.sort, "sort", "s", "", "sort mode: none, text, length or source")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&o.lineNumbers, "line-numbers", "n", false, "show source:line for each entry")
}

// loadConfig reads the config file and applies the flags the user set
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	svc := config.NewConfigService()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	var cfg *config.Config
	if path := config.Resolve(o.configPath, wd); path != svc.Path() {
		cfg, err = svc.LoadFromPath(path)
	} else {
		cfg, err = svc.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Selection.Mode = o.mode
	}
	if flags.Changed("filter-kind") {
		cfg.UI.FilterKind = o.filterKind
	}
	if flags.Changed("sort") {
		cfg.UI.DefaultSort = o.sort
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("line-numbers") {
		cfg.UI.ShowLineNumbers = o.lineNumbers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is the wiring shared by the TUI and the print command
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	bus    eventbus.EventBus
	coord  *coordinator.Coordinator
	loader loader.LoaderService
}

func (o *options) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	sortMode, err := logic.ParseSortMode(cfg.UI.DefaultSort)
	if err != nil {
		return nil, err
	}
	kind, err := logic.ParseFilterKind(cfg.UI.FilterKind)
	if err != nil {
		return nil, err
	}
	filter, err := logic.NewFilter(kind, o.filter)
	if err != nil {
		return nil, err
	}

	log, err := logging.NewFile(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	logging.SetGlobalLevel(logging.ParseLevel(cfg.Log.Level))

	coord, err := coordinator.New(coordinator.Options{
		Mode:     cfg.Selection.Mode,
		Sort:     sortMode,
		Filter:   filter,
		Coalesce: cfg.Projection.CoalesceRangeAdds,
		Log:      log.Zerolog(),
	})
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	bus := eventbus.New(log.Component("eventbus"))
	a := &app{
		cfg:   cfg,
		log:   log,
		bus:   bus,
		coord: coord,
		loader: loader.NewLoaderService(bus,
			loader.WithStdin(cmd.InOrStdin()),
			loader.WithLogger(log.Component("loader")),
		),
	}
	log.Info().
		Str("mode", cfg.Selection.Mode).
		Str("sort", sortMode.String()).
		Str("filter", filter.String()).
		Msg("filtergrid starting")
	return a, nil
}

// close stops the loader first; its last event goes out on the live bus
func (a *app) close() {
	a.loader.Stop()
	a.bus.Close()
	a.coord.Close()
	_ = a.log.Close()
}

// load reads sources and applies every batch before returning
func (a *app) load(ctx context.Context, sources []string, errOut io.Writer) error {
	done := make(chan struct{})
	unsubs := []func(){
		a.bus.Subscribe(eventbus.EventEntriesLoaded, func(e eventbus.DomainEvent) {
			a.coord.AddEntries(e.(eventbus.EntriesLoadedEvent).Entries)
		}),
		a.bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.ErrorEvent)
			fmt.Fprintf(errOut, "%s: %v\n", ev.Message, ev.Err)
		}),
		a.bus.Subscribe(eventbus.EventLoadCompleted, func(eventbus.DomainEvent) {
			close(done)
		}),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	if err := a.loader.Start(ctx, sources); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// defaultSources reads stdin when it is piped, the working directory
// otherwise
func defaultSources(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
		return []string{loader.Stdin}
	}
	return []string{"."}
}
