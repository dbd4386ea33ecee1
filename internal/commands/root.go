// Package commands implements the cashbook command line.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cashbook/internal/amqp"
	"cashbook/internal/buildinfo"
	"cashbook/internal/cli"
	"cashbook/internal/config"
	"cashbook/internal/filter"
	"cashbook/internal/log"
	"cashbook/internal/services"
)

// runtime is the state shared by every subcommand of one invocation.
type runtime struct {
	loadConfig func() (*config.Config, error)
	now        func() time.Time
	location   *time.Location

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runtime{
		loadConfig: func() (*config.Config, error) {
			cli.LoadEnvFile()
			return cli.LoadAndValidateConfig()
		},
	})
}

func newRootCommand(rt *runtime) *cobra.Command {
	if rt.now == nil {
		rt.now = time.Now
	}
	if rt.location == nil {
		rt.location = time.Local
	}

	rootCmd := &cobra.Command{
		Use:     "cashbook",
		Short:   "Personal income and expense ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.loadConfig()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = cli.SetupLogger(cfg, cmd.ErrOrStderr()).WithComponent(log.ComponentCLI)
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCommand(rt),
		newAddCommand(rt),
		newEditCommand(rt),
		newListCommand(rt),
		newSearchCommand(rt),
		newOverviewCommand(rt),
		newReportCommand(rt),
		newSuggestCommand(rt),
		newDeleteCommand(rt),
		newClearCommand(rt),
		newExportCommand(rt),
	)

	return rootCmd
}

// openApp wires the service. Close must be called on the returned app.
func (rt *runtime) openApp(ctx context.Context, opts cli.AppOptions) (*cli.App, error) {
	if opts.Clock == nil {
		opts.Clock = rt.now
	}
	return cli.NewApp(ctx, rt.cfg, rt.logger, opts)
}

// openPublisher connects to the broker when AMQP is configured. The returned close
// function is never nil.
func (rt *runtime) openPublisher() (services.ExportPublisher, func() error, error) {
	if !rt.cfg.AMQPEnabled() {
		return nil, func() error { return nil }, nil
	}
	client, err := amqp.NewClient(rt.cfg.AMQPURL, rt.cfg.AMQPExchange, rt.cfg.AMQPQueue, rt.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to broker: %w", err)
	}
	return client, client.Close, nil
}

// windowFlags are the --range/--start/--end flags shared by read commands.
type windowFlags struct {
	mode, start, end string
}

func (f *windowFlags) register(cmd *cobra.Command, defaultMode string) {
	cmd.Flags().StringVar(&f.mode, "range", defaultMode, "time range: month, year, custom or all")
	cmd.Flags().StringVar(&f.start, "start", "", "first day for --range custom (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day for --range custom (YYYY-MM-DD)")
}

func (f *windowFlags) window(loc *time.Location) (filter.Window, error) {
	w, err := filter.ParseWindow(f.mode, f.start, f.end, loc)
	if err != nil {
		return filter.Window{}, fmt.Errorf("invalid range: %w", err)
	}
	return w, nil
}

// confirm asks question on the command's output and reads a y/N answer from its input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
