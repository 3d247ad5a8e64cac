package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sidebar "github.com/derekross/obsidian-opencode-sidebar"
	"pkt.systems/pslog"
)

// usageError marks argument problems so main can exit with a distinct
// status before any terminal is allocated.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// NewRootCommand builds the root CLI command.
func NewRootCommand(loader *sidebar.Loader) *cobra.Command {
	var configFile string
	var termName string
	var logFile string
	var pollInterval time.Duration

	v := loader.Viper()
	v.SetDefault("host.log_file", "")
	v.SetDefault("host.poll_interval", sidebar.DefaultPollInterval)
	v.SetDefault("terminal.term", sidebar.DefaultTerminalTerm)

	cmd := &cobra.Command{
		Use:   "termhost <cols> <rows> <command> [args...]",
		Short: "Host a command on a pseudo-terminal and relay it over stdio",
		Long: "termhost allocates a pseudo-terminal, runs <command> on it and relays\n" +
			"bytes between the child and its own stdin/stdout. The embedder resizes\n" +
			"the terminal by writing ESC ] RESIZE ; <cols> ; <rows> BEL to stdin;\n" +
			"the directive is stripped from the stream before it reaches the child.\n" +
			"Pass 0 for <cols> and <rows> to detect the size from the controlling\n" +
			"terminal.",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 3 {
				return usageError{errors.New("requires <cols> <rows> <command> [args...]")}
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, rows, err := parseDims(args[0], args[1])
			if err != nil {
				return err
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			termValue := termName
			if !cmd.Flags().Changed("term") {
				termValue = cfg.Terminal.Term
			}
			logPath := logFile
			if !cmd.Flags().Changed("log-file") {
				logPath = cfg.Host.LogFile
			}
			pollValue := pollInterval
			if !cmd.Flags().Changed("poll-interval") {
				pollValue = cfg.Host.PollInterval
			}

			logger, closer, err := openHostLogger(logPath)
			if err != nil {
				return err
			}
			if closer != nil {
				defer func() {
					_ = closer.Close()
				}()
			}
			logger = logger.With("component", "termhost")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return sidebar.Host(pslog.ContextWithLogger(ctx, logger), sidebar.HostOptions{
				Cols:         cols,
				Rows:         rows,
				Command:      args[2:],
				Term:         termValue,
				PollInterval: pollValue,
				Logger:       logger,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	flags := cmd.Flags()
	// Flags after the first positional argument belong to the child
	// command, not to termhost.
	flags.SetInterspersed(false)
	flags.StringVar(&termName, "term", sidebar.DefaultTerminalTerm, "TERM for the child process")
	flags.StringVar(&logFile, "log-file", "", "append diagnostics to this file instead of stderr")
	flags.DurationVar(&pollInterval, "poll-interval", sidebar.DefaultPollInterval, "session readiness poll interval")

	cmd.AddCommand(NewConfigCommand(loader))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// parseDims parses the positional <cols> <rows> arguments. Zero means
// detect from the controlling terminal; negatives are rejected.
func parseDims(colsArg, rowsArg string) (int, int, error) {
	cols, err := strconv.Atoi(colsArg)
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("invalid columns %q", colsArg)}
	}
	rows, err := strconv.Atoi(rowsArg)
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("invalid rows %q", rowsArg)}
	}
	if cols < 0 || rows < 0 {
		return 0, 0, usageError{errors.New("dimensions must not be negative")}
	}
	return cols, rows, nil
}
