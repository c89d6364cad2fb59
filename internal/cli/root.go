// Package cli implements the go-cpusched command tree.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/logging"
)

// app carries the state shared by every command.
type app struct {
	cfg     *config.Config
	version string

	out       io.Writer // rendered output
	errOut    io.Writer // warnings and flushed TUI logs
	logWriter io.Writer // nil means stderr via logging.NewLogger

	logger *slog.Logger
	logs   *logging.LineBuffer // set while the TUI owns the terminal
}

// NewRootCmd creates the root cobra command for the go-cpusched CLI.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&app{
		cfg:     config.DefaultConfig(),
		version: version,
		out:     os.Stdout,
		errOut:  os.Stderr,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "go-cpusched",
		Short: "CPU scheduling simulator",
		Long: "go-cpusched computes execution traces for FCFS, SJF, NPP, SRTF, PP and RR\n" +
			"scheduling, renders them as Gantt charts and timelines, and serves them over HTTP.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(a.cfg); err != nil {
				return err
			}
			a.setupLogger()
			return nil
		},
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	config.BindLogFlags(root.PersistentFlags(), a.cfg)

	root.AddCommand(
		newRunCmd(a),
		newCompareCmd(a),
		newReplayCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newStatusCmd(a),
		newVersionCmd(a),
	)

	return root
}

// setupLogger builds the process logger. While the TUI runs, log lines
// are buffered and written to errOut once it exits.
func (a *app) setupLogger() {
	level := a.cfg.LogLevel
	if a.cfg.Verbose {
		level = "debug"
	}

	switch {
	case a.cfg.TUI:
		a.logs = logging.NewLineBuffer()
		a.logger = logging.NewLoggerWithWriter(a.logs, a.cfg.LogFormat, level)
	case a.logWriter != nil:
		a.logger = logging.NewLoggerWithWriter(a.logWriter, a.cfg.LogFormat, level)
	default:
		a.logger = logging.NewLogger(a.cfg.LogFormat, level, a.cfg.Verbose)
	}
	logging.SetDefault(a.logger)
}

// flushLogs writes any buffered TUI log lines to errOut.
func (a *app) flushLogs() {
	if a.logs == nil || a.logs.Len() == 0 {
		return
	}
	if err := a.logs.Flush(a.errOut); err != nil {
		a.logger.Warn("log_flush_failed", "error", err)
	}
}
