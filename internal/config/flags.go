package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// BindLogFlags registers the observability flags shared by every command.
func BindLogFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level: "debug", "info", "warn", "error"`)
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose logging (forces debug level)")
}

// BindInputFlags registers the process-set flags used by run and compare.
func BindInputFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.IDs, "ids", "p", cfg.IDs, "Comma-separated process ids, e.g. A,B,C")
	fs.StringVarP(&cfg.Bursts, "bursts", "b", cfg.Bursts, "Comma-separated burst times, e.g. 5,3,1")
	fs.StringVarP(&cfg.Priorities, "priorities", "r", cfg.Priorities, "Comma-separated priorities, lower runs first")
	fs.IntVarP(&cfg.Quantum, "quantum", "q", cfg.Quantum, "Time quantum for Round Robin")
	fs.StringVarP(&cfg.Workload, "file", "f", cfg.Workload, "Workload file (.yaml, .yml or .csv)")
}

// BindRunFlags registers the flags of the run command.
func BindRunFlags(fs *pflag.FlagSet, cfg *Config) {
	BindInputFlags(fs, cfg)
	fs.StringVarP(&cfg.Algorithm, "algorithm", "a", cfg.Algorithm,
		fmt.Sprintf("Scheduling algorithm: %s", strings.Join(scheduler.Names(), ", ")))
	fs.BoolVar(&cfg.Merge, "merge", cfg.Merge, "Merge adjacent intervals of the same process")
	fs.StringVar(&cfg.View, "view", cfg.View, fmt.Sprintf("Output view: %s", strings.Join(ViewModes, ", ")))
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Chart width in columns")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Replay the schedule in an interactive terminal view")
	fs.StringVar(&cfg.TraceOut, "trace-out", cfg.TraceOut, "Write the trace as JSON lines to this file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Record the run in this SQLite database")
}

// BindCompareFlags registers the flags of the compare command.
func BindCompareFlags(fs *pflag.FlagSet, cfg *Config) {
	BindInputFlags(fs, cfg)
	fs.StringSliceVar(&cfg.CompareAlgorithms, "algorithms", cfg.CompareAlgorithms,
		"Algorithms to compare (default: every applicable one)")
}

// BindServeFlags registers the flags of the serve command.
func BindServeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "API listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, `Prometheus metrics address ("" disables)`)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database for run history")
}

// BindHistoryFlags registers the flags of the history command.
func BindHistoryFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database to read")
	fs.IntVar(&cfg.HistoryLimit, "limit", cfg.HistoryLimit, "Maximum number of runs to list")
}

// BindReplayFlags registers the flags of the replay command.
func BindReplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.TraceIn, "trace", cfg.TraceIn, "Replay a JSON-lines trace file instead of a stored run")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database holding the run")
	fs.BoolVar(&cfg.Merge, "merge", cfg.Merge, "Merge adjacent intervals of the same process")
	fs.StringVar(&cfg.View, "view", cfg.View, fmt.Sprintf("Output view: %s", strings.Join(ViewModes, ", ")))
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Chart width in columns")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Replay the schedule in an interactive terminal view")
}

// BindStatusFlags registers the flags of the status command.
func BindStatusFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.MetricsURL, "metrics-url", cfg.MetricsURL, "Metrics endpoint of a running server")
}
