// Package config provides configuration management for go-cpusched.
package config

// View modes accepted by --view.
const (
	ViewGantt    = "gantt"
	ViewTimeline = "timeline"
	ViewTable    = "table"
	ViewJSON     = "json"
	ViewAll      = "all"
)

// ViewModes lists every accepted --view value.
var ViewModes = []string{ViewGantt, ViewTimeline, ViewTable, ViewJSON, ViewAll}

// MinWidth is the narrowest terminal width the renderers accept.
const MinWidth = 20

// Config holds all configuration options for the CLI and API server.
type Config struct {
	// Input
	Algorithm  string `json:"algorithm"`
	IDs        string `json:"ids"`        // comma-separated
	Bursts     string `json:"bursts"`     // comma-separated
	Priorities string `json:"priorities"` // comma-separated, optional
	Quantum    int    `json:"quantum"`    // 0 = unset
	Workload   string `json:"workload"`   // YAML or CSV file

	// Output
	Merge    bool   `json:"merge"`
	View     string `json:"view"`
	Width    int    `json:"width"`
	TUI      bool   `json:"tui"`
	TraceOut string `json:"trace_out"`

	// Replay
	TraceIn string `json:"trace_in"` // JSON-lines trace to replay

	// Compare
	CompareAlgorithms []string `json:"compare_algorithms"` // empty = all applicable

	// History
	DBPath       string `json:"db_path"` // empty = no persistence
	HistoryLimit int    `json:"history_limit"`

	// Server
	ListenAddr  string `json:"listen_addr"`
	MetricsAddr string `json:"metrics_addr"` // empty = disabled

	// Status
	MetricsURL string `json:"metrics_url"`

	// Observability
	LogFormat string `json:"log_format"` // json, text
	LogLevel  string `json:"log_level"`
	Verbose   bool   `json:"verbose"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// Output
		View:  ViewGantt,
		Width: 80,

		// History
		HistoryLimit: 20,

		// Server
		ListenAddr:  ":8080",
		MetricsAddr: "0.0.0.0:17092",

		// Status
		MetricsURL: "http://localhost:17092/metrics",

		// Observability
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// HasInlineProcesses reports whether processes were given via --ids/--bursts.
func (c *Config) HasInlineProcesses() bool {
	return c.IDs != "" || c.Bursts != ""
}
