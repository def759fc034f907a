// Package config provides configuration loading and validation for curlloop.
// It reads an optional TOML file, applies defaults, expands environment
// variables and validates the result.
//
// Configuration structure:
//   - [server]: control panel listen address and browser launch
//   - [loop]: journal path, shell, silent flag, capture limits
//   - [notify]: desktop notification settings
//   - [metrics]: Prometheus endpoint
//   - [logging]: diagnostic log level, format and output
//
// String values can reference environment variables with ${VAR} or
// ${VAR:default}, for example: log_file = "${CURLLOOP_LOG:logs/curl.log}"
package config

// Config represents the main application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop"`
	Notify  NotifyConfig  `toml:"notify" yaml:"notify"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// ServerConfig configures the HTTP control panel.
type ServerConfig struct {
	Addr                   string `toml:"addr" yaml:"addr"`
	OpenBrowser            bool   `toml:"open_browser" yaml:"open_browser"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

// LoopConfig configures command execution and the payload journal.
type LoopConfig struct {
	LogFile               string `toml:"log_file" yaml:"log_file"`
	Shell                 string `toml:"shell" yaml:"shell"`
	SilentFlag            string `toml:"silent_flag" yaml:"silent_flag"`
	MaxOutputBytes        int    `toml:"max_output_bytes" yaml:"max_output_bytes"`
	CommandTimeoutSeconds int    `toml:"command_timeout_seconds" yaml:"command_timeout_seconds"`
	WorkingDir            string `toml:"working_dir" yaml:"working_dir"`
}

// NotifyConfig configures desktop notifications.
type NotifyConfig struct {
	Enabled        bool `toml:"enabled" yaml:"enabled"`
	PreviewChars   int  `toml:"preview_chars" yaml:"preview_chars"`
	TimeoutSeconds int  `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// MetricsConfig configures the /metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// LoggingConfig configures the diagnostic logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}
