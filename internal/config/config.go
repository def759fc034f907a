package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// LoadOrDefault loads path, or returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := expandEnvVars(cfg); err != nil {
				return nil, fmt.Errorf("failed to expand environment variables: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	return Load(path)
}

// Parse decodes TOML on top of the defaults. Keys that are not present in
// data keep their default value.
func Parse(data string) (*Config, error) {
	cfg := Default()

	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	applyDefaults(cfg)

	if err := expandEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	return cfg, nil
}

// CommandTimeout returns the per-invocation deadline, 0 for none.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Loop.CommandTimeoutSeconds) * time.Second
}

// NotifyTimeout returns the deadline for one notification delivery.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the HTTP server may take to drain.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []error {
	var errors []error

	if c.Server.Addr == "" {
		errors = append(errors, fmt.Errorf("server.addr is required"))
	} else if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errors = append(errors, fmt.Errorf("invalid server.addr %q: %w", c.Server.Addr, err))
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		errors = append(errors, fmt.Errorf("server.shutdown_timeout_seconds must be >= 0"))
	}

	if c.Loop.LogFile == "" {
		errors = append(errors, fmt.Errorf("loop.log_file is required"))
	} else if err := validatePath(c.Loop.LogFile, "loop.log_file"); err != nil {
		errors = append(errors, err)
	}
	if c.Loop.Shell == "" {
		errors = append(errors, fmt.Errorf("loop.shell is required"))
	}
	if err := validateFlag(c.Loop.SilentFlag); err != nil {
		errors = append(errors, err)
	}
	if c.Loop.MaxOutputBytes < 1024 {
		errors = append(errors, fmt.Errorf("loop.max_output_bytes must be >= 1024 (got %d)", c.Loop.MaxOutputBytes))
	}
	if c.Loop.CommandTimeoutSeconds < 0 {
		errors = append(errors, fmt.Errorf("loop.command_timeout_seconds must be >= 0"))
	}
	if c.Loop.WorkingDir != "" {
		if err := validatePath(c.Loop.WorkingDir, "loop.working_dir"); err != nil {
			errors = append(errors, err)
		}
	}

	if c.Notify.PreviewChars < 1 {
		errors = append(errors, fmt.Errorf("notify.preview_chars must be >= 1"))
	}
	if c.Notify.TimeoutSeconds < 1 || c.Notify.TimeoutSeconds > 60 {
		errors = append(errors, fmt.Errorf("notify.timeout_seconds must be between 1 and 60 (got %d)", c.Notify.TimeoutSeconds))
	}

	if c.Metrics.Enabled && !isMetricName(c.Metrics.Namespace) {
		errors = append(errors, fmt.Errorf("invalid metrics.namespace: %q", c.Metrics.Namespace))
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if strings.HasPrefix(path, "~") {
		return nil
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
		}
	}

	return nil
}

func validateFlag(flag string) error {
	if flag == "" {
		return fmt.Errorf("loop.silent_flag is required")
	}
	if !strings.HasPrefix(flag, "-") || strings.ContainsAny(flag, " \t\r\n'\"\\") {
		return fmt.Errorf("invalid loop.silent_flag %q: must be a single option word starting with '-'", flag)
	}
	return nil
}

// isMetricName reports whether s is a valid Prometheus metric name prefix.
func isMetricName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// expandEnvVars expands ${VAR} references and a leading ~ in path fields.
func expandEnvVars(c *Config) error {
	c.Server.Addr = expandEnv(c.Server.Addr)

	c.Loop.LogFile = expandHome(expandEnv(c.Loop.LogFile))
	c.Loop.Shell = expandEnv(c.Loop.Shell)
	c.Loop.WorkingDir = expandHome(expandEnv(c.Loop.WorkingDir))

	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))

	return nil
}

// expandEnv expands a value of the form ${VAR} or ${VAR:default}.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	rest := s[end+1:]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val + rest
		}
		return parts[1] + rest
	}

	return os.Getenv(content) + rest
}

// expandHome expands a leading ~/ to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
