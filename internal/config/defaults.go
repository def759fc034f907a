package config

// Default values.
const (
	DefaultAddr            = "127.0.0.1:3000"
	DefaultLogFile         = "logs/curl_I_provided.log"
	DefaultShell           = "sh"
	DefaultSilentFlag      = "-s"
	DefaultMaxOutputBytes  = 10 * 1024 * 1024
	DefaultPreviewChars    = 300
	DefaultNotifyTimeout   = 5
	DefaultShutdownTimeout = 5
	DefaultNamespace       = "curlloop"
)

// Default returns the configuration used when no file is present.
// Boolean switches are on by default, which is why decoding starts from
// this value instead of from a zero Config.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			OpenBrowser: true,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero-valued fields.
func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeout
	}

	if c.Loop.LogFile == "" {
		c.Loop.LogFile = DefaultLogFile
	}
	if c.Loop.Shell == "" {
		c.Loop.Shell = DefaultShell
	}
	if c.Loop.SilentFlag == "" {
		c.Loop.SilentFlag = DefaultSilentFlag
	}
	if c.Loop.MaxOutputBytes == 0 {
		c.Loop.MaxOutputBytes = DefaultMaxOutputBytes
	}

	if c.Notify.PreviewChars == 0 {
		c.Notify.PreviewChars = DefaultPreviewChars
	}
	if c.Notify.TimeoutSeconds == 0 {
		c.Notify.TimeoutSeconds = DefaultNotifyTimeout
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}
