package config

const (
	defaultDataDir                = "~/.local/share/ssxwatch"
	defaultLogDir                 = "~/.local/share/ssxwatch/logs"
	defaultPollIntervalSeconds    = 1
	defaultListenerTimeoutSeconds = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Watch: Watch{
			PollIntervalSeconds:    defaultPollIntervalSeconds,
			ListenerTimeoutSeconds: defaultListenerTimeoutSeconds,
		},
		Archive: Archive{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
