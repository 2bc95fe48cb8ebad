package config

const (
	defaultWatchDir          = "/watch"
	defaultDataDir           = "~/.local/share/mediamon"
	defaultLogDir            = "~/.local/share/mediamon/logs"
	defaultAPIBind           = "127.0.0.1:5000"
	defaultStabilizeInterval = 10
	defaultStabilizeChecks   = 3
	defaultWorkers           = 4
	defaultQueueDepth        = 256
	defaultNtfyServer        = "https://ntfy.sh"
	defaultRequestTimeout    = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir: defaultWatchDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Monitor: Monitor{
			StabilizeInterval: defaultStabilizeInterval,
			StabilizeChecks:   defaultStabilizeChecks,
			Workers:           defaultWorkers,
			QueueDepth:        defaultQueueDepth,
		},
		Notifications: Notifications{
			NtfyServer:     defaultNtfyServer,
			EnableNtfy:     true,
			EnableDiscord:  true,
			RequestTimeout: defaultRequestTimeout,
		},
		Posters: Posters{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
