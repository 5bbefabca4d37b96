package config

const (
	defaultConfigPath            = "~/.config/moviefinder/config.toml"
	defaultLogDir                = "~/.local/share/moviefinder/logs"
	defaultStateDir              = "~/.local/share/moviefinder"
	defaultServerBind            = "127.0.0.1:8080"
	defaultSessionTTLMinutes     = 30
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBTimeoutSeconds    = 10
	defaultTMDBRequestsPerSecond = 40
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultServiceName           = "moviefinder"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Server: Server{
			Bind:              defaultServerBind,
			SessionTTLMinutes: defaultSessionTTLMinutes,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			TimeoutSeconds:    defaultTMDBTimeoutSeconds,
			RequestsPerSecond: defaultTMDBRequestsPerSecond,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Telemetry: Telemetry{
			ServiceName: defaultServiceName,
		},
	}
}
