package config

const (
	defaultLogDir                 = "~/.local/share/jukebridge/logs"
	defaultStorageBaseURL         = "https://api.worlds.highrise.game/api"
	defaultInboxKey               = "bot_inbox"
	defaultQueueKey               = "music_queue"
	defaultStorageRequestTimeout  = 10
	defaultResolverBaseURL        = "http://127.0.0.1:5000/play"
	defaultStreamURL              = "http://127.0.0.1:8000/radio"
	defaultSongDuration           = 30
	defaultResolverRequestTimeout = 10
	defaultPollInterval           = 3
	defaultAPIBind                = "127.0.0.1:7642"
	defaultNtfyRequestTimeout     = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Storage: Storage{
			BaseURL:        defaultStorageBaseURL,
			InboxKey:       defaultInboxKey,
			QueueKey:       defaultQueueKey,
			RequestTimeout: defaultStorageRequestTimeout,
		},
		Resolver: Resolver{
			BaseURL:         defaultResolverBaseURL,
			StreamURL:       defaultStreamURL,
			DefaultDuration: defaultSongDuration,
			RequestTimeout:  defaultResolverRequestTimeout,
		},
		Bridge: Bridge{
			PollInterval:    defaultPollInterval,
			SanitizeOnStart: true,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			NowPlaying:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
