package config

const (
	defaultDataDir        = "~/.local/share/aquarius"
	defaultLogDir         = "~/.local/share/aquarius/logs"
	defaultAPIBind        = "127.0.0.1:8006"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultRequestTimeout = 30
	defaultNotifyTimeout  = 10
	defaultPollInterval   = 300
	defaultRepositoryID   = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Aurora: Aurora{
			RequestTimeout: defaultRequestTimeout,
		},
		ArchivesSpace: ArchivesSpace{
			RepositoryID:   defaultRepositoryID,
			RequestTimeout: defaultRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			StageOutcomes:  true,
			Errors:         true,
		},
		Workflow: Workflow{
			PollInterval: defaultPollInterval,
		},
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}
