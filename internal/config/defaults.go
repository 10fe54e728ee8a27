package config

const (
	appDirName              = "podclaw"
	configFileName          = "config.toml"
	projectConfigName       = "podclaw.toml"
	storageFileName         = "podclaw_storage.bin"
	logFileName             = "podclaw.log"
	defaultUserAgent        = "podclaw/" + Version
	defaultFeedTimeout      = 30
	defaultDownloadTimeout  = 0
	defaultDownloadProgress = true
	defaultLockTimeout      = 5
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Version is the podclaw release reported in the user agent and CLI.
const Version = "1.1.0"

// Default returns a Config populated with repository defaults. Path fields are
// left empty and resolved against the platform during normalization.
func Default() Config {
	return Config{
		Feeds: Feeds{
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultFeedTimeout,
		},
		Downloads: Downloads{
			TimeoutSeconds: defaultDownloadTimeout,
			Progress:       defaultDownloadProgress,
		},
		Storage: Storage{
			LockTimeoutSeconds: defaultLockTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
