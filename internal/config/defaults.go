package config

const (
	defaultLockDir     = "~/.local/share/fpdedup/locks"
	defaultOnCopyError = CopyErrorFail
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LockDir: defaultLockDir,
		},
		Scan: Scan{
			OnCopyError: defaultOnCopyError,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
