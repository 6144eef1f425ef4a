package config

const (
	defaultDataDir           = "~/.local/share/shuttle"
	defaultLogDir            = "~/.local/share/shuttle/logs"
	defaultOutputDir         = "~/transcodes"
	defaultStagingDir        = "~/.local/share/shuttle/staging"
	defaultFFmpegBinary      = "ffmpeg"
	defaultResolveBinary     = "resolve"
	defaultQueuePollInterval = 5
	defaultDispatchSlots     = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			OutputDir:  defaultOutputDir,
			StagingDir: defaultStagingDir,
		},
		Engines: Engines{
			FFmpegBinary:  defaultFFmpegBinary,
			ResolveBinary: defaultResolveBinary,
		},
		Dispatch: Dispatch{
			QueuePollInterval: defaultQueuePollInterval,
			Slots:             defaultDispatchSlots,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
