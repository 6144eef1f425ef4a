package config

import "strings"

// normalize expands path fields and fills empty values with defaults so
// validation operates on the final shape.
func (c *Config) normalize() error {
	defaults := Default()

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaults.Paths.DataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaults.Paths.OutputDir
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaults.Paths.StagingDir
	}

	for _, field := range []*string{&c.Paths.DataDir, &c.Paths.LogDir, &c.Paths.OutputDir, &c.Paths.StagingDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if strings.TrimSpace(c.Engines.FFmpegBinary) == "" {
		c.Engines.FFmpegBinary = defaults.Engines.FFmpegBinary
	}
	if strings.TrimSpace(c.Engines.ResolveBinary) == "" {
		c.Engines.ResolveBinary = defaults.Engines.ResolveBinary
	}
	c.Engines.ResolveEdition = strings.ToLower(strings.TrimSpace(c.Engines.ResolveEdition))

	if c.Dispatch.QueuePollInterval <= 0 {
		c.Dispatch.QueuePollInterval = defaults.Dispatch.QueuePollInterval
	}
	if c.Dispatch.Slots == 0 {
		c.Dispatch.Slots = defaults.Dispatch.Slots
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
