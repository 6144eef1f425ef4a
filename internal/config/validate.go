package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngines(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateEngines() error {
	if c.Engines.FFmpegBinary == "" {
		return errors.New("engines.ffmpeg_binary must be set")
	}
	if c.Engines.ResolveBinary == "" {
		return errors.New("engines.resolve_binary must be set")
	}
	switch c.Engines.ResolveEdition {
	case "", "free", "studio":
	default:
		return fmt.Errorf("engines.resolve_edition must be \"free\" or \"studio\", got %q", c.Engines.ResolveEdition)
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.QueuePollInterval <= 0 {
		return errors.New("dispatch.queue_poll_interval must be positive")
	}
	if c.Dispatch.Slots != 1 {
		return errors.New("dispatch.slots must be 1; multi-slot execution is not supported yet")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
