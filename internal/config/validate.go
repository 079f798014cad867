package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateBridge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/jukebridge/config.toml"
		}
		return fmt.Errorf("storage.api_key is required. Set JUKEBRIDGE_API_KEY env var or edit %s (create with 'jukebridge config init')", defaultPath)
	}
	if _, err := url.Parse(c.Storage.BaseURL); err != nil {
		return fmt.Errorf("storage.base_url is not a valid URL: %w", err)
	}
	if c.Storage.InboxKey == c.Storage.QueueKey {
		return errors.New("storage.inbox_key and storage.queue_key must differ")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.BaseURL == "" {
		return errors.New("resolver.base_url must be set")
	}
	if _, err := url.Parse(c.Resolver.BaseURL); err != nil {
		return fmt.Errorf("resolver.base_url is not a valid URL: %w", err)
	}
	if c.Resolver.DefaultDuration <= 0 {
		return errors.New("resolver.default_duration must be positive")
	}
	return nil
}

func (c *Config) validateBridge() error {
	if c.Bridge.PollInterval <= 0 {
		return errors.New("bridge.poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
