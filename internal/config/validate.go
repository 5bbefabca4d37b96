package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
//
// A missing TMDB credential is deliberately not an error here: the server
// starts without one and the catalog reports the authentication failure.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	if c.Server.SessionTTLMinutes < 0 {
		return errors.New("server.session_ttl_minutes must be positive")
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateAbsoluteURL("server.cors_origins", origin); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateAbsoluteURL("tmdb.base_url", c.TMDB.BaseURL); err != nil {
		return err
	}
	if err := validateAbsoluteURL("tmdb.image_base_url", c.TMDB.ImageBaseURL); err != nil {
		return err
	}
	if c.TMDB.TimeoutSeconds < 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return errors.New("tmdb.requests_per_second must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateAbsoluteURL(field, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}
