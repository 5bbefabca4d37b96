package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// dotenvPath is read for credentials that are not present in the process
// environment. Missing files are ignored.
var dotenvPath = ".env"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizeTMDB(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeTelemetry()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	// An empty log_dir disables the log file.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.SessionTTLMinutes == 0 {
		c.Server.SessionTTLMinutes = defaultSessionTTLMinutes
	}
	origins := c.Server.CORSOrigins[:0]
	for _, origin := range c.Server.CORSOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Server.CORSOrigins = origins
	return nil
}

func (c *Config) normalizeTMDB() error {
	c.TMDB.APIToken = strings.TrimSpace(c.TMDB.APIToken)
	if c.TMDB.APIToken == "" {
		token, err := lookupCredential("TMDB_API_TOKEN", "TMDB_API_KEY")
		if err != nil {
			return err
		}
		c.TMDB.APIToken = token
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	tag, err := language.Parse(c.TMDB.Language)
	if err != nil {
		return fmt.Errorf("tmdb.language: invalid language tag %q: %w", c.TMDB.Language, err)
	}
	c.TMDB.Language = tag.String()
	if c.TMDB.TimeoutSeconds == 0 {
		c.TMDB.TimeoutSeconds = defaultTMDBTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeTelemetry() {
	c.Telemetry.ServiceName = strings.TrimSpace(c.Telemetry.ServiceName)
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaultServiceName
	}
	c.Telemetry.ProjectID = strings.TrimSpace(c.Telemetry.ProjectID)
	if c.Telemetry.ProjectID == "" {
		if value, ok := os.LookupEnv("GOOGLE_CLOUD_PROJECT"); ok {
			c.Telemetry.ProjectID = strings.TrimSpace(value)
		}
	}
}

// lookupCredential returns the first non-empty value among keys, checking the
// process environment before the dotenv file.
func lookupCredential(keys ...string) (string, error) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}
	values, err := godotenv.Read(dotenvPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", dotenvPath, err)
	}
	for _, key := range keys {
		if value := strings.TrimSpace(values[key]); value != "" {
			return value, nil
		}
	}
	return "", nil
}
