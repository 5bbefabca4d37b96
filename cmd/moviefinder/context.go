package main

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"moviefinder/internal/config"
	"moviefinder/internal/logging"
	"moviefinder/internal/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// catalog builds a TMDB client for one-shot terminal commands. Logging stays
// quiet so only command output reaches the terminal.
func (c *commandContext) catalog() (*tmdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return tmdb.New(cfg.TMDB.APIToken, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDBTimeout()}),
		tmdb.WithRequestsPerSecond(cfg.TMDB.RequestsPerSecond),
		tmdb.WithLogger(logging.NewNop()),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
