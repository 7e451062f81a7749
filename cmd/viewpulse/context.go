package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"viewpulse/internal/config"
	"viewpulse/internal/logging"
	"viewpulse/internal/pipeline"
	"viewpulse/internal/store"
	"viewpulse/internal/store/backend"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// loggerFor falls back to a no-op logger when the configured one cannot be
// built, so logging problems never block a command.
func (c *commandContext) loggerFor() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withStore(fn func(store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) withRunner(fn func(*pipeline.Runner, store.Store) error) error {
	return c.withStore(func(st store.Store) error {
		cfg, err := c.ensureConfig()
		if err != nil {
			return err
		}
		runner, err := pipeline.NewRunner(cfg, st, c.loggerFor())
		if err != nil {
			return err
		}
		return fn(runner, st)
	})
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
