package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"intake/internal/capture"
	"intake/internal/config"
	"intake/internal/logging"
	"intake/internal/reviewlog"
	"intake/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
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

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// logger returns the shared pipeline logger. Output goes to the configured
// log file only; stdout stays reserved for command output. Logging setup
// failures degrade to a no-op logger rather than blocking the command.
func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		logPath := filepath.Join(cfg.Paths.LogDir, "intake.log")
		logger, err := logging.New(logging.Options{
			Level:            cfg.Logging.Level,
			Format:           cfg.Logging.Format,
			OutputPaths:      []string{logPath},
			ErrorOutputPaths: []string{logPath},
		})
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

// withStore opens the tracker store for the duration of fn. The store holds
// the vault lock, so it is opened late and closed as soon as fn returns.
func (c *commandContext) withStore(fn func(*config.Config, *tracker.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := tracker.Open(cfg, c.logger())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// withOrchestrator wires the full capture pipeline: tracker store, capture
// history, notifications, and the inference client. An unavailable history
// database is logged and skipped; captures proceed without recording.
func (c *commandContext) withOrchestrator(fn func(*capture.Orchestrator) error) error {
	return c.withStore(func(cfg *config.Config, store *tracker.Store) error {
		logger := c.logger()
		var opts []capture.Option
		history, err := reviewlog.Open(cfg, logger)
		if err != nil {
			logger.Warn("capture history unavailable", logging.Error(err))
		} else {
			defer history.Close()
			opts = append(opts, capture.WithHistory(history))
		}
		return fn(capture.NewOrchestrator(cfg, store, logger, opts...))
	})
}

// withHistory opens the capture history store for read-only queries.
func (c *commandContext) withHistory(fn func(*reviewlog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := reviewlog.Open(cfg, c.logger())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
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
