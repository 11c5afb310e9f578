package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLLM(); err != nil {
		return err
	}
	c.normalizeRouting()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VaultDir, err = expandPath(c.Paths.VaultDir); err != nil {
		return fmt.Errorf("paths.vault_dir: %w", err)
	}
	registry := strings.TrimSpace(c.Paths.RegistryPath)
	if registry == "" {
		registry = defaultRegistryFilename
	}
	// A relative registry path resolves inside the vault, not the cwd.
	if !strings.HasPrefix(registry, "~") && !filepath.IsAbs(registry) {
		registry = filepath.Join(c.Paths.VaultDir, registry)
	}
	if c.Paths.RegistryPath, err = expandPath(registry); err != nil {
		return fmt.Errorf("paths.registry_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReviewLogPath) == "" {
		c.Paths.ReviewLogPath = defaultReviewLogPath
	}
	if c.Paths.ReviewLogPath, err = expandPath(c.Paths.ReviewLogPath); err != nil {
		return fmt.Errorf("paths.review_log_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() error {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("INTAKE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeRouting() {
	c.Routing.ReviewTracker = strings.ToLower(strings.TrimSpace(c.Routing.ReviewTracker))
	if c.Routing.ReviewTracker == "" {
		c.Routing.ReviewTracker = defaultReviewTracker
	}
	c.Routing.InboxTracker = strings.ToLower(strings.TrimSpace(c.Routing.InboxTracker))
	if c.Routing.InboxTracker == "" {
		c.Routing.InboxTracker = defaultInboxTracker
	}
	c.Routing.SystemTracker = strings.ToLower(strings.TrimSpace(c.Routing.SystemTracker))
	if c.Routing.SystemTracker == "" {
		c.Routing.SystemTracker = defaultSystemTracker
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
