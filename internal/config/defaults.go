package config

const (
	defaultVaultDir            = "~/vault"
	defaultLogDir              = "~/.local/share/intake/logs"
	defaultReviewLogPath       = "~/.local/share/intake/intake.db"
	defaultRegistryFilename    = "registry.yaml"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMTitle            = "Intake Capture"
	defaultLLMTimeoutSeconds   = 60
	defaultConfidenceThreshold = 0.7
	defaultReviewTracker       = "review"
	defaultInboxTracker        = "inbox"
	defaultSystemTracker       = "system"
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VaultDir:      defaultVaultDir,
			LogDir:        defaultLogDir,
			ReviewLogPath: defaultReviewLogPath,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Routing: Routing{
			ConfidenceThreshold: defaultConfidenceThreshold,
			ReviewTracker:       defaultReviewTracker,
			InboxTracker:        defaultInboxTracker,
			SystemTracker:       defaultSystemTracker,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Captures:       true,
			Review:         true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
