package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intake/internal/config"
	"intake/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	llm        *httptest.Server
}

// setupCLITestEnv seeds a vault with three trackers, writes a config file,
// and stands up a stub chat-completion endpoint that always answers with
// llmContent.
func setupCLITestEnv(t *testing.T, llmContent string) *cliTestEnv {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"content": llmContent,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode llm response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = server.URL
	cfgVal.LLM.Model = "test-model"
	cfgVal.Paths.VaultDir = filepath.Join(base, "vault")
	cfgVal.Paths.RegistryPath = filepath.Join(base, "vault", "registry.yaml")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReviewLogPath = filepath.Join(base, "intake.db")
	cfg := &cfgVal

	testsupport.SeedVault(t, cfg,
		testsupport.TrackerFixture{Tag: "project-55", Name: "Project 55", Context: "project"},
		testsupport.TrackerFixture{Tag: "health", Name: "Health", Context: "personal"},
		testsupport.TrackerFixture{Tag: "inbox", Name: "Inbox", Context: "system"},
	)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		llm:        server,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
vault_dir = %q
registry_path = %q
log_dir = %q
review_log_path = %q

[llm]
api_key = %q
base_url = %q
model = %q

[notifications]
ntfy_topic = %q
`,
		cfg.Paths.VaultDir,
		cfg.Paths.RegistryPath,
		cfg.Paths.LogDir,
		cfg.Paths.ReviewLogPath,
		cfg.LLM.APIKey,
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.Notifications.NtfyTopic,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// routingAnswer renders a minimal routing payload for the stub LLM.
func routingAnswer(tracker string, confidence float64, items ...map[string]any) string {
	payload := map[string]any{
		"primary_tracker": tracker,
		"confidence":      confidence,
		"rationale":       "stubbed",
		"items":           items,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return string(encoded)
}

func readVaultDoc(t *testing.T, env *cliTestEnv, tag string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.cfg.Paths.VaultDir, tag+".md"))
	if err != nil {
		t.Fatalf("read tracker %s: %v", tag, err)
	}
	return string(data)
}
