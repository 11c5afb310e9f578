package main

import (
	"testing"
)

func TestCLIHistoryLifecycle(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("project-55", 0.95, map[string]any{
		"tracker":  "project-55",
		"type":     "action",
		"priority": "high",
		"content":  "Ship the release",
	}))

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history before captures: %v", err)
	}
	requireContains(t, out, "No captures recorded")

	if _, _, err := runCLI(t, []string{"capture", "ship the release tomorrow"}, env.configPath); err != nil {
		t.Fatalf("capture: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "routed")
	requireContains(t, out, "project-55")
	requireContains(t, out, "ship the release tomorrow")

	out, _, err = runCLI(t, []string{"history", "--search", "release"}, env.configPath)
	if err != nil {
		t.Fatalf("history --search: %v", err)
	}
	requireContains(t, out, "ship the release tomorrow")

	out, _, err = runCLI(t, []string{"history", "--search", "no-such-text"}, env.configPath)
	if err != nil {
		t.Fatalf("history --search miss: %v", err)
	}
	requireContains(t, out, "No captures recorded")
}

func TestCLIHistoryStats(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("health", 0.90, map[string]any{
		"tracker": "health",
		"type":    "activity",
		"content": "Morning run",
	}))

	if _, _, err := runCLI(t, []string{"capture", "ran this morning"}, env.configPath); err != nil {
		t.Fatalf("capture: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--stats"}, env.configPath)
	if err != nil {
		t.Fatalf("history --stats: %v", err)
	}
	requireContains(t, out, "routed")
	requireContains(t, out, "total")

	out, _, err = runCLI(t, []string{"history", "--stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --stats --json: %v", err)
	}
	requireContains(t, out, `"routed": 1`)
	requireContains(t, out, `"total": 1`)
}

func TestCLIHistoryJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("health", 0.90, map[string]any{
		"tracker": "health",
		"type":    "activity",
		"content": "Morning run",
	}))

	if _, _, err := runCLI(t, []string{"capture", "ran this morning"}, env.configPath); err != nil {
		t.Fatalf("capture: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	requireContains(t, out, `"disposition": "routed"`)
	requireContains(t, out, `"input_text": "ran this morning"`)
}
