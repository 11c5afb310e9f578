package main

import (
	"strings"
	"testing"
)

func TestCLITrackersListsRegistry(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("inbox", 0.9))

	out, _, err := runCLI(t, []string{"trackers"}, env.configPath)
	if err != nil {
		t.Fatalf("trackers: %v", err)
	}
	requireContains(t, out, "project-55")
	requireContains(t, out, "health")
	requireContains(t, out, "inbox")
}

func TestCLITrackersFiltersByContext(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("inbox", 0.9))

	out, _, err := runCLI(t, []string{"trackers", "--context", "project"}, env.configPath)
	if err != nil {
		t.Fatalf("trackers --context: %v", err)
	}
	requireContains(t, out, "project-55")
	if strings.Contains(out, "health") {
		t.Fatalf("expected personal trackers to be filtered out, got:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"trackers", "--context", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected an error for an unknown context")
	}
}

func TestCLITrackersJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("inbox", 0.9))

	out, _, err := runCLI(t, []string{"trackers", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("trackers --json: %v", err)
	}
	requireContains(t, out, `"tag": "project-55"`)
	requireContains(t, out, `"context": "project"`)
}

func TestCLIShowTracker(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("inbox", 0.9))

	out, _, err := runCLI(t, []string{"show", "project-55"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "== project-55 (Project 55) ==")
	requireContains(t, out, "Context:")
	requireContains(t, out, "tag: project-55")
}

func TestCLIShowUnknownTracker(t *testing.T) {
	env := setupCLITestEnv(t, routingAnswer("inbox", 0.9))

	_, _, err := runCLI(t, []string{"show", "ghost"}, env.configPath)
	if err == nil {
		t.Fatal("expected an error for an unknown tracker")
	}
	requireContains(t, err.Error(), `tracker "ghost" is not loaded`)
}
