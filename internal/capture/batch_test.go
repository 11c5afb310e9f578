package capture_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"intake/internal/capture"
	"intake/internal/inference"
	"intake/internal/logging"
	"intake/internal/testsupport"
)

func TestCaptureBatchSequentialOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedCaptureVault(t, cfg)
	inferrer := &fakeInferrer{result: inference.Result{
		PrimaryTracker: "health",
		Confidence:     0.9,
		Items: []inference.Item{{
			Tracker: "health", Type: inference.ItemActivity, Content: "logged",
		}},
	}}
	orch, _ := newTestOrchestrator(t, cfg, inferrer)

	results := orch.CaptureBatch(context.Background(), []inference.CaptureInput{
		{Text: "first input"},
		{Text: "second input"},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].InputText != "first input" || results[1].InputText != "second input" {
		t.Fatalf("expected input order preserved, got %+v", results)
	}
	if !results[0].Success || !results[1].Success {
		t.Fatalf("expected both captures to succeed, got %+v", results)
	}
	if results[0].CaptureID == results[1].CaptureID {
		t.Fatal("expected distinct capture ids")
	}
	if inferrer.calls != 2 {
		t.Fatalf("expected 2 inference calls, got %d", inferrer.calls)
	}
}

func TestCaptureBatchPanicIsolatesEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedCaptureVault(t, cfg)
	inferrer := &fakeInferrer{result: inference.Result{
		PrimaryTracker: "health",
		Confidence:     0.9,
		Items: []inference.Item{{
			Tracker: "health", Type: inference.ItemActivity, Content: "first landed",
		}},
	}}
	store := testsupport.MustOpenStore(t, cfg)
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 2 {
			panic("clock exploded")
		}
		return captureTime
	}
	orch := capture.NewOrchestrator(cfg, store, logging.NewNop(),
		capture.WithInferrer(inferrer),
		capture.WithNotifier(&recordingNotifier{}),
		capture.WithClock(clock),
	)

	results := orch.CaptureBatch(context.Background(), []inference.CaptureInput{
		{Text: "first input"},
		{Text: "second input"},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success {
		t.Fatalf("expected first capture unaffected, got %+v", results[0])
	}
	if results[1].Success {
		t.Fatalf("expected second capture to fail, got %+v", results[1])
	}
	if results[1].Disposition != capture.DispositionFailed || results[1].ErrorMessage == "" {
		t.Fatalf("expected populated failure, got %+v", results[1])
	}
	if !strings.Contains(results[1].ErrorMessage, "capture panicked") {
		t.Fatalf("expected panic cause in error, got %q", results[1].ErrorMessage)
	}
	if results[1].InputText != "second input" {
		t.Fatalf("expected original text preserved, got %q", results[1].InputText)
	}
	if !strings.Contains(readTrackerDoc(t, cfg, "health"), "first landed") {
		t.Fatal("expected first capture's entry on disk")
	}
	if inferrer.calls != 1 {
		t.Fatalf("expected inference reached only by the first entry, got %d calls", inferrer.calls)
	}
}
