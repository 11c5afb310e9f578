// Package capture drives one piece of text end to end: inference, confidence
// gating, item placement, and the fallback tiers that keep input from being
// lost.
//
// The Orchestrator runs an explicit linear state machine per capture:
// infer -> review gate -> completions -> placement -> resolve, with two branch
// targets. Low confidence (or a placement pass where nothing landed) routes
// the raw text to review trackers; an inference error or panic escalates to
// emergency capture, which tries the review queue of every loaded tracker in
// registry order. Only when every tracker rejects the write does a capture
// resolve unsuccessfully, and even then the rendered entry travels back to the
// caller in the result.
//
// Capture never panics and never returns an error; every outcome is a Result
// describing what happened and where the text went. Batch capture is strictly
// sequential so failure attribution stays unambiguous.
package capture
