// Package inference turns free-form capture text into a validated routing
// decision against the user's tracker roster.
//
// The package owns the routing semantics; the HTTP transport lives in
// internal/services/llm. Infer is total: transport failures, unparseable
// payloads, and malformed fields all degrade into a low-confidence result
// that routes the verbatim input to review rather than returning an error.
// The capture orchestrator consumes the client through its own small
// interface so the emergency tier stays reachable in tests.
//
// # Validation
//
// Confidence is clamped into [0,1]. Unrecognized item types coerce to
// "review", unrecognized priorities to "medium". An empty item list is
// replaced by one synthetic review item carrying the input verbatim. Items
// without a tracker inherit the primary tracker. After validation,
// RequiresReview is forced true whenever confidence falls below the
// configured threshold; the model's own flag is advisory and never cleared.
package inference
