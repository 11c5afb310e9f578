// Package notifications delivers capture events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Enumerated event types cover the capture outcomes (routed, review,
// emergency, failed) so the orchestrator can emit consistent, user-friendly
// messages without duplicating HTTP glue. Per-event toggles in the
// notifications config section suppress categories the user does not want.
//
// Extend this package if you need alternative transports; all capture code
// depends only on the simple Service interface.
package notifications
