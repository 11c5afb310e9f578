// Package services defines shared utilities consumed by the capture pipeline
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp capture identifiers and pipeline state names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation vs transient vs missing) consistent across
//     components.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the system.
package services
