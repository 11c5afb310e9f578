// Package llm provides an OpenRouter chat client for JSON-only completions.
//
// This package is used by:
//   - Inference service: classify captured text against the tracker roster
//   - Config validation: verify the API key and model respond
//
// # Configuration
//
// Requires api_key, model, and optionally base_url, referer, title, timeout.
// When unconfigured, callers should fall back to sensible defaults.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode model output tolerating code fences and prose wrap.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// A Retry-After header is honored when present. Context cancellation aborts
// retries immediately.
//
// # Fallback
//
// If the LLM is unavailable or returns an error, callers must not drop the
// captured input. The inference service converts transport failures into a
// low-confidence review-routed result instead of propagating them.
package llm
