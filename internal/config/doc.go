// Package config loads and validates application configuration.
//
// Configuration is assembled from three layers, lowest precedence first:
// built-in defaults, an optional YAML config file, and environment
// variables with the BOOKDECK_ prefix (e.g. BOOKDECK_LLM_GEMINI_API_KEY).
// The result is validated with struct tags before any component sees it;
// components receive their config group explicitly at construction time
// rather than reading ambient global state.
package config
