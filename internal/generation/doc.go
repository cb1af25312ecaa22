// Package generation defines the boundary between the pipeline core and
// external LLM services: the request model for card generation and the
// interfaces implemented by provider adapters.
package generation
