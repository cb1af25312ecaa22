// Package gemini implements the generation interfaces using Google's Gemini
// API. The raw model call sits behind a narrow internal interface so tests
// substitute a fake; everything above it (prompt composition, retry with
// backoff, strict response parsing) is exercised without network access.
package gemini
