// Package internalerr collects the sentinel errors shared across dafhne's
// packages so callers can classify failures with errors.Is instead of
// string matching.
package internalerr

import "errors"

var (
	// ErrMalformedInput is returned when a dictionary, suite, or grammar
	// file cannot be parsed into the expected shape.
	ErrMalformedInput = errors.New("dafhne: malformed input")

	// ErrUnknownWord is returned when a question references a word that
	// has no dictionary entry and no embedding.
	ErrUnknownWord = errors.New("dafhne: unknown word")

	// ErrMissingEmbedding is returned when a word has a dictionary entry
	// but was never placed in a geometric space.
	ErrMissingEmbedding = errors.New("dafhne: missing embedding")

	// ErrInvalidConfig is returned when EngineParams or StrategyConfig
	// fail validation before training starts.
	ErrInvalidConfig = errors.New("dafhne: invalid config")

	// ErrNotFound is returned by store lookups that find nothing.
	ErrNotFound = errors.New("dafhne: not found")
)
