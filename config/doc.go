// Package config holds the value types describing model endpoints, context
// fragments and agent profiles, plus the profile stores used by administrative
// tooling. Types are plain data: validation and defaulting are explicit calls,
// and stores hand out deep copies so callers can never mutate shared state.
package config
