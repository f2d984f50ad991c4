// Package agent defines the uniform invocation contract every provider
// implementation satisfies, plus the provider-agnostic machinery they share:
// the request/result envelope, the runtime state machine, context assembly,
// the retry policy and the error taxonomy.
//
// Callers construct agents through the selector in the root agentkit package
// and interact only with the Agent interface. Process never returns an error
// by any path other than the result envelope; construction and selection are
// the only places a configuration mistake surfaces as a Go error.
package agent
