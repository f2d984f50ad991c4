// Package state provides runtime-state snapshot stores. Agents mirror their
// state machine transitions here so admin dashboards can display health and
// last results without holding references to live agent instances. The Redis
// store keeps one hash per agent; the in-memory store suits tests and
// single-process deployments.
package state
