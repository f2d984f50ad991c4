package agent

import (
	"sort"
	"strings"

	"github.com/eduforge/agentkit/config"
)

// ActiveFragments filters to active fragments and sorts them by ascending
// priority, ties broken by original insertion order. The ordering is a hard
// contract: background context always precedes the live prompt regardless of
// provider, so a stable sort here keeps prompt semantics deterministic.
func ActiveFragments(fragments []config.ContextFragment) []config.ContextFragment {
	active := make([]config.ContextFragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Active {
			active = append(active, f)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active
}

// SystemText concatenates active fragment contents in priority order into a
// single block, the shape structured providers send as one system message.
func SystemText(fragments []config.ContextFragment) string {
	active := ActiveFragments(fragments)
	parts := make([]string, 0, len(active))
	for _, f := range active {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, "\n\n")
}

// FlattenPrompt builds the single prompt string free-text providers consume:
// each active fragment followed by a blank line, then the ad-hoc context if
// any, then "User: " plus the prompt as the final unit.
func FlattenPrompt(fragments []config.ContextFragment, extra, prompt string) string {
	var b strings.Builder
	for _, f := range ActiveFragments(fragments) {
		b.WriteString(f.Content)
		b.WriteString("\n\n")
	}
	if extra != "" {
		b.WriteString(extra)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(prompt)
	return b.String()
}
