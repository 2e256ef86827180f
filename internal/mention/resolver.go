// Package mention resolves @-mention tokens in free-form text to agent
// identifiers. The same matching rules serve both the send path (which
// agents must respond) and the display path (highlighting recognized
// mentions), so the two can never disagree.
package mention

import (
	"regexp"
	"strings"

	"teamchat/internal/agent"
)

// mentionPattern captures a maximal run of word characters after '@'.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Resolve returns the ordered, de-duplicated agent identifiers referenced
// in text. Tokens that match no agent are ignored; an agent is listed at
// most once, at its first occurrence. Empty input yields an empty result.
func Resolve(text string) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		a, ok := match(strings.ToLower(m[1]))
		if !ok || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		ids = append(ids, a.ID)
	}
	return ids
}

// Span marks a recognized mention inside the original text, for display
// highlighting. Offsets are byte positions covering the '@' and the token.
type Span struct {
	Start   int
	End     int
	AgentID string
}

// Spans returns the positions of all recognized mentions in text,
// including repeated mentions of the same agent.
func Spans(text string) []Span {
	var spans []Span
	for _, idx := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		token := strings.ToLower(text[idx[2]:idx[3]])
		a, ok := match(token)
		if !ok {
			continue
		}
		spans = append(spans, Span{Start: idx[0], End: idx[1], AgentID: a.ID})
	}
	return spans
}

// match resolves a lowercased token to an agent. An exact match on the
// agent's short name (last word of the display name) wins; otherwise the
// first agent in the static list whose full name contains the token is
// taken as a fallback.
func match(token string) (agent.Agent, bool) {
	for _, a := range agent.All() {
		if shortName(a) == token {
			return a, true
		}
	}
	for _, a := range agent.All() {
		if strings.Contains(strings.ToLower(a.Name), token) {
			return a, true
		}
	}
	return agent.Agent{}, false
}

func shortName(a agent.Agent) string {
	fields := strings.Fields(a.Name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
