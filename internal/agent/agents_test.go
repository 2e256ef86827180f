package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_FiveFixedAgents(t *testing.T) {
	all := All()
	require.Len(t, all, 5)

	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"nova", "mira", "viktor", "lex", "raven"}, ids)
}

func TestAll_CompleteIdentity(t *testing.T) {
	for _, a := range All() {
		assert.NotEmpty(t, a.Name, "agent %s missing name", a.ID)
		assert.NotEmpty(t, a.Emoji, "agent %s missing emoji", a.ID)
		assert.NotEmpty(t, a.Role, "agent %s missing role", a.ID)
		assert.True(t, strings.HasPrefix(a.Color, "#"), "agent %s color %q", a.ID, a.Color)
		assert.NotEmpty(t, a.SystemPrompt, "agent %s missing system prompt", a.ID)
	}
}

func TestByID(t *testing.T) {
	a, ok := ByID("viktor")
	require.True(t, ok)
	assert.Equal(t, "Viktor", a.Name)

	_, ok = ByID("unknown")
	assert.False(t, ok)

	// Lookup is by identifier, not display name.
	_, ok = ByID("Dr. Nova")
	assert.False(t, ok)
}

func TestPrompt_DMSuffix(t *testing.T) {
	a, ok := ByID("lex")
	require.True(t, ok)

	assert.Equal(t, a.SystemPrompt, a.Prompt(false))
	assert.Equal(t, a.SystemPrompt+DMPromptSuffix, a.Prompt(true))
	assert.Contains(t, a.Prompt(true), "privat samtal")
}
