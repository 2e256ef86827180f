package workspace

import "teamchat/internal/domain"

// EventSink observes workspace state changes, letting a UI transport
// re-render without polling.
type EventSink interface {
	// MessageAdded fires after a message is appended to a channel.
	MessageAdded(channelID string, msg domain.Message)

	// ComposingChanged fires when the composing slot changes; agentID is
	// empty when no agent is composing.
	ComposingChanged(agentID string)
}

type nopSink struct{}

func (nopSink) MessageAdded(string, domain.Message) {}
func (nopSink) ComposingChanged(string)             {}
