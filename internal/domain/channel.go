package domain

// ChannelType classifies a conversation thread.
type ChannelType string

const (
	ChannelGroup ChannelType = "group"
	ChannelDM    ChannelType = "dm"
)

// GroupChannelID is the well-known identifier of the shared group channel.
// DM channels use their agent's identifier as the channel identifier.
const GroupChannelID = "teamchat"

// Channel is a conversation thread: either the single shared group channel
// or a private per-agent channel. The channel set is fixed for the lifetime
// of the process; channels are cleared, never deleted.
type Channel struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        ChannelType `json:"type"`
	AgentID     string      `json:"agentId,omitempty"` // set iff Type == ChannelDM
	Messages    []Message   `json:"messages"`
	UnreadCount int         `json:"unreadCount"`
}
