// Package workspace holds the in-memory conversation state: the fixed
// channel set, the active-channel pointer, unread counters, and the
// sequential responder loop that turns a user submission into agent
// replies. All mutation is funneled through Workspace methods behind a
// mutex, so the single-writer discipline of the conversation model holds
// even under a multi-threaded HTTP host.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teamchat/internal/agent"
	"teamchat/internal/domain"
	"teamchat/internal/logging"
)

// HistoryStore is the persistence collaborator for chat history.
type HistoryStore interface {
	// ListAll returns every channel's persisted messages, used once at
	// startup to rehydrate the workspace.
	ListAll() (map[string][]domain.Message, error)

	// Append persists one message; idempotent by message identifier.
	Append(channelID string, msg domain.Message) error

	// Clear deletes a channel's messages and returns the removed count.
	Clear(channelID string) (int, error)
}

// Completer produces an agent's reply for a conversation context.
type Completer interface {
	Complete(ctx context.Context, req domain.ChatRequest) (string, error)
}

// defaultReplyDelay paces sequential replies in the group channel so they
// read as distinct turns rather than a burst.
const defaultReplyDelay = 500 * time.Millisecond

// Config tunes workspace behavior.
type Config struct {
	// ReplyDelay is the pause between sequential agent replies.
	// Zero means the 500ms default; negative disables the delay.
	ReplyDelay time.Duration
}

// Workspace owns the channel registry and drives the responder loop.
type Workspace struct {
	store     HistoryStore
	completer Completer
	sink      EventSink
	delay     time.Duration
	log       *logging.Logger

	// sendMu serializes Send invocations so at most one responder loop
	// (and thus at most one composing agent) exists at a time.
	sendMu sync.Mutex

	mu        sync.Mutex
	channels  map[string]*domain.Channel
	active    string
	composing string // agent id currently composing, "" when idle

	// One wait group per channel, built once in New; clearing a channel
	// waits only on its own in-flight persists.
	persist map[string]*sync.WaitGroup
}

// New creates a workspace with the fixed channel set: the group channel
// plus one DM channel per agent. The group channel starts active.
func New(store HistoryStore, completer Completer, sink EventSink, cfg Config, log *logging.Logger) *Workspace {
	if sink == nil {
		sink = nopSink{}
	}
	delay := cfg.ReplyDelay
	if delay == 0 {
		delay = defaultReplyDelay
	}
	if delay < 0 {
		delay = 0
	}

	channels := map[string]*domain.Channel{
		domain.GroupChannelID: {
			ID:   domain.GroupChannelID,
			Name: "#" + domain.GroupChannelID,
			Type: domain.ChannelGroup,
		},
	}
	for _, a := range agent.All() {
		channels[a.ID] = &domain.Channel{
			ID:      a.ID,
			Name:    a.Name,
			Type:    domain.ChannelDM,
			AgentID: a.ID,
		}
	}

	persist := make(map[string]*sync.WaitGroup, len(channels))
	for id := range channels {
		persist[id] = &sync.WaitGroup{}
	}

	return &Workspace{
		store:     store,
		completer: completer,
		sink:      sink,
		delay:     delay,
		log:       log.Sub("workspace"),
		channels:  channels,
		active:    domain.GroupChannelID,
		persist:   persist,
	}
}

// Load rehydrates all channels from the history store. Messages persisted
// under a channel id the workspace does not know are dropped with a warning.
func (w *Workspace) Load() error {
	all, err := w.store.ListAll()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	total := 0
	for channelID, msgs := range all {
		ch, ok := w.channels[channelID]
		if !ok {
			w.log.Warn().Str("channel", channelID).Int("messages", len(msgs)).Msg("history for unknown channel dropped")
			continue
		}
		ch.Messages = msgs
		total += len(msgs)
	}

	w.log.Info().Int("messages", total).Msg("history loaded")
	return nil
}

// Select makes a channel active and resets its unread counter.
func (w *Workspace) Select(channelID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.channels[channelID]
	if !ok {
		return fmt.Errorf("unknown channel: %s", channelID)
	}
	w.active = channelID
	ch.UnreadCount = 0
	return nil
}

// Active returns the active channel identifier.
func (w *Workspace) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Composing returns the identifier of the agent currently composing a
// reply, or the empty string when none is.
func (w *Workspace) Composing() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.composing
}

// Append adds a message to a channel, bumps the unread counter when the
// channel is not active, and persists the message in the background.
// Persistence failures are logged and swallowed: history durability is
// best-effort by design.
func (w *Workspace) Append(channelID string, msg domain.Message) error {
	w.mu.Lock()
	ch, ok := w.channels[channelID]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("unknown channel: %s", channelID)
	}
	ch.Messages = append(ch.Messages, msg)
	if channelID != w.active {
		ch.UnreadCount++
	}
	w.mu.Unlock()

	w.sink.MessageAdded(channelID, msg)

	wg := w.persist[channelID]
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.store.Append(channelID, msg); err != nil {
			w.log.Error().Err(err).Str("channel", channelID).Str("id", msg.ID).Msg("persist failed")
		}
	}()
	return nil
}

// Clear wipes a channel's in-memory messages and unread counter, deletes
// its persisted rows, and returns the number of rows removed.
func (w *Workspace) Clear(channelID string) (int, error) {
	w.mu.Lock()
	ch, ok := w.channels[channelID]
	if !ok {
		w.mu.Unlock()
		return 0, fmt.Errorf("unknown channel: %s", channelID)
	}
	ch.Messages = nil
	ch.UnreadCount = 0
	w.mu.Unlock()

	// Outstanding background persists may still land for this channel;
	// they belong to an in-flight send loop, which is not cancelled on
	// clear (run-to-completion model). Only this channel's writes are
	// waited on; other channels' in-flight persists do not stall a clear.
	w.persist[channelID].Wait()
	return w.store.Clear(channelID)
}

// Messages returns a copy of a channel's message list.
func (w *Workspace) Messages(channelID string) []domain.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.channels[channelID]
	if !ok {
		return nil
	}
	out := make([]domain.Message, len(ch.Messages))
	copy(out, ch.Messages)
	return out
}

// Channels returns copies of all channels, group channel first, DM
// channels in static agent order.
func (w *Workspace) Channels() []domain.Channel {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.Channel, 0, len(w.channels))
	out = append(out, w.snapshotLocked(domain.GroupChannelID))
	for _, a := range agent.All() {
		out = append(out, w.snapshotLocked(a.ID))
	}
	return out
}

func (w *Workspace) snapshotLocked(id string) domain.Channel {
	ch := w.channels[id]
	cp := *ch
	cp.Messages = make([]domain.Message, len(ch.Messages))
	copy(cp.Messages, ch.Messages)
	return cp
}

// Flush waits for all background persistence writes to finish. Called on
// shutdown and by tests.
func (w *Workspace) Flush() {
	for _, wg := range w.persist {
		wg.Wait()
	}
}

func (w *Workspace) setComposing(agentID string) {
	w.mu.Lock()
	w.composing = agentID
	w.mu.Unlock()
	w.sink.ComposingChanged(agentID)
}
