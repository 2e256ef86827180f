package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/llm"
)

// Send appends the user's message to the active channel and drives the
// responder loop: one completion call per responding agent, strictly
// sequentially, each later agent seeing the earlier agents' replies from
// this same turn. In a DM the channel's agent is the single responder; in
// the group channel the tagged agent list decides, and an empty list means
// no responder at all (the caller warns the user before invoking Send).
//
// A provider failure for one agent becomes a visible error message
// attributed to that agent, and the loop continues with the next
// responder. The loop is not cancelled by channel switches or clears; the
// caller's context is consulted only between responder steps.
func (w *Workspace) Send(ctx context.Context, content string, taggedAgentIDs []string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	w.mu.Lock()
	channelID := w.active
	channel := w.channels[channelID]
	isDM := channel.Type == domain.ChannelDM
	dmAgent := channel.AgentID
	w.mu.Unlock()

	userMsg := domain.Message{
		ID:        domain.NewMessageID(),
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
	}
	if len(taggedAgentIDs) > 0 {
		userMsg.Tags = taggedAgentIDs
	}
	if err := w.Append(channelID, userMsg); err != nil {
		return err
	}

	var responders []string
	if isDM {
		responders = []string{dmAgent}
	} else {
		responders = taggedAgentIDs
	}
	if len(responders) == 0 {
		return nil
	}

	w.log.Info().
		Str("channel", channelID).
		Strs("responders", responders).
		Bool("isDM", isDM).
		Msg("responder loop starting")

	defer w.setComposing("")

	// Conversation context for the loop: the channel as it stood when the
	// user message landed, then each successful reply from this turn.
	// Error messages are shown in-thread but kept out of later agents'
	// context.
	history := w.Messages(channelID)

	for i, agentID := range responders {
		w.setComposing(agentID)

		reply, err := w.completer.Complete(ctx, domain.ChatRequest{
			AgentID:  agentID,
			Messages: domain.ToChatMessages(history),
			IsDM:     isDM,
		})

		msg := domain.Message{
			ID:        domain.NewMessageID(),
			Sender:    domain.SenderAgent,
			AgentID:   agentID,
			Timestamp: time.Now(),
		}
		if err != nil {
			msg.Content = "Fel: " + userFacingError(err)
			w.log.Warn().Err(err).Str("agent", agentID).Msg("responder failed, continuing")
		} else {
			msg.Content = reply
			history = append(history, msg)
		}
		if err := w.Append(channelID, msg); err != nil {
			return err
		}

		if i < len(responders)-1 {
			if err := w.pause(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

// pause waits the inter-reply delay, aborting early if the caller's
// context is cancelled.
func (w *Workspace) pause(ctx context.Context) error {
	if w.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// userFacingError renders a provider failure as the Swedish error text
// shown in-thread, attributed to the failing agent.
func userFacingError(err error) string {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return "API Error: " + perr.Message
	}
	return "Ett oväntat fel uppstod"
}
