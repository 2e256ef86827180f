// Package domain holds the core data model shared by the workspace,
// the history store, and the gateway.
package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Valid reports whether the sender is one of the two known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAgent
}

// Message is a single entry in a channel. Messages are immutable once
// created; they are only ever appended or bulk-deleted per channel.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	AgentID   string    `json:"agentId,omitempty"` // set iff Sender == SenderAgent
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags,omitempty"` // tagged agent IDs, user messages in the group channel only
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewMessageID generates a message identifier from the current unix-millis
// timestamp plus a 9-character random base36 suffix.
func NewMessageID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a constant suffix rather than panic in the send path.
		return fmt.Sprintf("%d-000000000", time.Now().UnixMilli())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), buf)
}
