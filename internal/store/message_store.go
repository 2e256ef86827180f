package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"teamchat/internal/domain"
)

// MessageStore persists per-channel message logs in SQLite. Messages are
// immutable once written; the store offers append, bulk load, and
// per-channel delete only.
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a message store using the given database.
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append persists a single message under a channel. It is idempotent by
// message identifier: re-appending the same id does not create a second
// row. Messages with empty content or an unknown sender are rejected.
func (s *MessageStore) Append(channelID string, msg domain.Message) error {
	if msg.Content == "" {
		return fmt.Errorf("message %s: empty content", msg.ID)
	}
	if !msg.Sender.Valid() {
		return fmt.Errorf("message %s: invalid sender %q", msg.ID, msg.Sender)
	}

	var tagsJSON sql.NullString
	if len(msg.Tags) > 0 {
		data, err := json.Marshal(msg.Tags)
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var agentID sql.NullString
	if msg.AgentID != "" {
		agentID = sql.NullString{String: msg.AgentID, Valid: true}
	}

	res, err := s.db.sql.Exec(
		`INSERT OR IGNORE INTO messages (id, channel, role, agent_id, content, timestamp, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, channelID, string(msg.Sender), agentID, msg.Content,
		msg.Timestamp.UTC().Format(time.RFC3339Nano), tagsJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting message %s: %w", msg.ID, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		s.db.log.Debug().Str("id", msg.ID).Msg("duplicate append ignored")
	}
	return nil
}

// ListChannel returns all messages for one channel in chronological order.
func (s *MessageStore) ListChannel(channelID string) ([]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, role, agent_id, content, timestamp, tags
		 FROM messages WHERE channel = ? ORDER BY timestamp, rowid`, channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying channel %s: %w", channelID, err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListAll returns every channel's messages keyed by channel identifier,
// each list in chronological order. Used once at startup to rehydrate
// the workspace.
func (s *MessageStore) ListAll() (map[string][]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT channel, id, role, agent_id, content, timestamp, tags
		 FROM messages ORDER BY channel, timestamp, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying all messages: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Message)
	for rows.Next() {
		var channel string
		var msg domain.Message
		var role string
		var agentID, ts sql.NullString
		var tags sql.NullString

		if err := rows.Scan(&channel, &msg.ID, &role, &agentID, &msg.Content, &ts, &tags); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		fillMessage(&msg, role, agentID, ts, tags)
		out[channel] = append(out[channel], msg)
	}
	return out, rows.Err()
}

// Clear deletes all messages for a channel and returns the removed count.
func (s *MessageStore) Clear(channelID string) (int, error) {
	res, err := s.db.sql.Exec(`DELETE FROM messages WHERE channel = ?`, channelID)
	if err != nil {
		return 0, fmt.Errorf("clearing channel %s: %w", channelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.db.log.Info().Str("channel", channelID).Int64("deleted", n).Msg("channel history cleared")
	return int(n), nil
}

// Counts returns the number of persisted messages per channel.
func (s *MessageStore) Counts() (map[string]int, error) {
	rows, err := s.db.sql.Query(`SELECT channel, COUNT(*) FROM messages GROUP BY channel`)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var channel string
		var n int
		if err := rows.Scan(&channel, &n); err != nil {
			return nil, err
		}
		counts[channel] = n
	}
	return counts, rows.Err()
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		var agentID, ts, tags sql.NullString

		if err := rows.Scan(&msg.ID, &role, &agentID, &msg.Content, &ts, &tags); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		fillMessage(&msg, role, agentID, ts, tags)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func fillMessage(msg *domain.Message, role string, agentID, ts, tags sql.NullString) {
	msg.Sender = domain.Sender(role)
	if agentID.Valid {
		msg.AgentID = agentID.String
	}
	if ts.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, ts.String); err == nil {
			msg.Timestamp = parsed
		}
	}
	if tags.Valid && tags.String != "" {
		// Rows written before tags existed hold NULL; bad JSON is dropped
		// rather than failing the whole load.
		var parsed []string
		if err := json.Unmarshal([]byte(tags.String), &parsed); err == nil {
			msg.Tags = parsed
		}
	}
}
