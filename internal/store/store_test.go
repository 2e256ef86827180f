package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamchat/internal/domain"
	"teamchat/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func userMsg(id, content string) domain.Message {
	return domain.Message{
		ID:        id,
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: time.Now().UTC(),
	}
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

// --- Message store tests ---

func TestAppend_AndListChannel(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	m1 := userMsg("m1", "hej allihopa")
	m2 := domain.Message{
		ID:        "m2",
		Content:   "hej själv",
		Sender:    domain.SenderAgent,
		AgentID:   "nova",
		Timestamp: m1.Timestamp.Add(time.Second),
	}

	require.NoError(t, ms.Append("teamchat", m1))
	require.NoError(t, ms.Append("teamchat", m2))

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, "nova", msgs[1].AgentID)
	assert.Empty(t, msgs[0].AgentID)
}

func TestAppend_IdempotentByID(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	msg := userMsg("m1", "första försöket")
	require.NoError(t, ms.Append("teamchat", msg))

	// Retry after a network blip must not create a second row.
	msg.Content = "andra försöket"
	require.NoError(t, ms.Append("teamchat", msg))

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "första försöket", msgs[0].Content)
}

func TestAppend_RejectsEmptyContent(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	msg := userMsg("m1", "")
	assert.Error(t, ms.Append("teamchat", msg))
}

func TestAppend_RejectsInvalidSender(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	msg := userMsg("m1", "hej")
	msg.Sender = "assistant"
	assert.Error(t, ms.Append("teamchat", msg))
}

func TestAppend_TagsRoundTrip(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	msg := userMsg("m1", "@Nova @Viktor Vad tycker ni?")
	msg.Tags = []string{"nova", "viktor"}
	require.NoError(t, ms.Append("teamchat", msg))

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"nova", "viktor"}, msgs[0].Tags)
}

func TestListChannel_ChronologicalOrder(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	base := time.Now().UTC()
	for i, id := range []string{"m3", "m1", "m2"} {
		msg := userMsg(id, "meddelande "+id)
		// Insert out of id order but with timestamps matching id order.
		switch id {
		case "m1":
			msg.Timestamp = base
		case "m2":
			msg.Timestamp = base.Add(time.Second)
		case "m3":
			msg.Timestamp = base.Add(2 * time.Second)
		}
		require.NoError(t, ms.Append("teamchat", msg), "insert %d", i)
	}

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, "m3", msgs[2].ID)
}

func TestListAll_GroupsByChannel(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	require.NoError(t, ms.Append("teamchat", userMsg("m1", "grupp")))
	require.NoError(t, ms.Append("lex", userMsg("m2", "dm ett")))
	require.NoError(t, ms.Append("lex", userMsg("m3", "dm två")))

	all, err := ms.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, all["teamchat"], 1)
	assert.Len(t, all["lex"], 2)
}

func TestClear_RemovesOnlyThatChannel(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	require.NoError(t, ms.Append("teamchat", userMsg("m1", "grupp")))
	require.NoError(t, ms.Append("lex", userMsg("m2", "dm")))

	n, err := ms.Clear("teamchat")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = ms.ListChannel("lex")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestClear_EmptyChannel(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	n, err := ms.Clear("raven")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCounts(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	require.NoError(t, ms.Append("teamchat", userMsg("m1", "a")))
	require.NoError(t, ms.Append("teamchat", userMsg("m2", "b")))
	require.NoError(t, ms.Append("mira", userMsg("m3", "c")))

	counts, err := ms.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"teamchat": 2, "mira": 1}, counts)
}

func TestTimestampRoundTrip(t *testing.T) {
	ms := NewMessageStore(testDB(t))

	ts := time.Date(2026, 3, 1, 9, 30, 15, 123000000, time.UTC)
	msg := userMsg("m1", "tidsstämpel")
	msg.Timestamp = ts
	require.NoError(t, ms.Append("teamchat", msg))

	msgs, err := ms.ListChannel("teamchat")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, ts.Equal(msgs[0].Timestamp))
}
