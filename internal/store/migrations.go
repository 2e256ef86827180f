package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create messages",
		SQL: `
			CREATE TABLE messages (
				id        TEXT PRIMARY KEY,
				channel   TEXT NOT NULL,
				role      TEXT NOT NULL CHECK (role IN ('user', 'agent')),
				agent_id  TEXT,
				content   TEXT NOT NULL,
				timestamp TEXT NOT NULL,
				tags      TEXT
			);

			CREATE INDEX idx_messages_channel ON messages (channel);
		`,
	},
}
