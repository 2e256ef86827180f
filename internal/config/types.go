package config

// Config is the root configuration for teamchat.
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	Auth      AuthConfig      `yaml:"auth,omitempty"`
	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Workspace WorkspaceConfig `yaml:"workspace,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP/WebSocket server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// AuthConfig configures the password gate.
type AuthConfig struct {
	// Password is the shared workspace secret. Supports ${ENV_VAR}
	// references so the value never has to live in the file.
	Password string `yaml:"password,omitempty"`

	// SessionTTLHours is the session cookie lifetime. Defaults to 7 days.
	SessionTTLHours int `yaml:"sessionTtlHours,omitempty"`
}

// AnthropicConfig configures the completion provider.
type AnthropicConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"` // supports ${ENV_VAR} references
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"baseUrl,omitempty"`
}

// StoreConfig configures chat history persistence.
type StoreConfig struct {
	// Path is the SQLite database file. Empty means <data dir>/chat.db.
	Path string `yaml:"path,omitempty"`
}

// WorkspaceConfig tunes conversation orchestration.
type WorkspaceConfig struct {
	// ReplyDelayMs paces sequential agent replies in the group channel.
	// Zero means the 500ms default; negative disables the pause.
	ReplyDelayMs int `yaml:"replyDelayMs,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "compact" | "json"
}
