package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"teamchat/internal/agent"
	"teamchat/internal/chat"
	"teamchat/internal/domain"
	"teamchat/internal/llm"
	"teamchat/internal/mention"
)

// llmCallTimeout bounds a single completion call; sendTimeout bounds a
// whole responder loop (up to five sequential calls plus pauses).
const (
	llmCallTimeout = 2 * time.Minute
	sendTimeout    = 10 * time.Minute
)

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/auth", s.handleLogin)
	mux.HandleFunc("DELETE /api/auth", s.handleLogout)

	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("GET /api/messages", s.handleMessagesGet)
	mux.HandleFunc("POST /api/messages", s.handleMessagesSave)
	mux.HandleFunc("DELETE /api/messages", s.handleMessagesDelete)

	mux.HandleFunc("GET /api/agents", s.handleAgents)

	mux.HandleFunc("GET /api/workspace", s.handleWorkspace)
	mux.HandleFunc("POST /api/workspace/send", s.handleSend)
	mux.HandleFunc("POST /api/workspace/select", s.handleSelect)
	mux.HandleFunc("DELETE /api/workspace/channels/{id}", s.handleChannelClear)

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("/", handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin validates the workspace password and issues the session
// cookie. An unconfigured server secret is a 500, never a silent pass.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	if s.cfg.Auth.Password == "" {
		s.log.Error().Msg("auth password is not configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Lösenord krävs")
		return
	}

	if !safeEqual(req.Password, s.cfg.Auth.Password) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("failed login attempt")
		writeError(w, http.StatusUnauthorized, "Fel lösenord")
		return
	}

	token, expiry := s.sessions.Issue()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		MaxAge:   int(time.Until(expiry) / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	s.log.Info().Str("remote", r.RemoteAddr).Msg("login ok")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleLogout revokes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleChat is the chat completion boundary: {agentId, messages, isDM}
// in, {content} out, or {content: "", error} with a non-2xx status.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ChatResponse{Error: "Ogiltig förfrågan"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), llmCallTimeout)
	defer cancel()

	content, err := s.completer.Complete(ctx, req)
	if err != nil {
		writeJSON(w, chatErrorStatus(err), domain.ChatResponse{Error: chatErrorMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, domain.ChatResponse{Content: content})
}

func chatErrorStatus(err error) int {
	var uerr *chat.UnknownAgentError
	if errors.As(err, &uerr) {
		return http.StatusBadRequest
	}
	var perr *llm.ProviderError
	if errors.As(err, &perr) && perr.Status > 0 {
		return perr.Status
	}
	return http.StatusInternalServerError
}

func chatErrorMessage(err error) string {
	var uerr *chat.UnknownAgentError
	if errors.As(err, &uerr) {
		return "Agent not found: " + uerr.AgentID
	}
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return "API Error: " + perr.Message
	}
	return "Ett oväntat fel uppstod"
}

// handleMessagesGet serves one channel's history (?channel=) or the full
// per-channel map (?all=true).
func (s *Server) handleMessagesGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("all") == "true" {
		all, err := s.msgs.ListAll()
		if err != nil {
			s.log.Error().Err(err).Msg("listing all messages")
			writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}
		if all == nil {
			all = map[string][]domain.Message{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"channelMessages": all})
		return
	}

	channel := q.Get("channel")
	if channel == "" {
		writeError(w, http.StatusBadRequest, "Missing channel parameter. Use ?channel=<id> or ?all=true")
		return
	}

	msgs, err := s.msgs.ListChannel(channel)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channel).Msg("listing messages")
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

type saveMessageRequest struct {
	ID        string   `json:"id"`
	Channel   string   `json:"channel"`
	Role      string   `json:"role"`
	AgentID   string   `json:"agentId,omitempty"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp"`
	Tags      []string `json:"tags,omitempty"`
}

// handleMessagesSave persists one message row. Every required field must
// be present and the role must be one of the two known values.
func (s *Server) handleMessagesSave(w http.ResponseWriter, r *http.Request) {
	var req saveMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	if req.ID == "" || req.Channel == "" || req.Role == "" || req.Content == "" || req.Timestamp == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: id, channel, role, content, timestamp")
		return
	}

	sender := domain.Sender(req.Role)
	if !sender.Valid() {
		writeError(w, http.StatusBadRequest, `Invalid role. Must be "user" or "agent"`)
		return
	}

	ts, err := time.Parse(time.RFC3339Nano, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp. Must be ISO-8601")
		return
	}

	msg := domain.Message{
		ID:        req.ID,
		Content:   req.Content,
		Sender:    sender,
		AgentID:   req.AgentID,
		Timestamp: ts,
		Tags:      req.Tags,
	}
	if err := s.msgs.Append(req.Channel, msg); err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Msg("saving message")
		writeError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

// handleMessagesDelete clears one channel's rows and reports the count.
func (s *Server) handleMessagesDelete(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		writeError(w, http.StatusBadRequest, "Missing channel parameter")
		return
	}

	deleted, err := s.msgs.Clear(channel)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channel).Msg("deleting messages")
		writeError(w, http.StatusInternalServerError, "Failed to delete messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

// handleAgents serves the static persona list for the UI's picker and
// quick-tag buttons.
func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": agent.All()})
}

// handleWorkspace reports the full workspace state: all channels with
// their messages and unread counters, the active channel, and the
// currently composing agent (if any).
func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"channels":      s.workspace.Channels(),
		"activeChannel": s.workspace.Active(),
		"composing":     s.workspace.Composing(),
	})
}

type sendRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// handleSend submits a user message to the active channel and runs the
// responder loop to completion before answering. When the request does
// not carry an explicit tag list, mentions are resolved from the text.
// The loop runs on a detached context: a dropped connection does not
// abandon agents mid-turn.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = mention.Resolve(req.Content)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.workspace.Send(ctx, req.Content, tags); err != nil {
		s.log.Error().Err(err).Msg("send failed")
		writeError(w, http.StatusInternalServerError, "Kunde inte skicka meddelandet. Försök igen.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"activeChannel": s.workspace.Active(),
	})
}

type selectRequest struct {
	Channel string `json:"channel"`
}

// handleSelect switches the active channel, resetting its unread counter.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil || req.Channel == "" {
		writeError(w, http.StatusBadRequest, "Missing channel")
		return
	}

	if err := s.workspace.Select(req.Channel); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"activeChannel": s.workspace.Active(),
	})
}

// handleChannelClear wipes one channel's history, in memory and on disk.
func (s *Server) handleChannelClear(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	deleted, err := s.workspace.Clear(channelID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}
