package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicComplete_Success(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "/v1/messages", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Hej! "},
				{"type": "text", "text": "Vad kan jag hjälpa till med?"},
			},
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 12, "output_tokens": 9},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", "claude-sonnet-4-20250514")
	c.BaseURL = srv.URL

	resp, err := c.Complete(context.Background(), CompletionRequest{
		System:    "Du är Lex.",
		Messages:  []Message{{Role: RoleUser, Content: "hej"}},
		MaxTokens: 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hej! Vad kan jag hjälpa till med?", resp.Content)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, 12, resp.Usage.InputTokens)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "Du är Lex.", gotBody["system"])
	assert.Equal(t, "claude-sonnet-4-20250514", gotBody["model"])
	assert.EqualValues(t, 1024, gotBody["max_tokens"])
}

func TestAnthropicComplete_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "Too many requests"},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", "claude-sonnet-4-20250514")
	c.BaseURL = srv.URL

	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: RoleUser, Content: "hej"}},
		MaxTokens: 1024,
	})

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusTooManyRequests, perr.Status)
	assert.Equal(t, "Too many requests", perr.Message)
}

func TestAnthropicComplete_OmitsEmptySystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasSystem := body["system"]
		assert.False(t, hasSystem)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "ok"}},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", "m")
	c.BaseURL = srv.URL

	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: RoleUser, Content: "hej"}},
		MaxTokens: 1024,
	})
	require.NoError(t, err)
}

func TestParseAPIError_FallsBackToRawBody(t *testing.T) {
	assert.Equal(t, "gateway timeout", parseAPIError([]byte("gateway timeout\n")))
	assert.Equal(t, "boom", parseAPIError([]byte(`{"error":{"message":"boom"}}`)))
}

func TestMockClient_RecordsRequests(t *testing.T) {
	m := &MockClient{}
	_, err := m.Complete(context.Background(), CompletionRequest{System: "a"})
	require.NoError(t, err)
	_, err = m.Complete(context.Background(), CompletionRequest{System: "b"})
	require.NoError(t, err)

	require.Len(t, m.Requests, 2)
	assert.Equal(t, "a", m.Requests[0].System)
	assert.Equal(t, "b", m.Requests[1].System)
}
