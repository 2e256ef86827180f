package chat

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamchat/internal/agent"
	"teamchat/internal/domain"
	"teamchat/internal/llm"
	"teamchat/internal/logging"
)

func testService(mock *llm.MockClient) *Service {
	return NewService(mock, logging.New(nil, "silent"))
}

func TestComplete_UnknownAgent(t *testing.T) {
	svc := testService(&llm.MockClient{})

	_, err := svc.Complete(context.Background(), domain.ChatRequest{AgentID: "gunnar"})

	var uerr *UnknownAgentError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "gunnar", uerr.AgentID)
}

func TestComplete_UsesPersonaPrompt(t *testing.T) {
	mock := &llm.MockClient{}
	svc := testService(mock)

	_, err := svc.Complete(context.Background(), domain.ChatRequest{
		AgentID:  "nova",
		Messages: []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hej"}},
	})
	require.NoError(t, err)

	nova, _ := agent.ByID("nova")
	require.Len(t, mock.Requests, 1)
	assert.Equal(t, nova.SystemPrompt, mock.Requests[0].System)
	assert.Equal(t, 1024, mock.Requests[0].MaxTokens)
}

func TestComplete_DMPromptSuffix(t *testing.T) {
	mock := &llm.MockClient{}
	svc := testService(mock)

	_, err := svc.Complete(context.Background(), domain.ChatRequest{
		AgentID:  "lex",
		IsDM:     true,
		Messages: []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "Är detta GDPR-säkert?"}},
	})
	require.NoError(t, err)

	require.Len(t, mock.Requests, 1)
	lex, _ := agent.ByID("lex")
	assert.Equal(t, lex.SystemPrompt+agent.DMPromptSuffix, mock.Requests[0].System)
}

func TestComplete_MapsRoles(t *testing.T) {
	mock := &llm.MockClient{}
	svc := testService(mock)

	_, err := svc.Complete(context.Background(), domain.ChatRequest{
		AgentID: "mira",
		Messages: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: "fråga"},
			{Role: domain.ChatRoleAssistant, Content: "svar"},
			{Role: domain.ChatRoleUser, Content: "följdfråga"},
		},
	})
	require.NoError(t, err)

	require.Len(t, mock.Requests, 1)
	msgs := mock.Requests[0].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, llm.RoleUser, msgs[2].Role)
}

func TestComplete_ProviderErrorPassedThrough(t *testing.T) {
	mock := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, &llm.ProviderError{Status: http.StatusTooManyRequests, Message: "rate limited"}
		},
	}
	svc := testService(mock)

	_, err := svc.Complete(context.Background(), domain.ChatRequest{
		AgentID:  "raven",
		Messages: []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hej"}},
	})

	var perr *llm.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusTooManyRequests, perr.Status)
}
