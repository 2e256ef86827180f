// Package chat implements the completion boundary: it resolves an agent
// to its persona prompt and calls the configured LLM provider. The same
// service backs both the orchestrator's responder loop and the HTTP
// /api/chat handler.
package chat

import (
	"context"
	"fmt"
	"time"

	"teamchat/internal/agent"
	"teamchat/internal/domain"
	"teamchat/internal/llm"
	"teamchat/internal/logging"
)

// maxResponseTokens bounds each agent reply's output-token budget.
const maxResponseTokens = 1024

// UnknownAgentError means the requested agent identifier is not one of
// the five fixed personas.
type UnknownAgentError struct {
	AgentID string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("agent not found: %s", e.AgentID)
}

// Service is the chat completion collaborator.
type Service struct {
	client llm.Client
	log    *logging.Logger
}

// NewService creates a completion service on the given provider.
func NewService(client llm.Client, log *logging.Logger) *Service {
	return &Service{
		client: client,
		log:    log.Sub("chat"),
	}
}

// Complete resolves the request's agent to its persona system prompt
// (with the personalization clause in DM mode) and calls the provider.
// Returns UnknownAgentError for unknown agents and the provider's error,
// unwrapped, on upstream failure.
func (s *Service) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	a, ok := agent.ByID(req.AgentID)
	if !ok {
		return "", &UnknownAgentError{AgentID: req.AgentID}
	}

	msgs := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}

	start := time.Now()
	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		System:    a.Prompt(req.IsDM),
		Messages:  msgs,
		MaxTokens: maxResponseTokens,
	})
	if err != nil {
		s.log.Error().Err(err).Str("agent", req.AgentID).Msg("completion failed")
		return "", err
	}

	s.log.Debug().
		Str("agent", req.AgentID).
		Bool("isDM", req.IsDM).
		Int("turns", len(req.Messages)).
		Int("outputTokens", resp.Usage.OutputTokens).
		Dur("duration", time.Since(start)).
		Msg("completion ok")

	return resp.Content, nil
}
