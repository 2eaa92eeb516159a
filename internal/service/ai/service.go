package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/lingobuddy/backend/internal/config"
	"github.com/lingobuddy/backend/internal/model/chat"
)

// ProviderError wraps any failure of the hosted model call. It is the only
// error type Respond returns: callers discriminate success from failure on
// the returned values, and provider failures never escape this boundary as
// anything else.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Service turns a settings object, stored history and a new user message
// into one model reply.
type Service struct {
	chatModel model.ChatModel
	prompts   *PromptEngine
	timeout   timeoutFn
}

type timeoutFn func(ctx context.Context) (context.Context, context.CancelFunc)

// NewService creates the model client from configuration and binds it to the
// prompt engine.
func NewService(ctx context.Context, prompts *PromptEngine, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	svc := newService(chatModel, prompts)
	if cfg.RequestTimeout > 0 {
		timeout := cfg.RequestTimeout
		svc.timeout = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return svc, nil
}

func newService(chatModel model.ChatModel, prompts *PromptEngine) *Service {
	return &Service{
		chatModel: chatModel,
		prompts:   prompts,
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return ctx, func() {}
		},
	}
}

// Respond runs one synchronous completion: system prompt from settings,
// prior turns verbatim, new user message last. No retries, no streaming.
// Any provider-side failure comes back as a *ProviderError.
func (s *Service) Respond(ctx context.Context, settings chat.Settings, history []chat.Turn, userMessage string) (string, error) {
	messages := assembleMessages(s.prompts.Render(settings), history, userMessage)

	callCtx, cancel := s.timeout(ctx)
	defer cancel()

	response, err := s.chatModel.Generate(callCtx, messages)
	if err != nil {
		log.Printf("[ai] provider call failed: %v", err)
		return "", &ProviderError{Err: err}
	}

	log.Printf("[ai] generated response, messages=%d length=%d", len(messages), len(response.Content))
	return response.Content, nil
}

// assembleMessages produces the exact ordered list submitted to the model:
// [system, ...prior turns in original order, new user turn]. Nothing is
// filtered, truncated or reordered.
func assembleMessages(systemPrompt string, history []chat.Turn, userMessage string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))

	for _, turn := range history {
		switch turn.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return append(messages, schema.UserMessage(userMessage))
}
