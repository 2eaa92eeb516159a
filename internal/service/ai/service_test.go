package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/lingobuddy/backend/internal/model/chat"
)

// stubModel fakes the hosted provider: it records the messages it was given
// and returns a canned reply or error.
type stubModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (m *stubModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *stubModel) BindTools([]*schema.ToolInfo) error {
	return nil
}

func TestAssembleMessagesOrder(t *testing.T) {
	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "hola"},
		{Role: chat.RoleAssistant, Content: "¡Hola! ¿Cómo estás?"},
		{Role: chat.RoleUser, Content: "bien"},
		{Role: chat.RoleAssistant, Content: "¡Qué bueno!"},
	}

	messages := assembleMessages("system prompt", history, "¿y tú?")

	if len(messages) != len(history)+2 {
		t.Fatalf("expected %d messages, got %d", len(history)+2, len(messages))
	}
	if messages[0].Role != schema.System || messages[0].Content != "system prompt" {
		t.Fatalf("first message is not the system prompt: %+v", messages[0])
	}
	for i, turn := range history {
		if messages[i+1].Content != turn.Content {
			t.Fatalf("history turn %d out of order: got %q want %q", i, messages[i+1].Content, turn.Content)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != schema.User || last.Content != "¿y tú?" {
		t.Fatalf("last message is not the new user turn: %+v", last)
	}
}

func TestAssembleMessagesEmptyHistory(t *testing.T) {
	messages := assembleMessages("system prompt", nil, "first message")
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System || messages[1].Role != schema.User {
		t.Fatalf("unexpected roles: %v %v", messages[0].Role, messages[1].Role)
	}
}

func TestRespondReturnsReply(t *testing.T) {
	stub := &stubModel{reply: "¡Muy bien!"}
	svc := newService(stub, NewPromptEngine("Teach {{LANGUAGE}}."))

	reply, err := svc.Respond(context.Background(), chat.Settings{}, nil, "hola")
	if err != nil {
		t.Fatalf("Respond err: %v", err)
	}
	if reply != "¡Muy bien!" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(stub.received) != 2 {
		t.Fatalf("expected 2 messages submitted, got %d", len(stub.received))
	}
	if stub.received[0].Content != "Teach Spanish." {
		t.Fatalf("system prompt not rendered with defaults: %q", stub.received[0].Content)
	}
}

func TestRespondConvertsProviderError(t *testing.T) {
	stub := &stubModel{err: fmt.Errorf("quota exceeded for model")}
	svc := newService(stub, NewPromptEngine("prompt"))

	_, err := svc.Respond(context.Background(), chat.Settings{}, nil, "hola")
	if err == nil {
		t.Fatal("expected error from provider failure")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if provErr.Error() != "quota exceeded for model" {
		t.Fatalf("provider message not carried: %q", provErr.Error())
	}
}
