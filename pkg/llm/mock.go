package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockCompleter is a canned-response Completer. It picks a response
// from the last user message and, when streaming, emits it word by word
// with an optional delay to simulate generation latency.
type MockCompleter struct {
	// TokenDelay is the pause between streamed tokens. Zero means no
	// pause; tests rely on that.
	TokenDelay time.Duration
}

// NewMockCompleter creates a MockCompleter with a small streaming delay.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{TokenDelay: 50 * time.Millisecond}
}

// Complete implements Completer.
func (m *MockCompleter) Complete(ctx context.Context, messages []Message, model string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.respond(messages), nil
}

// Stream implements Completer.
func (m *MockCompleter) Stream(ctx context.Context, messages []Message, model string) (<-chan string, error) {
	response := m.respond(messages)
	words := strings.Fields(response)

	out := make(chan string)
	go func() {
		defer close(out)
		for _, word := range words {
			if m.TokenDelay > 0 {
				select {
				case <-time.After(m.TokenDelay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- word + " ":
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (m *MockCompleter) respond(messages []Message) string {
	prompt := "Hello"
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}

	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "python"):
		return "Here's a Python example: def hello(): print('Hello, World!')"
	case strings.Contains(lower, "joke"):
		return "Why do programmers prefer dark mode? Because light attracts bugs!"
	default:
		if len(prompt) > 50 {
			prompt = prompt[:50]
		}
		return fmt.Sprintf("This is a mock response to: %s. In production, this would stream from a real model.", prompt)
	}
}
