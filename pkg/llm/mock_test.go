package llm

import (
	"context"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Complete
// =============================================================================

func TestMockCompleteCannedResponses(t *testing.T) {
	m := &MockCompleter{}

	tests := []struct {
		name    string
		prompt  string
		want    string
		partial bool
	}{
		{name: "python prompt", prompt: "Show me some Python code", want: "Here's a Python example", partial: true},
		{name: "joke prompt", prompt: "Tell me a joke", want: "dark mode", partial: true},
		{name: "echo prompt", prompt: "What is the weather?", want: "This is a mock response to: What is the weather?", partial: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := m.Complete(context.Background(), []Message{{Role: "user", Content: tc.prompt}}, "mock-model")
			if err != nil {
				t.Fatalf("Complete: %v", err)
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("response %q does not contain %q", got, tc.want)
			}
		})
	}
}

func TestMockCompleteUsesLastMessage(t *testing.T) {
	m := &MockCompleter{}
	messages := []Message{
		{Role: "user", Content: "tell me a joke"},
		{Role: "assistant", Content: "sure"},
		{Role: "user", Content: "show me python instead"},
	}

	got, err := m.Complete(context.Background(), messages, "mock-model")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(got, "Python example") {
		t.Errorf("expected python response for last message, got %q", got)
	}
}

func TestMockCompleteTruncatesLongEcho(t *testing.T) {
	m := &MockCompleter{}
	long := strings.Repeat("a", 200)

	got, err := m.Complete(context.Background(), []Message{{Role: "user", Content: long}}, "mock-model")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if strings.Contains(got, strings.Repeat("a", 51)) {
		t.Errorf("echo was not truncated to 50 characters: %q", got)
	}
}

func TestMockCompleteEmptyMessages(t *testing.T) {
	m := &MockCompleter{}

	got, err := m.Complete(context.Background(), nil, "mock-model")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got == "" {
		t.Error("expected non-empty response for empty message list")
	}
}

func TestMockCompleteCancelledContext(t *testing.T) {
	m := &MockCompleter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Complete(ctx, []Message{{Role: "user", Content: "hi"}}, "mock-model"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// =============================================================================
// Stream
// =============================================================================

func TestMockStreamReassemblesResponse(t *testing.T) {
	m := &MockCompleter{} // no delay
	messages := []Message{{Role: "user", Content: "tell me a joke"}}

	ch, err := m.Stream(context.Background(), messages, "mock-model")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var b strings.Builder
	for token := range ch {
		b.WriteString(token)
	}

	want, err := m.Complete(context.Background(), messages, "mock-model")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if strings.TrimSpace(b.String()) != want {
		t.Errorf("reassembled stream = %q, want %q", strings.TrimSpace(b.String()), want)
	}
}

func TestMockStreamStopsOnCancel(t *testing.T) {
	m := &MockCompleter{TokenDelay: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := m.Stream(ctx, []Message{{Role: "user", Content: "tell me a joke"}}, "mock-model")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	// Read one token, cancel, then drain; the channel must close.
	<-ch
	cancel()
	count := 0
	for range ch {
		count++
	}
	if count > 20 {
		t.Errorf("stream kept producing after cancel: %d tokens", count)
	}
}
