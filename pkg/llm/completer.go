package llm

import "context"

// Message is a single chat turn.
type Message struct {
	// Role is one of "system", "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Completer produces completion text for a conversation.
type Completer interface {
	// Complete returns the full response text in one call.
	Complete(ctx context.Context, messages []Message, model string) (string, error)

	// Stream returns a channel of response tokens. The channel is
	// closed when the response is finished or the context is
	// cancelled.
	Stream(ctx context.Context, messages []Message, model string) (<-chan string, error)
}
