package generation

import "context"

// Client sends a prompt to a language model and returns the raw completion
// text. Implementations report failures as *Error; the text is expected to
// hold a JSON array of cards but is not parsed at this layer.
type Client interface {
	Send(ctx context.Context, prompt *Prompt) (string, error)
}
