// Package push delivers notifications to device registration tokens.
package push

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// ErrInvalidToken marks a delivery failure meaning the token will never
// work again. Callers prune such tokens; every other error is transient.
var ErrInvalidToken = errors.New("push: registration token is no longer valid")

// Message is the gateway-neutral payload of one push.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Gateway sends one message to one device token.
type Gateway interface {
	Send(ctx context.Context, token string, msg Message) error
}

// Noop drops every message. It backs PUSH_BACKEND=none.
type Noop struct{}

func (Noop) Send(_ context.Context, token string, msg Message) error {
	log.Debug("push disabled, dropping message", "title", msg.Title, "token_len", len(token))
	return nil
}
