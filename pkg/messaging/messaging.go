// Package messaging carries notifications between the settings editor, the
// menu and the note compiler.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/caselens/pkg/logging"
)

// Type identifies a message.
type Type string

const (
	// TypeSync asks the menu owner to re-read the template store.
	TypeSync Type = "sync"
	// TypeNote asks the page-resident compiler to copy a note.
	TypeNote Type = "NOTE"
)

// ErrUnknownMessageType is returned for a message no handler accepts.
var ErrUnknownMessageType = errors.New("unknown message type")

// Message is a single notification. NoteID is set on TypeNote messages.
type Message struct {
	Type   Type   `json:"type"`
	NoteID string `json:"note_id,omitempty"`
}

// Sync returns a sync message.
func Sync() Message {
	return Message{Type: TypeSync}
}

// Note returns a note message for the template id.
func Note(id string) Message {
	return Message{Type: TypeNote, NoteID: id}
}

// Handler processes one message.
type Handler func(ctx context.Context, msg Message) error

// Sender delivers messages. *Bus satisfies it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Bus dispatches each message synchronously to the handler registered for
// its type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type]Handler
	logger   *logging.Logger
}

// NewBus creates a bus with no handlers.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Discard("messaging")
	}
	return &Bus{handlers: make(map[Type]Handler), logger: logger}
}

// Handle registers h for messages of type t, replacing any previous handler.
func (b *Bus) Handle(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = h
}

// Send delivers msg and returns the handler's error.
func (b *Bus) Send(ctx context.Context, msg Message) error {
	b.mu.RLock()
	h, ok := b.handlers[msg.Type]
	b.mu.RUnlock()

	if !ok {
		b.logger.Errorf("Unknown message type %q", msg.Type)
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
	if msg.Type == TypeNote && msg.NoteID == "" {
		b.logger.Debugf("Dropping note message without a template id")
		return nil
	}
	return h(ctx, msg)
}
