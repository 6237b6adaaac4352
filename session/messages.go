package session

import (
	"sync"
	"time"
)

// MessageLifetime is how long a transient message stays visible.
const MessageLifetime = 5 * time.Second

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

type Message struct {
	Kind     MessageKind
	Text     string
	PostedAt time.Time
}

// Board holds transient messages. Messages expire on their own; nothing
// removes them early.
type Board struct {
	mu       sync.Mutex
	now      func() time.Time
	messages []Message
}

func NewBoard(now func() time.Time) *Board {
	if now == nil {
		now = time.Now
	}
	return &Board{now: now}
}

func (b *Board) Post(kind MessageKind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.messages = append(b.live(now), Message{Kind: kind, Text: text, PostedAt: now})
}

// Active returns the messages still inside their display window, oldest
// first.
func (b *Board) Active() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = b.live(b.now())
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *Board) live(now time.Time) []Message {
	kept := b.messages[:0]
	for _, m := range b.messages {
		if now.Sub(m.PostedAt) < MessageLifetime {
			kept = append(kept, m)
		}
	}
	return kept
}
