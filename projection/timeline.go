package projection

import (
	"sync"

	"discorde/domain"

	"github.com/google/uuid"
)

// Entry is one timeline row. The ID is local identity only (animation and
// age tickers key off it); it never goes on the wire.
type Entry struct {
	ID      uuid.UUID
	Message domain.Message
}

// Timeline holds the append-only message list of one open chat: the history
// fetch seeds it, the live channel and local sends extend it. Safe for
// concurrent use; the live reader and the input loop both append.
type Timeline struct {
	ChatID string

	mu      sync.Mutex
	entries []Entry
}

func NewTimeline(chatID string, history []domain.Message) *Timeline {
	t := &Timeline{ChatID: chatID}
	for _, m := range history {
		t.Append(m)
	}
	return t
}

func (t *Timeline) Append(m domain.Message) Entry {
	e := Entry{ID: uuid.New(), Message: m}
	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()
	return e
}

func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
