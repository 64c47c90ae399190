package projection

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"discorde/domain"

	"github.com/stretchr/testify/require"
)

func TestTimeline_SeededFromHistoryThenAppended(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()
	history := []domain.Message{
		{Timestamp: at, Author: "alice", Body: "hello"},
		{Timestamp: at.Add(time.Minute), Author: "bob", Body: "hi"},
	}

	timeline := NewTimeline("abc", history)
	req.Equal(2, timeline.Len())

	live := domain.Message{Timestamp: at.Add(2 * time.Minute), Author: "clara", Body: "o/"}
	entry := timeline.Append(live)
	req.Equal(live, entry.Message)

	entries := timeline.Entries()
	req.Len(entries, 3)
	req.Equal("alice", entries[0].Message.Author)
	req.Equal("bob", entries[1].Message.Author)
	req.Equal("clara", entries[2].Message.Author)

	// Every entry carries a distinct local identity.
	req.NotEqual(entries[0].ID, entries[1].ID)
	req.NotEqual(entries[1].ID, entries[2].ID)
}

func TestTimeline_ConcurrentAppends(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("abc", nil)

	// A live reader and an input loop append at the same time; nothing may
	// be lost and Entries must stay readable throughout.
	var wg sync.WaitGroup
	for _, author := range []string{"reader", "sender"} {
		wg.Add(1)
		go func(author string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				timeline.Append(domain.Message{Author: author, Body: fmt.Sprintf("%d", i)})
				timeline.Entries()
			}
		}(author)
	}
	wg.Wait()

	req.Equal(200, timeline.Len())
}

func TestTimeline_EntriesReturnsACopy(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("abc", []domain.Message{{Author: "alice", Body: "x"}})

	entries := timeline.Entries()
	entries[0].Message.Body = "mutated"

	req.Equal("x", timeline.Entries()[0].Message.Body)
}
