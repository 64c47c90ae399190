// Package session holds the process-wide authenticated identity, persisted
// in BadgerDB so a restart restores the last session without a network call.
package session

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"discorde/domain"

	"github.com/dgraph-io/badger/v4"
)

// currentKey is the single durable entry holding the serialized session.
const currentKey = "session:current"

// subscriberBuffer bounds how far a subscriber may lag before updates are
// dropped for it. Mutations are rare (login/logout), so lagging this far
// means the subscriber stopped draining; publishing never blocks on it.
const subscriberBuffer = 16

// Store is the single source of truth for "am I logged in". Single writer,
// multi reader: mutations come from the auth service only, subscribers
// observe them in order, one at a time.
type Store struct {
	db  *badger.DB
	log *slog.Logger

	mu     sync.RWMutex
	user   *domain.User
	subs   map[int]chan *domain.User
	nextID int
}

// New loads the persisted session before returning, so subscribers can never
// observe a false logged-out state while the durable value is still on disk.
func New(db *badger.DB, log *slog.Logger) (*Store, error) {
	s := &Store{
		db:   db,
		log:  log,
		subs: make(map[int]chan *domain.User),
	}

	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(currentKey))
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var u domain.User
			if err := json.Unmarshal(val, &u); err != nil {
				return err
			}
			s.user = &u
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading persisted session: %w", err)
	}

	if s.user != nil {
		log.Info("restored persisted session", "username", s.user.Username)
	}
	return s, nil
}

// Current returns the last-known authenticated user, or nil when logged out.
func (s *Store) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

// Set persists the new user, then replaces the held identity and notifies
// subscribers. Persistence happens first so a crash between the two steps
// can never lose a session that observers already saw.
func (s *Store) Set(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(currentKey), data)
	})
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	s.publish(&user)
	return nil
}

// Clear removes the persisted session unconditionally and notifies
// subscribers with a nil user.
func (s *Store) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(currentKey))
	})
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.publish(nil)
	return nil
}

// Subscribe registers a new observer of the current user. The channel first
// delivers the present value (possibly nil), then one element per mutation,
// each an independent copy. A subscriber that stops draining loses updates
// once its buffer fills; it is never caught up and never blocks a mutation.
// The returned cancel func is safe to call more than once.
func (s *Store) Subscribe() (<-chan *domain.User, func()) {
	ch := make(chan *domain.User, subscriberBuffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- copyUser(s.user)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Store) publish(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	for id, sub := range s.subs {
		select {
		case sub <- copyUser(user):
		default:
			s.log.Warn("session subscriber lagging, dropping update", "subscriber", id)
		}
	}
}

// copyUser detaches the struct and its Chats backing array, so callers can
// never mutate store state through a returned or delivered pointer.
func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Chats = append([]string(nil), u.Chats...)
	return &c
}
