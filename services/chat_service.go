package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"discorde/domain"
	"discorde/errors"
	"discorde/infrastructure/rest"
	"discorde/observability"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type IChatService interface {
	Create(ctx context.Context, input domain.ChatInput) (bool, error)
	List(ctx context.Context) ([]domain.Chat, error)
	Poll(ctx context.Context)
	Snapshot() []domain.Chat
	Updates() <-chan struct{}
}

// ChatService is the chat directory client. The directory is kept fresh by a
// deliberate fixed-interval poll, not push; the staleness window between two
// polls is a known property of the design.
type ChatService struct {
	api      *rest.Client
	session  ISessionStore
	interval time.Duration
	monitor  *observability.Monitor
	log      *slog.Logger

	mu       sync.RWMutex
	snapshot []domain.Chat
	updates  chan struct{}
}

func NewChatService(api *rest.Client, session ISessionStore, interval time.Duration,
	monitor *observability.Monitor, log *slog.Logger) *ChatService {
	return &ChatService{
		api:      api,
		session:  session,
		interval: interval,
		monitor:  monitor,
		log:      log,
		updates:  make(chan struct{}, 1),
	}
}

// Create validates the chat descriptor and posts it, returning backend
// acceptance. The member invariant (at least 2 unique usernames) is checked
// before any network call.
func (s *ChatService) Create(ctx context.Context, input domain.ChatInput) (bool, error) {
	me := s.session.Current()
	if me == nil {
		return false, errors.ErrNotAuthenticated
	}
	if err := validate.Struct(input); err != nil {
		return false, fmt.Errorf("%w: %v", errors.ErrInvalidChat, err)
	}
	members := lo.Uniq(input.Members)
	if len(members) < 2 {
		return false, errors.ErrTooFewMembers
	}
	input.Members = members

	status, err := s.api.Post(ctx, "/chats", me.Username, input, nil)
	if err != nil {
		return false, err
	}
	return status/100 == 2, nil
}

// List fetches the user's chats and replaces the snapshot wholesale.
func (s *ChatService) List(ctx context.Context) ([]domain.Chat, error) {
	me := s.session.Current()
	if me == nil {
		return nil, errors.ErrNotAuthenticated
	}

	var chats []domain.Chat
	if err := s.api.Get(ctx, "/chats", me.Username, &chats); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = chats
	s.mu.Unlock()

	// Coalescing notification: a slow consumer sees at most one pending tick.
	select {
	case s.updates <- struct{}{}:
	default:
	}
	return chats, nil
}

// Poll re-invokes List on the configured interval until ctx is cancelled.
// Unauthenticated ticks are skipped silently; other failures are logged and
// the previous snapshot stays in place.
func (s *ChatService) Poll(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.monitor.IncrChatPolls()
			if _, err := s.List(ctx); err != nil {
				if goerrors.Is(err, errors.ErrNotAuthenticated) {
					continue
				}
				s.log.Warn("chat poll failed", "err", err)
			}
		}
	}
}

// Snapshot returns a copy of the last successful List result.
func (s *ChatService) Snapshot() []domain.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chat, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Updates signals that the snapshot changed since the last receive.
func (s *ChatService) Updates() <-chan struct{} {
	return s.updates
}
