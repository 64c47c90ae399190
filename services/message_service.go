package services

import (
	"context"
	"log/slog"
	"net/url"

	"discorde/domain"
	"discorde/errors"
	"discorde/infrastructure/rest"
	"discorde/infrastructure/ws"
	"discorde/observability"
)

type IMessageService interface {
	History(ctx context.Context, chatID string) ([]domain.Message, error)
	OpenLive(ctx context.Context, chatID string) (*ws.Channel, error)
}

// MessageService fetches a chat's past messages and opens live channels for
// new ones.
type MessageService struct {
	api     *rest.Client
	session ISessionStore
	wsBase  string
	monitor *observability.Monitor
	log     *slog.Logger
}

func NewMessageService(api *rest.Client, session ISessionStore, wsBase string,
	monitor *observability.Monitor, log *slog.Logger) *MessageService {
	return &MessageService{
		api:     api,
		session: session,
		wsBase:  wsBase,
		monitor: monitor,
		log:     log,
	}
}

// History is a one-shot fetch of all prior messages for a chat. The backend
// keeps messages ordered by timestamp and serializes them in order, so the
// delivered order is kept without re-sorting.
func (s *MessageService) History(ctx context.Context, chatID string) ([]domain.Message, error) {
	me := s.session.Current()
	if me == nil {
		return nil, errors.ErrNotAuthenticated
	}

	var wire []domain.WireMessage
	if err := s.api.Get(ctx, "/chats/"+url.PathEscape(chatID)+"/messages", me.Username, &wire); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, len(wire))
	for i, w := range wire {
		messages[i] = w.ToMessage()
	}
	return messages, nil
}

// OpenLive fails fast when unauthenticated, then dials the duplex channel
// scoped to chatID. The caller owns the returned channel and must Close it
// when the chat view is torn down.
func (s *MessageService) OpenLive(ctx context.Context, chatID string) (*ws.Channel, error) {
	me := s.session.Current()
	if me == nil {
		return nil, errors.ErrNotAuthenticated
	}
	return ws.Dial(ctx, s.wsBase+"/chats/"+url.PathEscape(chatID), me.Username, s.monitor, s.log)
}
