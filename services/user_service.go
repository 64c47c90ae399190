package services

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"discorde/domain"
	"discorde/errors"
	"discorde/infrastructure/rest"
)

type IUserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	Snapshot() []domain.User
}

// UserService is the user directory client. It keeps the last successfully
// fetched list as a snapshot; consumers never see a partial update.
type UserService struct {
	api     *rest.Client
	session ISessionStore
	log     *slog.Logger

	mu       sync.RWMutex
	snapshot []domain.User
}

func NewUserService(api *rest.Client, session ISessionStore, log *slog.Logger) *UserService {
	return &UserService{api: api, session: session, log: log}
}

// List fetches all users and replaces the snapshot. Fails fast with
// ErrNotAuthenticated before any network I/O when no session is active.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	me := s.session.Current()
	if me == nil {
		return nil, errors.ErrNotAuthenticated
	}

	var users []domain.User
	if err := s.api.Get(ctx, "/users", me.Username, &users); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = users
	s.mu.Unlock()
	return users, nil
}

// Get fetches a single user by id. A missing user maps to ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	me := s.session.Current()
	if me == nil {
		return domain.User{}, errors.ErrNotAuthenticated
	}

	var user domain.User
	if err := s.api.Get(ctx, "/users/"+url.PathEscape(id), me.Username, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Snapshot returns a copy of the last successful List result.
func (s *UserService) Snapshot() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
