package services

import (
	"context"
	"log/slog"
	"net/http"

	"discorde/domain"
	"discorde/errors"
	"discorde/infrastructure/rest"
)

type IAuthService interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, username, password string) error
	Logout() error
}

type AuthService struct {
	api     *rest.Client
	session ISessionStore
	log     *slog.Logger
}

func NewAuthService(api *rest.Client, session ISessionStore, log *slog.Logger) *AuthService {
	return &AuthService{api: api, session: session, log: log}
}

// credentials is the registration/login payload. The backend performs all
// validation; none is duplicated client-side.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and reports whether the backend accepted it.
func (s *AuthService) Register(ctx context.Context, username, password string) (bool, error) {
	status, err := s.api.Post(ctx, "/users", "", credentials{Username: username, Password: password}, nil)
	if err != nil {
		return false, err
	}
	return status/100 == 2, nil
}

// Login exchanges credentials for the user identity. On rejection the held
// session is left untouched and ErrInvalidCredentials is returned for the
// caller to surface.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	var out struct {
		User domain.User `json:"user"`
	}
	status, err := s.api.Post(ctx, "/login", "", credentials{Username: username, Password: password}, &out)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		if status != http.StatusUnauthorized {
			s.log.Warn("login rejected", "status", status)
		}
		return errors.ErrInvalidCredentials
	}

	s.log.Info("logged in", "username", out.User.Username)
	return s.session.Set(out.User)
}

// Logout clears the held and persisted session unconditionally.
func (s *AuthService) Logout() error {
	s.log.Info("logged out")
	return s.session.Clear()
}
