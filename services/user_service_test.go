package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"discorde/domain"
	"discorde/errors"
	"discorde/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func loggedIn(ctrl *gomock.Controller, username string) *mocks.MockISessionStore {
	store := mocks.NewMockISessionStore(ctrl)
	store.EXPECT().Current().Return(&domain.User{Username: username}).AnyTimes()
	return store
}

func loggedOut(ctrl *gomock.Controller) *mocks.MockISessionStore {
	store := mocks.NewMockISessionStore(ctrl)
	store.EXPECT().Current().Return(nil).AnyTimes()
	return store
}

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should fail fast without issuing a request when logged out", func(t *testing.T) {
		req := require.New(t)
		var requests atomic.Int64
		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		svc := NewUserService(api, loggedOut(ctrl), slog.Default())

		_, err := svc.List(context.Background())
		req.ErrorIs(err, errors.ErrNotAuthenticated)
		req.Zero(requests.Load())
	})

	t.Run("should send the username as bearer and replace the snapshot", func(t *testing.T) {
		req := require.New(t)
		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal("Bearer alice", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode([]domain.User{
				{Username: "alice"},
				{Username: "bob"},
			})
		}))
		svc := NewUserService(api, loggedIn(ctrl, "alice"), slog.Default())

		users, err := svc.List(context.Background())
		req.NoError(err)
		req.Len(users, 2)
		req.Equal(users, svc.Snapshot())
	})
}

func TestUserService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should fetch a single user by id", func(t *testing.T) {
		req := require.New(t)
		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal("/users/bob", r.URL.Path)
			_ = json.NewEncoder(w).Encode(domain.User{Username: "bob"})
		}))
		svc := NewUserService(api, loggedIn(ctrl, "alice"), slog.Default())

		user, err := svc.Get(context.Background(), "bob")
		req.NoError(err)
		req.Equal("bob", user.Username)
	})

	t.Run("should map a missing user to ErrNotFound", func(t *testing.T) {
		req := require.New(t)
		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		svc := NewUserService(api, loggedIn(ctrl, "alice"), slog.Default())

		_, err := svc.Get(context.Background(), "ghost")
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should fail fast when logged out", func(t *testing.T) {
		req := require.New(t)
		var requests atomic.Int64
		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		svc := NewUserService(api, loggedOut(ctrl), slog.Default())

		_, err := svc.Get(context.Background(), "bob")
		req.ErrorIs(err, errors.ErrNotAuthenticated)
		req.Zero(requests.Load())
	})
}
