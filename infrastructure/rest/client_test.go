package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"discorde/errors"
	"discorde/observability"

	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) (*Client, *observability.Monitor) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	monitor := observability.NewMonitor()
	return New(server.URL, 5*time.Second, monitor, slog.Default()), monitor
}

func TestClient_Get(t *testing.T) {
	t.Run("should carry the bearer credential and decode the body", func(t *testing.T) {
		req := require.New(t)
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal("Bearer alice", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"value":42}`))
		}))

		var out struct {
			Value int `json:"value"`
		}
		req.NoError(client.Get(context.Background(), "/anything", "alice", &out))
		req.Equal(42, out.Value)
	})

	t.Run("should wrap backend text into the error", func(t *testing.T) {
		req := require.New(t)
		client, monitor := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "chat is on fire", http.StatusInternalServerError)
		}))

		err := client.Get(context.Background(), "/anything", "alice", nil)
		req.ErrorIs(err, errors.ErrBackend)
		req.Contains(err.Error(), "chat is on fire")
		req.Equal(uint64(1), monitor.Snapshot().RESTFailures)
	})

	t.Run("should map 404 to ErrNotFound", func(t *testing.T) {
		req := require.New(t)
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		err := client.Get(context.Background(), "/users/ghost", "alice", nil)
		req.ErrorIs(err, errors.ErrNotFound)
	})
}

func TestClient_Post(t *testing.T) {
	t.Run("should return the status without converting rejections to errors", func(t *testing.T) {
		req := require.New(t)
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal("application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusConflict)
		}))

		status, err := client.Post(context.Background(), "/users", "", map[string]string{"username": "alice"}, nil)
		req.NoError(err)
		req.Equal(http.StatusConflict, status)
	})

	t.Run("should omit the Authorization header when no bearer is given", func(t *testing.T) {
		req := require.New(t)
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Empty(r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
		}))

		_, err := client.Post(context.Background(), "/login", "", map[string]string{}, nil)
		req.NoError(err)
	})
}
