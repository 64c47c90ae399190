//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_store.go -package=mocks
package services

import "discorde/domain"

// ISessionStore is the slice of session.Store the services depend on.
// Authenticated operations read Current synchronously at call time.
type ISessionStore interface {
	Current() *domain.User
	Set(user domain.User) error
	Clear() error
}
