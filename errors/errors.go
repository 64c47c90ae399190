package errors

import "fmt"

var (
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotFound           = fmt.Errorf("not found")
	ErrBackend            = fmt.Errorf("backend error")
	ErrChannelClosed      = fmt.Errorf("live channel closed")
	ErrTooFewMembers      = fmt.Errorf("a chat needs at least 2 unique members")
	ErrInvalidChat        = fmt.Errorf("invalid chat descriptor")
)
