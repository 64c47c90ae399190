// Package domain contains core concepts of the Discorde client.
// This file defines the User identity as exposed by the backend.
// No runtime, network, or UI logic should be added here.
package domain

// User is the backend's public view of an account. Instances are immutable
// once fetched and replaced wholesale on re-fetch.
type User struct {
	Username string   `json:"username"`
	Chats    []string `json:"chats,omitempty"`
}
