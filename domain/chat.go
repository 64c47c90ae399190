package domain

// Chat is one conversation as listed by the directory endpoint.
type Chat struct {
	ID      string   `json:"id"`
	Private bool     `json:"private"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// ChatInput is the creation payload sent to the backend. Validation tags are
// enforced by the chat service before any network call.
type ChatInput struct {
	Private bool     `json:"private"`
	Name    string   `json:"name" validate:"required"`
	Members []string `json:"members" validate:"required,min=2,dive,required"`
}
