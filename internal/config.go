package internal

import "time"

// Config defines the client environment variables.
type Config struct {
	APIBaseURL    string        `env:"DISCORDE_API_URL,default=http://localhost:3000"`
	WSBaseURL     string        `env:"DISCORDE_WS_URL,default=ws://localhost:3000"`
	SessionDBPath string        `env:"SESSION_DB_PATH,default=.discorde/session"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT,default=10s"`

	// The chat directory is refreshed by deliberate polling, not push.
	ChatPollInterval time.Duration `env:"CHAT_POLL_INTERVAL,default=60s"`

	AgeRefreshInterval time.Duration `env:"AGE_REFRESH_INTERVAL,default=1s"`
	TypeRevealInterval time.Duration `env:"TYPE_REVEAL_INTERVAL,default=200ms"`

	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}
