// Package observability tracks in-process client counters.
package observability

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of the client counters, shaped for the
// CLI status line.
type Stats struct {
	MessagesSent     uint64        `json:"messages_sent"`
	MessagesReceived uint64        `json:"messages_received"`
	ChannelErrors    uint64        `json:"channel_errors"`
	ChatPolls        uint64        `json:"chat_polls"`
	RESTFailures     uint64        `json:"rest_failures"`
	Uptime           time.Duration `json:"uptime"`
}

// Monitor aggregates counters updated from the transport and service layers.
// All increments are atomic; there is no background goroutine to manage.
type Monitor struct {
	messagesSent     uint64
	messagesReceived uint64
	channelErrors    uint64
	chatPolls        uint64
	restFailures     uint64
	started          time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{started: time.Now()}
}

func (m *Monitor) IncrMessagesSent() {
	atomic.AddUint64(&m.messagesSent, 1)
}

func (m *Monitor) IncrMessagesReceived() {
	atomic.AddUint64(&m.messagesReceived, 1)
}

func (m *Monitor) IncrChannelErrors() {
	atomic.AddUint64(&m.channelErrors, 1)
}

func (m *Monitor) IncrChatPolls() {
	atomic.AddUint64(&m.chatPolls, 1)
}

func (m *Monitor) IncrRESTFailures() {
	atomic.AddUint64(&m.restFailures, 1)
}

func (m *Monitor) Snapshot() Stats {
	return Stats{
		MessagesSent:     atomic.LoadUint64(&m.messagesSent),
		MessagesReceived: atomic.LoadUint64(&m.messagesReceived),
		ChannelErrors:    atomic.LoadUint64(&m.channelErrors),
		ChatPolls:        atomic.LoadUint64(&m.chatPolls),
		RESTFailures:     atomic.LoadUint64(&m.restFailures),
		Uptime:           time.Since(m.started),
	}
}
