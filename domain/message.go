package domain

import "time"

// Message represents an immutable chat event. Append-only within a chat;
// no edit or delete is modeled.
type Message struct {
	Timestamp time.Time
	Author    string
	Body      string
}

// WireMessage is the JSON shape shared by the history endpoint and the live
// channel. Timestamps travel as epoch milliseconds.
type WireMessage struct {
	Timestamp int64  `json:"timestamp"`
	Author    string `json:"author"`
	Message   string `json:"message"`
}

// Envelope pairs a sender identity with a message payload. The same shape is
// used in both directions on the live channel.
type Envelope struct {
	From    string      `json:"from"`
	Message WireMessage `json:"message"`
}

func (w WireMessage) ToMessage() Message {
	return Message{
		Timestamp: time.UnixMilli(w.Timestamp).UTC(),
		Author:    w.Author,
		Body:      w.Message,
	}
}

func FromMessage(m Message) WireMessage {
	return WireMessage{
		Timestamp: m.Timestamp.UnixMilli(),
		Author:    m.Author,
		Message:   m.Body,
	}
}

func NewEnvelope(from string, m Message) Envelope {
	return Envelope{From: from, Message: FromMessage(m)}
}
