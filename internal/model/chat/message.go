package chat

import "time"

// Originator identifies who authored a message.
type Originator string

const (
	User      Originator = "user"
	Assistant Originator = "assistant"
)

// Message is a single immutable entry in a conversation log.
type Message struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Originator Originator `json:"originator"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Originator == User
}

// ConnectionState is the front-end's last known view of the backend.
type ConnectionState string

const (
	Checking     ConnectionState = "checking"
	Connected    ConnectionState = "connected"
	Disconnected ConnectionState = "disconnected"
)

// Label returns the human readable status shown next to the indicator.
func (s ConnectionState) Label() string {
	switch s {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Checking..."
	}
}
