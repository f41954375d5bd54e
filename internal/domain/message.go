package domain

import "time"

// MessageType distinguishes direct notices from broadcasts.
type MessageType string

const (
	MessageTypeDirect    MessageType = "individual"
	MessageTypeBroadcast MessageType = "broadcast"
)

// Message is an office notice to one user or to everyone.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string // empty for broadcasts
	Type        MessageType
	Body        string
	Read        bool
	CreatedAt   time.Time
}
