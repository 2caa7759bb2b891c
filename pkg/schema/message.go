package schema

import "time"

// Message is a direct message between two users.
type Message struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	ReceiverID  string       `json:"receiver_id"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	IsRead      bool         `json:"is_read"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (m Message) RecordID() string { return m.ID }

// Attachment references a file shared in a message.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Conversation summarizes the exchange with one other user.
type Conversation struct {
	OtherUserID string  `json:"other_user_id"`
	LastMessage Message `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}
