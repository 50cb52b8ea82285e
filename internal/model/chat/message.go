package chat

import "time"

// Message is a single entry in a chat transcript.
//
// IsRead is carried for clients that display it; nothing in this service flips it.
type Message struct {
	ID        string    `json:"id" validate:"required"`
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
}

func sameMessage(a, b Message) bool {
	return a.ID == b.ID &&
		a.SenderID == b.SenderID &&
		a.Content == b.Content &&
		a.IsRead == b.IsRead &&
		a.Timestamp.Equal(b.Timestamp)
}
