package models

import "time"

// Chat roles. The bot role is what the decision service's replies are shown as.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message represents one turn of the chat transcript. Content is markdown.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
