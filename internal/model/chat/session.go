package chat

import "time"

// Status 会话状态，由调用方驱动迁移。
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Session captures one open tutoring conversation.
type Session struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Status         Status    `json:"status"`
	StartedAt      time.Time `json:"startedAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}
