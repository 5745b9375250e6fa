package chat

import (
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

// Role 标识一条消息的发送方。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// AttachmentKind 标识附件类型。
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment carries user-supplied payloads alongside a turn. Images are
// inlined as base64 so they can be forwarded to vision providers as-is.
type Attachment struct {
	ID   string         `json:"id"`
	Kind AttachmentKind `json:"kind"`
	Name string         `json:"name,omitempty"`
	MIME string         `json:"mime,omitempty"`
	Data string         `json:"data,omitempty"`
}

// Turn is one message in a conversation. Immutable once appended;
// the store only ever adds to the end of the log.
type Turn struct {
	ID          string             `json:"id"`
	SessionID   string             `json:"sessionId"`
	Role        Role               `json:"role"`
	Content     string             `json:"content"`
	Context     *knowledge.Context `json:"knowledgeContext,omitempty"`
	Attachments []Attachment       `json:"attachments,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// HasImage reports whether the turn carries an image attachment.
func (t Turn) HasImage() bool {
	for _, a := range t.Attachments {
		if a.Kind == AttachmentImage {
			return true
		}
	}
	return false
}
