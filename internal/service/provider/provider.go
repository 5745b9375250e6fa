package provider

import (
	"context"
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

// Message 归一化的一条对话消息，脱离任何具体 provider 的请求格式。
type Message struct {
	Role    chat.Role
	Content string
}

// Input is the normalized request handed to an adapter. The adapter owns
// the translation into its provider's wire shape.
type Input struct {
	System  string
	History []Message
	Query   string

	// 仅视觉请求使用。
	ImageBase64 string
	ImageMIME   string
}

// Analysis 视觉理解的结构化结果，在展平为文本之余保留给需要它的调用方。
type Analysis struct {
	Description string               `json:"description"`
	Formulas    []string             `json:"formulas,omitempty"`
	Subjects    []string             `json:"subjects,omitempty"`
	Difficulty  knowledge.Difficulty `json:"difficulty,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// Output is the normalized adapter response.
type Output struct {
	Content  string
	Analysis *Analysis
}

// TextAdapter 文本对话能力的统一契约。Send 自行施加内部超时，并保证
// 返回的错误已完成分类。
type TextAdapter interface {
	Name() string
	HasCredential() bool
	Timeout() time.Duration
	Send(ctx context.Context, in Input) (Output, error)
}

// VisionAdapter 图像理解能力家族的统一契约。
type VisionAdapter interface {
	Name() string
	HasCredential() bool
	Timeout() time.Duration
	Analyze(ctx context.Context, in Input) (Output, error)
}

// HistoryLimit 是外发请求携带的最近轮次上限；更早的轮次被静默丢弃。
const HistoryLimit = 10

// WindowHistory keeps the most recent limit user/assistant turns, oldest
// first. System and failure bookkeeping roles never leave the process.
func WindowHistory(turns []chat.Turn, limit int) []Message {
	if limit <= 0 {
		limit = HistoryLimit
	}

	filtered := make([]Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case chat.RoleUser, chat.RoleAssistant:
			filtered = append(filtered, Message{Role: t.Role, Content: t.Content})
		}
	}

	if len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered
}
