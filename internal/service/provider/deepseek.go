package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
)

// TextConfig 文本对话适配器的模型与采样参数。
type TextConfig struct {
	BaseURL     string
	Region      string
	Model       string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Timeout     time.Duration
}

// DeepSeekAdapter drives the DeepSeek chat models through the Ark
// OpenAI-compatible endpoint. The underlying chat model is rebuilt whenever
// the active credential changes, since user-supplied keys arrive at runtime.
type DeepSeekAdapter struct {
	creds *credential.Store
	cfg   TextConfig

	mu       sync.Mutex
	secret   string
	model    model.ChatModel
	newModel func(ctx context.Context, secret string) (model.ChatModel, error)
}

// NewDeepSeek creates the text-chat adapter.
func NewDeepSeek(creds *credential.Store, cfg TextConfig) *DeepSeekAdapter {
	a := &DeepSeekAdapter{creds: creds, cfg: cfg}
	a.newModel = a.buildModel
	return a
}

func (a *DeepSeekAdapter) Name() string { return credential.ProviderDeepSeek }

func (a *DeepSeekAdapter) HasCredential() bool {
	return a.creds.Has(credential.ProviderDeepSeek)
}

func (a *DeepSeekAdapter) Timeout() time.Duration { return a.cfg.Timeout }

// Send issues one completion request; the inner timeout is enforced here,
// independent of any caller-side budget.
func (a *DeepSeekAdapter) Send(ctx context.Context, in Input) (Output, error) {
	secret, _, ok := a.creds.Secret(credential.ProviderDeepSeek)
	if !ok {
		return Output{}, &Error{Class: Unauthorized, Provider: a.Name(), Err: fmt.Errorf("no credential configured")}
	}

	cm, err := a.chatModel(ctx, secret)
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	resp, err := cm.Generate(ctx, a.buildMessages(in))
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: fmt.Errorf("empty completion")}
	}

	return Output{Content: resp.Content}, nil
}

// buildMessages translates the normalized input into the role-tagged list:
// one leading system message, the windowed history, then the query.
func (a *DeepSeekAdapter) buildMessages(in Input) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(in.History)+2)
	msgs = append(msgs, schema.SystemMessage(in.System))
	for _, m := range in.History {
		switch m.Role {
		case chat.RoleUser:
			msgs = append(msgs, schema.UserMessage(m.Content))
		case chat.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		}
	}
	return append(msgs, schema.UserMessage(in.Query))
}

func (a *DeepSeekAdapter) chatModel(ctx context.Context, secret string) (model.ChatModel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model != nil && a.secret == secret {
		return a.model, nil
	}

	cm, err := a.newModel(ctx, secret)
	if err != nil {
		return nil, err
	}
	a.model, a.secret = cm, secret
	return cm, nil
}

func (a *DeepSeekAdapter) buildModel(ctx context.Context, secret string) (model.ChatModel, error) {
	var temperature *float32
	if a.cfg.Temperature != nil {
		v := float32(*a.cfg.Temperature)
		temperature = &v
	}
	var topP *float32
	if a.cfg.TopP != nil {
		v := float32(*a.cfg.TopP)
		topP = &v
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     a.cfg.BaseURL,
		Region:      a.cfg.Region,
		APIKey:      secret,
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
}
