package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
)

// GeminiVision performs image understanding through the Google GenAI SDK.
// Like the text adapter, the client is rebuilt on credential change.
type GeminiVision struct {
	creds *credential.Store
	cfg   VisionConfig

	mu        sync.Mutex
	secret    string
	client    *genai.Client
	newClient func(ctx context.Context, secret string) (*genai.Client, error)
}

// NewGeminiVision creates the Gemini member of the vision family.
func NewGeminiVision(creds *credential.Store, cfg VisionConfig) *GeminiVision {
	a := &GeminiVision{creds: creds, cfg: cfg}
	a.newClient = func(ctx context.Context, secret string) (*genai.Client, error) {
		return genai.NewClient(ctx, &genai.ClientConfig{APIKey: secret})
	}
	return a
}

func (a *GeminiVision) Name() string { return credential.ProviderGemini }

func (a *GeminiVision) HasCredential() bool {
	return a.creds.Has(credential.ProviderGemini)
}

func (a *GeminiVision) Timeout() time.Duration { return a.cfg.Timeout }

func (a *GeminiVision) Analyze(ctx context.Context, in Input) (Output, error) {
	secret, _, ok := a.creds.Secret(credential.ProviderGemini)
	if !ok {
		return Output{}, &Error{Class: Unauthorized, Provider: a.Name(), Err: fmt.Errorf("no credential configured")}
	}

	client, err := a.geminiClient(ctx, secret)
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	raw, err := base64.StdEncoding.DecodeString(in.ImageBase64)
	if err != nil {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: fmt.Errorf("decode image payload: %w", err)}
	}
	mime := in.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}

	// Gemini 没有独立的 system 角色，说明与问题合并为单条用户内容。
	parts := []*genai.Part{
		genai.NewPartFromText(in.System + "\n\n" + in.Query),
		genai.NewPartFromBytes(raw, mime),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, a.cfg.Model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 1000,
	})
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: fmt.Errorf("empty candidate text")}
	}

	analysis := ParseAnalysis(content)
	return Output{Content: content, Analysis: &analysis}, nil
}

func (a *GeminiVision) geminiClient(ctx context.Context, secret string) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil && a.secret == secret {
		return a.client, nil
	}

	client, err := a.newClient(ctx, secret)
	if err != nil {
		return nil, err
	}
	a.client, a.secret = client, secret
	return client, nil
}
