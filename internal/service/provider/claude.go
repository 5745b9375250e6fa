package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
)

// ClaudeVision performs image understanding through the Anthropic
// messages endpoint with a base64 image source block.
type ClaudeVision struct {
	creds   *credential.Store
	cfg     VisionConfig
	baseURL string
	client  *http.Client
}

// NewClaudeVision creates the Claude member of the vision family.
func NewClaudeVision(creds *credential.Store, cfg VisionConfig) *ClaudeVision {
	return &ClaudeVision{creds: creds, cfg: cfg, baseURL: anthropicBaseURL, client: &http.Client{}}
}

func (a *ClaudeVision) Name() string { return credential.ProviderClaude }

func (a *ClaudeVision) HasCredential() bool {
	return a.creds.Has(credential.ProviderClaude)
}

func (a *ClaudeVision) Timeout() time.Duration { return a.cfg.Timeout }

type claudeImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeContentBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *claudeImageSource `json:"source,omitempty"`
}

type claudeMessage struct {
	Role    string               `json:"role"`
	Content []claudeContentBlock `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *ClaudeVision) Analyze(ctx context.Context, in Input) (Output, error) {
	secret, _, ok := a.creds.Secret(credential.ProviderClaude)
	if !ok {
		return Output{}, &Error{Class: Unauthorized, Provider: a.Name(), Err: fmt.Errorf("no credential configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	mime := in.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}

	reqBody := claudeRequest{
		Model:     a.cfg.Model,
		MaxTokens: 1000,
		System:    in.System,
		Messages: []claudeMessage{{
			Role: "user",
			Content: []claudeContentBlock{
				{Type: "text", Text: in.Query},
				{Type: "image", Source: &claudeImageSource{Type: "base64", MediaType: mime, Data: in.ImageBase64}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Output{}, &Error{Class: Unknown, Provider: a.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return Output{}, &Error{Class: Unknown, Provider: a.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", secret)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Output{}, classifyErr(a.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		var parsed claudeResponse
		detail := string(body)
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			detail = parsed.Error.Message
		}
		return Output{}, classifyStatus(a.Name(), resp.StatusCode, detail)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: err}
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: fmt.Errorf("empty content blocks")}
	}

	content := parsed.Content[0].Text
	analysis := ParseAnalysis(content)
	return Output{Content: content, Analysis: &analysis}, nil
}
