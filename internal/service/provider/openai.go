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

const openAIBaseURL = "https://api.openai.com/v1"

// VisionConfig 视觉适配器的公共参数。
type VisionConfig struct {
	Model   string
	Timeout time.Duration
}

// OpenAIVision performs image understanding through the OpenAI
// chat-completions endpoint with an inlined data-URL image part.
type OpenAIVision struct {
	creds   *credential.Store
	cfg     VisionConfig
	baseURL string
	client  *http.Client
}

// NewOpenAIVision creates the OpenAI member of the vision family.
func NewOpenAIVision(creds *credential.Store, cfg VisionConfig) *OpenAIVision {
	return &OpenAIVision{creds: creds, cfg: cfg, baseURL: openAIBaseURL, client: &http.Client{}}
}

func (a *OpenAIVision) Name() string { return credential.ProviderOpenAI }

func (a *OpenAIVision) HasCredential() bool {
	return a.creds.Has(credential.ProviderOpenAI)
}

func (a *OpenAIVision) Timeout() time.Duration { return a.cfg.Timeout }

type openAIContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *OpenAIVision) Analyze(ctx context.Context, in Input) (Output, error) {
	secret, _, ok := a.creds.Secret(credential.ProviderOpenAI)
	if !ok {
		return Output{}, &Error{Class: Unauthorized, Provider: a.Name(), Err: fmt.Errorf("no credential configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	mime := in.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	imagePart := openAIContentPart{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: fmt.Sprintf("data:%s;base64,%s", mime, in.ImageBase64)}

	reqBody := openAIChatRequest{
		Model: a.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: in.System},
			{Role: "user", Content: []openAIContentPart{
				{Type: "text", Text: in.Query},
				imagePart,
			}},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Output{}, &Error{Class: Unknown, Provider: a.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Output{}, &Error{Class: Unknown, Provider: a.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+secret)

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
		var parsed openAIChatResponse
		detail := string(body)
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			detail = parsed.Error.Message
		}
		return Output{}, classifyStatus(a.Name(), resp.StatusCode, detail)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return Output{}, &Error{Class: MalformedResponse, Provider: a.Name(), Err: fmt.Errorf("no completion choices")}
	}

	content := parsed.Choices[0].Message.Content
	analysis := ParseAnalysis(content)
	return Output{Content: content, Analysis: &analysis}, nil
}
