package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server      ServerConfig
	Text        TextConfig
	Vision      VisionConfig
	Pipeline    PipelineConfig
	Credentials CredentialConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	text, err := loadTextConfig()
	if err != nil {
		return nil, err
	}

	vision, err := loadVisionConfig()
	if err != nil {
		return nil, err
	}

	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}

	if pipeline.TextBudget <= text.Timeout {
		return nil, fmt.Errorf("AI_TEXT_BUDGET (%v) must exceed AI_TEXT_TIMEOUT (%v)", pipeline.TextBudget, text.Timeout)
	}
	if pipeline.VisionBudget <= vision.Timeout {
		return nil, fmt.Errorf("AI_VISION_BUDGET (%v) must exceed AI_VISION_TIMEOUT (%v)", pipeline.VisionBudget, vision.Timeout)
	}

	return &Config{
		Server:      server,
		Text:        text,
		Vision:      vision,
		Pipeline:    pipeline,
		Credentials: loadCredentialConfig(),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// TextConfig 描述文本对话模型的参数。
type TextConfig struct {
	BaseURL     string
	Region      string
	Model       string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Timeout     time.Duration
}

func loadTextConfig() (TextConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEXT_TEMPERATURE")
	if err != nil {
		return TextConfig{}, err
	}
	if temperature == nil {
		v := 0.7
		temperature = &v
	}

	topP, err := parseOptionalFloatEnv("AI_TEXT_TOP_P")
	if err != nil {
		return TextConfig{}, err
	}
	if topP == nil {
		v := 0.9
		topP = &v
	}

	maxTokens, err := parseOptionalIntEnv("AI_TEXT_MAX_TOKENS")
	if err != nil {
		return TextConfig{}, err
	}
	if maxTokens == nil {
		v := 2048
		maxTokens = &v
	}

	timeout, err := parseDurationEnv("AI_TEXT_TIMEOUT", 30*time.Second)
	if err != nil {
		return TextConfig{}, err
	}

	return TextConfig{
		BaseURL:     getEnvOrDefault("AI_TEXT_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("AI_TEXT_REGION", "cn-beijing"),
		Model:       getEnvOrDefault("AI_TEXT_MODEL", "deepseek-v3-250324"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
		Timeout:     timeout,
	}, nil
}

// VisionConfig 描述图像理解家族各成员的模型与公共超时。
type VisionConfig struct {
	OpenAIModel string
	GeminiModel string
	ClaudeModel string
	Timeout     time.Duration
}

func loadVisionConfig() (VisionConfig, error) {
	timeout, err := parseDurationEnv("AI_VISION_TIMEOUT", 60*time.Second)
	if err != nil {
		return VisionConfig{}, err
	}

	return VisionConfig{
		OpenAIModel: getEnvOrDefault("AI_VISION_OPENAI_MODEL", "gpt-4o"),
		GeminiModel: getEnvOrDefault("AI_VISION_GEMINI_MODEL", "gemini-1.5-flash"),
		ClaudeModel: getEnvOrDefault("AI_VISION_CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		Timeout:     timeout,
	}, nil
}

// PipelineConfig 描述编排层的预算与历史窗口。
type PipelineConfig struct {
	TextBudget   time.Duration
	VisionBudget time.Duration
	HistoryLimit int
	Debug        bool
}

func loadPipelineConfig() (PipelineConfig, error) {
	textBudget, err := parseDurationEnv("AI_TEXT_BUDGET", 45*time.Second)
	if err != nil {
		return PipelineConfig{}, err
	}

	visionBudget, err := parseDurationEnv("AI_VISION_BUDGET", 90*time.Second)
	if err != nil {
		return PipelineConfig{}, err
	}

	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return PipelineConfig{}, err
	}

	historyLimit := 10
	if override, err := parseOptionalIntEnv("AI_HISTORY_LIMIT"); err != nil {
		return PipelineConfig{}, err
	} else if override != nil {
		if *override < 1 {
			historyLimit = 1
		} else {
			historyLimit = *override
		}
	}

	return PipelineConfig{
		TextBudget:   textBudget,
		VisionBudget: visionBudget,
		HistoryLimit: historyLimit,
		Debug:        debug,
	}, nil
}

// CredentialConfig 描述密钥存储位置。
type CredentialConfig struct {
	DBPath string
}

func loadCredentialConfig() CredentialConfig {
	return CredentialConfig{
		DBPath: getEnvOrDefault("CREDENTIAL_DB_PATH", "data/credentials.db"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv 接受 Go 时长字面量（如 "45s"）或裸秒数。
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
