package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nightsky-edu/astrolearn/backend/internal/config"
	"github.com/nightsky-edu/astrolearn/backend/internal/handler"
	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/conversation"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/fallback"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/orchestrator"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	creds, err := credential.Open(cfg.Credentials.DBPath)
	if err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}
	defer creds.Close()

	catalog := knowledge.SeedCatalog()
	store := conversation.NewStore()

	text := provider.NewDeepSeek(creds, provider.TextConfig{
		BaseURL:     cfg.Text.BaseURL,
		Region:      cfg.Text.Region,
		Model:       cfg.Text.Model,
		Temperature: cfg.Text.Temperature,
		TopP:        cfg.Text.TopP,
		MaxTokens:   cfg.Text.MaxTokens,
		Timeout:     cfg.Text.Timeout,
	})

	// 家族成员按优先级排列，第一个配置了密钥的成员处理全部视觉请求。
	vision := provider.NewVisionFamily(
		provider.NewOpenAIVision(creds, provider.VisionConfig{Model: cfg.Vision.OpenAIModel, Timeout: cfg.Vision.Timeout}),
		provider.NewGeminiVision(creds, provider.VisionConfig{Model: cfg.Vision.GeminiModel, Timeout: cfg.Vision.Timeout}),
		provider.NewClaudeVision(creds, provider.VisionConfig{Model: cfg.Vision.ClaudeModel, Timeout: cfg.Vision.Timeout}),
	)

	orch, err := orchestrator.New(orchestrator.Config{
		TextBudget:   cfg.Pipeline.TextBudget,
		VisionBudget: cfg.Pipeline.VisionBudget,
		HistoryLimit: cfg.Pipeline.HistoryLimit,
		Debug:        cfg.Pipeline.Debug,
	}, store, catalog, text, vision, fallback.New(time.Now().UnixNano()))
	if err != nil {
		log.Fatalf("failed to initialize orchestrator: %v", err)
	}
	defer orch.Close()

	if text.HasCredential() {
		log.Println("text provider credential detected, live AI replies enabled")
	} else {
		log.Println("DeepSeek 凭证未配置，文本对话进入演示模式")
	}
	if vision.Available() {
		log.Println("vision provider credential detected, image analysis enabled")
	} else {
		log.Println("视觉服务凭证未配置，图片分析暂不可用")
	}

	router := handler.NewRouter(orch, catalog, creds)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("AstroLearn backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
