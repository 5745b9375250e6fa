package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/conversation"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/fallback"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/orchestrator"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/provider"
)

type stubText struct {
	cred  bool
	reply string
}

func (s *stubText) Name() string           { return "stub" }
func (s *stubText) HasCredential() bool    { return s.cred }
func (s *stubText) Timeout() time.Duration { return 100 * time.Millisecond }

func (s *stubText) Send(ctx context.Context, in provider.Input) (provider.Output, error) {
	return provider.Output{Content: s.reply}, nil
}

type stubVision struct{}

func (s *stubVision) Name() string           { return "stub-vision" }
func (s *stubVision) HasCredential() bool    { return false }
func (s *stubVision) Timeout() time.Duration { return 100 * time.Millisecond }

func (s *stubVision) Analyze(ctx context.Context, in provider.Input) (provider.Output, error) {
	return provider.Output{}, nil
}

func newTestRouter(t *testing.T, text provider.TextAdapter) (chi.Router, *orchestrator.Orchestrator) {
	t.Helper()
	cfg := orchestrator.Config{TextBudget: 5 * time.Second, VisionBudget: 5 * time.Second}
	orch, err := orchestrator.New(cfg, conversation.NewStore(), knowledge.SeedCatalog(),
		text, provider.NewVisionFamily(&stubVision{}), fallback.New(1))
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	t.Cleanup(orch.Close)

	r := chi.NewRouter()
	New(orch).RegisterRoutes(r)
	return r, orch
}

func waitForTurns(t *testing.T, orch *orchestrator.Orchestrator, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(orch.Store().Turns()) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d turns", n)
}

func TestSendMessageQueuesAndReplies(t *testing.T) {
	r, orch := newTestRouter(t, &stubText{cred: true, reply: "集合是确定对象的整体。"})

	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"content":"什么是集合？"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp struct {
		Status string         `json:"status"`
		Turn   chatModel.Turn `json:"turn"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "queued" {
		t.Fatalf("status = %q, want queued", resp.Status)
	}
	if resp.Turn.ID == "" || resp.Turn.Role != chatModel.RoleUser {
		t.Fatalf("turn = %+v", resp.Turn)
	}

	waitForTurns(t, orch, 2)
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	r, _ := newTestRouter(t, &stubText{cred: true})

	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"content":"  "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSendMessageRejectsUnknownAttachmentKind(t *testing.T) {
	r, _ := newTestRouter(t, &stubText{cred: true})

	body := `{"content":"看图","attachments":[{"kind":"audio","mime":"audio/mp3","data":"AAAA"}]}`
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetConversationReflectsState(t *testing.T) {
	r, orch := newTestRouter(t, &stubText{cred: true, reply: "回答"})

	orch.Store().Append(chatModel.Turn{Role: chatModel.RoleUser, Content: "问题"})

	req := httptest.NewRequest(http.MethodGet, "/conversation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Turns      []chatModel.Turn   `json:"turns"`
		Session    *chatModel.Session `json:"session"`
		Processing bool               `json:"processing"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Turns) != 1 || resp.Session == nil {
		t.Fatalf("conversation = %+v", resp)
	}
}

func TestClearConversation(t *testing.T) {
	r, orch := newTestRouter(t, &stubText{cred: true})
	orch.Store().Append(chatModel.Turn{Role: chatModel.RoleUser, Content: "问题"})

	req := httptest.NewRequest(http.MethodDelete, "/conversation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(orch.Store().Turns()) != 0 {
		t.Fatal("turns should be empty after clear")
	}
}

func TestSelectPoint(t *testing.T) {
	r, orch := newTestRouter(t, &stubText{cred: true})

	req := httptest.NewRequest(http.MethodPut, "/selection", strings.NewReader(`{"pointId":"set-basic-concept"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if orch.CurrentPoint() != "set-basic-concept" {
		t.Fatalf("current point = %q", orch.CurrentPoint())
	}

	req = httptest.NewRequest(http.MethodPut, "/selection", strings.NewReader(`{"pointId":"missing"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCapabilitiesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubText{cred: false})

	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var caps orchestrator.Capabilities
	if err := json.NewDecoder(rec.Body).Decode(&caps); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if caps.TextMode != orchestrator.TextModeDemo || caps.Vision {
		t.Fatalf("caps = %+v", caps)
	}
}
