package credentials

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	for _, key := range []string{"DEEPSEEK_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "CLAUDE_API_KEY"} {
		t.Setenv(key, "")
	}

	store, err := credential.Open(filepath.Join(t.TempDir(), "credentials.db"))
	if err != nil {
		t.Fatalf("credential.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	return r
}

func TestSetAndListMasked(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/credentials/deepseek", strings.NewReader(`{"key":"sk-test-1234567890"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/credentials", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entries []struct {
		Provider   string `json:"provider"`
		Configured bool   `json:"configured"`
		Masked     string `json:"masked"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	var deepseek *struct {
		Provider   string `json:"provider"`
		Configured bool   `json:"configured"`
		Masked     string `json:"masked"`
		Source     string `json:"source"`
	}
	for i := range entries {
		if entries[i].Provider == "deepseek" {
			deepseek = &entries[i]
		} else if entries[i].Configured {
			t.Fatalf("%s should not be configured", entries[i].Provider)
		}
	}
	if deepseek == nil || !deepseek.Configured {
		t.Fatal("deepseek should be configured")
	}
	if !strings.HasPrefix(deepseek.Masked, "sk-test-") || !strings.Contains(deepseek.Masked, "*") {
		t.Fatalf("masked = %q", deepseek.Masked)
	}
	if strings.Contains(deepseek.Masked, "1234567890") {
		t.Fatal("masked value leaks the secret tail")
	}
	if deepseek.Source != "stored" {
		t.Fatalf("source = %q, want stored", deepseek.Source)
	}
}

func TestPutMaskedValueKeepsSecret(t *testing.T) {
	r := newTestRouter(t)

	put := func(key string) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPut, "/credentials/openai", strings.NewReader(`{"key":"`+key+`"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	}

	put("sk-openai-original")
	put("sk-opena*********") // 表单回传的掩码值

	req := httptest.NewRequest(http.MethodGet, "/credentials", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var entries []struct {
		Provider string `json:"provider"`
		Masked   string `json:"masked"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, e := range entries {
		if e.Provider == "openai" && e.Masked != credential.Mask("sk-openai-original") {
			t.Fatalf("masked = %q, secret should be unchanged", e.Masked)
		}
	}
}

func TestClearCredential(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/credentials/gemini", strings.NewReader(`{"key":"gm-key-123456"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/credentials/gemini", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/credentials", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var entries []struct {
		Provider   string `json:"provider"`
		Configured bool   `json:"configured"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, e := range entries {
		if e.Provider == "gemini" && e.Configured {
			t.Fatal("gemini should be cleared")
		}
	}
}

func TestUnknownProvider(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/credentials/grok", strings.NewReader(`{"key":"x"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/credentials/grok", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
