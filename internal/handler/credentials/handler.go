package credentials

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
	"github.com/nightsky-edu/astrolearn/backend/pkg/utils"
)

// Handler 管理各 provider API 密钥的HTTP处理器。响应中的密钥永远是
// 掩码形式，明文不回传。
type Handler struct {
	store *credential.Store
}

// New 创建密钥管理处理器
func New(store *credential.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册密钥管理路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/credentials", h.handleList)
	r.Put("/credentials/{provider}", h.handleSet)
	r.Delete("/credentials/{provider}", h.handleClear)
}

type entry struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
	Source     string `json:"source,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	providers := credential.Providers()
	out := make([]entry, 0, len(providers))
	for _, p := range providers {
		e := entry{Provider: p}
		if _, source, ok := h.store.Secret(p); ok {
			e.Configured = true
			e.Masked = h.store.Masked(p)
			e.Source = string(source)
		}
		out = append(out, e)
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

// handleSet 写入一个密钥。收到掩码值时静默忽略，前端把掩码原样回传
// 表示“保持不变”。
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Set(provider, strings.TrimSpace(payload.Key)); err != nil {
		if errors.Is(err, credential.ErrUnknownProvider) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	if err := h.store.Clear(provider); err != nil {
		if errors.Is(err, credential.ErrUnknownProvider) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
