package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/orchestrator"
	"github.com/nightsky-edu/astrolearn/backend/pkg/utils"
)

// Handler 对话相关的HTTP处理器
type Handler struct {
	orch *orchestrator.Orchestrator
}

// New 创建对话处理器
func New(orch *orchestrator.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSendMessage)
	r.Get("/conversation", h.handleGetConversation)
	r.Delete("/conversation", h.handleClearConversation)
	r.Put("/selection", h.handleSelectPoint)
	r.Get("/capabilities", h.handleCapabilities)
}

type attachmentPayload struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	MIME string `json:"mime"`
	Data string `json:"data"`
}

// handleSendMessage 接收用户消息并排队等待AI回复。
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content     string              `json:"content"`
		Attachments []attachmentPayload `json:"attachments,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Content = strings.TrimSpace(payload.Content)
	if payload.Content == "" && len(payload.Attachments) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "content or attachments required")
		return
	}

	attachments := make([]chatModel.Attachment, 0, len(payload.Attachments))
	for _, a := range payload.Attachments {
		kind := chatModel.AttachmentKind(a.Kind)
		if kind != chatModel.AttachmentImage && kind != chatModel.AttachmentFile {
			utils.RespondError(w, http.StatusBadRequest, "unsupported attachment kind")
			return
		}
		if a.Data == "" {
			utils.RespondError(w, http.StatusBadRequest, "attachment data is required")
			return
		}
		attachments = append(attachments, chatModel.Attachment{
			Kind: kind,
			Name: a.Name,
			MIME: a.MIME,
			Data: a.Data,
		})
	}

	turn, err := h.orch.SendUserMessage(payload.Content, attachments)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "queued",
		"turn":   turn,
	})
}

// handleGetConversation 返回完整会话状态。
func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	store := h.orch.Store()

	resp := map[string]interface{}{
		"turns":      store.Turns(),
		"processing": store.Processing(),
	}
	if sess, ok := store.Session(); ok {
		resp["session"] = sess
	}
	if lastErr := store.LastError(); lastErr != "" {
		resp["error"] = lastErr
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	h.orch.ClearConversation()
	w.WriteHeader(http.StatusNoContent)
}

// handleSelectPoint 切换当前学习的知识点；空ID表示取消选择。
func (h *Handler) handleSelectPoint(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PointID string `json:"pointId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orch.SelectPoint(strings.TrimSpace(payload.PointID)); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.orch.Capabilities())
}
