package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/fallback"
	"github.com/nightsky-edu/astrolearn/backend/pkg/utils"
)

// Handler 知识目录的只读HTTP处理器
type Handler struct {
	catalog knowledge.Catalog
}

// New 创建目录处理器
func New(catalog knowledge.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes 注册目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/subjects", h.handleListSubjects)
	r.Get("/subjects/{subjectID}/points", h.handleSubjectPoints)
	r.Get("/points/{pointID}", h.handleGetPoint)
	r.Get("/points/{pointID}/tips", h.handlePointTips)
}

func (h *Handler) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.Subjects())
}

func (h *Handler) handleSubjectPoints(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if _, ok := h.catalog.SubjectByID(subjectID); !ok {
		utils.RespondError(w, http.StatusNotFound, "subject not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.catalog.PointsBySubject(subjectID))
}

// handleGetPoint 返回知识点本身及其解析后的学习上下文。
func (h *Handler) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	pointID := chi.URLParam(r, "pointID")
	point, ok := h.catalog.PointByID(pointID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "knowledge point not found")
		return
	}

	kc := knowledge.BuildContext(h.catalog, pointID)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"point":   point,
		"context": kc,
	})
}

func (h *Handler) handlePointTips(w http.ResponseWriter, r *http.Request) {
	pointID := chi.URLParam(r, "pointID")
	point, ok := h.catalog.PointByID(pointID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "knowledge point not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"difficulty": point.Difficulty,
		"tips":       fallback.LearningTips(point.Difficulty),
	})
}
