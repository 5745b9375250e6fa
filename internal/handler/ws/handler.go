package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nightsky-edu/astrolearn/backend/internal/service/conversation"
)

const writeTimeout = 10 * time.Second

// Handler pushes conversation state changes over a websocket so the UI can
// render turns, the typing indicator and errors without polling.
type Handler struct {
	store    *conversation.Store
	upgrader websocket.Upgrader
}

// New 创建会话事件推送处理器
func New(store *conversation.Store) *Handler {
	return &Handler{
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册事件推送路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleEvents)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.store.Subscribe()
	defer cancel()

	// 客户端可能不发任何消息，读循环只用于感知断连。
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range events {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[ws] write failed: %v", err)
			return
		}
	}
}
