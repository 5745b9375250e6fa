package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatModel "github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/conversation"
)

func TestEventsArePushedToClient(t *testing.T) {
	store := conversation.NewStore()

	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// 订阅建立发生在升级之后，给处理器一点时间。
	time.Sleep(50 * time.Millisecond)

	store.SetProcessing(true)
	store.Append(chatModel.Turn{Role: chatModel.RoleUser, Content: "问题"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first conversation.Event
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first event: %v", err)
	}
	if first.Type != conversation.EventProcessing || !first.Processing {
		t.Fatalf("first event = %+v", first)
	}

	var second conversation.Event
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second event: %v", err)
	}
	if second.Type != conversation.EventTurn || second.Turn == nil || second.Turn.Content != "问题" {
		t.Fatalf("second event = %+v", second)
	}
}
