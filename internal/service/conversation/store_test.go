package conversation

import (
	"testing"
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
)

func TestAppendSeedsSessionAndAssignsIDs(t *testing.T) {
	store := NewStore()

	if _, ok := store.Session(); ok {
		t.Fatal("expected no session before first append")
	}

	first := store.Append(chat.Turn{Role: chat.RoleUser, Content: "你好"})
	if first.ID == "" {
		t.Fatal("expected turn id to be assigned")
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected timestamp to be assigned")
	}

	sess, ok := store.Session()
	if !ok {
		t.Fatal("expected session after first append")
	}
	if sess.Status != chat.StatusActive {
		t.Fatalf("status = %q, want active", sess.Status)
	}
	if first.SessionID != sess.ID {
		t.Fatalf("turn session = %q, want %q", first.SessionID, sess.ID)
	}

	second := store.Append(chat.Turn{Role: chat.RoleAssistant, Content: "同学你好"})
	if second.SessionID != sess.ID {
		t.Fatal("second turn should reuse the existing session")
	}

	turns := store.Turns()
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Content != "你好" || turns[1].Content != "同学你好" {
		t.Fatal("turns should come back in append order")
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append(chat.Turn{Role: chat.RoleUser, Content: "原文"})

	turns := store.Turns()
	turns[0].Content = "改写"

	if store.Turns()[0].Content != "原文" {
		t.Fatal("mutating the returned slice should not affect the store")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewStore()
	store.Append(chat.Turn{Role: chat.RoleUser, Content: "hi"})
	store.SetProcessing(true)
	store.SetError("出错了")

	store.Clear()
	store.Clear()

	if len(store.Turns()) != 0 {
		t.Fatal("expected empty log after clear")
	}
	if _, ok := store.Session(); ok {
		t.Fatal("expected no session after clear")
	}
	if store.Processing() {
		t.Fatal("processing flag should reset on clear")
	}
	if store.LastError() != "" {
		t.Fatal("error should reset on clear")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	store := NewStore()
	events, cancel := store.Subscribe()
	defer cancel()

	store.SetProcessing(true)
	store.Append(chat.Turn{Role: chat.RoleUser, Content: "问题"})
	store.SetError("超时")
	store.Clear()

	want := []EventType{EventProcessing, EventTurn, EventError, EventCleared}
	for _, typ := range want {
		select {
		case ev := <-events:
			if ev.Type != typ {
				t.Fatalf("event = %q, want %q", ev.Type, typ)
			}
			if typ == EventTurn && ev.Turn.Content != "问题" {
				t.Fatalf("turn content = %q", ev.Turn.Content)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q event", typ)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := NewStore()
	events, cancel := store.Subscribe()
	cancel()
	cancel() // second call must be safe

	if _, open := <-events; open {
		t.Fatal("channel should be closed after unsubscribe")
	}

	store.SetProcessing(true) // must not panic
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewStore()
	_, cancel := store.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			store.SetProcessing(i%2 == 0)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutations blocked on a slow subscriber")
	}
}
