package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
)

type sseEvent struct {
	id    string
	event string
	data  string
}

func readEvent(t *testing.T, reader *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read sse line: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.event != "" {
				return ev
			}
		case strings.HasPrefix(line, "id: "):
			ev.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			ev.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func readSnapshot(t *testing.T, reader *bufio.Reader) chat.State {
	t.Helper()
	for {
		ev := readEvent(t, reader)
		if ev.event != "snapshot" {
			continue
		}
		var state chat.State
		if err := json.Unmarshal([]byte(ev.data), &state); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		return state
	}
}

func TestStreamPushesSnapshots(t *testing.T) {
	fixture := chat.SeedFixture()
	chatSvc, err := chatservice.NewService(fixture.CurrentUser.ID, fixture.Chats)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	r := chi.NewRouter()
	New(chatSvc, fixture.CurrentUser, time.Hour).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	if err != nil {
		t.Fatalf("NewRequest err: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /stream err: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	initial := readSnapshot(t, reader)
	if initial.Focused == nil || initial.Focused.ID != "1" {
		t.Fatalf("expected initial focus on chat 1, got %+v", initial.Focused)
	}
	if len(initial.Chats) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(initial.Chats))
	}

	if _, err := chatSvc.SendMessage(ctx, "2", "on my way", fixture.CurrentUser.ID); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}

	next := readSnapshot(t, reader)
	if next.Version <= initial.Version {
		t.Fatalf("expected newer version, got %d after %d", next.Version, initial.Version)
	}
	if next.Focused == nil || next.Focused.ID != "2" {
		t.Fatalf("expected focus on chat 2, got %+v", next.Focused)
	}
	if next.Chats[1].LastMessage == nil || next.Chats[1].LastMessage.Content != "on my way" {
		t.Fatalf("summary lastMessage not updated: %+v", next.Chats[1].LastMessage)
	}
}

func TestStreamSendsHeartbeat(t *testing.T) {
	fixture := chat.SeedFixture()
	chatSvc, err := chatservice.NewService(fixture.CurrentUser.ID, fixture.Chats)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	r := chi.NewRouter()
	New(chatSvc, fixture.CurrentUser, 20*time.Millisecond).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /stream err: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		ev := readEvent(t, reader)
		if ev.event == "heartbeat" {
			if ev.id != "" {
				t.Fatalf("heartbeat should carry no id, got %q", ev.id)
			}
			return
		}
	}
}
