package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/alu-chat/backend/internal/config"
	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	chatService "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	fixture := chat.SeedFixture()
	chatSvc, err := chatService.NewService(fixture.CurrentUser.ID, fixture.Chats)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	cfg := &config.Config{
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}, AllowCredentials: true},
		Stream: config.StreamConfig{HeartbeatInterval: time.Second},
	}
	return NewRouter(chatSvc, user.NewMemoryStore(fixture.Users()), fixture.CurrentUser, cfg)
}

func TestRouterMountsAPI(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{"/api/me", "/api/users", "/api/chats", "/api/chats/1", "/api/focus"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chats", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("routes should live under /api, got %d", rec.Code)
	}
}

func TestRouterAppliesCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRouterSendThenFocus(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"chatId":"2","content":"see you at the lab"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/focus", nil))
	if !strings.Contains(rec.Body.String(), `"id":"2"`) || !strings.Contains(rec.Body.String(), "see you at the lab") {
		t.Fatalf("focus should move to chat 2 with the new message: %s", rec.Body.String())
	}
}
