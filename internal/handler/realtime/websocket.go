package realtime

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	chatservice "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// WebSocketHandler WebSocket实时通道处理器
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	self     user.User
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatservice.Service, self user.User) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		self:    self,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type    string `json:"type"`
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func newOutgoing(kind string, data any) outgoingMessage {
	return outgoingMessage{Type: kind, Data: data, Timestamp: time.Now().Unix()}
}

func errorFrame(message string) outgoingMessage {
	return newOutgoing("error", map[string]string{"message": message})
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.chatSvc == nil {
		http.Error(w, "chat service unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[realtime] new connection from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	updates, unsubscribe := h.chatSvc.Subscribe()
	defer unsubscribe()

	replies := make(chan outgoingMessage, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, updates, replies)
		// unblock the reader when the writer gives up
		cancel()
		conn.Close()
	}()

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[realtime] read error: %v", err)
			}
			break
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))

		reply, ok := h.handleMessage(ctx, msg)
		if !ok {
			continue
		}
		select {
		case replies <- reply:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	cancel()
	<-done
	log.Printf("[realtime] connection closed from %s", r.RemoteAddr)
}

// handleMessage applies one client intent. The bool is false when there is
// nothing to reply; state changes reach the client as snapshot frames.
func (h *WebSocketHandler) handleMessage(ctx context.Context, msg inboundMessage) (outgoingMessage, bool) {
	switch msg.Type {
	case "select":
		if msg.ChatID == "" {
			return errorFrame("chatId is required"), true
		}
		if _, err := h.chatSvc.SelectChat(ctx, msg.ChatID); err != nil {
			return errorFrame(describeError(err)), true
		}
		return outgoingMessage{}, false
	case "send":
		if strings.TrimSpace(msg.Content) == "" {
			return outgoingMessage{}, false
		}
		var (
			result chatservice.SendResult
			err    error
		)
		if msg.ChatID != "" {
			result, err = h.chatSvc.SendMessage(ctx, msg.ChatID, msg.Content, h.self.ID)
		} else {
			result, err = h.chatSvc.SendToFocused(ctx, msg.Content, h.self.ID)
		}
		if err != nil {
			return errorFrame(describeError(err)), true
		}
		if result.Message == nil {
			return outgoingMessage{}, false
		}
		return newOutgoing("sent", map[string]any{
			"chatId":  result.Chat.ID,
			"message": result.Message,
		}), true
	default:
		return errorFrame("unsupported message type: " + msg.Type), true
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, chatservice.ErrChatNotFound):
		return "chat not found"
	case errors.Is(err, chatservice.ErrNoFocusedChat):
		return "no chat selected"
	case errors.Is(err, chatservice.ErrNotParticipant):
		return "sender is not a participant"
	default:
		log.Printf("[realtime] intent failed: %v", err)
		return "internal error"
	}
}

// writeLoop 是连接上唯一的写入者
func (h *WebSocketHandler) writeLoop(ctx context.Context, conn *websocket.Conn, updates <-chan chatservice.Snapshot, replies <-chan outgoingMessage) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(writeTimeout)
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			state := chat.NewState(snap.Version, snap.Chats, snap.FocusedID, h.self)
			if err := h.write(conn, newOutgoing("snapshot", state)); err != nil {
				log.Printf("[realtime] write snapshot failed: %v", err)
				return
			}
		case reply := <-replies:
			if err := h.write(conn, reply); err != nil {
				log.Printf("[realtime] write reply failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg outgoingMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
