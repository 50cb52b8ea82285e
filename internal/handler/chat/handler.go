package chat

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	chatService "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
	"github.com/zhouzirui/alu-chat/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	self    user.User
}

// New 创建聊天处理器，self 为当前会话用户
func New(chatSvc *chatService.Service, self user.User) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		self:    self,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chats", h.handleListChats)
	r.Get("/chats/{chatID}", h.handleGetChat)
	r.Post("/chats/{chatID}/select", h.handleSelectChat)
	r.Get("/focus", h.handleGetFocus)
	r.Post("/messages", h.handleSendMessage)
}

// sendMessageResponse 发送成功后的响应体
type sendMessageResponse struct {
	Chat    chat.Detail  `json:"chat"`
	Message chat.Message `json:"message"`
}

// handleListChats 列出会话摘要
func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	snap := h.chatSvc.Snapshot(r.Context())
	summaries := lo.Map(snap.Chats, func(c chat.Chat, _ int) chat.Summary {
		return chat.NewSummary(c, h.self.ID, c.ID == snap.FocusedID)
	})
	utils.RespondJSON(w, http.StatusOK, summaries)
}

// handleGetChat 获取单个会话详情
func (h *Handler) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	snap := h.chatSvc.Snapshot(r.Context())

	c, ok := lo.Find(snap.Chats, func(c chat.Chat) bool { return c.ID == chatID })
	if !ok {
		utils.RespondError(w, http.StatusNotFound, chatService.ErrChatNotFound.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, chat.NewDetail(c, h.self, c.ID == snap.FocusedID))
}

// handleSelectChat 切换当前会话
func (h *Handler) handleSelectChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	selected, err := h.chatSvc.SelectChat(r.Context(), chatID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	log.Printf("[chat] focused chat=%s", chatID)
	utils.RespondJSON(w, http.StatusOK, chat.NewDetail(selected, h.self, true))
}

// handleGetFocus 获取当前会话详情
func (h *Handler) handleGetFocus(w http.ResponseWriter, r *http.Request) {
	focused, err := h.chatSvc.Focused(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, chat.NewDetail(focused, h.self, true))
}

// handleSendMessage 以当前用户身份发送消息；未指定 chatId 时发送到当前会话
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID  string `json:"chatId"`
		Content string `json:"content"`
	}

	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Content) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var (
		result chatService.SendResult
		err    error
	)
	if payload.ChatID == "" {
		result, err = h.chatSvc.SendToFocused(r.Context(), payload.Content, h.self.ID)
	} else {
		result, err = h.chatSvc.SendMessage(r.Context(), payload.ChatID, payload.Content, h.self.ID)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if result.Message == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Printf("[chat] message=%s appended to chat=%s", result.Message.ID, result.Chat.ID)
	utils.RespondJSON(w, http.StatusCreated, sendMessageResponse{
		Chat:    chat.NewDetail(result.Chat, h.self, true),
		Message: *result.Message,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chatService.ErrChatNotFound), errors.Is(err, chatService.ErrNoFocusedChat):
		status = http.StatusNotFound
	case errors.Is(err, chatService.ErrNotParticipant):
		status = http.StatusForbidden
	default:
		log.Printf("[chat] unexpected error: %v", err)
	}
	utils.RespondError(w, status, err.Error())
}
