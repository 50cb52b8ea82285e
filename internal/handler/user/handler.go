package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	"github.com/zhouzirui/alu-chat/backend/pkg/utils"
)

// Handler 用户资料的HTTP处理器
type Handler struct {
	users user.Store
	self  user.User
}

// New 创建用户处理器
func New(users user.Store, self user.User) *Handler {
	return &Handler{
		users: users,
		self:  self,
	}
}

// RegisterRoutes 注册用户相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Get("/users", h.handleListUsers)
	r.Get("/users/{userID}", h.handleGetUser)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.self)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.users.List())
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := h.users.FindByID(chi.URLParam(r, "userID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "user not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}
