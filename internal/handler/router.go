package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/alu-chat/backend/internal/config"
	"github.com/zhouzirui/alu-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/handler/realtime"
	"github.com/zhouzirui/alu-chat/backend/internal/handler/stream"
	userHandler "github.com/zhouzirui/alu-chat/backend/internal/handler/user"
	middlewarePkg "github.com/zhouzirui/alu-chat/backend/internal/middleware"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	chatService "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, users user.Store, self user.User, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))

	// Create handlers
	userH := userHandler.New(users, self)
	chatHandler := chat.New(chatSvc, self)
	streamHandler := stream.New(chatSvc, self, cfg.Stream.HeartbeatInterval)
	wsHandler := realtime.NewWebSocketHandler(chatSvc, self)

	r.Route("/api", func(api chi.Router) {
		userH.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)

		// State push: SSE for read-only clients, websocket for clients that also issue intents
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
