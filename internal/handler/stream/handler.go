package stream

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	chatService "github.com/zhouzirui/alu-chat/backend/internal/service/chat"
	"github.com/zhouzirui/alu-chat/backend/pkg/utils"
)

var errStreamingUnsupported = errors.New("streaming unsupported")

// Handler pushes store state to clients via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	self      user.User
	heartbeat time.Duration
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, self user.User, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Handler{
		chatSvc:   chatSvc,
		self:      self,
		heartbeat: heartbeat,
	}
}

// RegisterRoutes registers the SSE endpoint
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if err := h.Stream(r.Context(), w); err != nil {
		log.Printf("[stream] closed with error: %v", err)
	}
}

// Stream writes a "snapshot" event for the current state and after every
// change, plus periodic "heartbeat" events, until ctx is done.
func (h *Handler) Stream(ctx context.Context, w http.ResponseWriter) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, errStreamingUnsupported.Error())
		return errStreamingUnsupported
	}

	utils.SetupSSEHeaders(w)

	updates, cancel := h.chatSvc.Subscribe()
	defer cancel()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	log.Printf("[stream] opening state stream")

	for {
		select {
		case <-ctx.Done():
			log.Printf("[stream] closing state stream")
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			state := chat.NewState(snap.Version, snap.Chats, snap.FocusedID, h.self)
			if err := utils.SendSSEEvent(w, flusher, strconv.FormatUint(snap.Version, 10), "snapshot", state); err != nil {
				return err
			}
		case t := <-ticker.C:
			if err := utils.SendSSEEvent(w, flusher, "", "heartbeat", map[string]any{
				"time": t.UTC().Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	}
}
