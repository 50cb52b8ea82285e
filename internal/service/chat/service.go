package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
)

var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrNoFocusedChat  = errors.New("no chat is focused")
	ErrNotParticipant = errors.New("sender is not a participant of the chat")
	ErrDuplicateChat  = errors.New("duplicate chat id")
)

// Snapshot is a consistent, caller-owned copy of the store state.
type Snapshot struct {
	Version   uint64
	Chats     []chat.Chat
	FocusedID string
}

// Focused returns the focused chat from the snapshot, if any.
func (s Snapshot) Focused() (chat.Chat, bool) {
	return lo.Find(s.Chats, func(c chat.Chat) bool { return c.ID == s.FocusedID })
}

// SendResult reports the outcome of SendMessage. Message is nil when the
// content was blank and nothing was sent.
type SendResult struct {
	Chat    chat.Chat
	Message *chat.Message
}

// Option customises a Service.
type Option func(*Service)

// WithIDGenerator replaces the message id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock replaces the time source used for message timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// Service is the conversation store for one session: the ordered chat list,
// the focused chat, and the transcripts. Every read returns a deep copy and
// every write replaces a chat wholesale under the lock, so readers never see
// a transcript and its lastMessage disagree.
type Service struct {
	mu        sync.RWMutex
	selfID    string
	chats     []chat.Chat
	index     map[string]int
	focusedID string
	version   uint64

	newID func() string
	now   func() time.Time

	subMu   sync.Mutex
	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// NewService bootstraps the store with the initial chats for the session user
// selfID. The first chat, if any, starts focused.
func NewService(selfID string, initial []chat.Chat, opts ...Option) (*Service, error) {
	s := &Service{
		selfID: selfID,
		chats:  make([]chat.Chat, 0, len(initial)),
		index:  make(map[string]int, len(initial)),
		newID:  uuid.NewString,
		now:    time.Now,
		subs:   make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, c := range initial {
		if _, dup := s.index[c.ID]; dup {
			return nil, ErrDuplicateChat
		}
		s.index[c.ID] = len(s.chats)
		s.chats = append(s.chats, c.Clone())
	}
	if len(s.chats) > 0 {
		s.focusedID = s.chats[0].ID
	}

	return s, nil
}

// SelfID returns the session user the store was created for.
func (s *Service) SelfID() string {
	return s.selfID
}

// ListChats returns every chat in list order.
func (s *Service) ListChats(_ context.Context) []chat.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.chats)
}

// GetChat retrieves a chat by identifier.
func (s *Service) GetChat(_ context.Context, chatID string) (chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[chatID]
	if !ok {
		return chat.Chat{}, ErrChatNotFound
	}
	return s.chats[i].Clone(), nil
}

// Focused returns the chat currently shown in the detail view.
func (s *Service) Focused(_ context.Context) (chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[s.focusedID]
	if !ok {
		return chat.Chat{}, ErrNoFocusedChat
	}
	return s.chats[i].Clone(), nil
}

// Snapshot returns the whole store state at one version.
func (s *Service) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SelectChat moves the focus to chatID. No message is marked read.
func (s *Service) SelectChat(_ context.Context, chatID string) (chat.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[chatID]
	if !ok {
		return chat.Chat{}, ErrChatNotFound
	}

	s.focusedID = chatID
	s.version++
	s.publishLocked()
	return s.chats[i].Clone(), nil
}

// SendMessage appends content from senderID to chatID, refreshes the chat's
// lastMessage in the same step and focuses the chat. Blank content is ignored
// without error and leaves the store untouched.
func (s *Service) SendMessage(_ context.Context, chatID, content, senderID string) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(chatID, content, senderID)
}

// SendToFocused sends into whichever chat is focused at the time of the call.
func (s *Service) SendToFocused(_ context.Context, content, senderID string) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[s.focusedID]; !ok {
		return SendResult{}, ErrNoFocusedChat
	}
	return s.sendLocked(s.focusedID, content, senderID)
}

func (s *Service) sendLocked(chatID, content, senderID string) (SendResult, error) {
	i, ok := s.index[chatID]
	if !ok {
		return SendResult{}, ErrChatNotFound
	}
	current := s.chats[i]

	if strings.TrimSpace(content) == "" {
		return SendResult{Chat: current.Clone()}, nil
	}

	if senderID != s.selfID && !current.HasParticipant(senderID) {
		return SendResult{}, ErrNotParticipant
	}

	id := s.newID()
	for current.HasMessage(id) {
		id = s.newID()
	}
	msg := chat.Message{
		ID:        id,
		Content:   content,
		SenderID:  senderID,
		Timestamp: s.now().UTC(),
	}

	updated := current.Append(msg)
	s.chats[i] = updated
	s.focusedID = chatID
	s.version++
	s.publishLocked()

	return SendResult{Chat: updated.Clone(), Message: lo.ToPtr(msg)}, nil
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   s.version,
		Chats:     cloneAll(s.chats),
		FocusedID: s.focusedID,
	}
}

func cloneAll(chats []chat.Chat) []chat.Chat {
	return lo.Map(chats, func(c chat.Chat, _ int) chat.Chat { return c.Clone() })
}
