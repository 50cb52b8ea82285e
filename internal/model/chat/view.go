package chat

import (
	"github.com/samber/lo"

	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
)

// Summary is the list-view projection of a chat.
type Summary struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"type"`
	DisplayName string   `json:"displayName"`
	Subtitle    string   `json:"subtitle"`
	Avatar      string   `json:"avatar,omitempty"`
	Initials    string   `json:"initials,omitempty"`
	Online      bool     `json:"online"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	Focused     bool     `json:"focused"`
}

// MessageView is a transcript entry with its sender resolved.
type MessageView struct {
	Message
	Own          bool   `json:"own"`
	SenderName   string `json:"senderName,omitempty"`
	SenderAvatar string `json:"senderAvatar,omitempty"`
}

// Detail is the focused-chat projection rendered by the conversation pane.
type Detail struct {
	Summary
	Participants []user.User   `json:"participants"`
	Messages     []MessageView `json:"messages"`
}

// State is everything a client needs to redraw: the list and the focused chat.
type State struct {
	Version uint64    `json:"version"`
	Chats   []Summary `json:"chats"`
	Focused *Detail   `json:"focused,omitempty"`
}

// NewSummary projects c for the chat list.
func NewSummary(c Chat, selfID string, focused bool) Summary {
	s := Summary{
		ID:          c.ID,
		Kind:        c.Kind,
		DisplayName: c.DisplayName(selfID),
		Subtitle:    c.Subtitle(selfID),
		Avatar:      c.Avatar(selfID),
		Initials:    c.Initials(),
		Focused:     focused,
	}
	if c.Kind == KindDirect {
		other, _ := c.Counterpart(selfID)
		s.Online = other.Online()
	} else {
		s.Online = lo.SomeBy(c.Members(selfID), user.User.Online)
	}
	if c.LastMessage != nil {
		s.LastMessage = lo.ToPtr(*c.LastMessage)
	}
	return s
}

// NewDetail projects c for the conversation pane. Messages sent by self are
// resolved against self even when self is not listed as a participant.
func NewDetail(c Chat, self user.User, focused bool) Detail {
	return Detail{
		Summary:      NewSummary(c, self.ID, focused),
		Participants: append([]user.User(nil), c.Participants...),
		Messages: lo.Map(c.Messages, func(m Message, _ int) MessageView {
			view := MessageView{Message: m, Own: m.SenderID == self.ID}
			sender, ok := c.Participant(m.SenderID)
			if !ok && view.Own {
				sender, ok = self, true
			}
			if ok {
				view.SenderName = sender.Name
				view.SenderAvatar = sender.Avatar
			}
			return view
		}),
	}
}

// NewState builds the redraw payload from an ordered chat list and the focused id.
func NewState(version uint64, chats []Chat, focusedID string, self user.User) State {
	state := State{
		Version: version,
		Chats: lo.Map(chats, func(c Chat, _ int) Summary {
			return NewSummary(c, self.ID, c.ID == focusedID)
		}),
	}
	if focused, ok := lo.Find(chats, func(c Chat) bool { return c.ID == focusedID }); ok {
		state.Focused = lo.ToPtr(NewDetail(focused, self, true))
	}
	return state
}
