package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
)

// Kind distinguishes two-party chats from group chats.
type Kind string

const (
	KindDirect Kind = "direct"
	KindGroup  Kind = "group"
)

// ErrInvalidChat wraps every structural problem found by Validate.
var ErrInvalidChat = errors.New("invalid chat")

var validate = validator.New()

// Chat is a conversation together with its full transcript.
//
// For direct chats the current user is implicit: Participants holds the
// counterpart only. Group chats may list the current user among the members.
type Chat struct {
	ID           string      `json:"id" validate:"required"`
	Kind         Kind        `json:"type" validate:"required,oneof=direct group"`
	Name         string      `json:"name,omitempty" validate:"required_if=Kind group"`
	Participants []user.User `json:"participants" validate:"min=1,dive"`
	Messages     []Message   `json:"messages" validate:"dive"`
	LastMessage  *Message    `json:"lastMessage,omitempty"`
}

// Clone returns a deep copy that shares no slices or pointers with c.
// LastMessage is re-pointed at the copy's final message.
func (c Chat) Clone() Chat {
	out := c
	out.Participants = lo.Map(c.Participants, func(p user.User, _ int) user.User {
		if p.LastSeen != nil {
			p.LastSeen = lo.ToPtr(*p.LastSeen)
		}
		return p
	})
	out.Messages = append(make([]Message, 0, len(c.Messages)), c.Messages...)
	out.LastMessage = nil
	if n := len(out.Messages); n > 0 {
		out.LastMessage = lo.ToPtr(out.Messages[n-1])
	}
	return out
}

// Append returns a copy of c with msg added to the end of the transcript and
// LastMessage pointing at it. c itself is left untouched.
func (c Chat) Append(msg Message) Chat {
	out := c.Clone()
	out.Messages = append(out.Messages, msg)
	out.LastMessage = lo.ToPtr(msg)
	return out
}

// HasParticipant reports whether id is listed among the participants.
func (c Chat) HasParticipant(id string) bool {
	return lo.ContainsBy(c.Participants, func(p user.User) bool { return p.ID == id })
}

// HasMessage reports whether the transcript already holds a message with id.
func (c Chat) HasMessage(id string) bool {
	return lo.ContainsBy(c.Messages, func(m Message) bool { return m.ID == id })
}

// Participant looks up a participant by id.
func (c Chat) Participant(id string) (user.User, bool) {
	return lo.Find(c.Participants, func(p user.User) bool { return p.ID == id })
}

// Counterpart returns the first participant that is not selfID.
func (c Chat) Counterpart(selfID string) (user.User, bool) {
	return lo.Find(c.Participants, func(p user.User) bool { return p.ID != selfID })
}

// Members returns the participants other than selfID.
func (c Chat) Members(selfID string) []user.User {
	return lo.Filter(c.Participants, func(p user.User, _ int) bool { return p.ID != selfID })
}

// DisplayName is the chat title: the counterpart's name for direct chats,
// the configured name for groups.
func (c Chat) DisplayName(selfID string) string {
	if c.Kind == KindDirect {
		if other, ok := c.Counterpart(selfID); ok {
			return other.Name
		}
	}
	return c.Name
}

// Avatar is the counterpart's avatar for direct chats and empty for groups.
func (c Chat) Avatar(selfID string) string {
	if c.Kind != KindDirect {
		return ""
	}
	other, _ := c.Counterpart(selfID)
	return other.Avatar
}

// Subtitle is the counterpart's bio for direct chats and the member count for groups.
func (c Chat) Subtitle(selfID string) string {
	if c.Kind == KindDirect {
		other, _ := c.Counterpart(selfID)
		return other.Bio
	}
	return fmt.Sprintf("%d members", len(c.Participants))
}

// Initials are the first two characters of a group's name, upper-cased.
func (c Chat) Initials() string {
	if c.Kind != KindGroup {
		return ""
	}
	runes := []rune(c.Name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// Validate checks field constraints and the chat invariants relative to the
// session user selfID.
func (c Chat) Validate(selfID string) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidChat, c.ID, err)
	}

	others := len(c.Members(selfID))
	switch c.Kind {
	case KindDirect:
		if others != 1 {
			return fmt.Errorf("%w %q: direct chat needs exactly one counterpart, got %d", ErrInvalidChat, c.ID, others)
		}
	case KindGroup:
		if others < 1 {
			return fmt.Errorf("%w %q: group chat needs at least one member besides the current user", ErrInvalidChat, c.ID)
		}
	}

	seen := make(map[string]struct{}, len(c.Messages))
	for _, m := range c.Messages {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w %q: duplicate message id %q", ErrInvalidChat, c.ID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	n := len(c.Messages)
	switch {
	case n == 0 && c.LastMessage != nil:
		return fmt.Errorf("%w %q: lastMessage set on an empty transcript", ErrInvalidChat, c.ID)
	case n > 0 && c.LastMessage == nil:
		return fmt.Errorf("%w %q: lastMessage missing", ErrInvalidChat, c.ID)
	case n > 0 && !sameMessage(*c.LastMessage, c.Messages[n-1]):
		return fmt.Errorf("%w %q: lastMessage %q does not match final message %q", ErrInvalidChat, c.ID, c.LastMessage.ID, c.Messages[n-1].ID)
	}
	return nil
}
