package chat

import (
	"time"

	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
)

// Seed returns the demo chats shown on first load. Participants are resolved
// against users; unknown ids are skipped.
func Seed(users user.Store) []Chat {
	pick := func(ids ...string) []user.User {
		out := make([]user.User, 0, len(ids))
		for _, id := range ids {
			if u, ok := users.FindByID(id); ok {
				out = append(out, u)
			}
		}
		return out
	}
	at := func(hour, minute int) time.Time {
		return time.Date(2024, time.March, 10, hour, minute, 0, 0, time.UTC)
	}

	chats := []Chat{
		{
			ID:           "1",
			Kind:         KindDirect,
			Participants: pick("2"),
			Messages: []Message{{
				ID:        "1",
				Content:   "Hi Kwame, do you have the notes from today's Leadership seminar?",
				SenderID:  "2",
				Timestamp: at(10, 0),
				IsRead:    true,
			}},
		},
		{
			ID:           "2",
			Kind:         KindGroup,
			Name:         "CS Study Group",
			Participants: pick(user.SeedCurrentUserID, "2", "3"),
			Messages: []Message{{
				ID:        "2",
				Content:   "Anyone free to work on the Data Structures assignment?",
				SenderID:  "3",
				Timestamp: at(9, 30),
				IsRead:    true,
			}},
		},
		{
			ID:           "3",
			Kind:         KindGroup,
			Name:         "ALU Student Council",
			Participants: pick(user.SeedCurrentUserID, "4", "5"),
			Messages: []Message{{
				ID:        "3",
				Content:   "Next week's leadership summit agenda is ready for review",
				SenderID:  "4",
				Timestamp: at(11, 0),
			}},
		},
	}

	// Clone fills LastMessage from each transcript.
	for i := range chats {
		chats[i] = chats[i].Clone()
	}
	return chats
}
