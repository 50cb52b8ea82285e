package user

import "time"

// Status reports whether a user is currently reachable.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// User is a chat participant. Profiles are read-only for the lifetime of a session.
type User struct {
	ID       string     `json:"id" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Avatar   string     `json:"avatar"`
	Bio      string     `json:"bio"`
	Status   Status     `json:"status" validate:"required,oneof=online offline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// Online reports whether the user is marked online.
func (u User) Online() bool {
	return u.Status == StatusOnline
}

// SeedCurrentUserID identifies the session user of the built-in fixture.
const SeedCurrentUserID = "1"

const avatarQuery = "?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80"

// Seed provides the demo users shown by the chat page.
func Seed() []User {
	return []User{
		{
			ID:     SeedCurrentUserID,
			Name:   "Kwame Mensah",
			Avatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e" + avatarQuery,
			Bio:    "Computer Science Student | ALU Class of 2024",
			Status: StatusOnline,
		},
		{
			ID:     "2",
			Name:   "Amara Diallo",
			Avatar: "https://images.unsplash.com/photo-1494790108377-be9c29b29330" + avatarQuery,
			Bio:    "Global Challenges Student | Student Government",
			Status: StatusOnline,
		},
		{
			ID:     "3",
			Name:   "Chioma Okonkwo",
			Avatar: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80" + avatarQuery,
			Bio:    "Computer Science Student",
			Status: StatusOffline,
		},
		{
			ID:     "4",
			Name:   "Zainab Ahmed",
			Avatar: "https://images.unsplash.com/photo-1517841905240-472988babdf9" + avatarQuery,
			Bio:    "Student Council President",
			Status: StatusOnline,
		},
		{
			ID:     "5",
			Name:   "David Mutua",
			Avatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e" + avatarQuery,
			Bio:    "Events Coordinator",
			Status: StatusOffline,
		},
	}
}
