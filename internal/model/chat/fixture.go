package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"

	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
)

// Fixture is the initial session state handed to the conversation store.
type Fixture struct {
	CurrentUser user.User `json:"currentUser"`
	Chats       []Chat    `json:"chats"`
}

// SeedFixture returns the built-in demo session.
func SeedFixture() Fixture {
	users := user.NewMemoryStore(user.Seed())
	self, _ := users.FindByID(user.SeedCurrentUserID)
	return Fixture{CurrentUser: self, Chats: Seed(users)}
}

// LoadFixtureFile reads and validates a JSON fixture from path.
func LoadFixtureFile(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := LoadFixture(f)
	if err != nil {
		return Fixture{}, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fixture, nil
}

// LoadFixture decodes a JSON fixture and validates it. A chat whose
// lastMessage is omitted gets it derived from the final message.
func LoadFixture(r io.Reader) (Fixture, error) {
	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}

	for i, c := range fixture.Chats {
		if c.LastMessage == nil && len(c.Messages) > 0 {
			fixture.Chats[i].LastMessage = lo.ToPtr(c.Messages[len(c.Messages)-1])
		}
	}

	if err := fixture.Validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

// Validate checks the current user and every chat, and rejects repeated chat ids.
func (f Fixture) Validate() error {
	if err := validate.Struct(f.CurrentUser); err != nil {
		return fmt.Errorf("invalid current user: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Chats))
	for _, c := range f.Chats {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w %q: duplicate chat id", ErrInvalidChat, c.ID)
		}
		seen[c.ID] = struct{}{}

		if err := c.Validate(f.CurrentUser.ID); err != nil {
			return err
		}
	}
	return nil
}

// Users lists the current user followed by every distinct participant.
func (f Fixture) Users() []user.User {
	all := []user.User{f.CurrentUser}
	for _, c := range f.Chats {
		all = append(all, c.Participants...)
	}
	return lo.UniqBy(all, func(u user.User) string { return u.ID })
}
