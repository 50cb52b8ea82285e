package user

// Store exposes user lookups for HTTP handlers and view rendering.
type Store interface {
	List() []User
	FindByID(id string) (User, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []User
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied users.
// Later duplicates of an id are ignored.
func NewMemoryStore(items []User) *MemoryStore {
	seen := make(map[string]struct{}, len(items))
	kept := make([]User, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		kept = append(kept, item)
	}
	return &MemoryStore{items: kept}
}

// List returns every known user in load order.
func (s *MemoryStore) List() []User {
	return append([]User(nil), s.items...)
}

// FindByID looks up a user by identifier.
func (s *MemoryStore) FindByID(id string) (User, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return User{}, false
}
