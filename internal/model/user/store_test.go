package user

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.FindByID("3")
	require.True(t, ok)
	require.Equal(t, "Chioma Okonkwo", got.Name)
	require.False(t, got.Online())

	_, ok = store.FindByID("missing")
	require.False(t, ok)
}

func TestMemoryStoreDropsDuplicateIDs(t *testing.T) {
	store := NewMemoryStore([]User{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "other"},
		{ID: "a", Name: "second"},
	})

	list := store.List()
	require.Len(t, list, 2)

	got, ok := store.FindByID("a")
	require.True(t, ok)
	require.Equal(t, "first", got.Name)
}

func TestMemoryStoreListIsACopy(t *testing.T) {
	store := NewMemoryStore(Seed())

	list := store.List()
	list[0].Name = "changed"

	got, _ := store.FindByID(SeedCurrentUserID)
	require.Equal(t, "Kwame Mensah", got.Name)
}
