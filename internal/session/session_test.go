package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignInPersistsIdentity(t *testing.T) {
	s := NewStore(NewMemory())
	s.SignIn("tok123", "U1", "ada", "ada@example.com")

	cur := s.Current()
	assert.True(t, cur.LoggedIn)
	assert.Equal(t, "tok123", cur.Token)
	assert.Equal(t, "U1", cur.UserID)
	assert.Equal(t, "ada", cur.Username)
	assert.Equal(t, "ada@example.com", cur.Email)
	assert.Equal(t, "tok123", s.Token())
}

func TestSignOutClearsEverything(t *testing.T) {
	s := NewStore(NewMemory())
	s.SignIn("tok123", "U1", "ada", "ada@example.com")
	s.SignOut()

	cur := s.Current()
	assert.Equal(t, Session{}, cur)
	assert.Empty(t, s.Token())
}

func TestSubscribersSeeChanges(t *testing.T) {
	s := NewStore(NewMemory())

	var seen []Session
	unsub := s.Subscribe(func(cur Session) { seen = append(seen, cur) })

	s.SignIn("tok123", "U1", "ada", "ada@example.com")
	s.SignOut()

	assert.Len(t, seen, 2)
	assert.True(t, seen[0].LoggedIn)
	assert.False(t, seen[1].LoggedIn)

	unsub()
	s.SignIn("tok456", "U2", "bob", "bob@example.com")
	assert.Len(t, seen, 2)
}

func TestCurrentReflectsOutOfBandWrites(t *testing.T) {
	mem := NewMemory()
	s := NewStore(mem)

	// Another tab writes directly to storage.
	mem.Set("token", "other-tab")
	mem.Set("isLoggedIn", "true")

	assert.Equal(t, "other-tab", s.Current().Token)
	assert.True(t, s.Current().LoggedIn)
}
