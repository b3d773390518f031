// Package session is the single source of truth for the signed-in identity.
// Components read and subscribe here instead of poking browser storage
// directly, so a login change (this tab or another) propagates everywhere.
package session

import "sync"

// Storage is the underlying key-value store. In the browser this is
// localStorage; tests use Memory.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Del(key string)
}

const (
	keyToken    = "token"
	keyUserID   = "userId"
	keyUsername = "username"
	keyEmail    = "email"
	keyLoggedIn = "isLoggedIn"
)

// Session is a point-in-time snapshot of the signed-in identity.
type Session struct {
	Token    string
	UserID   string
	Username string
	Email    string
	LoggedIn bool
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	subs    map[int]func(Session)
	nextSub int
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		subs:    map[int]func(Session){},
	}
}

// Current re-reads the backing storage on every call. Login state can change
// out-of-band, so snapshots are never cached.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	return s.Current().Token
}

// SignIn persists the authenticated identity and notifies subscribers.
func (s *Store) SignIn(token, userID, username, email string) {
	s.mu.Lock()
	s.storage.Set(keyToken, token)
	s.storage.Set(keyUserID, userID)
	s.storage.Set(keyUsername, username)
	s.storage.Set(keyEmail, email)
	s.storage.Set(keyLoggedIn, "true")
	cur := s.read()
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
}

// SignOut clears every session key, then notifies subscribers once. Keys are
// removed together so no observer sees a half-cleared session.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.storage.Del(keyToken)
	s.storage.Del(keyUserID)
	s.storage.Del(keyUsername)
	s.storage.Del(keyEmail)
	s.storage.Del(keyLoggedIn)
	cur := s.read()
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
}

// Subscribe registers fn for session changes and returns an unsubscribe
// function. fn is not called with the current state; read it explicitly.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) read() Session {
	token, _ := s.storage.Get(keyToken)
	userID, _ := s.storage.Get(keyUserID)
	username, _ := s.storage.Get(keyUsername)
	email, _ := s.storage.Get(keyEmail)
	logged, _ := s.storage.Get(keyLoggedIn)
	return Session{
		Token:    token,
		UserID:   userID,
		Username: username,
		Email:    email,
		LoggedIn: logged == "true",
	}
}

func (s *Store) snapshotSubs() []func(Session) {
	out := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// Memory is an in-memory Storage for tests and non-browser builds.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
}

func (m *Memory) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
}
