// Package session keeps the per-chat selections made through the menus.
// Sessions live in memory for the lifetime of the process.
package session

import (
	"sync"

	"github.com/m3rciful/coinbot/core/metrics"
)

// Session is what a chat has picked so far. Empty fields are unset.
type Session struct {
	Language string
	Fiat     string
	Crypto   string
	Period   int // days
}

// Store maps chat IDs to sessions.
type Store struct {
	mu          sync.Mutex
	m           map[int64]*Session
	defaultLang string
}

// NewStore returns an empty store. Sessions without a language report defaultLang.
func NewStore(defaultLang string) *Store {
	return &Store{m: make(map[int64]*Session), defaultLang: defaultLang}
}

// Get returns a copy of the chat's session without creating it.
func (s *Store) Get(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[chatID]; ok {
		return s.withDefaults(*sess)
	}
	return Session{Language: s.defaultLang}
}

// GetOrCreate is Get, but the session exists afterwards.
func (s *Store) GetOrCreate(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withDefaults(*s.entry(chatID))
}

// Update applies fn to the chat's session under the store lock and returns the result.
func (s *Store) Update(chatID int64, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.entry(chatID)
	fn(sess)
	return s.withDefaults(*sess)
}

// The setters return the session as it is after the change.
func (s *Store) SetLanguage(chatID int64, code string) Session {
	return s.Update(chatID, func(sess *Session) { sess.Language = code })
}

func (s *Store) SetFiat(chatID int64, fiat string) Session {
	return s.Update(chatID, func(sess *Session) { sess.Fiat = fiat })
}

func (s *Store) SetCrypto(chatID int64, symbol string) Session {
	return s.Update(chatID, func(sess *Session) { sess.Crypto = symbol })
}

func (s *Store) SetPeriod(chatID int64, days int) Session {
	return s.Update(chatID, func(sess *Session) { sess.Period = days })
}

// Len reports how many chats have a session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// entry must be called with mu held.
func (s *Store) entry(chatID int64) *Session {
	sess, ok := s.m[chatID]
	if !ok {
		sess = &Session{}
		s.m[chatID] = sess
		metrics.SetSessions(len(s.m))
	}
	return sess
}

func (s *Store) withDefaults(sess Session) Session {
	if sess.Language == "" {
		sess.Language = s.defaultLang
	}
	return sess
}
