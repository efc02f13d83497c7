// Package session models an authenticated user session against the portfolio backend.
// A Session is created by login, passed explicitly to every backend call, and destroyed by
// logout or once it expires; nothing about it is kept in process-wide state.
package session

import (
	"errors"
	"sync"
	"time"

	"portfolio/src/schemas"
)

var ErrUnknownSession = errors.New("unknown or expired session")

type Session struct {
	Token     string
	User      schemas.User
	CreatedAt time.Time
}

// Anonymous carries a token that was not obtained through this service, such as the
// configured service token used by background jobs.
func Anonymous(token string) *Session {
	return &Session{Token: token}
}

// Registry tracks the sessions opened through this service. Sessions older than the TTL
// are no longer resolved and are removed by Evict; a TTL of zero keeps them until logout.
type Registry struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	onClose  []func(token string)
	ttl      time.Duration

	Now func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

func (r *Registry) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.CreatedAt) >= r.ttl
}

// OnClose registers a hook run after a session is removed.
func (r *Registry) OnClose(hook func(token string)) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.onClose = append(r.onClose, hook)
}

func (r *Registry) Open(resp *schemas.LoginResponse) (*Session, error) {
	if resp == nil || resp.Token == "" {
		return nil, errors.New("login response carries no token")
	}
	s := &Session{Token: resp.Token, User: resp.User, CreatedAt: r.now()}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sessions[s.Token] = s
	return s, nil
}

func (r *Registry) Get(token string) (*Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.sessions[token]
	if !ok || token == "" || r.expired(s, r.now()) {
		return nil, ErrUnknownSession
	}
	return s, nil
}

func (r *Registry) Close(token string) error {
	r.mutex.Lock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	hooks := append([]func(string){}, r.onClose...)
	r.mutex.Unlock()

	if !ok {
		return ErrUnknownSession
	}
	for _, hook := range hooks {
		hook(token)
	}
	return nil
}

// Evict removes every session that has outlived the TTL and runs the close hooks for each.
// It returns the number of sessions removed.
func (r *Registry) Evict() int {
	now := r.now()

	r.mutex.Lock()
	var evicted []string
	for token, s := range r.sessions {
		if r.expired(s, now) {
			evicted = append(evicted, token)
			delete(r.sessions, token)
		}
	}
	hooks := append([]func(string){}, r.onClose...)
	r.mutex.Unlock()

	for _, token := range evicted {
		for _, hook := range hooks {
			hook(token)
		}
	}
	return len(evicted)
}
