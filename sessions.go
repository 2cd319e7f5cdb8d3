package main

import (
	"crypto/rand"
	"sync"
	"time"
)

// session is one joinable game session. Many may exist concurrently, but at
// most one is bound to the live game state at a time.
type session struct {
	id        string
	secret    string
	createdAt time.Time
}

// sessionRegistry maps session ids to their secrets and creation times, and
// reaps entries older than the configured timeout.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	timeout  time.Duration
}

func newSessionRegistry(timeout time.Duration) *sessionRegistry {
	r := &sessionRegistry{
		sessions: make(map[string]*session),
		timeout:  timeout,
	}
	if timeout > 0 {
		go r.reaperLoop()
	}
	return r
}

func (r *sessionRegistry) create(secret string) *session {
	id := r.newSessionID()

	s := &session{
		id:        id,
		secret:    secret,
		createdAt: time.Now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	return s
}

func (r *sessionRegistry) lookup(id string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sessions[id]
}

// newSessionID generates a crypto-random 6-character session id and ensures
// it doesn't collide with existing sessions.
func (r *sessionRegistry) newSessionID() string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 6)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		r.mu.Lock()
		_, exists := r.sessions[id]
		r.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func (r *sessionRegistry) sweep(now time.Time) {
	cutoff := now.Add(-r.timeout)

	r.mu.Lock()
	for id, s := range r.sessions {
		if s.createdAt.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
}

// reaperLoop periodically removes sessions older than the timeout.
func (r *sessionRegistry) reaperLoop() {
	ticker := time.NewTicker(r.timeout / 2)
	for range ticker.C {
		r.sweep(time.Now())
	}
}
