package main

import (
	"strings"
	"testing"
	"time"
)

func TestSessionCreateAndLookup(t *testing.T) {
	r := newSessionRegistry(0)

	s := r.create("secret")
	if s.id == "" {
		t.Fatal("created session has no id")
	}
	if len(s.id) != 6 {
		t.Errorf("session id %q has length %d, want 6", s.id, len(s.id))
	}
	for _, c := range s.id {
		if !strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", c) {
			t.Errorf("session id %q contains unexpected character %q", s.id, c)
		}
	}

	got := r.lookup(s.id)
	if got != s {
		t.Error("lookup must return the created session")
	}
	if got.secret != "secret" {
		t.Errorf("secret = %q, want %q", got.secret, "secret")
	}

	if r.lookup("NOSUCH") != nil {
		t.Error("lookup of an unknown id must return nil")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	r := newSessionRegistry(0)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := r.create("secret")
		if seen[s.id] {
			t.Fatalf("duplicate session id %q", s.id)
		}
		seen[s.id] = true
	}
}

func TestSweepExpiredSessions(t *testing.T) {
	r := newSessionRegistry(0)
	r.timeout = 24 * time.Hour

	fresh := r.create("secret")
	stale := r.create("secret")
	stale.createdAt = time.Now().Add(-25 * time.Hour)

	r.sweep(time.Now())

	if r.lookup(stale.id) != nil {
		t.Error("expired session must be swept")
	}
	if r.lookup(fresh.id) == nil {
		t.Error("fresh session must survive the sweep")
	}
}
