package app

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
)

var (
	ErrAlreadyRegistered = errors.New("session already registered")
	ErrNotRegistered     = errors.New("session not registered")
)

type memberEntry struct {
	Username string
	JoinedAt time.Time
}

// Registry is the authoritative session -> username mapping. Usernames are
// bound exactly once per session and are not required to be unique; two
// sessions may carry the same name. Join order is preserved so presence
// snapshots stay stable for clients.
type Registry struct {
	mu      sync.RWMutex
	members map[core.SessionID]*memberEntry
	order   []core.SessionID
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[core.SessionID]*memberEntry)}
}

// Register binds username to sid. The first binding wins; a second call
// for the same session returns ErrAlreadyRegistered.
func (r *Registry) Register(sid core.SessionID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[sid]; ok {
		return ErrAlreadyRegistered
	}
	r.members[sid] = &memberEntry{Username: username, JoinedAt: time.Now()}
	r.order = append(r.order, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", username).Msg("registered session")
	return nil
}

// Unregister removes sid and returns the username it was bound to.
// ErrNotRegistered distinguishes a session that disconnected before
// ever joining.
func (r *Registry) Unregister(sid core.SessionID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.members[sid]
	if !ok {
		return "", ErrNotRegistered
	}
	delete(r.members, sid)
	for i, id := range r.order {
		if id == sid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", entry.Username).Msg("unregistered session")
	return entry.Username, nil
}

// Username returns the binding for sid, if any.
func (r *Registry) Username(sid core.SessionID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.members[sid]
	if !ok {
		return "", false
	}
	return entry.Username, true
}

// ListUsernames snapshots all bound usernames in join order, one entry
// per session, duplicates included.
func (r *Registry) ListUsernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, r.members[sid].Username)
	}
	return out
}

// MembersSnapshot is the presence view exposed over the API.
func (r *Registry) MembersSnapshot() []core.MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.MemberDTO, 0, len(r.order))
	for _, sid := range r.order {
		e := r.members[sid]
		out = append(out, core.MemberDTO{Username: e.Username, JoinedAt: e.JoinedAt.UnixMilli()})
	}
	return out
}
