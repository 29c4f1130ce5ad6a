package app

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// Room is the single global chat room and the state machine behind it.
// Every inbound session event passes through here; mu is held for the
// whole of "mutate registry/tracker + snapshot + emit", so each broadcast
// reflects exactly the mutation that triggered it, with no interleaving
// from concurrent sessions. Emitting under the lock is safe because hub
// sends never block.
//
// Malformed or out-of-state input is absorbed, never surfaced to the
// sender: a single session's garbage must not affect the others.
type Room struct {
	mu       sync.Mutex
	registry *Registry
	typing   *TypingTracker
	hub      *Hub
}

func NewRoom(registry *Registry, typing *TypingTracker, hub *Hub) *Room {
	return &Room{registry: registry, typing: typing, hub: hub}
}

// Connect makes sid reachable for broadcasts. The session stays unjoined
// (invisible in presence) until a valid join arrives.
func (r *Room) Connect(sid core.SessionID, conn core.SignalConnection) {
	r.hub.Attach(sid, conn)
}

// Join binds a username to sid and announces the new presence. Empty or
// oversized names and duplicate joins are dropped silently; the first
// binding is authoritative.
func (r *Room) Join(sid core.SessionID, rawName string) {
	name, err := domain.NormalizeUsername(rawName)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.room").Str("sid", string(sid)).Msg("join dropped")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.registry.Register(sid, name); err != nil {
		log.Warn().Err(err).Str("module", "app.room").Str("sid", string(sid)).Msg("duplicate join ignored")
		return
	}
	r.hub.Emit(core.PresenceEvent{Type: core.EventUserJoined, Username: name}, core.ScopeAll())
	r.hub.Emit(core.RosterEvent{Type: core.EventOnlineUsers, Users: r.registry.ListUsernames()}, core.ScopeAll())
}

// Post broadcasts a chat line from sid. The inbound payload may be a bare
// JSON string or an object carrying the text under "text"; both collapse
// to one canonical shape here, before validation. The sender receives its
// own broadcast: the client tells "own" messages apart by username, the
// room stays ignorant of per-viewer rendering.
func (r *Room) Post(sid core.SessionID, payload json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.registry.Username(sid)
	if !ok {
		log.Warn().Str("module", "app.room").Str("sid", string(sid)).Msg("message from unjoined session dropped")
		return
	}
	text, ok := extractText(payload)
	if !ok {
		log.Warn().Str("module", "app.room").Str("sid", string(sid)).Msg("empty message dropped")
		return
	}

	before := r.typing.ListUsernames()
	r.typing.Clear(sid)
	if after := r.typing.ListUsernames(); !slices.Equal(before, after) {
		r.hub.Emit(core.RosterEvent{Type: core.EventTypingUsers, Users: after}, core.ScopeAll())
	}

	msg := domain.ChatMessage{Username: username, Text: text, Timestamp: time.Now()}
	r.hub.Emit(core.MessageEvent{
		Type:      core.EventChatMessage,
		Username:  msg.Username,
		Text:      msg.Text,
		Timestamp: msg.Timestamp.UnixMilli(),
	}, core.ScopeAll())
}

// SetTyping updates sid's typing state. Anything that does not decode as
// a JSON bool counts as "not typing". The sender is excluded from the
// snapshot broadcast; it already knows its own state.
func (r *Room) SetTyping(sid core.SessionID, payload json.RawMessage) {
	var isTyping bool
	if err := json.Unmarshal(payload, &isTyping); err != nil {
		isTyping = false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.registry.Username(sid)
	if !ok {
		log.Warn().Str("module", "app.room").Str("sid", string(sid)).Msg("typing from unjoined session dropped")
		return
	}
	r.typing.SetTyping(sid, username, isTyping)
	r.hub.Emit(core.RosterEvent{Type: core.EventTypingUsers, Users: r.typing.ListUsernames()}, core.ScopeAllExcept(sid))
}

// Disconnect is raised by the transport exactly once per session, for any
// termination cause. A session that never joined leaves no trace and
// announces nothing.
func (r *Room) Disconnect(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hub.Detach(sid)

	username, err := r.registry.Unregister(sid)
	if err != nil {
		return
	}

	before := r.typing.ListUsernames()
	r.typing.Clear(sid)
	after := r.typing.ListUsernames()

	r.hub.Emit(core.PresenceEvent{Type: core.EventUserLeft, Username: username}, core.ScopeAll())
	r.hub.Emit(core.RosterEvent{Type: core.EventOnlineUsers, Users: r.registry.ListUsernames()}, core.ScopeAll())
	if !slices.Equal(before, after) {
		r.hub.Emit(core.RosterEvent{Type: core.EventTypingUsers, Users: after}, core.ScopeAll())
	}
}

// MembersSnapshot is the read-only presence view for the HTTP API.
func (r *Room) MembersSnapshot() []core.MemberDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.MembersSnapshot()
}

// extractText collapses the two accepted chat payload shapes into one
// trimmed string. ok is false when no non-empty text can be extracted.
func extractText(payload json.RawMessage) (string, bool) {
	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(payload, &obj); err != nil {
			return "", false
		}
		text = obj.Text
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}
