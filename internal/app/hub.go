package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
)

// Hub fans outbound events out to attached connections. It owns the
// membership set but never closes adapter-owned transports. Delivery is
// fire-and-forget: a full send buffer or a connection already tearing
// down just means that recipient misses the frame.
type Hub struct {
	mu    sync.RWMutex
	conns map[core.SessionID]core.SignalConnection
}

func NewHub() *Hub {
	return &Hub{conns: make(map[core.SessionID]core.SignalConnection)}
}

func (h *Hub) Attach(sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[sid] = conn
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Int("attached", len(h.conns)).Msg("connection attached")
}

func (h *Hub) Detach(sid core.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, sid)
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Int("attached", len(h.conns)).Msg("connection detached")
}

// Emit marshals event once and pushes the frame to every connection the
// scope admits. Membership is read under the lock, so a session reaped
// before Emit began never receives the frame.
func (h *Hub) Emit(event any, scope core.Scope) {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Msg("emit marshal")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent, dropped := 0, 0
	for sid, conn := range h.conns {
		if scope.Excludes(sid) {
			continue
		}
		if err := conn.TrySend(core.Frame(frame)); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.hub").Int("sent_to", sent).Int("dropped", dropped).Msg("emit result")
}
