package app

import (
	"sync"

	"github.com/dkeye/Parley/internal/core"
)

// TypingTracker holds the sessions currently signaling "typing". Purely
// event-driven: entries appear on typing=true and disappear on
// typing=false, message send or disconnect. No timers, no expiry.
type TypingTracker struct {
	mu     sync.RWMutex
	typing map[core.SessionID]string
	order  []core.SessionID
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[core.SessionID]string)}
}

// SetTyping inserts or removes the entry for sid. A repeated typing=true
// moves the entry to the back, so the order always reflects the most
// recent signal. Removing an absent entry is a no-op.
func (t *TypingTracker) SetTyping(sid core.SessionID, username string, isTyping bool) {
	if !isTyping {
		t.Clear(sid)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.typing[sid]; ok {
		t.remove(sid)
	}
	t.typing[sid] = username
	t.order = append(t.order, sid)
}

// Clear unconditionally drops sid, used on message send and disconnect.
func (t *TypingTracker) Clear(sid core.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.typing[sid]; !ok {
		return
	}
	t.remove(sid)
}

func (t *TypingTracker) remove(sid core.SessionID) {
	delete(t.typing, sid)
	for i, id := range t.order {
		if id == sid {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// ListUsernames snapshots current typists in signal order.
func (t *TypingTracker) ListUsernames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.order))
	for _, sid := range t.order {
		out = append(out, t.typing[sid])
	}
	return out
}
