package core

// Frame is a marshaled outbound event ready for the wire.
type Frame []byte

// SessionID is assigned by the transport and stays opaque to the core.
// It is unique for the lifetime of one connected channel.
type SessionID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Scope names the recipient set of a broadcast: every attached session,
// or every attached session except the originator.
type Scope struct {
	except    SessionID
	hasExcept bool
}

func ScopeAll() Scope { return Scope{} }

func ScopeAllExcept(sid SessionID) Scope {
	return Scope{except: sid, hasExcept: true}
}

// Excludes reports whether sid falls outside the scope.
func (s Scope) Excludes(sid SessionID) bool {
	return s.hasExcept && s.except == sid
}
