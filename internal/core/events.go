package core

// Outbound event vocabulary. Every frame on the wire is one of these
// structs; the Type field is the discriminator on both directions.

const (
	EventUserJoined  = "userJoined"
	EventUserLeft    = "userLeft"
	EventOnlineUsers = "onlineUsers"
	EventTypingUsers = "typingUsers"
	EventChatMessage = "chatMessage"
	EventPong        = "pong"
)

// PresenceEvent announces a single join or leave.
type PresenceEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// RosterEvent carries a full snapshot, either of everyone online or of
// everyone currently typing. Order is join/signal order, one entry per
// session even when usernames repeat.
type RosterEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// MessageEvent is a broadcast chat line. Timestamp is unix milliseconds
// assigned at broadcast time.
type MessageEvent struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// PongEvent answers an inbound ping.
type PongEvent struct {
	Type string `json:"type"`
}

// MemberDTO is a read-only presence view for APIs (no transport fields).
type MemberDTO struct {
	Username string `json:"username"`
	JoinedAt int64  `json:"joined_at"`
}
