package domain

import "time"

// ChatMessage is never stored; it exists only for the duration of one
// broadcast. Username always comes from the registry binding of the
// sending session, never from the inbound payload.
type ChatMessage struct {
	Username  string
	Text      string
	Timestamp time.Time
}
