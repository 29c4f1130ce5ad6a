package chat

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
)

// envelope is the inbound frame shape. Data stays raw here; per-event
// payload decoding belongs to the room, not the transport.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (ctl *ChatWSController) handleEvent(sid core.SessionID, c *WsChatConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad json")
		return
	}

	switch env.Type {
	case "join":
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			log.Warn().Err(err).Str("module", "chat").Str("sid", string(sid)).Msg("bad join payload")
			return
		}
		ctl.Room.Join(sid, name)
	case "chatMessage":
		ctl.Room.Post(sid, env.Data)
	case "typing":
		ctl.Room.SetTyping(sid, env.Data)
	case "ping":
		ctl.sendJSON(c, core.PongEvent{Type: core.EventPong})
	default:
		log.Warn().Str("module", "chat").Str("type", env.Type).Msg("unknown event")
	}
}
