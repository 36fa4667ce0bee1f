package realtime

import "encoding/json"

// The server-to-client event set is fixed. Names match what the web
// client subscribes to.
const (
	EventOnlineUsers = "getOnlineUsers"
	EventNewMessage  = "newMessage"
)

// Event is the envelope for every frame the server writes.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
