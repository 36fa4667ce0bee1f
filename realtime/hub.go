package realtime

import (
	"chatwire/auth"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub owns the connection registry and every live client. Constructed once
// in main and passed by handle; no package-level connection state.
type Hub struct {
	registry *Registry

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		clients:  make(map[string]*Client),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

// register admits a client, updates presence and fans the new snapshot out
// to everyone, the joining client included.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ConnID] = c
	h.mu.Unlock()

	h.registry.OnConnect(c.UserID, c.ConnID)
	log.Info().Str("user", c.UserID).Str("conn", c.ConnID).Msg("ws connected")
	h.broadcastPresence()
}

// unregister removes a client and broadcasts the resulting snapshot. The
// registry ignores the removal if a newer connection already replaced this
// one, so a late disconnect never knocks a reconnected user offline.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ConnID)
	h.mu.Unlock()

	c.shutdown()
	h.registry.OnDisconnect(c.UserID, c.ConnID)
	log.Info().Str("user", c.UserID).Str("conn", c.ConnID).Msg("ws disconnected")
	h.broadcastPresence()
}

// broadcastPresence sends the full connected-user snapshot to every client.
// Full snapshot over delta: tiny payloads, no per-client diff state.
func (h *Hub) broadcastPresence() {
	payload, err := Event{Event: EventOnlineUsers, Data: h.registry.Snapshot()}.encode()
	if err != nil {
		log.Error().Err(err).Msg("presence snapshot encode failed")
		return
	}
	for _, c := range h.snapshotClients() {
		c.trySend(payload)
	}
}

// PushToUser delivers an event to the user's live connection, if any.
// Best effort: no queue, no retry; REST history is the durable path.
func (h *Hub) PushToUser(userID, event string, data interface{}) bool {
	connID, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	payload, err := (Event{Event: event, Data: data}).encode()
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("event encode failed")
		return false
	}
	return c.trySend(payload)
}

func (h *Hub) snapshotClients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

// ServeWS upgrades GET /ws?token=... The handshake verifies the same JWT
// as the REST routes; the user id comes from the verified claims, never
// from a client-supplied query value.
func ServeWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := auth.ValidateToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Invalid auth token.", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("ws upgrade failed")
			return
		}

		c := newClient(claims.UserID, uuid.New().String(), conn)
		hub.register(c)

		go c.writePump()
		c.readPump()
		hub.unregister(c)
	}
}
