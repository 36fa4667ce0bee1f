package routes

import (
	"chatwire/auth"
	"chatwire/imagehost"
	"chatwire/messages"
	"chatwire/middleware"
	"chatwire/ratelim"
	"chatwire/realtime"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/chatpic/*filepath", http.Dir("static/chatpic"))
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router, avatars imagehost.Store) {
	router.POST("/api/auth/signup", ratelim.RateLimit(auth.Signup))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.GET("/api/auth/check", middleware.Authenticate(auth.CheckAuth))
	router.PUT("/api/auth/update-profile", middleware.Authenticate(auth.UpdateProfile(avatars)))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddMessageRoutes(router *httprouter.Router, hub *realtime.Hub, attachments imagehost.Store) {
	// GET /api/messages/users (sidebar) shares its segment with the :id
	// wildcard; the handler splits the two.
	router.GET("/api/messages/:id", middleware.Authenticate(messages.GetContactsOrConversation))
	router.PUT("/api/messages/mark/:id", middleware.Authenticate(messages.MarkMessageSeen))
	router.POST("/api/messages/send/:id", middleware.Authenticate(messages.SendMessage(hub, attachments)))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws", realtime.ServeWS(hub))
}
