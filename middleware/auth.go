package middleware

import (
	"chatwire/auth"
	"chatwire/globals"
	"chatwire/rdx"
	"chatwire/utils"
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Authenticate guards a route behind the "token" header the web client
// sends on every request. The verified user id lands in the request
// context; handlers never trust ids supplied by the client.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := r.Header.Get("token")
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing auth token.")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid auth token.")
			return
		}
		if rdx.IsTokenRevoked(r.Context(), token) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid auth token.")
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.TokenKey, token)
		next(w, r.WithContext(ctx), ps)
	}
}
