package utils

import (
	"encoding/json"
	"net/http"
)

// Every handler responds with the same envelope the web client consumes:
// {"success": bool, ...}. Errors carry a human-readable message.

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"success": false, "message": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

type M map[string]interface{}
