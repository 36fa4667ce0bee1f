package middleware

import (
	"chatwire/auth"
	"chatwire/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatePassesUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateToken("64f1b2c3d4e5f67890123456")
	require.NoError(t, err)

	var gotUserID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.Header.Set("token", token)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64f1b2c3d4e5f67890123456", gotUserID)
}

func TestAuthenticateMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing auth token")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.Header.Set("token", "garbage")
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
