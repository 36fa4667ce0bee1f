package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitAllowsBurstThenRejects(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	var rejected bool
	for i := 0; i < rl.burst+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code == http.StatusTooManyRequests {
			rejected = true
		}
	}
	assert.True(t, rejected)
}

func TestLimitIsPerClient(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	// Exhaust one client's bucket.
	for i := 0; i < rl.burst+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
	}

	// A different client still gets through.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
